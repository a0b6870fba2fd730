package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Busline-Digital/marquee/internal/http/api"
	"github.com/Busline-Digital/marquee/internal/http/api/admin/packets"
	"github.com/Busline-Digital/marquee/internal/storage"
)

type UploadController struct {
	storage storage.Storage
}

// UploadModule mounts the media upload endpoint.
func UploadModule(storageSystem storage.Storage) api.Module {
	ctl := &UploadController{storage: storageSystem}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/upload", ctl.upload)
	})
}

// POST /api/admin/upload (multipart, field "file")
func (u *UploadController) upload(ctx *gin.Context) (any, *api.APIError) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing file"}
	}

	url, err := u.storage.SaveFile(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("failed to store upload")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save file"}
	}

	return packets.UploadResponse{URL: url}, nil
}
