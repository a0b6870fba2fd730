package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Busline-Digital/marquee/internal/db"
	"github.com/Busline-Digital/marquee/internal/editor"
	"github.com/Busline-Digital/marquee/internal/http/api"
	"github.com/Busline-Digital/marquee/internal/http/api/admin/packets"
	"github.com/Busline-Digital/marquee/internal/model"
)

type LayoutController struct {
	store db.Store
}

func newLayoutController(store db.Store) *LayoutController {
	return &LayoutController{store: store}
}

// LayoutModule mounts all /layouts endpoints.
func LayoutModule(store db.Store) api.Module {
	ctl := newLayoutController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/layouts", ctl.listLayouts)
		c.POST("/layouts", ctl.createLayout)
		c.GET("/layouts/:id", ctl.getLayout)
		c.PUT("/layouts/:id", ctl.updateLayout)
		c.DELETE("/layouts/:id", ctl.deleteLayout)
	})
}

func layoutResponse(l model.Layout) packets.LayoutResponse {
	return packets.LayoutResponse{
		ID:              l.ID,
		Name:            l.Name,
		Description:     l.Description,
		Width:           l.Width,
		Height:          l.Height,
		BackgroundColor: l.BackgroundColor,
		Widgets:         l.Widgets,
		Thumbnail:       l.Thumbnail,
		CompanyID:       l.CompanyID,
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.Format(time.RFC3339),
	}
}

// GET /api/admin/layouts?company_id=&page=
func (l *LayoutController) listLayouts(ctx *gin.Context) (any, *api.APIError) {
	companyID, err := strconv.Atoi(ctx.DefaultQuery("company_id", "0"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid company_id"}
	}
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	layouts, total, err := l.store.ListLayouts(companyID, page)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list layouts"}
	}

	out := packets.LayoutListResponse{
		Layouts: make([]packets.LayoutResponse, 0, len(layouts)),
		Total:   total,
		Page:    page,
		PerPage: db.LayoutPageSize,
	}
	for _, layout := range layouts {
		out.Layouts = append(out.Layouts, layoutResponse(layout))
	}
	return out, nil
}

// POST /api/admin/layouts
func (l *LayoutController) createLayout(ctx *gin.Context) (any, *api.APIError) {
	var request packets.CreateLayoutRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	layout := model.Layout{
		Name:            request.Name,
		Description:     request.Description,
		Width:           request.Width,
		Height:          request.Height,
		BackgroundColor: request.BackgroundColor,
		Widgets:         request.Widgets,
		CompanyID:       request.CompanyID,
	}
	if layout.Width <= 0 {
		layout.Width = editor.DefaultCanvasWidth
	}
	if layout.Height <= 0 {
		layout.Height = editor.DefaultCanvasHeight
	}
	if layout.BackgroundColor == "" {
		layout.BackgroundColor = editor.DefaultBackgroundColor
	}
	if request.Template != "" && request.Template != string(editor.TemplateBlank) {
		layout = editor.CreateLayoutFromTemplate(layout, editor.TemplateType(request.Template))
	}
	if layout.Widgets == nil {
		layout.Widgets = model.WidgetList{}
	}

	created, err := l.store.CreateLayout(layout)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create layout"}
	}
	return layoutResponse(created), nil
}

// GET /api/admin/layouts/:id
func (l *LayoutController) getLayout(ctx *gin.Context) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		log.Error().Err(err).Str("id_raw", ctx.Param("id")).Msg("invalid layout id in request")
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	layout, err := l.store.GetLayoutByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "layout not found"}
	}
	return layoutResponse(layout), nil
}

// PUT /api/admin/layouts/:id
func (l *LayoutController) updateLayout(ctx *gin.Context) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	existing, err := l.store.GetLayoutByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "layout not found"}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not load layout"}
	}

	var request packets.UpdateLayoutRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	existing.Name = request.Name
	existing.Description = request.Description
	existing.Width = request.Width
	existing.Height = request.Height
	existing.BackgroundColor = request.BackgroundColor
	existing.Widgets = request.Widgets
	existing.Thumbnail = request.Thumbnail
	if existing.Widgets == nil {
		existing.Widgets = model.WidgetList{}
	}

	if err := l.store.UpdateLayout(existing); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update layout"}
	}
	updated, _ := l.store.GetLayoutByID(id)
	return layoutResponse(updated), nil
}

// DELETE /api/admin/layouts/:id
func (l *LayoutController) deleteLayout(ctx *gin.Context) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}

	if err := l.store.DeleteLayout(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete layout"}
	}
	return gin.H{"deleted": id}, nil
}
