package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the uniform failure shape handlers return; the resolver maps
// it onto the HTTP response.
type APIError struct {
	Code    int
	Message string
}

// HandlerFunc is an endpoint that returns a payload or an APIError.
type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// ResolveEndpoint adapts a HandlerFunc to gin.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, apiErr := h(ctx)
		if apiErr != nil {
			ctx.JSON(apiErr.Code, gin.H{"error": apiErr.Message})
			return
		}
		ctx.JSON(http.StatusOK, result)
	}
}
