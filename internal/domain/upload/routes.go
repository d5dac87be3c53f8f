package upload

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /upload. Both methods are admin-only.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	up := api.Group("/upload", requireAdmin)
	{
		up.POST("", h.Upload)
		up.DELETE("", h.Delete)
	}
}
