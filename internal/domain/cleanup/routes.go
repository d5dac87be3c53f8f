package cleanup

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts both cleanup triggers. requireAdmin guards the manual
// POST, cronAuth the scheduler-facing GET.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAdmin, cronAuth gin.HandlerFunc) {
	api.POST("/cleanup", requireAdmin, h.Run)
	api.GET("/cleanup", cronAuth, h.Run)
}
