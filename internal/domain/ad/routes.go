package ad

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts ad serving, tracking and admin CRUD. trackLimit
// throttles event recording.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAdmin, trackLimit gin.HandlerFunc) {
	ads := api.Group("/ads")
	{
		ads.GET("", h.List)
		ads.GET("/serve", h.Serve)
		ads.POST("", requireAdmin, h.Create)
		ads.PUT("", requireAdmin, h.Update)
		ads.DELETE("", requireAdmin, h.Delete)

		ads.POST("/track", trackLimit, h.Track)
		ads.GET("/track", h.Analytics)
	}
}
