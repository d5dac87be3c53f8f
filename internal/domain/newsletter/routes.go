package newsletter

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAdmin, subscribeLimit gin.HandlerFunc) {
	nl := api.Group("/newsletter")
	{
		nl.POST("", subscribeLimit, h.Subscribe)
		nl.GET("", h.List)
		nl.GET("/unsubscribe", h.Unsubscribe)
	}
	api.POST("/send-newsletter", requireAdmin, h.Send)
}
