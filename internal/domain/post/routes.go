package post

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the public read routes and the admin write routes.
// requireAdmin guards every mutation.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, requireAdmin gin.HandlerFunc) {
	api.GET("/categories", h.Categories)

	posts := api.Group("/posts")
	{
		posts.GET("", h.List)
		posts.GET("/:id", h.Get)
		posts.POST("", requireAdmin, h.Create)
		posts.PUT("/:id", requireAdmin, h.Update)
		posts.DELETE("/:id", requireAdmin, h.Delete)
	}
}
