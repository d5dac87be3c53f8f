package feed

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the feeds at the site root, outside /api.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/rss", h.RSS)
	r.GET("/rss.xml", h.RSS)
	r.GET("/sitemap.xml", h.Sitemap)
}
