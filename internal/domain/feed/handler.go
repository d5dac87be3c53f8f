package feed

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newznepal/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RSS godoc
// @Summary RSS 2.0 feed of the latest posts
// @Tags Feed
// @Produce xml
// @Success 200 {string} string
// @Router /rss [get]
func (h *Handler) RSS(c *gin.Context) {
	body, err := h.service.RSS(c.Request.Context())
	if err != nil {
		response.Internal(c, err, "Failed to build feed")
		return
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", body)
}

// Sitemap godoc
// @Summary XML sitemap
// @Tags Feed
// @Produce xml
// @Success 200 {string} string
// @Router /sitemap.xml [get]
func (h *Handler) Sitemap(c *gin.Context) {
	body, err := h.service.Sitemap(c.Request.Context())
	if err != nil {
		response.Internal(c, err, "Failed to build sitemap")
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}
