package cleanup

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

// Run godoc
// @Summary Delete posts past the retention window
// @Description POST needs an admin session; GET needs "Authorization: Bearer <CLEANUP_SECRET>" and is meant for cron.
// @Tags Cleanup
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401,500 {object} map[string]interface{}
// @Router /cleanup [post]
// @Router /cleanup [get]
func (h *Handler) Run(c *gin.Context) {
	res, err := h.service.Run(c.Request.Context(), h.service.now())
	if err != nil {
		response.Internal(c, err, "Cleanup failed")
		return
	}
	response.Success(c, http.StatusOK, res)
}
