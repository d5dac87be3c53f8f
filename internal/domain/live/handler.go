package live

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"newznepal/internal/pkg/logger"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler accepts upgrades from pages whose Origin passes allowOrigin.
// Requests without an Origin header (non-browser clients) are allowed.
func NewHandler(hub *Hub, allowOrigin func(origin string) bool) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
	}
}

// Connect godoc
// @Summary Live post updates
// @Description Upgrades to a websocket that receives post.created and post.deleted events.
// @Tags Live
// @Success 101
// @Router /live [get]
func (h *Handler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	h.hub.attach(conn)
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/live", h.Connect)
}
