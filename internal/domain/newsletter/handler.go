package newsletter

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"newznepal/internal/domain/post"
	"newznepal/internal/pkg/response"
	"newznepal/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type SubscribeRequest struct {
	Email string `json:"email" validate:"required"`
}

type SendRequest struct {
	PostID string `json:"postId" validate:"required"`
}

// Subscribe godoc
// @Summary Subscribe to the newsletter
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param request body SubscribeRequest true "Email"
// @Success 201 {object} map[string]interface{}
// @Failure 400,429 {object} map[string]interface{}
// @Router /newsletter [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || validator.Validate(req) != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Valid email address is required")
		return
	}

	if _, err := h.service.Subscribe(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Valid email address is required")
		case errors.Is(err, ErrAlreadySubscribed):
			response.Error(c, http.StatusBadRequest, response.CodeConflict, "Email is already subscribed")
		default:
			response.Internal(c, err, "Failed to subscribe")
		}
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"message": "Successfully subscribed to newsletter"})
}

// List godoc
// @Summary Active subscribers
// @Tags Newsletter
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /newsletter [get]
func (h *Handler) List(c *gin.Context) {
	subs, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		response.Internal(c, err, "Failed to fetch subscribers")
		return
	}

	items := make([]gin.H, 0, len(subs))
	for _, s := range subs {
		items = append(items, gin.H{
			"email":         s.Email,
			"subscribed_at": s.SubscribedAt,
		})
	}
	response.Success(c, http.StatusOK, gin.H{
		"subscribers": items,
		"count":       len(items),
	})
}

// Unsubscribe godoc
// @Summary One-click unsubscribe from an email link
// @Tags Newsletter
// @Produce json
// @Param token query string true "Signed unsubscribe token"
// @Success 200 {object} map[string]interface{}
// @Failure 400,404 {object} map[string]interface{}
// @Router /newsletter/unsubscribe [get]
func (h *Handler) Unsubscribe(c *gin.Context) {
	email, err := h.service.Unsubscribe(c.Request.Context(), c.Query("token"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid or expired unsubscribe link")
		case errors.Is(err, ErrNotSubscribed):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Subscriber not found")
		default:
			response.Internal(c, err, "Failed to unsubscribe")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"email":   email,
		"message": "You have been unsubscribed",
	})
}

// Send godoc
// @Summary Send the newsletter for a post now
// @Description Requires an admin session. Waits for delivery and reports per-recipient failures.
// @Tags Newsletter
// @Accept json
// @Produce json
// @Param request body SendRequest true "Post"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401,404 {object} map[string]interface{}
// @Router /send-newsletter [post]
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest
	if err := c.ShouldBindJSON(&req); err != nil || validator.Validate(req) != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Post ID is required")
		return
	}

	res, err := h.service.SendForPost(c.Request.Context(), req.PostID)
	if err != nil {
		switch {
		case errors.Is(err, post.ErrPostNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "Post not found")
		case errors.Is(err, ErrNoSubscribers):
			response.Error(c, http.StatusBadRequest, response.CodeValidation, "No active subscribers found")
		default:
			response.Internal(c, err, "Failed to send newsletter")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":     fmt.Sprintf("Newsletter sent to %d subscribers", res.Sent),
		"sentCount":   res.Sent,
		"failedCount": res.Failed,
		"errors":      res.Errors,
	})
}
