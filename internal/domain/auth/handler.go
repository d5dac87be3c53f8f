package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"newznepal/internal/pkg/response"
	"newznepal/internal/pkg/validator"
)

type Handler struct {
	service      *Service
	cookieSecure bool
}

func NewHandler(service *Service, cookieSecure bool) *Handler {
	return &Handler{service: service, cookieSecure: cookieSecure}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	DeviceID string `json:"deviceId"`
}

// Login godoc
// @Summary Admin login
// @Description Checks credentials and sets the admin_session cookie
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400,401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationFailed(c, "Username and password are required", errs)
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Username, req.Password, req.DeviceID)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Invalid credentials")
			return
		}
		response.Internal(c, err, "Login failed")
		return
	}

	h.setSessionCookie(c, result.Token, int(h.service.SessionTTL().Seconds()))

	response.Success(c, http.StatusOK, gin.H{
		"user": gin.H{
			"id":       result.User.ID,
			"username": result.User.Username,
		},
		"message": "Login successful",
	})
}

// Logout godoc
// @Summary Admin logout
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if token, err := c.Cookie(CookieName); err == nil && token != "" {
		if err := h.service.Logout(c.Request.Context(), token); err != nil {
			response.Internal(c, err, "Logout failed")
			return
		}
	}

	h.setSessionCookie(c, "", -1)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Verify godoc
// @Summary Check the admin session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/verify [get]
func (h *Handler) Verify(c *gin.Context) {
	token, _ := c.Cookie(CookieName)

	identity, err := h.service.Verify(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, ErrSessionInvalid) {
			response.ErrorWithData(c, http.StatusUnauthorized, response.CodeUnauthorized, "Not authenticated",
				gin.H{"authenticated": false})
			return
		}
		response.Internal(c, err, "Session verification failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"authenticated": true,
		"user":          identity,
	})
}

func (h *Handler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", h.cookieSecure, true)
}
