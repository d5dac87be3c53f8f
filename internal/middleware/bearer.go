package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/response"
)

// BearerSecret protects scheduler-facing endpoints with a static
// "Authorization: Bearer <secret>" header. An empty secret disables the route.
func BearerSecret(name, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			logAuthFailure(c, name, http.StatusInternalServerError, "secret_not_configured")
			response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Endpoint secret is not configured")
			c.Abort()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logAuthFailure(c, name, http.StatusUnauthorized, "missing_auth")
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logAuthFailure(c, name, http.StatusUnauthorized, "invalid_auth_format")
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authorization header must be 'Bearer <token>'")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(parts[1])), []byte(secret)) != 1 {
			logAuthFailure(c, name, http.StatusUnauthorized, "invalid_token")
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		c.Next()
	}
}

func logAuthFailure(c *gin.Context, name string, status int, reason string) {
	logger.Warn().
		Str("endpoint", name).
		Int("status", status).
		Str("request_id", requestID(c)).
		Str("client_ip", c.ClientIP()).
		Str("reason", reason).
		Msg("bearer auth rejected")
}
