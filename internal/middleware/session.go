package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"newznepal/internal/domain/auth"
	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/response"
)

const adminKey = "admin"

// SessionVerifier resolves an admin_session cookie value to an identity.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Identity, error)
}

// RequireAdmin rejects the request with 401 unless it carries a valid admin
// session. The identity is stored in the gin context, never in globals.
func RequireAdmin(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := verifyCookie(c, v)
		if err != nil {
			if !errors.Is(err, auth.ErrSessionInvalid) {
				logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("session lookup failed")
			}
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Unauthorized")
			c.Abort()
			return
		}

		c.Set(adminKey, identity)
		c.Next()
	}
}

// OptionalAdmin attaches the identity when the cookie is valid and lets every
// request through.
func OptionalAdmin(v SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, err := verifyCookie(c, v); err == nil {
			c.Set(adminKey, identity)
		}
		c.Next()
	}
}

// AdminFromContext returns the identity set by RequireAdmin or OptionalAdmin.
func AdminFromContext(c *gin.Context) (*auth.Identity, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok && identity != nil
}

// IsAdmin checks the session lazily, for public handlers whose output only
// widens for admins. The identity is cached on the context.
func IsAdmin(v SessionVerifier) func(c *gin.Context) bool {
	return func(c *gin.Context) bool {
		if _, ok := AdminFromContext(c); ok {
			return true
		}
		identity, err := verifyCookie(c, v)
		if err != nil {
			return false
		}
		c.Set(adminKey, identity)
		return true
	}
}

// SetAdmin is used by tests to fake an authenticated request.
func SetAdmin(c *gin.Context, identity *auth.Identity) {
	c.Set(adminKey, identity)
}

func verifyCookie(c *gin.Context, v SessionVerifier) (*auth.Identity, error) {
	token, err := c.Cookie(auth.CookieName)
	if err != nil || token == "" {
		return nil, auth.ErrSessionInvalid
	}
	return v.Verify(c.Request.Context(), token)
}
