package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"newznepal/internal/pkg/logger"
	"newznepal/internal/pkg/response"
)

// RequestLogger writes one structured access-log line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = logger.Error()
		case status >= http.StatusBadRequest:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}
		withRequest(ev, c, start).Msg("request")
	}
}

// ErrorLogger recovers panics into a 500 envelope and logs handler errors
// attached with c.Error.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				withRequest(logger.Error(), c, start).
					Err(err).
					Str("type", "panic").
					Bytes("stack", debug.Stack()).
					Msg("request_error")

				response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Internal server error")
				c.Abort()
				return
			}

			for _, err := range c.Errors {
				ev := withRequest(logger.Error(), c, start).
					Err(err.Err).
					Str("type", fmt.Sprintf("%v", err.Type))
				if err.Meta != nil {
					ev = ev.Interface("meta", err.Meta)
				}
				ev.Msg("request_error")
			}
		}()

		c.Next()
	}
}

func withRequest(ev *zerolog.Event, c *gin.Context, start time.Time) *zerolog.Event {
	ev = ev.
		Int("status", c.Writer.Status()).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Str("client_ip", c.ClientIP()).
		Str("request_id", requestID(c)).
		Dur("latency", time.Since(start))
	if identity, ok := AdminFromContext(c); ok {
		ev = ev.Str("admin_id", identity.UserID)
	}
	return ev
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
