package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"newznepal/internal/pkg/logger"
)

const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// ErrorWithData is Error plus a data payload for clients that read fields
// from failed responses (e.g. {"authenticated": false}).
func ErrorWithData(c *gin.Context, statusCode int, code string, message string, data any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"data":    data,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ValidationFailed answers 400 with a field -> message map.
func ValidationFailed(c *gin.Context, message string, fields map[string]string) {
	ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, message, fields)
}

// Internal logs err in full and answers with a generic 500.
func Internal(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	logger.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg(message)
	Error(c, http.StatusInternalServerError, CodeInternal, message)
}
