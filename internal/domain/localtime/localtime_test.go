package localtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAt_CrossesMidnight(t *testing.T) {
	// 18:20 UTC on a Saturday is 00:05 Sunday in Kathmandu
	s := At(time.Date(2026, 1, 10, 18, 20, 0, 0, time.UTC))

	assert.Equal(t, "2026-01-11", s.Date)
	assert.Equal(t, "00:05:00", s.Time)
	assert.Equal(t, "Sunday", s.WeekdayEn)
	assert.Equal(t, "आइतबार", s.WeekdayNe)
	assert.Equal(t, "२०२६-०१-११", s.DateNe)
	assert.Equal(t, "2026-01-11T00:05:00+05:45", s.ISO)
	assert.Equal(t, "2026-01-10T18:20:00Z", s.AsOf)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler()
	h.now = func() time.Time { return time.Date(2026, 4, 14, 6, 0, 0, 0, time.UTC) }

	r := gin.New()
	h.RegisterRoutes(r.Group("/api"))

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/nepali-datetime", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var env struct {
		Success bool     `json:"success"`
		Data    Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "+05:45", env.Data.Offset)
	assert.Equal(t, "11:45:00", env.Data.Time)
	assert.Equal(t, "Tuesday", env.Data.WeekdayEn)
}
