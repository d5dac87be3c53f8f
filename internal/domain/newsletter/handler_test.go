package newsletter

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func passThrough(c *gin.Context) { c.Next() }

func setupRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := setup(t)
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(r.Group("/api"), passThrough, passThrough)
	return r, f
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func data(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env.Data
}

func TestSubscribeHandler(t *testing.T) {
	r, f := setupRouter(t)

	rr := doJSON(r, http.MethodPost, "/api/newsletter", map[string]string{"email": "A@X.com"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "Successfully subscribed to newsletter", data(t, rr)["message"])

	rr = doJSON(r, http.MethodPost, "/api/newsletter", map[string]string{"email": "a@x.com"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Email is already subscribed")
	assert.Equal(t, int64(1), f.countSubscribers(t))

	rr = doJSON(r, http.MethodPost, "/api/newsletter", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(r, http.MethodGet, "/api/newsletter", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	d := data(t, rr)
	assert.EqualValues(t, 1, d["count"])
	assert.Equal(t, "a@x.com", d["subscribers"].([]any)[0].(map[string]any)["email"])
}

func TestSendHandler(t *testing.T) {
	r, f := setupRouter(t)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/api/send-newsletter", map[string]string{}).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodPost, "/api/send-newsletter", map[string]string{"postId": "nope"}).Code)

	p := f.createPost(t)
	rr := doJSON(r, http.MethodPost, "/api/send-newsletter", map[string]string{"postId": p.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "No active subscribers found")

	f.mailer.On("Send", mock.Anything, mock.Anything).Return(nil)
	doJSON(r, http.MethodPost, "/api/newsletter", map[string]string{"email": "a@x.com"})

	rr = doJSON(r, http.MethodPost, "/api/send-newsletter", map[string]string{"postId": p.ID})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	d := data(t, rr)
	assert.EqualValues(t, 1, d["sentCount"])
	assert.EqualValues(t, 0, d["failedCount"])
}

func TestUnsubscribeHandler(t *testing.T) {
	r, f := setupRouter(t)
	doJSON(r, http.MethodPost, "/api/newsletter", map[string]string{"email": "a@x.com"})

	link, err := f.svc.UnsubscribeURL("a@x.com")
	require.NoError(t, err)
	path := link[len("https://newznepal.test"):]

	rr := doJSON(r, http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "a@x.com", data(t, rr)["email"])

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/api/newsletter/unsubscribe?token=bad", nil).Code)
}
