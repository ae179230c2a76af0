package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/httpclient"
	"github.com/huy11113/cinetaste-ai/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func failingRouter(err error) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), ErrorHandler(zap.NewNop()))
	r.GET("/", func(c *gin.Context) { _ = c.Error(err) })
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestProblemFor_StatusByKind(t *testing.T) {
	tests := []struct {
		kind   gateway.Kind
		status int
	}{
		{gateway.KindInput, http.StatusBadRequest},
		{gateway.KindSafety, http.StatusUnprocessableEntity},
		{gateway.KindSchema, http.StatusUnprocessableEntity},
		{gateway.KindTransient, http.StatusServiceUnavailable},
		{gateway.KindMalformed, http.StatusInternalServerError},
		{gateway.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			p := ProblemFor(&gateway.Error{Kind: tt.kind, Err: errors.New("x")})
			assert.Equal(t, tt.status, p.Status)
			assert.Equal(t, tt.kind.String(), p.Extensions["category"])
		})
	}
}

func TestProblemFor_ForeignErrorHidesCause(t *testing.T) {
	p := ProblemFor(errors.New("dial tcp: secret-host"))
	assert.Equal(t, http.StatusInternalServerError, p.Status)
	assert.NotContains(t, p.Detail, "secret-host")
}

func TestErrorHandler_SchemaFailure(t *testing.T) {
	err := &gateway.Error{Kind: gateway.KindSchema, Op: "critique_dish", Field: "overall_score", Attempts: 1, Err: errors.New("above maximum")}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	failingRouter(err).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	body := decode(t, w)
	assert.Equal(t, "schema_validation", body["category"])
	assert.Equal(t, "overall_score", body["field"])
	assert.Equal(t, float64(1), body["attempts"])
	assert.Equal(t, "req-42", body["instance"])
}

func TestErrorHandler_TransientSetsRetryAfter(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"default", &gateway.Error{Kind: gateway.KindTransient, Attempts: 3, Err: errors.New("timeout")}, DefaultRetryAfter},
		{"upstream hint", &gateway.Error{Kind: gateway.KindTransient, Attempts: 3,
			Err: &httpclient.UpstreamError{StatusCode: http.StatusTooManyRequests, RetryAfter: "7"}}, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			failingRouter(tt.err).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, http.StatusServiceUnavailable, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Retry-After"))
			assert.Equal(t, float64(3), decode(t, w)["attempts"])
		})
	}
}

func TestErrorHandler_PassesProblemThrough(t *testing.T) {
	w := httptest.NewRecorder()
	failingRouter(api.ValidationProblem(map[string]string{"theme": "theme is required"})).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "input_validation", body["category"])
	assert.Equal(t, map[string]any{"theme": "theme is required"}, body["errors"])
	assert.NotEmpty(t, body["instance"])
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func authRouter(keys []string) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()), Auth(keys))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		header string
		value  string
		status int
	}{
		{"disabled", nil, "", "", http.StatusNoContent},
		{"missing", []string{"k1"}, "", "", http.StatusUnauthorized},
		{"bearer", []string{"k1", "k2"}, "Authorization", "Bearer k2", http.StatusNoContent},
		{"api key header", []string{"k1"}, "X-API-Key", "k1", http.StatusNoContent},
		{"wrong scheme", []string{"k1"}, "Authorization", "Basic k1", http.StatusUnauthorized},
		{"wrong key", []string{"k1"}, "Authorization", "Bearer nope", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			authRouter(tt.keys).ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRateLimiter_PerClient(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, zap.NewNop())
	r := gin.New()
	r.Use(ErrorHandler(zap.NewNop()), rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1").Code)
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1").Code)

	w := hit("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2").Code)
	assert.Equal(t, 2, rl.Len())
}

func TestRateLimiter_DisabledWithoutRate(t *testing.T) {
	rl := NewRateLimiter(0, 0, zap.NewNop())
	r := gin.New()
	r.Use(rl.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code, fmt.Sprint("request ", i))
	}
}
