package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huy11113/cinetaste-ai/internal/config"
	"github.com/huy11113/cinetaste-ai/internal/culinary"
	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/huy11113/cinetaste-ai/internal/llm/processing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }
func (m *MockProvider) Type() string { return "mock" }

func (m *MockProvider) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*llm.Response), args.Error(1)
}

func (m *MockProvider) Health(ctx context.Context, model string) error {
	return m.Called(ctx, model).Error(0)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "0", Env: "test", CORSOrigins: []string{"*"}},
		Image:     config.ImageConfig{MaxBytes: 10 << 20, MaxDimension: 1024},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}
}

func newTestServer(t *testing.T, cfg *config.Config, p llm.Provider) (*Server, *gateway.Runtime) {
	t.Helper()
	rt := gateway.NewRuntime(
		llm.NewModelCache(p),
		gateway.NewLocalLimiter(0),
		gateway.Options{MaxAttempts: 3, BackoffBase: time.Millisecond, AttemptTimeout: time.Second},
		zap.NewNop(),
		gateway.WithSleeper(func(context.Context, time.Duration) error { return nil }),
	)
	svc := culinary.NewService(rt, processing.NewImagePreprocessor(cfg.Image.MaxBytes, cfg.Image.MaxDimension),
		culinary.Models{Fast: "gemini-2.5-flash", Smart: "gemini-2.5-pro"}, zap.NewNop())

	return New(cfg, zap.NewNop(), Dependencies{
		Dishes:     svc,
		Models:     rt.Cache(),
		Version:    "test",
		FeatureIDs: svc.FeatureIDs,
	}), rt
}

const modifyBody = `{
  "original_recipe": {
    "difficulty": 2, "prepTimeMinutes": 10, "cookTimeMinutes": 20, "servings": 2,
    "ingredients": [{"name": "Thịt bò", "quantity": "300", "unit": "g"}],
    "instructions": [{"step": 1, "description": "Xào thịt bò với hành."}]
  },
  "modification_request": "make it vegan"
}`

const modifyReply = "```json\n" + `{
  "modified_recipe": {
    "difficulty": 2, "prepTimeMinutes": 10, "cookTimeMinutes": 15, "servings": 2,
    "ingredients": [{"name": "Đậu phụ", "quantity": "300", "unit": "g"}],
    "instructions": [{"step": 1, "description": "Xào đậu phụ với hành."}]
  },
  "changes_summary": "Thay thịt bò bằng đậu phụ."
}` + "\n```"

func post(h http.Handler, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestModifyRecipe_EndToEnd(t *testing.T) {
	p := new(MockProvider)
	p.On("Generate", mock.Anything, mock.MatchedBy(func(req *llm.Request) bool {
		return req.Model == "gemini-2.5-flash"
	})).Return(&llm.Response{Text: modifyReply, FinishReason: "STOP"}, nil).Once()

	srv, _ := newTestServer(t, testConfig(), p)
	w := post(srv.Handler(), "/api/ai/modify-recipe", modifyBody, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Thay thịt bò bằng đậu phụ.", out["changes_summary"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	hw := httptest.NewRecorder()
	srv.Handler().ServeHTTP(hw, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health map[string]any
	require.NoError(t, json.Unmarshal(hw.Body.Bytes(), &health))
	assert.Equal(t, []any{"gemini-2.5-flash"}, health["cached_models"])
	assert.Len(t, health["features"], 4)
}

func TestModifyRecipe_SafetyBlockIs422(t *testing.T) {
	p := new(MockProvider)
	p.On("Generate", mock.Anything, mock.Anything).
		Return(nil, &llm.BlockedError{Reason: "SAFETY"}).Once()

	srv, _ := newTestServer(t, testConfig(), p)
	w := post(srv.Handler(), "/api/ai/modify-recipe", modifyBody, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), `"safety_block"`)
	p.AssertNumberOfCalls(t, "Generate", 1)
}

func TestAuthGuardsGenerationOnly(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKeys = []string{"secret"}
	p := new(MockProvider)
	p.On("Generate", mock.Anything, mock.Anything).
		Return(&llm.Response{Text: modifyReply, FinishReason: "STOP"}, nil)

	srv, _ := newTestServer(t, cfg, p)

	w := post(srv.Handler(), "/api/ai/modify-recipe", modifyBody, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	p.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)

	w = post(srv.Handler(), "/api/ai/modify-recipe", modifyBody, map[string]string{"Authorization": "Bearer secret"})
	assert.Equal(t, http.StatusOK, w.Code)

	fw := httptest.NewRecorder()
	srv.Handler().ServeHTTP(fw, httptest.NewRequest(http.MethodGet, "/api/ai/features", nil))
	assert.Equal(t, http.StatusOK, fw.Code)
}

func TestInboundRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	p := new(MockProvider)

	srv, _ := newTestServer(t, cfg, p)

	first := post(srv.Handler(), "/api/ai/modify-recipe", `{}`, nil)
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := post(srv.Handler(), "/api/ai/modify-recipe", `{}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "application/problem+json", second.Header().Get("Content-Type"))
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t, testConfig(), new(MockProvider))

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ai/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"status":404`)
}
