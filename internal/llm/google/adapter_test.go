package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/huy11113/cinetaste-ai/internal/config"
	"github.com/huy11113/cinetaste-ai/internal/httpclient"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T, handler http.HandlerFunc) llm.Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewAdapter(config.GeminiConfig{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	return p
}

func TestShape_ImageAndSchema(t *testing.T) {
	req := &llm.Request{
		Model:             "gemini-2.5-pro",
		SystemInstruction: "You are Chef Gemini.",
		Prompt:            "Analyze this dish.",
		Image:             &llm.Image{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}},
		Config: llm.GenerationConfig{
			Temperature:      0.7,
			TopP:             0.95,
			TopK:             40,
			MaxOutputTokens:  8192,
			ResponseMIMEType: "application/json",
			ResponseSchema:   map[string]any{"type": "OBJECT"},
		},
	}

	gr := Shape(req)

	require.NotNil(t, gr.SystemInstruction)
	assert.Equal(t, "You are Chef Gemini.", gr.SystemInstruction.Parts[0].Text)

	require.Len(t, gr.Contents, 1)
	parts := gr.Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Equal(t, "user", gr.Contents[0].Role)
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, "image/jpeg", parts[0].InlineData.MimeType)
	assert.Equal(t, "/9j/", parts[0].InlineData.Data)
	assert.Equal(t, "Analyze this dish.", parts[1].Text)

	require.NotNil(t, gr.GenerationConfig)
	assert.Equal(t, 0.7, *gr.GenerationConfig.Temperature)
	assert.Equal(t, 40, *gr.GenerationConfig.TopK)
	assert.Equal(t, 8192, gr.GenerationConfig.MaxOutputTokens)
	assert.Equal(t, "application/json", gr.GenerationConfig.ResponseMimeType)
	assert.Equal(t, "OBJECT", gr.GenerationConfig.ResponseSchema["type"])
}

func TestShape_TextOnly(t *testing.T) {
	gr := Shape(&llm.Request{Prompt: "Hello!"})

	assert.Nil(t, gr.SystemInstruction)
	assert.Nil(t, gr.GenerationConfig)
	require.Len(t, gr.Contents[0].Parts, 1)
	assert.Equal(t, "Hello!", gr.Contents[0].Parts[0].Text)
}

func TestGenerate_Success(t *testing.T) {
	p := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-2.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.Empty(t, r.URL.Query().Get("key"))

		body, _ := io.ReadAll(r.Body)
		var sent map[string]any
		require.NoError(t, json.Unmarshal(body, &sent))
		assert.Contains(t, sent, "systemInstruction")

		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"parts": [{"text": "{\"ok\":"}, {"text": "true}"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
		}`))
	})

	resp, err := p.Generate(context.Background(), &llm.Request{
		Model:             "gemini-2.5-flash",
		SystemInstruction: "sys",
		Prompt:            "hi",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, resp.Text)
	assert.Equal(t, "STOP", resp.FinishReason)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestGenerate_Blocked(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"prompt feedback", `{"promptFeedback": {"blockReason": "SAFETY"}}`, "SAFETY"},
		{"no candidates", `{"candidates": []}`, "no candidates returned"},
		{"safety finish without text", `{"candidates": [{"content": {"parts": []}, "finishReason": "PROHIBITED_CONTENT"}]}`, "PROHIBITED_CONTENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := p.Generate(context.Background(), &llm.Request{Model: "m", Prompt: "x"})
			var blocked *llm.BlockedError
			require.ErrorAs(t, err, &blocked)
			assert.Equal(t, tt.reason, blocked.Reason)
		})
	}
}

func TestGenerate_EmptyTextIsNotBlocked(t *testing.T) {
	p := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "  "}]}, "finishReason": "MAX_TOKENS"}]}`))
	})

	resp, err := p.Generate(context.Background(), &llm.Request{Model: "m", Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "  ", resp.Text)
}

func TestGenerate_UpstreamFailure(t *testing.T) {
	p := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error": {"code": 503, "message": "overloaded"}}`))
	})

	_, err := p.Generate(context.Background(), &llm.Request{Model: "m", Prompt: "x"})
	var ue *httpclient.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	assert.NotContains(t, ue.Error(), "test-key")
	assert.True(t, httpclient.IsTransient(err))
}

func TestHealth(t *testing.T) {
	p := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models/gemini-2.5-pro" {
			_, _ = w.Write([]byte(`{"name": "models/gemini-2.5-pro"}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, p.Health(context.Background(), "gemini-2.5-pro"))
	assert.Error(t, p.Health(context.Background(), "missing-model"))
}

func TestNewAdapter_RequiresKey(t *testing.T) {
	_, err := NewAdapter(config.GeminiConfig{})
	assert.Error(t, err)
}
