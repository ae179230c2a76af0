package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequest_RoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Key"))

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"q":"phở"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"answer":42}`))
	}))
	defer server.Close()

	var out struct {
		Answer int `json:"answer"`
	}
	err := SendRequest(context.Background(), server.Client(), http.MethodPost, server.URL,
		map[string]string{"X-Key": "secret"}, map[string]string{"q": "phở"}, &out)

	require.NoError(t, err)
	assert.Equal(t, 42, out.Answer)
}

func TestSendRequest_Classification(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		transient bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{}`, true},
		{"unavailable", http.StatusServiceUnavailable, `{}`, true},
		{"timeout", http.StatusRequestTimeout, `{}`, true},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"bad"}}`, false},
		{"forbidden", http.StatusForbidden, `{}`, false},
		{"garbage body", http.StatusOK, `not json`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Retry-After", "3")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			var out map[string]any
			err := SendRequest(context.Background(), server.Client(), http.MethodGet, server.URL, nil, nil, &out)
			require.Error(t, err)
			assert.Equal(t, tt.transient, IsTransient(err))

			var ue *UpstreamError
			if errors.As(err, &ue) {
				assert.Equal(t, tt.status, ue.StatusCode)
				assert.Equal(t, "3", ue.RetryAfter)
			}
		})
	}
}

func TestSendRequest_NetworkFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := SendRequest(context.Background(), http.DefaultClient, http.MethodGet, url, nil, nil, nil)
	require.Error(t, err)

	var te *TransportError
	assert.ErrorAs(t, err, &te)
	assert.True(t, IsTransient(err))
}
