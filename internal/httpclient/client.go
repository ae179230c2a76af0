package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
)

// HTTPClient defines the interface for an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const maxErrorBody = 4 << 10

// SendRequest encodes body as JSON, sends it and decodes a 2xx reply into
// response. Transport and decode failures are returned as *TransportError,
// non-2xx replies as *UpstreamError.
func SendRequest(ctx context.Context, client HTTPClient, method, url string, headers map[string]string, body interface{}, response interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return &TransportError{Op: "send", URL: url, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			URL:        url,
			RetryAfter: resp.Header.Get("Retry-After"),
		}
	}

	if response == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read", URL: url, Err: err}
	}
	if err := sonic.Unmarshal(raw, response); err != nil {
		return &TransportError{Op: "decode", URL: url, Err: err}
	}
	return nil
}
