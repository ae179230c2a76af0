package llm

import (
	"context"
	"fmt"
)

type ProviderName string

const (
	Google ProviderName = "google"
)

// Image is an inline image part, already validated and re-encoded.
type Image struct {
	MIMEType string
	Data     []byte
	Width    int
	Height   int
}

type GenerationConfig struct {
	Temperature      float64
	TopP             float64
	TopK             int
	MaxOutputTokens  int
	ResponseMIMEType string
	ResponseSchema   map[string]any
}

type Request struct {
	Model             string
	SystemInstruction string
	Prompt            string
	Image             *Image
	Config            GenerationConfig
}

type Usage struct {
	PromptTokens     int
	CandidatesTokens int
	TotalTokens      int
}

type Response struct {
	Text         string
	FinishReason string
	Usage        Usage
}

// Provider is a hosted model API that turns a prompt into text.
type Provider interface {
	Name() string
	Type() string
	Generate(ctx context.Context, req *Request) (*Response, error)
	Health(ctx context.Context, model string) error
}

// BlockedError means the provider withheld output on policy grounds.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return "response blocked by provider"
	}
	return fmt.Sprintf("response blocked by provider: %s", e.Reason)
}
