package google

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/huy11113/cinetaste-ai/internal/config"
	"github.com/huy11113/cinetaste-ai/internal/httpclient"
	"github.com/huy11113/cinetaste-ai/internal/llm"
)

const (
	pn             = "google"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
)

func init() {
	llm.Register(pn, NewAdapter)
}

type Adapter struct {
	config config.GeminiConfig
	client httpclient.HTTPClient
}

func NewAdapter(cfg config.GeminiConfig) (llm.Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	// per-attempt deadlines come from the caller's context
	return &Adapter{
		config: cfg,
		client: &http.Client{},
	}, nil
}

func (a *Adapter) Name() string { return "gemini" }
func (a *Adapter) Type() string { return pn }

type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type GenerationConfig struct {
	Temperature      *float64       `json:"temperature,omitempty"`
	TopP             *float64       `json:"topP,omitempty"`
	TopK             *int           `json:"topK,omitempty"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type GeminiRequest struct {
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Contents          []Content         `json:"contents"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

type SafetyRating struct {
	Category    string `json:"category"`
	Probability string `json:"probability"`
	Blocked     bool   `json:"blocked,omitempty"`
}

type Candidate struct {
	Content       Content        `json:"content"`
	FinishReason  string         `json:"finishReason"`
	SafetyRatings []SafetyRating `json:"safetyRatings,omitempty"`
}

type PromptFeedback struct {
	BlockReason   string         `json:"blockReason,omitempty"`
	SafetyRatings []SafetyRating `json:"safetyRatings,omitempty"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type GeminiResponse struct {
	Candidates     []Candidate     `json:"candidates"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
}

// finish reasons that mean the candidate was withheld rather than cut short
var blockingFinishReasons = map[string]bool{
	"SAFETY":             true,
	"PROHIBITED_CONTENT": true,
	"BLOCKLIST":          true,
	"SPII":               true,
	"RECITATION":         true,
	"IMAGE_SAFETY":       true,
}

// Shape converts a provider-neutral request into the generateContent body.
func Shape(req *llm.Request) GeminiRequest {
	gr := GeminiRequest{}

	if req.SystemInstruction != "" {
		gr.SystemInstruction = &Content{Parts: []Part{{Text: req.SystemInstruction}}}
	}

	user := Content{Role: "user"}
	if req.Image != nil {
		user.Parts = append(user.Parts, Part{InlineData: &InlineData{
			MimeType: req.Image.MIMEType,
			Data:     base64.StdEncoding.EncodeToString(req.Image.Data),
		}})
	}
	user.Parts = append(user.Parts, Part{Text: req.Prompt})
	gr.Contents = []Content{user}

	cfg := req.Config
	if cfg.Temperature > 0 || cfg.TopP > 0 || cfg.TopK > 0 || cfg.MaxOutputTokens > 0 ||
		cfg.ResponseMIMEType != "" || cfg.ResponseSchema != nil {
		gc := &GenerationConfig{
			MaxOutputTokens:  cfg.MaxOutputTokens,
			ResponseMimeType: cfg.ResponseMIMEType,
			ResponseSchema:   cfg.ResponseSchema,
		}
		if cfg.Temperature > 0 {
			gc.Temperature = &cfg.Temperature
		}
		if cfg.TopP > 0 {
			gc.TopP = &cfg.TopP
		}
		if cfg.TopK > 0 {
			gc.TopK = &cfg.TopK
		}
		gr.GenerationConfig = gc
	}

	return gr
}

func (a *Adapter) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(a.config.BaseURL, "/"),
		url.PathEscape(req.Model),
	)

	var gResp GeminiResponse
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, endpoint, a.headers(), Shape(req), &gResp); err != nil {
		return nil, err
	}

	if gResp.PromptFeedback != nil && gResp.PromptFeedback.BlockReason != "" {
		return nil, &llm.BlockedError{Reason: gResp.PromptFeedback.BlockReason}
	}
	if len(gResp.Candidates) == 0 {
		return nil, &llm.BlockedError{Reason: "no candidates returned"}
	}

	candidate := gResp.Candidates[0]
	var text strings.Builder
	for _, p := range candidate.Content.Parts {
		text.WriteString(p.Text)
	}

	if text.Len() == 0 && blockingFinishReasons[candidate.FinishReason] {
		return nil, &llm.BlockedError{Reason: candidate.FinishReason}
	}

	resp := &llm.Response{
		Text:         text.String(),
		FinishReason: candidate.FinishReason,
	}
	if u := gResp.UsageMetadata; u != nil {
		resp.Usage = llm.Usage{
			PromptTokens:     u.PromptTokenCount,
			CandidatesTokens: u.CandidatesTokenCount,
			TotalTokens:      u.TotalTokenCount,
		}
	}
	return resp, nil
}

// Health fetches the model's metadata, which fails for unknown models or bad keys.
func (a *Adapter) Health(ctx context.Context, model string) error {
	endpoint := fmt.Sprintf("%s/models/%s", strings.TrimRight(a.config.BaseURL, "/"), url.PathEscape(model))

	var info struct {
		Name string `json:"name"`
	}
	if err := httpclient.SendRequest(ctx, a.client, http.MethodGet, endpoint, a.headers(), nil, &info); err != nil {
		return err
	}
	if info.Name == "" {
		return fmt.Errorf("model %s not found", model)
	}
	return nil
}

// the key travels in a header so it never appears in logged URLs
func (a *Adapter) headers() map[string]string {
	return map[string]string{"x-goog-api-key": a.config.APIKey}
}
