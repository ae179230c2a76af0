package culinary

import (
	"context"

	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/huy11113/cinetaste-ai/pkg/api"
	"go.uber.org/zap"
)

type AnalyzeDishInput struct {
	Image    []byte
	MIMEType string
	// optional film or scene hint
	Context string
}

// AnalyzeDish identifies a dish and its film context from a photo.
func (s *Service) AnalyzeDish(ctx context.Context, in AnalyzeDishInput) (*api.DishAnalysis, error) {
	hint, err := requireText("context", in.Context, 0, 1000)
	if err != nil {
		return nil, err
	}
	img, err := s.prepareImage(in.Image, in.MIMEType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Analyzing dish",
		zap.Int("context_length", len(hint)),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height),
	)

	doc, err := s.rt.Generate(ctx, &gateway.Request{
		UseCase:           useAnalyze,
		Model:             s.models.Smart,
		SystemInstruction: analyzeInstruction,
		Prompt:            analyzePrompt(hint),
		Image:             img,
		Schema:            analysisSchema,
		Config: llm.GenerationConfig{
			Temperature:     0.7,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 8192,
		},
	})
	if err != nil {
		return nil, err
	}

	return gateway.Decode[api.DishAnalysis](doc)
}
