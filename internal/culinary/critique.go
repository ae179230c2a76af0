package culinary

import (
	"context"
	"errors"

	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/huy11113/cinetaste-ai/pkg/api"
	"go.uber.org/zap"
)

var (
	errEmptyList  = errors.New("must contain at least one item")
	errCreativity = errors.New("creativity must be between 0 and 100")
)

type CritiqueDishInput struct {
	Image    []byte
	MIMEType string
	DishName string
}

// CritiqueDish scores a photo of a home-cooked dish and suggests improvements.
func (s *Service) CritiqueDish(ctx context.Context, in CritiqueDishInput) (*api.Critique, error) {
	name, err := requireText("dish_name", in.DishName, 1, 200)
	if err != nil {
		return nil, err
	}
	img, err := s.prepareImage(in.Image, in.MIMEType)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Critiquing dish", zap.String("dish_name", name))

	doc, err := s.rt.Generate(ctx, &gateway.Request{
		UseCase:           useCritique,
		Model:             s.models.Smart,
		SystemInstruction: critiqueInstruction,
		Prompt:            critiquePrompt(name),
		Image:             img,
		Schema:            critiqueSchema,
		Config: llm.GenerationConfig{
			Temperature:     0.7,
			TopP:            0.95,
			MaxOutputTokens: 4096,
		},
	})
	if err != nil {
		return nil, err
	}

	critique, err := gateway.Decode[api.Critique](doc)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Critique ready", zap.String("dish_name", name), zap.Float64("score", critique.Score))
	return critique, nil
}
