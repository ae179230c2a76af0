package culinary

import (
	"context"

	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/huy11113/cinetaste-ai/pkg/api"
	"go.uber.org/zap"
)

// CreateByTheme invents a dish inspired by a film, anime or theme and
// written in one of the narrative personas.
func (s *Service) CreateByTheme(ctx context.Context, req api.CreateByThemeRequest) (*api.ThemedDish, error) {
	theme, err := requireText("theme", req.Theme, 3, 200)
	if err != nil {
		return nil, err
	}
	dishType, err := requireText("dish_type", req.DishType, 1, 100)
	if err != nil {
		return nil, err
	}
	if req.Creativity != nil && (*req.Creativity < 0 || *req.Creativity > 100) {
		return nil, gateway.InputError("creativity", errCreativity)
	}

	req.Theme, req.DishType = theme, dishType
	req = req.WithDefaults()

	s.logger.Info("Creating themed dish",
		zap.String("theme", req.Theme),
		zap.String("dish_type", req.DishType),
		zap.String("mood", req.Mood),
	)

	doc, err := s.rt.Generate(ctx, &gateway.Request{
		UseCase:           useTheme,
		Model:             s.models.Smart,
		SystemInstruction: themeInstruction,
		Prompt:            themePrompt(req),
		Schema:            themeSchema,
		Repair:            repairPalette(req.Mood),
		Config: llm.GenerationConfig{
			Temperature:     0.8,
			TopP:            0.95,
			MaxOutputTokens: 8192,
		},
	})
	if err != nil {
		return nil, err
	}

	return gateway.Decode[api.ThemedDish](doc)
}
