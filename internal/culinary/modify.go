package culinary

import (
	"context"

	"github.com/huy11113/cinetaste-ai/internal/gateway"
	"github.com/huy11113/cinetaste-ai/internal/llm"
	"github.com/huy11113/cinetaste-ai/pkg/api"
	"go.uber.org/zap"
)

// ModifyRecipe adapts a recipe to a free-text request. When the request
// names a diet the returned ingredients are checked against it.
func (s *Service) ModifyRecipe(ctx context.Context, req api.ModifyRecipeRequest) (*api.ModifiedRecipe, error) {
	request, err := requireText("modification_request", req.ModificationRequest, 5, 500)
	if err != nil {
		return nil, err
	}
	if len(req.OriginalRecipe.Ingredients) == 0 {
		return nil, gateway.InputError("original_recipe.ingredients", errEmptyList)
	}
	if len(req.OriginalRecipe.Instructions) == 0 {
		return nil, gateway.InputError("original_recipe.instructions", errEmptyList)
	}

	prompt, err := modifyPrompt(req.OriginalRecipe, request)
	if err != nil {
		return nil, err
	}

	diets := DetectDiets(request)
	names := make([]string, len(diets))
	for i, d := range diets {
		names[i] = d.Name
	}
	s.logger.Info("Modifying recipe", zap.String("request", request), zap.Strings("diets", names))

	gr := &gateway.Request{
		UseCase:           useModify,
		Model:             s.models.Fast,
		SystemInstruction: modifyInstruction,
		Prompt:            prompt,
		Schema:            modifySchema,
		Config: llm.GenerationConfig{
			Temperature:     0.8,
			TopP:            0.95,
			MaxOutputTokens: 4096,
		},
	}
	if len(diets) > 0 {
		gr.Check = dietCheck("modified_recipe", diets)
	}

	doc, err := s.rt.Generate(ctx, gr)
	if err != nil {
		return nil, err
	}

	return gateway.Decode[api.ModifiedRecipe](doc)
}
