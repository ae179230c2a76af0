package culinary

import (
	"net/http"

	"github.com/huy11113/cinetaste-ai/pkg/api"
)

// Features describes the AI endpoints for client discovery.
func (s *Service) Features() api.FeaturesResponse {
	return api.FeaturesResponse{
		Personas: append([]string(nil), Personas...),
		Features: []api.Feature{
			{
				ID:          "analyze-dish",
				Name:        "Chuyên gia phân tích ẩm thực",
				Description: "Identify a dish and its film scene from a photo, with recipe and nutrition.",
				Method:      http.MethodPost,
				Endpoint:    "/api/ai/analyze-dish",
				Input:       []string{"image", "context?"},
				Model:       s.models.Smart,
			},
			{
				ID:          "modify-recipe",
				Name:        "Biến tấu công thức",
				Description: "Adapt a recipe to a dietary, ingredient or method request.",
				Method:      http.MethodPost,
				Endpoint:    "/api/ai/modify-recipe",
				Input:       []string{"original_recipe", "modification_request"},
				Model:       s.models.Fast,
			},
			{
				ID:          "create-by-theme",
				Name:        "Đầu bếp kể chuyện điện ảnh",
				Description: "Invent a dish inspired by a film or theme, told in one of eight personas.",
				Method:      http.MethodPost,
				Endpoint:    "/api/ai/create-by-theme",
				Input:       []string{"theme", "dish_type", "mood?", "ingredients?", "diet?", "creativity?", "time?", "difficulty?", "dining_style?", "skill_level?"},
				Model:       s.models.Smart,
			},
			{
				ID:          "critique-dish",
				Name:        "Người hướng dẫn nấu ăn",
				Description: "Score a plated dish and suggest improvements.",
				Method:      http.MethodPost,
				Endpoint:    "/api/ai/critique-dish",
				Input:       []string{"image", "dish_name"},
				Model:       s.models.Smart,
			},
		},
	}
}

// FeatureIDs lists the feature identifiers for the health report.
func (s *Service) FeatureIDs() []string {
	features := s.Features().Features
	ids := make([]string, len(features))
	for i, f := range features {
		ids[i] = f.ID
	}
	return ids
}
