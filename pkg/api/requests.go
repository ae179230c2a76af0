package api

type ModifyRecipeRequest struct {
	OriginalRecipe      RecipeDetail `json:"original_recipe"`
	ModificationRequest string       `json:"modification_request" binding:"required,min=5,max=500"`
}

type CreateByThemeRequest struct {
	// film, anime or free-form theme
	Theme    string `json:"theme" binding:"required,min=3,max=200"`
	DishType string `json:"dish_type" binding:"required,max=100"`

	Mood        string `json:"mood,omitempty" binding:"max=100"`
	Ingredients string `json:"ingredients,omitempty" binding:"max=500"`
	Diet        string `json:"diet,omitempty" binding:"max=100"`
	Creativity  *int   `json:"creativity,omitempty" binding:"omitempty,min=0,max=100"`
	Time        string `json:"time,omitempty" binding:"omitempty,oneof=fast medium slow"`
	Difficulty  string `json:"difficulty,omitempty" binding:"omitempty,oneof=easy medium hard"`
	DiningStyle string `json:"dining_style,omitempty" binding:"max=100"`
	SkillLevel  string `json:"skill_level,omitempty" binding:"max=50"`
}

// WithDefaults returns a copy with every optional field filled.
func (r CreateByThemeRequest) WithDefaults() CreateByThemeRequest {
	if r.Mood == "" {
		r.Mood = "Normal"
	}
	if r.Diet == "" {
		r.Diet = "None"
	}
	if r.Creativity == nil {
		c := 50
		r.Creativity = &c
	}
	if r.Time == "" {
		r.Time = "medium"
	}
	if r.Difficulty == "" {
		r.Difficulty = "medium"
	}
	if r.DiningStyle == "" {
		r.DiningStyle = "Cinematic"
	}
	if r.SkillLevel == "" {
		r.SkillLevel = "Medium"
	}
	return r
}

// AnalyzeDishForm carries the text parts of the analyze-dish upload.
type AnalyzeDishForm struct {
	Context string `form:"context" binding:"max=1000"`
}

// CritiqueDishForm carries the text parts of the critique-dish upload.
type CritiqueDishForm struct {
	DishName string `form:"dish_name" binding:"required,min=1,max=200"`
}
