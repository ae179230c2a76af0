package api

// DishAnalysis is the answer to an analyze-dish request.
type DishAnalysis struct {
	DishName             string             `json:"dish_name"`
	Origin               string             `json:"origin"`
	Description          string             `json:"description"`
	CulturalSignificance string             `json:"cultural_significance"`
	MovieContext         MovieContext       `json:"movie_context"`
	NutritionEstimate    NutritionEstimate  `json:"nutrition_estimate"`
	HealthTags           []string           `json:"health_tags"`
	PairingSuggestions   PairingSuggestions `json:"pairing_suggestions"`
	Recipe               RecipeDetail       `json:"recipe"`
	Tips                 []string           `json:"tips"`
}

type MovieContext struct {
	Title            string `json:"title"`
	SceneDescription string `json:"scene_description"`
	Significance     string `json:"significance"`
	// empty when the model could not verify the page
	WikipediaLink string `json:"wikipedia_link"`
}

// NutritionEstimate is per serving.
type NutritionEstimate struct {
	Calories int `json:"calories"`
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatG     int `json:"fat_g"`
}

type PairingSuggestions struct {
	Drinks     []string `json:"drinks"`
	SideDishes []string `json:"side_dishes"`
}

// RecipeDetail is shared by analysis output and modify-recipe input/output.
type RecipeDetail struct {
	Difficulty      int           `json:"difficulty" binding:"min=1,max=5"`
	PrepTimeMinutes int           `json:"prepTimeMinutes" binding:"min=0,max=1440"`
	CookTimeMinutes int           `json:"cookTimeMinutes" binding:"min=0,max=1440"`
	Servings        int           `json:"servings" binding:"min=1,max=50"`
	Ingredients     []Ingredient  `json:"ingredients" binding:"required,min=1,dive"`
	Instructions    []Instruction `json:"instructions" binding:"required,min=1,dive"`
}

type Ingredient struct {
	Name     string `json:"name" binding:"required"`
	Quantity string `json:"quantity" binding:"required"`
	Unit     string `json:"unit"`
}

type Instruction struct {
	Step        int    `json:"step" binding:"min=1,max=50"`
	Description string `json:"description" binding:"required"`
}

type ModifiedRecipe struct {
	ModifiedRecipe RecipeDetail `json:"modified_recipe"`
	ChangesSummary string       `json:"changes_summary"`
}

// ThemedDish is a recipe written in one of the narrative personas.
type ThemedDish struct {
	RecipeName          string        `json:"recipeName"`
	NarrativeStyle      string        `json:"narrativeStyle"`
	Story               string        `json:"story"`
	Connection          string        `json:"connection"`
	Ingredients         []string      `json:"ingredients"`
	Instructions        []string      `json:"instructions"`
	PrepTime            string        `json:"prepTime"`
	CookTime            string        `json:"cookTime"`
	FlavorProfile       FlavorProfile `json:"flavorProfile"`
	VisualColors        []string      `json:"visualColors"`
	PlatingGuide        string        `json:"platingGuide"`
	Pairing             string        `json:"pairing"`
	MusicRecommendation string        `json:"musicRecommendation"`
	Macros              Macros        `json:"macros"`
	Origin              string        `json:"origin"`
}

// FlavorProfile scores each axis 0-10.
type FlavorProfile struct {
	Sweet    int `json:"sweet"`
	Sour     int `json:"sour"`
	Spicy    int `json:"spicy"`
	Umami    int `json:"umami"`
	Richness int `json:"richness"`
}

// Macros are display strings: "380", "25g".
type Macros struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// Critique scores a plated dish on a 0-10 scale.
type Critique struct {
	Critique          string   `json:"critique"`
	Score             float64  `json:"score"`
	AppearanceScore   float64  `json:"appearance_score"`
	TechniqueScore    float64  `json:"technique_score"`
	CreativityScore   float64  `json:"creativity_score"`
	Strengths         []string `json:"strengths"`
	Weaknesses        []string `json:"weaknesses"`
	Suggestions       []string `json:"suggestions"`
	EstimatedCalories int      `json:"estimated_calories"`
}
