package culinary

import "github.com/huy11113/cinetaste-ai/internal/schema"

// Each schema is built once and shared; nodes are never mutated after
// construction.
var (
	analysisSchema = buildAnalysisSchema()
	modifySchema   = buildModifySchema()
	themeSchema    = buildThemeSchema()
	critiqueSchema = buildCritiqueSchema()
)

func recipeSchema() *schema.Node {
	ingredient := schema.NewObject(
		schema.Required("name", schema.Text().Length(1, 200), "ingredient", "ten"),
		schema.Required("quantity", schema.Text().Length(1, 50), "amount", "qty", "so_luong"),
		schema.Optional("unit", schema.Text().Length(0, 30).WithDefault(""), "units", "don_vi"),
	)
	instruction := schema.NewObject(
		schema.Required("step", schema.Int().Between(1, 50), "step_number", "order", "buoc"),
		schema.Required("description", schema.Text().Length(1, 1000), "instruction", "text", "mo_ta"),
	)

	return schema.NewObject(
		schema.Required("difficulty", schema.Int().Between(1, 5).Describe("1 (easy) to 5 (expert)"), "difficulty_level"),
		schema.Required("prepTimeMinutes", schema.Int().Between(0, 1440), "prep_time_minutes", "prep_time", "prepTime"),
		schema.Required("cookTimeMinutes", schema.Int().Between(0, 1440), "cook_time_minutes", "cook_time", "cookTime"),
		schema.Required("servings", schema.Int().Between(1, 50), "serves", "portions", "khau_phan"),
		schema.Required("ingredients", schema.ArrayOf(ingredient).Length(1, 60)),
		schema.Required("instructions", schema.ArrayOf(instruction).Length(1, 50).SequencedBy("step"), "steps"),
	)
}

func buildAnalysisSchema() *schema.Node {
	textList := func(max int) *schema.Node { return schema.ArrayOf(schema.Text().Length(1, 300)).Length(0, max) }

	return schema.NewObject(
		schema.Required("dish_name", schema.Text().Length(1, 200), "dishName", "name"),
		schema.Required("origin", schema.Text().Length(1, 100), "country", "xuat_xu"),
		schema.Required("description", schema.Text().Length(10, 2000)),
		schema.Required("cultural_significance", schema.Text().Length(10, 1500), "culturalSignificance", "cultural_context"),
		schema.Required("movie_context", schema.NewObject(
			schema.Required("title", schema.Text().Length(0, 300), "movie_title", "film"),
			schema.Required("scene_description", schema.Text().Length(0, 2000), "sceneDescription", "scene"),
			schema.Required("significance", schema.Text().Length(0, 2000), "meaning"),
			schema.Required("wikipedia_link", schema.Text().Length(0, 500).WithDefault("").
				Describe(`full Wikipedia URL, or "" when unsure`), "wikipediaLink", "wikipedia_url", "wiki"),
		), "movieContext", "film_context"),
		schema.Required("nutrition_estimate", schema.NewObject(
			schema.Required("calories", schema.Int().Between(0, 5000), "kcal", "energy"),
			schema.Required("protein_g", schema.Int().Between(0, 500), "protein", "proteinG"),
			schema.Required("carbs_g", schema.Int().Between(0, 1000), "carbs", "carbohydrates", "carbsG"),
			schema.Required("fat_g", schema.Int().Between(0, 500), "fat", "fatG"),
		), "nutritionEstimate", "nutrition"),
		schema.Required("health_tags", textList(10).WithDefault([]any{}), "healthTags", "tags"),
		schema.Required("pairing_suggestions", schema.NewObject(
			schema.Required("drinks", textList(5).WithDefault([]any{}), "beverages"),
			schema.Required("side_dishes", textList(5).WithDefault([]any{}), "sideDishes", "sides"),
		), "pairingSuggestions", "pairings"),
		schema.Required("recipe", recipeSchema(), "recipe_detail", "recipeDetail"),
		schema.Required("tips", textList(10).WithDefault([]any{}), "cooking_tips"),
	)
}

func buildModifySchema() *schema.Node {
	return schema.NewObject(
		schema.Required("modified_recipe", recipeSchema(), "modifiedRecipe", "recipe"),
		schema.Required("changes_summary", schema.Text().Length(1, 1000), "changesSummary", "summary", "changes"),
	)
}

func buildThemeSchema() *schema.Node {
	flavor := func() *schema.Node {
		return schema.Int().Between(0, 10).WithDefault(float64(0))
	}
	macros := schema.NewObject(
		schema.Required("calories", schema.Quantity("").Describe(`whole number, e.g. "380"`), "kcal", "calo"),
		schema.Required("protein", schema.Quantity("g").Describe(`grams, e.g. "25g"`), "dam"),
		schema.Required("carbs", schema.Quantity("g"), "carbohydrates", "tinh_bot"),
		schema.Required("fat", schema.Quantity("g"), "chat_beo"),
	)

	return schema.NewObject(
		schema.Required("recipeName", schema.Text().Length(1, 200).Describe("creative Vietnamese name"), "recipe_name", "name", "dish_name"),
		schema.Required("narrativeStyle", schema.Text().OneOf(Personas...).Describe("exactly one persona"), "narrative_style", "style", "persona"),
		schema.Required("story", schema.Text().Length(1, 5000), "narrative"),
		schema.Required("connection", schema.Text().Length(1, 3000).Describe("director's commentary linking dish and film"), "film_connection"),
		schema.Required("ingredients", schema.ArrayOf(schema.Text().Length(1, 300)).Length(1, 30)),
		schema.Required("instructions", schema.ArrayOf(schema.Text().Length(1, 2000)).Length(1, 30), "steps"),
		schema.Optional("prepTime", schema.Text().Length(0, 50).WithDefault(""), "prep_time"),
		schema.Optional("cookTime", schema.Text().Length(0, 50).WithDefault(""), "cook_time"),
		schema.Required("flavorProfile", schema.NewObject(
			schema.Optional("sweet", flavor(), "ngọt", "ngot"),
			schema.Optional("sour", flavor(), "chua"),
			schema.Optional("spicy", flavor(), "cay"),
			schema.Optional("umami", flavor(), "mặn", "man", "đậm đà", "dam da", "savory"),
			schema.Optional("richness", flavor(), "béo", "beo", "ngậy", "ngay", "rich"),
		), "flavor_profile", "flavors"),
		schema.Required("visualColors", schema.ArrayOf(
			schema.Text().Lowercase().Matching(`^#[0-9a-f]{6}$`),
		).Length(3, 6).WithDefault([]any{}), "visual_colors", "colors", "palette"),
		schema.Optional("platingGuide", schema.Text().Length(0, 2000).WithDefault(""), "plating_guide", "plating"),
		schema.Optional("pairing", schema.Text().Length(0, 1000).WithDefault(""), "drink_pairing"),
		schema.Optional("musicRecommendation", schema.Text().Length(0, 500).WithDefault(""), "music_recommendation", "music"),
		schema.Required("macros", macros.WithDefault(map[string]any{}), "nutrition"),
		schema.Optional("origin", schema.Text().Length(0, 200).WithDefault("")),
	)
}

func buildCritiqueSchema() *schema.Node {
	score := func() *schema.Node { return schema.Float().Between(0, 10) }
	points := func(min, max int) *schema.Node {
		return schema.ArrayOf(schema.Text().Length(1, 500)).Length(min, max)
	}

	return schema.NewObject(
		schema.Required("critique", schema.Text().Length(50, 2000).Describe("full written feedback"), "feedback", "review"),
		schema.Required("score", score().Describe("overall 0-10, decimals allowed"), "overall_score", "overall"),
		schema.Required("appearance_score", score(), "appearanceScore", "appearance", "presentation_score"),
		schema.Required("technique_score", score(), "techniqueScore", "technique"),
		schema.Required("creativity_score", score(), "creativityScore", "creativity"),
		schema.Required("strengths", points(0, 5).WithDefault([]any{}), "pros"),
		schema.Required("weaknesses", points(0, 5).WithDefault([]any{}), "cons", "improvements"),
		schema.Required("suggestions", points(1, 10), "tips"),
		schema.Required("estimated_calories", schema.Int().Between(0, 5000).Describe("per serving"), "estimatedCalories", "calories"),
	)
}
