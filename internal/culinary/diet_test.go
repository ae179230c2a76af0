package culinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dietNames(diets []Diet) []string {
	var out []string
	for _, d := range diets {
		out = append(out, d.Name)
	}
	return out
}

func TestDetectDiets(t *testing.T) {
	assert.Equal(t, []string{"vegan"}, dietNames(DetectDiets("Make it VEGAN please")))
	assert.Equal(t, []string{"vegan"}, dietNames(DetectDiets("biến thành món thuần chay")))
	assert.Equal(t, []string{"vegetarian"}, dietNames(DetectDiets("tôi muốn ăn chay")))
	assert.Equal(t, []string{"dairy-free", "gluten-free"}, dietNames(DetectDiets("dairy-free and gluten-free")))
	assert.Empty(t, DetectDiets("use an air fryer instead"))
}

func TestDiet_Violation(t *testing.T) {
	vegan := DetectDiets("vegan")
	require.Len(t, vegan, 1)

	tests := []struct {
		ingredient string
		want       string
	}{
		{"Chicken breasts", "chicken"},
		{"2 Eggs", "egg"},
		{"Nước mắm", "nước mắm"},
		{"Thịt ba chỉ", "thịt"},
		{"Eggplant", ""},
		{"Cà chua", ""},
		{"Coconut milk", ""},
		{"Nước mắm chay", ""},
		{"Plant-based butter", ""},
		{"Sữa đậu nành", ""},
		{"Peanut butter", ""},
		{"Vegan cheddar cheese", ""},
		{"Sữa dừa", ""},
		{"Beef and vegetable stock", "beef"},
		{"Chicken mushroom broth", "chicken"},
		{"Nước dùng gà và rau", "gà"},
		{"Butter-fried mushrooms", "butter"},
		{"Coconut shrimp", "shrimp"},
		{"Shrimp with vegan mayo", "shrimp"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, vegan[0].Violation(tt.ingredient), tt.ingredient)
	}
}

func TestDietCheck_NamesIngredientPath(t *testing.T) {
	check := dietCheck("modified_recipe", DetectDiets("gluten free"))

	doc := map[string]any{
		"modified_recipe": map[string]any{
			"ingredients": []any{
				map[string]any{"name": "Rice flour"},
				map[string]any{"name": "Bột mì đa dụng"},
			},
		},
	}

	err := check(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "modified_recipe.ingredients[1].name")
}

func TestDiet_SubstituteOnlyQualifiesDairy(t *testing.T) {
	dairyFree := DetectDiets("dairy free")
	require.Len(t, dairyFree, 1)

	assert.Empty(t, dairyFree[0].Violation("Oat milk"))
	assert.Empty(t, dairyFree[0].Violation("Cashew cream"))
	assert.Equal(t, "butter", dairyFree[0].Violation("Butter and almonds"))
}
