package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblem_MarshalFlattensExtensions(t *testing.T) {
	p := NewProblem(422, "Unprocessable Entity", "recipe.difficulty is out of range",
		WithType("schema-validation"),
		WithExtension("field", "recipe.difficulty"),
		WithExtension("attempts", 1),
		WithExtension("status", 999),
		WithLog(errors.New("secret internals")),
	)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "https://cinetaste.app/problems/schema-validation", got["type"])
	assert.Equal(t, float64(422), got["status"])
	assert.Equal(t, "recipe.difficulty", got["field"])
	assert.Equal(t, float64(1), got["attempts"])
	assert.NotContains(t, string(raw), "secret internals")
	assert.NotContains(t, got, "instance")
}

func TestCreateByThemeRequest_WithDefaults(t *testing.T) {
	c := 90
	r := CreateByThemeRequest{Theme: "Ratatouille", DishType: "main", Creativity: &c, Time: "fast"}.WithDefaults()

	assert.Equal(t, "Normal", r.Mood)
	assert.Equal(t, 90, *r.Creativity)
	assert.Equal(t, "fast", r.Time)
	assert.Equal(t, "medium", r.Difficulty)

	r = CreateByThemeRequest{}.WithDefaults()
	assert.Equal(t, 50, *r.Creativity)
}
