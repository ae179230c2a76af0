package culinary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPalette(t *testing.T) {
	tests := []struct {
		style, mood string
		want        []string
	}{
		{"Chef's Table", "", []string{"#1c1917", "#a8a29e", "#f5f5f4"}},
		{"anime_feast", "horror", []string{"#ff6b35", "#f7b731", "#5f27cd"}},
		{"Standard", "Dark Horror vibes", []string{"#2f0000", "#660000", "#0a0a0a"}},
		{"", "Normal", defaultPalette},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Palette(tt.style, tt.mood), "%s/%s", tt.style, tt.mood)
	}
}

func TestRepairPalette(t *testing.T) {
	doc := map[string]any{
		"narrativeStyle": "Romance Mood",
		"visualColors":   []any{"#112233", "#445566", "#778899", "blue"},
	}
	repairPalette("")(doc)
	assert.Equal(t, []any{"#112233", "#445566", "#778899"}, doc["visualColors"])

	doc = map[string]any{"visualColors": []any{"#112233"}}
	repairPalette("action packed")(doc)
	assert.Equal(t, []any{"#ff6b35", "#f7931e", "#004e89"}, doc["visualColors"])

	// the fallback table is never handed out by reference
	Palette("", "")[0] = "#ffffff"
	assert.Equal(t, "#0f172a", defaultPalette[0])
}
