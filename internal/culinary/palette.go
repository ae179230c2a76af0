package culinary

import (
	"regexp"
	"strings"
)

// Personas are the narrative styles a themed dish can be written in.
var Personas = []string{
	"Comic Mode",
	"Action Rush",
	"Romance Mood",
	"Drama Deep",
	"Horror Night",
	"Chef's Table",
	"Anime Feast",
	"Travel Discovery",
}

type palette struct {
	key    string
	colors []string
}

// ordered so lookups are deterministic
var stylePalettes = []palette{
	{"comicmode", []string{"#facc15", "#ef4444", "#2563eb"}},
	{"actionrush", []string{"#7f1d1d", "#f97316", "#000000"}},
	{"romancemood", []string{"#881337", "#ec4899", "#fb7185"}},
	{"dramadeep", []string{"#451a03", "#78350f", "#171717"}},
	{"horrornight", []string{"#1a0000", "#4a0000", "#0a0a0a"}},
	{"chefstable", []string{"#1c1917", "#a8a29e", "#f5f5f4"}},
	{"animefeast", []string{"#ff6b35", "#f7b731", "#5f27cd"}},
	{"traveldiscovery", []string{"#006d77", "#83c5be", "#ffddd2"}},
}

var moodPalettes = []palette{
	{"horror", []string{"#2f0000", "#660000", "#0a0a0a"}},
	{"action", []string{"#ff6b35", "#f7931e", "#004e89"}},
	{"romance", []string{"#c2185b", "#f06292", "#f8bbd0"}},
	{"comedy", []string{"#ffc107", "#ff9800", "#03a9f4"}},
	{"documentary", []string{"#1c1917", "#a8a29e", "#f5f5f4"}},
	{"anime", []string{"#ff6b35", "#f7b731", "#5f27cd"}},
}

var defaultPalette = []string{"#0f172a", "#334155", "#94a3b8"}

var (
	hexColor      = regexp.MustCompile(`^#[0-9a-f]{6}$`)
	styleStripper = strings.NewReplacer(" ", "", "_", "", "'", "", "’", "", "-", "")
)

// Palette picks a fallback palette by narrative style, then by mood.
func Palette(style, mood string) []string {
	s := styleStripper.Replace(strings.ToLower(style))
	for _, p := range stylePalettes {
		if strings.Contains(s, p.key) {
			return clone(p.colors)
		}
	}

	m := strings.ToLower(mood)
	for _, p := range moodPalettes {
		if strings.Contains(m, p.key) {
			return clone(p.colors)
		}
	}

	return clone(defaultPalette)
}

// repairPalette drops entries that are not #rrggbb and back-fills the list
// when fewer than three remain.
func repairPalette(mood string) func(doc map[string]any) {
	return func(doc map[string]any) {
		var kept []any
		raw, _ := doc["visualColors"].([]any)
		for _, c := range raw {
			if s, ok := c.(string); ok && hexColor.MatchString(s) {
				kept = append(kept, s)
			}
		}

		if len(kept) >= 3 {
			doc["visualColors"] = kept
			return
		}

		style, _ := doc["narrativeStyle"].(string)
		fill := Palette(style, mood)
		colors := make([]any, len(fill))
		for i, c := range fill {
			colors[i] = c
		}
		doc["visualColors"] = colors
	}
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
