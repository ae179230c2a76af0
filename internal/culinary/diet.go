package culinary

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/huy11113/cinetaste-ai/internal/schema"
)

// Diet is a dietary restriction the modify-recipe output is checked against.
type Diet struct {
	Name string
	// phrases in a modification request that select the diet
	triggers []string
	// ingredient phrases the diet forbids
	disallowed []string
	// qualifiers that turn an adjacent forbidden term into a substitute
	exempt []string
	// bases that only turn an adjacent dairy term into a substitute
	substitutes []string
}

var (
	meat = []string{
		"beef", "pork", "chicken", "lamb", "mutton", "veal", "goat", "duck", "turkey",
		"bacon", "ham", "sausage", "salami", "pepperoni", "lard", "gelatin",
		"fish", "salmon", "tuna", "cod", "anchovy", "shrimp", "prawn", "crab", "lobster",
		"squid", "octopus", "oyster", "clam", "mussel", "scallop", "fish sauce", "oyster sauce",
		"thịt", "thịt bò", "thịt heo", "thịt lợn", "gà", "vịt", "cá", "tôm", "cua", "mực",
		"nước mắm", "chả lụa", "giò",
	}
	dairy = []string{
		"milk", "butter", "cheese", "cream", "yogurt", "yoghurt", "ghee", "whey",
		"parmesan", "mozzarella", "cheddar", "ricotta", "mascarpone", "buttermilk",
		"sữa", "phô mai", "bơ sữa",
	}
	animal = []string{"egg", "honey", "trứng", "mật ong"}
	gluten = []string{
		"wheat", "barley", "rye", "semolina", "couscous", "seitan", "breadcrumbs",
		"bread crumbs", "panko", "wheat flour", "all purpose flour", "bột mì",
	}

	// "vegan butter", "nước mắm chay"
	plantQualifiers = []string{
		"vegan", "vegetarian", "plant based", "non dairy", "dairy free", "lactose free",
		"meatless", "faux", "chay", "thuần chay",
	}
	// "coconut milk", "sữa đậu nành"
	dairySubstitutes = []string{
		"coconut", "dừa", "soy", "đậu nành", "almond", "hạnh nhân", "oat", "yến mạch",
		"cashew", "hạt điều", "peanut", "đậu phộng", "cocoa", "rice", "gạo",
	}

	dairyTerms = toSet(dairy)
)

// Diets lists the restrictions checked. Vegan precedes vegetarian so "thuần
// chay" is not read as plain "chay".
var Diets = []Diet{
	{
		Name:       "vegan",
		triggers:   []string{"vegan", "thuần chay", "plant based"},
		disallowed:  concat(meat, dairy, animal),
		exempt:      plantQualifiers,
		substitutes: dairySubstitutes,
	},
	{
		Name:       "vegetarian",
		triggers:   []string{"vegetarian", "ăn chay", "chay"},
		disallowed: meat,
		exempt:     plantQualifiers,
	},
	{
		Name:       "dairy-free",
		triggers:   []string{"dairy free", "lactose free", "không sữa", "no dairy"},
		disallowed:  dairy,
		exempt:      plantQualifiers,
		substitutes: dairySubstitutes,
	},
	{
		Name:       "gluten-free",
		triggers:   []string{"gluten free", "không gluten", "celiac"},
		disallowed: gluten,
		exempt:     []string{"gluten free", "không gluten"},
	},
}

// DetectDiets returns the diets named in a modification request. Vegan
// implies vegetarian, so a vegan request returns only vegan.
func DetectDiets(request string) []Diet {
	tokens := tokenize(request)
	var out []Diet
	for _, d := range Diets {
		if d.Name == "vegetarian" && hasDiet(out, "vegan") {
			continue
		}
		for _, t := range d.triggers {
			if containsPhrase(tokens, tokenize(t)) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}

// Violation returns the first disallowed phrase in an ingredient name, or "".
// A qualifier only exempts the term it sits next to, so "vegan butter" passes
// while "beef and vegetable stock" does not.
func (d Diet) Violation(ingredient string) string {
	tokens := tokenize(ingredient)
	for _, term := range d.disallowed {
		phrase := tokenize(term)
		for _, at := range phraseIndexes(tokens, phrase) {
			if !d.qualified(tokens, at, at+len(phrase), term) {
				return term
			}
		}
	}
	return ""
}

// qualified reports whether tokens[start:end] has a qualifier directly before
// it ("plant based butter") or after it ("nước mắm chay"). Neighbouring
// forbidden words are stepped over so "vegan cheddar cheese" counts as one
// qualified run.
func (d Diet) qualified(tokens []string, start, end int, term string) bool {
	for start > 0 && d.forbidsWord(tokens[start-1]) {
		start--
	}
	for end < len(tokens) && d.forbidsWord(tokens[end]) {
		end++
	}

	quals := d.exempt
	if dairyTerms[term] {
		quals = concat(d.exempt, d.substitutes)
	}
	for _, q := range quals {
		qt := tokenize(q)
		if start >= len(qt) && matchAt(tokens, start-len(qt), qt) {
			return true
		}
		if matchAt(tokens, end, qt) {
			return true
		}
	}
	return false
}

// forbidsWord reports whether w alone is one of the diet's terms.
func (d Diet) forbidsWord(w string) bool {
	for _, term := range d.disallowed {
		phrase := tokenize(term)
		if len(phrase) == 1 && matchAt([]string{w}, 0, phrase) {
			return true
		}
	}
	return false
}

// dietCheck validates the ingredient names of the recipe at field against
// every diet the request asks for.
func dietCheck(field string, diets []Diet) func(doc map[string]any) error {
	return func(doc map[string]any) error {
		recipe, _ := doc[field].(map[string]any)
		items, _ := recipe["ingredients"].([]any)
		for i, item := range items {
			ing, _ := item.(map[string]any)
			name, _ := ing["name"].(string)
			for _, d := range diets {
				if term := d.Violation(name); term != "" {
					return &schema.ValidationError{
						Path:   fmt.Sprintf("%s.ingredients[%d].name", field, i),
						Reason: fmt.Sprintf("%q is not %s (contains %q)", name, d.Name, term),
					}
				}
			}
		}
		return nil
	}
}

func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// containsPhrase reports whether phrase occurs as consecutive tokens.
func containsPhrase(tokens, phrase []string) bool {
	return len(phraseIndexes(tokens, phrase)) > 0
}

// phraseIndexes returns every start index of phrase in tokens.
func phraseIndexes(tokens, phrase []string) []int {
	var out []int
	for i := 0; i+len(phrase) <= len(tokens); i++ {
		if matchAt(tokens, i, phrase) {
			out = append(out, i)
		}
	}
	return out
}

// matchAt reports whether phrase starts at tokens[i]. The last word also
// matches its plural.
func matchAt(tokens []string, i int, phrase []string) bool {
	if len(phrase) == 0 || i < 0 || i+len(phrase) > len(tokens) {
		return false
	}
	last := len(phrase) - 1
	for j, p := range phrase {
		t := tokens[i+j]
		if t == p || (j == last && (t == p+"s" || t == p+"es")) {
			continue
		}
		return false
	}
	return true
}

func hasDiet(diets []Diet, name string) bool {
	for _, d := range diets {
		if d.Name == name {
			return true
		}
	}
	return false
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

func toSet(list []string) map[string]bool {
	out := make(map[string]bool, len(list))
	for _, v := range list {
		out[v] = true
	}
	return out
}
