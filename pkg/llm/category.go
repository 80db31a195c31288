package llm

import "strings"

// categoryKeywords is the deterministic keyword-to-category policy.
// It is checked against the raw OCR text and takes precedence over
// whatever category the model answered, so the common cases stay
// stable even when the model misbehaves. Tokens cover the English
// and German label vocabulary the prompts mention.
var categoryKeywords = []struct {
	category string
	tokens   []string
}{
	{"Rice/Grains", []string{"BASMATI", "REIS", "RICE", "JASMINE", "GRAIN"}},
	{"Coffee", []string{"COFFEE", "KAFFEE", "ESPRESSO"}},
	{"Tea", []string{"TEA", "TEE", "CHAI"}},
	{"Spice Mix", []string{"MASALA", "CURRY", "GEWÜRZ", "GEWURZ"}},
	{"Dairy", []string{"MILK", "MILCH", "YOGURT", "JOGHURT", "KÄSE", "KASE", "CHEESE"}},
	{"Sugar", []string{"ZUCKER", "SUGAR"}},
	{"Oil", []string{"OIL", "ÖL", "OLIVE"}},
	{"Pasta", []string{"PASTA", "SPAGHETTI", "NUDELN"}},
	{"Sauce", []string{"SAUCE", "KETCHUP"}},
}

// GuessCategory matches label text against the keyword table.
// ok is false when no keyword applies.
func GuessCategory(text string) (string, bool) {
	up := strings.ToUpper(text)
	for _, c := range categoryKeywords {
		for _, tok := range c.tokens {
			if strings.Contains(up, tok) {
				return c.category, true
			}
		}
	}
	return "", false
}
