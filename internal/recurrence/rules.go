package recurrence

import "strings"

// Fallback classification when no rule matches.
const (
	UncategorizedCategory    = "Da categorizzare"
	UncategorizedSubcategory = "Da categorizzare"
)

// KeywordRule maps any of its keywords to a category. A keyword matches when
// all of its normalized tokens appear contiguously in the normalized
// description, so "gas" does not match "gasolio".
type KeywordRule struct {
	Category    string   `mapstructure:"category" json:"category"`
	Subcategory string   `mapstructure:"subcategory" json:"subcategory"`
	Keywords    []string `mapstructure:"keywords" json:"keywords"`
}

// DefaultRules returns the built-in rule table in priority order. Earlier
// rules win, so tax payments are recognized before utilities even when a
// description mentions both.
func DefaultRules() []KeywordRule {
	return []KeywordRule{
		{Keywords: []string{"f24", "tributi", "imposte", "erario", "agenzia entrate", "agenzia delle entrate"}, Category: "Tasse", Subcategory: "F24 Vari"},
		{Keywords: []string{"imu", "tasi", "tari"}, Category: "Tasse", Subcategory: "Tributi locali"},
		{Keywords: []string{"enel", "energia", "luce", "gas", "acqua"}, Category: "Gestione Immobili", Subcategory: "Utenze"},
		{Keywords: []string{"affitto", "locazione", "canone di locazione"}, Category: "Gestione Immobili", Subcategory: "Affitti passivi"},
		{Keywords: []string{"condominio", "condominiale", "amministratore condominio"}, Category: "Gestione Immobili", Subcategory: "Spese condominiali"},
		{Keywords: []string{"fotovoltaico", "inverter", "manutenzione impianto", "o m impianto"}, Category: "Impianti", Subcategory: "Manutenzione"},
		{Keywords: []string{"inps", "inail", "contributi"}, Category: "Personale", Subcategory: "Contributi"},
		{Keywords: []string{"stipendio", "stipendi", "emolumenti"}, Category: "Personale", Subcategory: "Stipendi"},
		{Keywords: []string{"mutuo", "finanziamento", "rata"}, Category: "Finanziamenti", Subcategory: "Rate"},
		{Keywords: []string{"leasing"}, Category: "Finanziamenti", Subcategory: "Leasing"},
		{Keywords: []string{"assicurazione", "assicurazioni", "polizza"}, Category: "Assicurazioni", Subcategory: "Polizze"},
		{Keywords: []string{"telecom", "tim", "vodafone", "fastweb", "wind", "iliad", "telefonia", "internet"}, Category: "Spese Generali", Subcategory: "Telefonia"},
		{Keywords: []string{"commercialista", "consulenza", "notaio", "parcella"}, Category: "Spese Generali", Subcategory: "Consulenze"},
		{Keywords: []string{"commissioni", "canone conto", "spese bancarie", "imposta di bollo"}, Category: "Spese Bancarie", Subcategory: "Commissioni"},
	}
}

// compiledRule holds a rule with keywords normalized and padded for
// whole-token matching.
type compiledRule struct {
	phrases []string
	KeywordRule
}

func compileRules(rules []KeywordRule) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		cr := compiledRule{KeywordRule: rule}
		for _, kw := range rule.Keywords {
			if n := Normalize(kw); n != "" {
				cr.phrases = append(cr.phrases, " "+n+" ")
			}
		}
		if len(cr.phrases) == 0 || rule.Category == "" {
			continue
		}
		if cr.Subcategory == "" {
			cr.Subcategory = cr.Category
		}
		compiled = append(compiled, cr)
	}
	return compiled
}

// Classification is the outcome of the keyword classifier.
type Classification struct {
	Category    string
	Subcategory string
	Matched     bool
}

// classify returns the first rule matching the normalized description.
func classify(rules []compiledRule, normalized string) Classification {
	padded := " " + normalized + " "
	for _, rule := range rules {
		for _, phrase := range rule.phrases {
			if strings.Contains(padded, phrase) {
				return Classification{
					Category:    rule.Category,
					Subcategory: rule.Subcategory,
					Matched:     true,
				}
			}
		}
	}

	return Classification{
		Category:    UncategorizedCategory,
		Subcategory: UncategorizedSubcategory,
	}
}
