// Package recurrence infers recurring deadlines (scadenze) from historical
// bank movements.
//
// The analysis is a single pass over an in-memory snapshot: descriptions are
// normalized into grouping keys, each (company, key) group is checked for a
// monthly, quarterly or annual cadence, and surviving groups are scored on
// cadence consistency, amount stability, keyword category and evidence. Groups
// already tracked as a scadenza are dropped. The package performs no I/O and
// holds no state between calls, so a Detector may be shared between goroutines.
package recurrence

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes are company-form tokens that banks append inconsistently.
// Punctuated variants (s.r.l., S.p.A.) collapse onto these once dots are removed.
var legalSuffixes = map[string]struct{}{
	"srl":  {},
	"srls": {},
	"spa":  {},
	"sas":  {},
}

// Normalize returns the canonical grouping key of a free-text description.
// It never fails: empty input yields an empty key, and Normalize(Normalize(s))
// equals Normalize(s) for every s.
func Normalize(description string) string {
	if strings.TrimSpace(description) == "" {
		return ""
	}

	lowered := norm.NFC.String(cases.Lower(language.Italian).String(description))

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		switch {
		case r == '.':
			// Dropped so that abbreviations such as s.r.l. stay one token.
		case unicode.IsPunct(r), unicode.IsSymbol(r), unicode.IsSpace(r), unicode.IsControl(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, tok := range tokens {
		if _, isSuffix := legalSuffixes[tok]; isSuffix {
			continue
		}
		kept = append(kept, tok)
	}

	// Dropping a rune can leave a combining mark next to a new base letter.
	return norm.NFC.String(strings.Join(kept, " "))
}

// cleanDescription collapses whitespace for display without altering case.
func cleanDescription(description string) string {
	return strings.Join(strings.Fields(description), " ")
}
