package recurrence

import (
	"fmt"
	"strings"

	"github.com/Veraticus/scadenziario/internal/model"
)

// Detection thresholds. Changing any of them changes which suggestions users
// see, so they are not configurable.
const (
	// MinOccurrences is the minimum number of payments for a group to be analyzed.
	MinOccurrences = 3

	evidenceBonusOccurrences = 4
	consistencyThreshold     = 0.6
	stabilityTolerance       = 0.15

	keywordScore  = 2
	evidenceScore = 1
	stableScore   = 1

	highTierScore   = 5
	mediumTierScore = 3
)

// ScoreBreakdown records each sub-score of a candidate.
type ScoreBreakdown struct {
	Periodicity int
	Stability   int
	Keyword     int
	Evidence    int
}

// Total sums the sub-scores into the 0..6 confidence score.
func (b ScoreBreakdown) Total() int {
	return b.Periodicity + b.Stability + b.Keyword + b.Evidence
}

func scoreCandidate(p Periodicity, amounts AmountStats, class Classification, occurrences int) ScoreBreakdown {
	b := ScoreBreakdown{Periodicity: p.Score}
	if amounts.Stable {
		b.Stability = stableScore
	}
	if class.Matched {
		b.Keyword = keywordScore
	}
	if occurrences >= evidenceBonusOccurrences {
		b.Evidence = evidenceScore
	}
	return b
}

// Tier maps a confidence score to its tier.
func Tier(score int) model.ConfidenceTier {
	switch {
	case score >= highTierScore:
		return model.ConfidenceHigh
	case score >= mediumTierScore:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}

// buildReason renders the Italian justification shown next to a suggestion.
func buildReason(occurrences int, rec model.Recurrence, amounts AmountStats, class Classification) string {
	stability := "variabile"
	if amounts.Stable {
		stability = "stabile"
	}

	reason := fmt.Sprintf("Rilevati %d pagamenti con cadenza %s, importo %s (media %s)",
		occurrences,
		strings.ToLower(string(rec)),
		stability,
		FormatEUR(amounts.Mean))

	if class.Matched {
		reason += fmt.Sprintf(", categoria %s / %s", class.Category, class.Subcategory)
	}

	return reason + "."
}
