package recurrence

import (
	"time"

	"github.com/Veraticus/scadenziario/internal/model"
)

// cadenceBand is an open interval of mean days between payments.
type cadenceBand struct {
	recurrence model.Recurrence
	minDays    float64
	maxDays    float64
}

func (b cadenceBand) contains(days float64) bool {
	return days > b.minDays && days < b.maxDays
}

// cadenceBands are checked in order. Means falling between bands (bimonthly,
// semiannual, irregular) are not classified.
var cadenceBands = []cadenceBand{
	{recurrence: model.RecurrenceMonthly, minDays: 27, maxDays: 34},
	{recurrence: model.RecurrenceQuarterly, minDays: 85, maxDays: 97},
	{recurrence: model.RecurrenceAnnual, minDays: 350, maxDays: 380},
}

// Periodicity describes the cadence detected for a group of payments.
type Periodicity struct {
	Recurrence   model.Recurrence
	Intervals    []int
	MeanInterval float64
	Consistency  float64 // share of intervals inside the matched band
	Score        int
}

// AnalyzePeriodicity classifies the cadence of dates, which must be sorted
// ascending. It reports false when fewer than two dates are given or the mean
// interval matches no band.
func AnalyzePeriodicity(dates []time.Time) (Periodicity, bool) {
	if len(dates) < 2 {
		return Periodicity{}, false
	}

	intervals := make([]int, 0, len(dates)-1)
	total := 0
	for i := 1; i < len(dates); i++ {
		days := daysBetween(dates[i-1], dates[i])
		intervals = append(intervals, days)
		total += days
	}
	mean := float64(total) / float64(len(intervals))

	for _, band := range cadenceBands {
		if !band.contains(mean) {
			continue
		}

		inBand := 0
		for _, days := range intervals {
			if band.contains(float64(days)) {
				inBand++
			}
		}
		consistency := float64(inBand) / float64(len(intervals))

		score := 1
		if consistency >= consistencyThreshold {
			score = 2
		}

		return Periodicity{
			Recurrence:   band.recurrence,
			Intervals:    intervals,
			MeanInterval: mean,
			Consistency:  consistency,
			Score:        score,
		}, true
	}

	return Periodicity{}, false
}

// daysBetween counts whole calendar days from a to b. Both are UTC midnights.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// addMonths moves t forward by n months, clamping to the last day of the
// target month instead of overflowing into the next one.
func addMonths(t time.Time, n int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}
