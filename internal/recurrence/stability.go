package recurrence

// AmountStats summarizes the amounts paid by a group.
type AmountStats struct {
	Mean   float64
	Min    float64
	Max    float64
	Stable bool
}

// Spread returns (max-min)/mean, or zero when the mean is not positive.
func (s AmountStats) Spread() float64 {
	if s.Mean <= 0 {
		return 0
	}
	return (s.Max - s.Min) / s.Mean
}

// AnalyzeAmounts computes mean and range of amounts. The group is stable when
// the range is under 15% of the mean. A non-positive mean cannot be assessed
// and is reported as not stable.
func AnalyzeAmounts(amounts []float64) AmountStats {
	if len(amounts) == 0 {
		return AmountStats{}
	}

	stats := AmountStats{Min: amounts[0], Max: amounts[0]}
	sum := 0.0
	for _, a := range amounts {
		sum += a
		if a < stats.Min {
			stats.Min = a
		}
		if a > stats.Max {
			stats.Max = a
		}
	}
	stats.Mean = sum / float64(len(amounts))

	if stats.Mean > 0 {
		stats.Stable = (stats.Max-stats.Min)/stats.Mean < stabilityTolerance
	}

	return stats
}
