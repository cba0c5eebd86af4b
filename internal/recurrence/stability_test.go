package recurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeAmounts(t *testing.T) {
	tests := []struct {
		name       string
		amounts    []float64
		wantMean   float64
		wantStable bool
	}{
		{name: "empty", amounts: nil, wantMean: 0, wantStable: false},
		{name: "identical", amounts: []float64{120, 120, 120}, wantMean: 120, wantStable: true},
		{name: "f24 scenario", amounts: []float64{450, 460, 455, 448}, wantMean: 453.25, wantStable: true},
		{name: "range 14 over mean 107", amounts: []float64{100, 114}, wantMean: 107, wantStable: true},
		{name: "spread 14 percent", amounts: []float64{93, 107}, wantMean: 100, wantStable: true},
		{name: "spread exactly 15 percent is variable", amounts: []float64{92.5, 107.5}, wantMean: 100, wantStable: false},
		{name: "spread 16 percent", amounts: []float64{92, 108}, wantMean: 100, wantStable: false},
		{name: "widely variable", amounts: []float64{80, 200, 140}, wantMean: 140, wantStable: false},
		{name: "zero mean is not assessable", amounts: []float64{0, 0, 0}, wantMean: 0, wantStable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeAmounts(tt.amounts)
			assert.InDelta(t, tt.wantMean, got.Mean, 1e-9)
			assert.Equal(t, tt.wantStable, got.Stable)
		})
	}
}

func TestAmountStats_Spread(t *testing.T) {
	assert.InDelta(t, 0.16, AnalyzeAmounts([]float64{92, 108}).Spread(), 1e-9)
	assert.Zero(t, AmountStats{}.Spread())
}
