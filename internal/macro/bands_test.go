package macro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		ratio float64
		label string
		color string
	}{
		{0, "Undervalued", "green"},
		{74, "Undervalued", "green"},
		{74.999, "Undervalued", "green"},
		{75, "Fairly valued", "blue"},
		{99, "Fairly valued", "blue"},
		{100, "Slightly overvalued", "amber"},
		{124, "Slightly overvalued", "amber"},
		{125, "Strongly overvalued", "red"},
		{149, "Strongly overvalued", "red"},
		{150, "Extremely overvalued", "dark red"},
		{1e6, "Extremely overvalued", "dark red"},
	}

	for _, tt := range tests {
		band := Classify(tt.ratio)
		assert.Equal(t, tt.label, band.Label, "ratio %v", tt.ratio)
		assert.Equal(t, tt.color, band.Color, "ratio %v", tt.ratio)
	}
}

func TestBands_PartitionNonNegative(t *testing.T) {
	// 인접 구간은 빈틈/중첩 없이 이어짐
	for i := 1; i < len(Bands); i++ {
		require.Equal(t, Bands[i-1].Max, Bands[i].Min, "gap or overlap before %s", Bands[i].Label)
	}
	require.True(t, Bands[0].Min <= 0)
	require.True(t, math.IsInf(Bands[len(Bands)-1].Max, 1))

	// 모든 비음수 비율은 정확히 하나의 구간에 속함
	for r := 0.0; r <= 400; r += 0.25 {
		matches := 0
		for _, b := range Bands {
			if r >= b.Min && r < b.Max {
				matches++
			}
		}
		require.Equal(t, 1, matches, "ratio %v", r)
	}
}

func TestRatio(t *testing.T) {
	// Scenario C: 25000 / 21000 → 119
	ratio, err := Ratio(25000, 21000)
	require.NoError(t, err)
	assert.Equal(t, 119, ratio)
	assert.Equal(t, "Slightly overvalued", Classify(float64(ratio)).Label)

	up, err := Ratio(1006, 1000) // 100.6 → 101
	require.NoError(t, err)
	assert.Equal(t, 101, up)

	_, err = Ratio(100, 0)
	assert.Error(t, err)

	_, err = Ratio(math.Inf(1), 1)
	assert.Error(t, err)
}
