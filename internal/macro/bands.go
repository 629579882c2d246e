package macro

import (
	"fmt"
	"math"
)

// Band is one valuation range of the Buffett indicator.
// Min is inclusive, Max exclusive.
type Band struct {
	Min      float64
	Max      float64
	Label    string
	Color    string
	ColorHex string
	Message  string
}

// Bands partition [0, +Inf) with no gap or overlap
// ⭐ SSOT: Buffett 지표 구간 정의는 여기서만
var Bands = []Band{
	{
		Min: math.Inf(-1), Max: 75,
		Label: "Undervalued", Color: "green", ColorHex: "#22c55e",
		Message: "The market looks attractive: valuations are low relative to the real economy.",
	},
	{
		Min: 75, Max: 100,
		Label: "Fairly valued", Color: "blue", ColorHex: "#60a5fa",
		Message: "The market reflects the value of the economy fairly.",
	},
	{
		Min: 100, Max: 125,
		Label: "Slightly overvalued", Color: "amber", ColorHex: "#f59e0b",
		Message: "Caution advised: valuations are starting to run ahead of fundamentals.",
	},
	{
		Min: 125, Max: 150,
		Label: "Strongly overvalued", Color: "red", ColorHex: "#ef4444",
		Message: "Danger zone: the market sits well above its historical value.",
	},
	{
		Min: 150, Max: math.Inf(1),
		Label: "Extremely overvalued", Color: "dark red", ColorHex: "#dc2626",
		Message: "Historically extreme level with a high risk of a major correction.",
	},
}

// Classify returns the band containing ratio
func Classify(ratio float64) Band {
	for _, b := range Bands {
		if ratio >= b.Min && ratio < b.Max {
			return b
		}
	}
	// NaN never matches a range
	return Bands[len(Bands)-1]
}

// Ratio returns round(marketCap / gdp * 100)
func Ratio(marketCap, gdp float64) (int, error) {
	if gdp == 0 {
		return 0, fmt.Errorf("gdp is zero")
	}
	r := marketCap / gdp * 100
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, fmt.Errorf("ratio is not finite")
	}
	return int(math.Round(r)), nil
}
