package analysis

import (
	"fmt"
	"math"
)

// ptr returns a pointer to v
func ptr(v float64) *float64 {
	return &v
}

// safeDiv returns num/den, nil when either side is missing, den is zero
// or the result is not a finite number
func safeDiv(num, den *float64) *float64 {
	if num == nil || den == nil || *den == 0 {
		return nil
	}
	q := *num / *den
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return nil
	}
	return &q
}

// scale multiplies a nullable value
func scale(v *float64, factor float64) *float64 {
	if v == nil {
		return nil
	}
	return ptr(*v * factor)
}

// roundTo rounds half away from zero to dp decimal places
func roundTo(v float64, dp int) float64 {
	p := math.Pow(10, float64(dp))
	return math.Round(v*p) / p
}

// roundPtr rounds a nullable value, dropping NaN/Inf to nil
func roundPtr(v *float64, dp int) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return ptr(roundTo(*v, dp))
}

// firstNonNil returns the first non-nil value
func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// formatPercent renders a fraction as "5.00%", or "n/a"
func formatPercent(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", *v*100)
}

// formatRatio renders a plain ratio with 2 decimals, or "n/a"
func formatRatio(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *v)
}

// formatAmount renders an absolute figure with a B/M suffix, or "n/a"
func formatAmount(v *float64) string {
	if v == nil {
		return "n/a"
	}
	abs := math.Abs(*v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", *v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", *v/1e6)
	default:
		return fmt.Sprintf("%.2f", *v)
	}
}
