package scoringconfig

import (
	"fmt"
	"strings"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.RuleSetID == "" {
		return ValidationError{"meta.rule_set_id", "required"}
	}

	// === Piotroski ===
	p := cfg.Piotroski
	if p.AverageMinScore < 1 || p.AverageMinScore > 9 {
		return ValidationError{"piotroski.average_min_score", "must be in [1, 9]"}
	}
	if p.SolidMinScore < 1 || p.SolidMinScore > 9 {
		return ValidationError{"piotroski.solid_min_score", "must be in [1, 9]"}
	}
	if p.SolidMinScore <= p.AverageMinScore {
		return ValidationError{"piotroski.solid_min_score", "must be greater than average_min_score"}
	}

	// === Buffett ===
	if len(cfg.Buffett.Countries) == 0 {
		return ValidationError{"buffett.countries", "must not be empty"}
	}
	if cfg.Buffett.Concurrency < 1 {
		return ValidationError{"buffett.concurrency", "must be >= 1"}
	}

	seen := make(map[string]bool)
	for i, c := range cfg.Buffett.Countries {
		field := fmt.Sprintf("buffett.countries[%d]", i)
		if strings.TrimSpace(c.Code) == "" {
			return ValidationError{field + ".code", "required"}
		}
		if strings.TrimSpace(c.Name) == "" {
			return ValidationError{field + ".name", "required"}
		}
		if seen[c.Code] {
			return ValidationError{field + ".code", "duplicate " + c.Code}
		}
		seen[c.Code] = true
	}

	return nil
}
