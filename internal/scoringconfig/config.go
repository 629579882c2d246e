package scoringconfig

import "github.com/wonny/finhealth/backend/internal/contracts"

// Config는 재무 건전성 채점 규칙 전체 설정
type Config struct {
	Meta      Meta      `yaml:"meta" json:"meta"`
	Piotroski Piotroski `yaml:"piotroski" json:"piotroski"`
	Buffett   Buffett   `yaml:"buffett" json:"buffett"`
}

// Meta 메타 정보
type Meta struct {
	RuleSetID string `yaml:"rule_set_id" json:"rule_set_id"`
	Version   string `yaml:"version" json:"version"`
}

// Piotroski F-Score 해석 기준
type Piotroski struct {
	SolidMinScore   int `yaml:"solid_min_score" json:"solid_min_score"`     // >= → solid
	AverageMinScore int `yaml:"average_min_score" json:"average_min_score"` // >= → average, else weak

	// false: 개선 판정은 strict (>), true: 동일 값도 개선으로 인정 (>=)
	AllowEqualImprovement bool `yaml:"allow_equal_improvement" json:"allow_equal_improvement"`
}

// Buffett 지표 대상 국가
type Buffett struct {
	Countries   []contracts.Country `yaml:"countries" json:"countries"`
	Concurrency int                 `yaml:"concurrency" json:"concurrency"`
}

// Default returns the built-in rule set used when no file is configured
func Default() *Config {
	return &Config{
		Meta: Meta{
			RuleSetID: "finhealth_default",
			Version:   "1",
		},
		Piotroski: Piotroski{
			SolidMinScore:         7,
			AverageMinScore:       4,
			AllowEqualImprovement: false,
		},
		Buffett: Buffett{
			Countries:   DefaultCountries(),
			Concurrency: 4,
		},
	}
}

// DefaultCountries returns US, Euro area, UK, Japan
func DefaultCountries() []contracts.Country {
	return []contracts.Country{
		{Code: "US", Name: "United States", Flag: "🇺🇸"},
		{Code: "XC", Name: "Euro area", Flag: "🇪🇺"},
		{Code: "GB", Name: "United Kingdom", Flag: "🇬🇧"},
		{Code: "JP", Name: "Japan", Flag: "🇯🇵"},
	}
}
