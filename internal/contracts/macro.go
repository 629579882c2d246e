package contracts

// Country identifies an economy tracked by the Buffett indicator
type Country struct {
	Code string `json:"code" yaml:"code"` // World Bank code: US, XC, GB, JP
	Name string `json:"name" yaml:"name"`
	Flag string `json:"flag" yaml:"flag"`
}

// MacroObservation is the raw market cap / GDP pair for one country
// ⭐ SSOT: 거시 데이터 제공처 → Buffett 엔진 입력
type MacroObservation struct {
	Country   string   `json:"country"`
	Code      string   `json:"code"`
	Flag      string   `json:"flag"`
	MarketCap *float64 `json:"market_cap"`
	GDP       *float64 `json:"gdp"`
	Unit      string   `json:"unit"`
	Source    string   `json:"source"`
	Year      string   `json:"year"`
	GDPYear   string   `json:"gdp_year,omitempty"` // GDP와 시가총액 연도가 다를 때만
}

// BuffettCountryEntry is one country's classified indicator.
// Error entries carry only Country, Code, Flag and Error.
type BuffettCountryEntry struct {
	Country   string   `json:"country"`
	Code      string   `json:"code"`
	Flag      string   `json:"flag"`
	MarketCap *float64 `json:"market_cap,omitempty"`
	GDP       *float64 `json:"gdp,omitempty"`
	Unit      string   `json:"unit,omitempty"`
	Ratio     *int     `json:"ratio,omitempty"`
	Color     string   `json:"color,omitempty"`
	ColorHex  string   `json:"color_hex,omitempty"`
	Label     string   `json:"label,omitempty"`
	Message   string   `json:"message,omitempty"`
	Source    string   `json:"source,omitempty"`
	Year      string   `json:"year,omitempty"`
	GDPYear   string   `json:"gdp_year,omitempty"`
	Error     bool     `json:"error,omitempty"`
}

// BuffettIndicatorResult is the macro valuation response
type BuffettIndicatorResult struct {
	Countries []BuffettCountryEntry `json:"countries"`
}
