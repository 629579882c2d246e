package analysis

import (
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

// Unit scales for display
const (
	MarketCapScale = 1e9 // billions
	VolumeScale    = 1e6 // millions
	PercentScale   = 100
)

// KpiAssembler combines the quote and derived ratios into the flat KPI set
// ⭐ SSOT: KPI 단위/반올림 정책은 여기서만
type KpiAssembler struct {
	logger *logger.Logger
}

// NewKpiAssembler creates a new KPI assembler
func NewKpiAssembler(log *logger.Logger) *KpiAssembler {
	return &KpiAssembler{
		logger: log,
	}
}

// Assemble builds the rounded KPI set; ratios may be nil
func (a *KpiAssembler) Assemble(quote contracts.Quote, ratios *contracts.RatioSet) contracts.KpiSet {
	kpis := AssembleKpis(quote, ratios)

	a.logger.WithFields(map[string]interface{}{
		"ticker":      kpis.Ticker,
		"fiscal_year": kpis.FiscalPeriod,
	}).Debug("Assembled KPIs")

	return kpis
}

// AssembleKpis is the pure assembly function.
// Statement-derived ratios win; quote-reported figures are the fallback.
// DebtToEquity has no fallback: it is always long-term debt over book equity,
// never the provider's total-debt figure.
func AssembleKpis(quote contracts.Quote, ratios *contracts.RatioSet) contracts.KpiSet {
	if ratios == nil {
		ratios = &contracts.RatioSet{}
	}

	kpis := contracts.KpiSet{
		Ticker:       ratios.Ticker,
		FiscalPeriod: ratios.FiscalYear,

		CurrentPrice: quote.Price,
		PriceChange:  priceChange(quote.Price, quote.PreviousClose),
		MarketCap:    scale(quote.MarketCap, 1/MarketCapScale),
		PERatio:      quote.PERatio,
		Volume:       scale(quote.Volume, 1/VolumeScale),
		Beta:         quote.Beta,
		EPS:          quote.EPS,
		High52W:      quote.High52W,
		Low52W:       quote.Low52W,

		ROE:          scale(firstNonNil(ratios.ROE, quote.ReturnOnEquity), PercentScale),
		DebtToEquity: ratios.DebtToEquity,
		CurrentRatio: firstNonNil(ratios.CurrentRatio, quote.CurrentRatio),
		ProfitMargin: scale(firstNonNil(ratios.NetMargin, quote.ProfitMargin), PercentScale),
	}

	// 배당 없음(nil 또는 0)은 null, 0%와 구분
	if quote.DividendYield != nil && *quote.DividendYield > 0 {
		kpis.DividendYield = scale(quote.DividendYield, PercentScale)
	}

	return RoundKpis(kpis)
}

// RoundKpis applies the fixed rounding policy. Idempotent.
func RoundKpis(k contracts.KpiSet) contracts.KpiSet {
	k.CurrentPrice = roundPtr(k.CurrentPrice, 2)
	k.PriceChange = roundPtr(k.PriceChange, 2)
	k.MarketCap = roundPtr(k.MarketCap, 1)
	k.PERatio = roundPtr(k.PERatio, 2)
	k.DividendYield = roundPtr(k.DividendYield, 2)
	k.Volume = roundPtr(k.Volume, 2)
	k.Beta = roundPtr(k.Beta, 2)
	k.EPS = roundPtr(k.EPS, 2)
	k.High52W = roundPtr(k.High52W, 2)
	k.Low52W = roundPtr(k.Low52W, 2)
	k.ROE = roundPtr(k.ROE, 2)
	k.DebtToEquity = roundPtr(k.DebtToEquity, 2)
	k.CurrentRatio = roundPtr(k.CurrentRatio, 2)
	k.ProfitMargin = roundPtr(k.ProfitMargin, 2)
	return k
}

// priceChange returns the signed % change vs previous close
func priceChange(price, prevClose *float64) *float64 {
	if price == nil || prevClose == nil || *prevClose == 0 {
		return nil
	}
	return ptr((*price - *prevClose) / *prevClose * PercentScale)
}
