package analysis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/finhealth/backend/internal/contracts"
	"github.com/wonny/finhealth/backend/pkg/logger"
)

func sampleQuote() contracts.Quote {
	return contracts.Quote{
		Price:          f64(189.987),
		PreviousClose:  f64(187.5),
		Volume:         f64(52_345_678),
		MarketCap:      f64(2_950_123_456_789),
		PERatio:        f64(31.456),
		DividendYield:  f64(0.0051),
		EPS:            f64(6.137),
		Beta:           f64(1.289),
		High52W:        f64(199.62),
		Low52W:         f64(164.076),
		ReturnOnEquity: f64(1.4725),
		CurrentRatio:   f64(0.988),
		ProfitMargin:   f64(0.2531),
	}
}

func TestAssembleKpis_QuoteOnly(t *testing.T) {
	kpis := AssembleKpis(sampleQuote(), nil)

	assert.Equal(t, 189.99, *kpis.CurrentPrice)
	assert.Equal(t, 1.33, *kpis.PriceChange)
	assert.Equal(t, 2950.1, *kpis.MarketCap)
	assert.Equal(t, 31.46, *kpis.PERatio)
	assert.Equal(t, 0.51, *kpis.DividendYield)
	assert.Equal(t, 52.35, *kpis.Volume)
	assert.Equal(t, 1.29, *kpis.Beta)
	assert.Equal(t, 6.14, *kpis.EPS)
	assert.Equal(t, 199.62, *kpis.High52W)
	assert.Equal(t, 164.08, *kpis.Low52W)

	// quote fallbacks
	assert.Equal(t, 147.25, *kpis.ROE)
	assert.Nil(t, kpis.DebtToEquity, "D/E is statement-only")
	assert.Equal(t, 0.99, *kpis.CurrentRatio)
	assert.Equal(t, 25.31, *kpis.ProfitMargin)
}

func TestAssembleKpis_RatiosWin(t *testing.T) {
	y := healthyYear("2023")
	ratios := ComputeRatios("ACME", &y, nil)

	kpis := AssembleKpis(sampleQuote(), ratios)

	assert.Equal(t, "ACME", kpis.Ticker)
	assert.Equal(t, "2023", kpis.FiscalPeriod)
	assert.Equal(t, 12.5, *kpis.ROE)          // 50 / 400
	assert.Equal(t, 0.38, *kpis.DebtToEquity) // 150 / 400
	assert.Equal(t, 1.5, *kpis.CurrentRatio)
	assert.Equal(t, 5.0, *kpis.ProfitMargin)
}

func TestAssembleKpis_DebtToEquityHasOneBasis(t *testing.T) {
	y := healthyYear("2023")
	y.LongTermDebt = nil
	ratios := ComputeRatios("ACME", &y, nil)

	kpis := AssembleKpis(sampleQuote(), ratios)

	// 다른 지표는 quote로 대체되지만 D/E는 대체하지 않음
	assert.Nil(t, kpis.DebtToEquity)
	assert.Equal(t, 12.5, *kpis.ROE)
	assert.Equal(t, 1.5, *kpis.CurrentRatio)
}

func TestAssembleKpis_MissingIsNull(t *testing.T) {
	kpis := AssembleKpis(contracts.Quote{}, nil)

	assert.Nil(t, kpis.CurrentPrice)
	assert.Nil(t, kpis.PriceChange)
	assert.Nil(t, kpis.MarketCap)
	assert.Nil(t, kpis.DividendYield)
	assert.Nil(t, kpis.Volume)
	assert.Nil(t, kpis.ROE)
	assert.Nil(t, kpis.DebtToEquity)
	assert.Nil(t, kpis.CurrentRatio)
	assert.Nil(t, kpis.ProfitMargin)
}

func TestAssembleKpis_DividendYield(t *testing.T) {
	tests := []struct {
		name  string
		yield *float64
		want  *float64
	}{
		{"no dividend field", nil, nil},
		{"zero dividend", f64(0), nil},
		{"pays dividend", f64(0.0423), f64(4.23)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kpis := AssembleKpis(contracts.Quote{DividendYield: tt.yield}, nil)
			assert.Equal(t, tt.want, kpis.DividendYield)
		})
	}
}

func TestAssembleKpis_ZeroIsAValue(t *testing.T) {
	kpis := AssembleKpis(contracts.Quote{Price: f64(0), Beta: f64(0)}, nil)

	require.NotNil(t, kpis.CurrentPrice)
	assert.Equal(t, 0.0, *kpis.CurrentPrice)
	require.NotNil(t, kpis.Beta)
	assert.Equal(t, 0.0, *kpis.Beta)
}

func TestAssembleKpis_NegativePriceChange(t *testing.T) {
	kpis := AssembleKpis(contracts.Quote{Price: f64(95), PreviousClose: f64(100)}, nil)
	assert.Equal(t, -5.0, *kpis.PriceChange)

	noPrev := AssembleKpis(contracts.Quote{Price: f64(95), PreviousClose: f64(0)}, nil)
	assert.Nil(t, noPrev.PriceChange)
}

func TestRoundKpis_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	random := func() *float64 {
		if rng.Intn(6) == 0 {
			return nil
		}
		return f64((rng.Float64() - 0.5) * 1e6)
	}

	for i := 0; i < 1000; i++ {
		raw := contracts.KpiSet{
			CurrentPrice:  random(),
			PriceChange:   random(),
			MarketCap:     random(),
			PERatio:       random(),
			DividendYield: random(),
			Volume:        random(),
			Beta:          random(),
			EPS:           random(),
			High52W:       random(),
			Low52W:        random(),
			ROE:           random(),
			DebtToEquity:  random(),
			CurrentRatio:  random(),
			ProfitMargin:  random(),
		}

		once := RoundKpis(raw)
		twice := RoundKpis(once)
		require.Equal(t, once, twice)
	}
}

func TestKpiAssembler_Assemble(t *testing.T) {
	assembler := NewKpiAssembler(logger.Nop())
	kpis := assembler.Assemble(sampleQuote(), &contracts.RatioSet{Ticker: "AAPL", FiscalYear: "2023"})

	assert.Equal(t, "AAPL", kpis.Ticker)
	assert.Equal(t, kpis, RoundKpis(kpis))
}
