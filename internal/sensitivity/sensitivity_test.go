package sensitivity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/optimizer"
	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/internal/valuation"
	"github.com/lngflow/cargo-engine/pkg/models"
)

var testMonths = []string{"2026-01", "2026-02", "2026-03"}

func testForecasts() *forecast.Set {
	curves := map[models.Commodity]forecast.Curve{
		models.CommodityHenryHub: {},
		models.CommodityJKM:      {},
		models.CommodityBrent:    {},
		models.CommodityFreight:  {},
	}
	for _, month := range testMonths {
		curves[models.CommodityHenryHub][month] = 3.00
		curves[models.CommodityJKM][month] = 15.00
		curves[models.CommodityBrent][month] = 75.00
		curves[models.CommodityFreight][month] = 18_000
	}
	return forecast.NewSet(curves)
}

func newTestAnalyzer() *Analyzer {
	cfg := refdata.Default()
	return NewAnalyzer(optimizer.NewOptimizer(cfg, valuation.NewValuator(cfg)))
}

func TestTornado(t *testing.T) {
	a := newTestAnalyzer()
	forecasts := testForecasts()

	factors := a.Tornado(forecasts, testMonths, 0.20)
	require.Len(t, factors, len(models.Commodities))

	// widest swing first
	for i := 1; i < len(factors); i++ {
		assert.GreaterOrEqual(t, factors[i-1].Swing, factors[i].Swing)
	}

	base := factors[0].Base
	for _, f := range factors {
		assert.Equal(t, base, f.Base)
		assert.GreaterOrEqual(t, f.Swing, 0.0)
	}

	// the sale index dominates: a JKM shock should swing P&L more than a
	// freight-rate shock of the same size
	byName := make(map[string]models.SensitivityFactor, len(factors))
	for _, f := range factors {
		byName[f.Factor] = f
	}
	assert.Greater(t, byName[string(models.CommodityJKM)].Swing, byName[string(models.CommodityFreight)].Swing)
}

func TestBreakEven_HenryHubCrossesZero(t *testing.T) {
	a := newTestAnalyzer()
	forecasts := testForecasts()

	// tighter margins than the reference case: cheap feed gas stays
	// profitable, expensive feed gas drives every month to the negative
	// cancellation floor, so a crossing exists inside the band
	marginal := forecasts.Transform(func(c models.Commodity, _ string, v float64) float64 {
		switch c {
		case models.CommodityHenryHub:
			return 6.00
		case models.CommodityJKM:
			return 10.00
		case models.CommodityBrent:
			return 60.00
		}
		return v
	})

	result := a.BreakEven(marginal, testMonths, models.CommodityHenryHub)
	require.True(t, result.Converged)
	assert.Greater(t, result.Multiplier, 0.1)
	assert.Less(t, result.Multiplier, 3.0)
}

func TestBreakEven_NoCrossing(t *testing.T) {
	a := newTestAnalyzer()
	forecasts := testForecasts()

	// freight is a small share of cargo economics; tripling or slashing it
	// never flips a 16M-per-cargo margin negative
	result := a.BreakEven(forecasts, testMonths, models.CommodityFreight)
	assert.False(t, result.Converged)
}

func TestRobustness_ZeroShockIsFullyStable(t *testing.T) {
	a := newTestAnalyzer()
	forecasts := testForecasts()

	result := a.Robustness(forecasts, testMonths, 10, 0.0, 7)
	assert.Equal(t, 10, result.Perturbations)
	assert.Equal(t, 1.0, result.StableFraction)
	assert.Empty(t, result.UnstableMonths)
}

func TestRobustness_DeterministicForSeed(t *testing.T) {
	a := newTestAnalyzer()
	forecasts := testForecasts()

	first := a.Robustness(forecasts, testMonths, 20, 0.30, 99)
	second := a.Robustness(forecasts, testMonths, 20, 0.30, 99)
	assert.Equal(t, first.StableFraction, second.StableFraction)
	assert.Equal(t, first.UnstableMonths, second.UnstableMonths)
}
