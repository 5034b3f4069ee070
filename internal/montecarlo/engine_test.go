package montecarlo

import (
	"context"
	"math"
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

func flatForecasts(hh, jkm, brent, freight float64) *forecast.Set {
	curves := map[models.Commodity]forecast.Curve{
		models.CommodityHenryHub: {},
		models.CommodityJKM:      {},
		models.CommodityBrent:    {},
		models.CommodityFreight:  {},
	}
	for _, month := range testMonths {
		curves[models.CommodityHenryHub][month] = hh
		curves[models.CommodityJKM][month] = jkm
		curves[models.CommodityBrent][month] = brent
		curves[models.CommodityFreight][month] = freight
	}
	return forecast.NewSet(curves)
}

func newTestEngine(sims int) (*Engine, *optimizer.Optimizer) {
	cfg := refdata.Default()
	valuator := valuation.NewValuator(cfg)
	engine := NewEngine(Config{Simulations: sims, Workers: 2, Seed: 42}, cfg, valuator)
	return engine, optimizer.NewOptimizer(cfg, valuator)
}

// With zero volatility every path stays pinned at the month-1 forecast, so
// on flat curves the simulated distribution collapses onto the
// deterministic strategy value.
func TestRun_ZeroVolatilityMatchesDeterministicValue(t *testing.T) {
	engine, opt := newTestEngine(200)
	forecasts := flatForecasts(3.00, 15.00, 75.00, 18_000)
	strategy := opt.GenerateOptimalStrategy(forecasts, testMonths)

	vols := forecast.Volatilities{
		models.CommodityHenryHub: 0,
		models.CommodityJKM:      0,
		models.CommodityBrent:    0,
		models.CommodityFreight:  0,
	}

	metrics, err := engine.Run(context.Background(), strategy, forecasts, vols, forecast.Identity(models.Commodities))
	require.NoError(t, err)

	assert.Equal(t, 200, metrics.Simulations)
	assert.True(t, metrics.CorrelationOK)
	assert.InDelta(t, strategy.TotalExpectedPnL, metrics.Mean, 1e-3)
	assert.InDelta(t, 0, metrics.StdDev, 1e-3)
	assert.InDelta(t, strategy.TotalExpectedPnL, metrics.VaR5, 1e-3)
	assert.Equal(t, 1.0, metrics.ProbProfit)
}

func TestRun_VolatilityWidensDistribution(t *testing.T) {
	engine, opt := newTestEngine(500)
	forecasts := flatForecasts(3.00, 15.00, 75.00, 18_000)
	strategy := opt.GenerateOptimalStrategy(forecasts, testMonths)

	vols := forecast.Volatilities{
		models.CommodityHenryHub: 0.45,
		models.CommodityJKM:      0.55,
		models.CommodityBrent:    0.30,
		models.CommodityFreight:  0.40,
	}

	metrics, err := engine.Run(context.Background(), strategy, forecasts, vols, forecast.Identity(models.Commodities))
	require.NoError(t, err)

	assert.Positive(t, metrics.StdDev)
	assert.Less(t, metrics.VaR5, metrics.Mean)
	assert.LessOrEqual(t, metrics.VaR1, metrics.VaR5)
	assert.LessOrEqual(t, metrics.CVaR5, metrics.VaR5)
	assert.LessOrEqual(t, metrics.CVaR1, metrics.CVaR5)
	assert.False(t, math.IsNaN(metrics.Sharpe))
}

// A correlation matrix that is not positive-definite must degrade to
// independent paths, never abort the run.
func TestRun_NonPositiveDefiniteCorrelationDegrades(t *testing.T) {
	engine, opt := newTestEngine(100)
	forecasts := flatForecasts(3.00, 15.00, 75.00, 18_000)
	strategy := opt.GenerateOptimalStrategy(forecasts, testMonths)

	vols := forecast.Volatilities{
		models.CommodityHenryHub: 0.45,
		models.CommodityJKM:      0.55,
		models.CommodityBrent:    0.30,
		models.CommodityFreight:  0.40,
	}

	// rank-1 all-ones matrix: positive semi-definite but not PD
	ones := make([][]float64, len(models.Commodities))
	for i := range ones {
		ones[i] = []float64{1, 1, 1, 1}
	}
	corr := forecast.Correlation{Order: models.Commodities, Matrix: ones}

	metrics, err := engine.Run(context.Background(), strategy, forecasts, vols, corr)
	require.NoError(t, err)

	assert.False(t, metrics.CorrelationOK)
	assert.False(t, math.IsNaN(metrics.Mean))
	assert.False(t, math.IsInf(metrics.Mean, 0))
	assert.Positive(t, metrics.StdDev)
}

func TestRun_RaggedCorrelationDegrades(t *testing.T) {
	engine, opt := newTestEngine(50)
	forecasts := flatForecasts(3.00, 15.00, 75.00, 18_000)
	strategy := opt.GenerateOptimalStrategy(forecasts, testMonths)

	corr := forecast.Correlation{Order: models.Commodities, Matrix: [][]float64{{1, 0}, {0, 1}}}
	metrics, err := engine.Run(context.Background(), strategy, forecasts, forecast.Volatilities{}, corr)
	require.NoError(t, err)
	assert.False(t, metrics.CorrelationOK)
}

func TestRun_CancelMonthsAreDeterministic(t *testing.T) {
	engine, _ := newTestEngine(100)
	forecasts := flatForecasts(3.00, 15.00, 75.00, 18_000)

	strategy := &models.Strategy{
		ID:   "cancel-only",
		Name: "cancel-only",
		Decisions: []models.CargoDecision{
			{Month: "2026-01", Kind: models.DecisionCancel},
			{Month: "2026-02", Kind: models.DecisionCancel},
		},
	}

	vols := forecast.Volatilities{
		models.CommodityHenryHub: 0.45,
		models.CommodityJKM:      0.55,
		models.CommodityBrent:    0.30,
		models.CommodityFreight:  0.40,
	}

	metrics, err := engine.Run(context.Background(), strategy, forecasts, vols, forecast.Identity(models.Commodities))
	require.NoError(t, err)

	// the tolling fee on two cancelled cargoes, independent of prices
	assert.InDelta(t, -19_000_000, metrics.Mean, 1e-6)
	assert.InDelta(t, 0, metrics.StdDev, 1e-6)
	assert.Equal(t, 0.0, metrics.ProbProfit)
}

func TestRun_UnknownBuyerIsConfigurationDefect(t *testing.T) {
	engine, _ := newTestEngine(10)
	forecasts := flatForecasts(3.00, 15.00, 75.00, 18_000)

	strategy := &models.Strategy{
		ID:   "bad",
		Name: "bad",
		Decisions: []models.CargoDecision{
			{Month: "2026-01", Kind: models.DecisionShip, Buyer: "nobody", Volume: 3_800_000},
		},
	}

	_, err := engine.Run(context.Background(), strategy, forecasts, forecast.Volatilities{}, forecast.Identity(models.Commodities))
	assert.Error(t, err)
}
