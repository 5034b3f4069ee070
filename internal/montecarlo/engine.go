// Package montecarlo propagates correlated commodity-price uncertainty
// through the cargo valuation model to produce a P&L distribution and risk
// metrics for a fixed strategy.
package montecarlo

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/internal/valuation"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Config contains tunables for a Monte Carlo run
type Config struct {
	Simulations int
	Workers     int
	Seed        int64
}

// Engine runs Monte Carlo strategy simulations
type Engine struct {
	config   Config
	cfg      refdata.Config
	valuator *valuation.Valuator
	log      *logger.Logger
}

// NewEngine creates a Monte Carlo engine
func NewEngine(config Config, cfg refdata.Config, valuator *valuation.Valuator) *Engine {
	if config.Simulations <= 0 {
		config.Simulations = 5000
	}
	if config.Workers <= 0 {
		config.Workers = 4
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	return &Engine{
		config:   config,
		cfg:      cfg,
		valuator: valuator,
		log:      logger.GetLogger("montecarlo"),
	}
}

// Run generates price paths, replays the strategy across every simulation,
// and summarizes the resulting P&L distribution.
func (e *Engine) Run(
	ctx context.Context,
	strategy *models.Strategy,
	forecasts *forecast.Set,
	vols forecast.Volatilities,
	corr forecast.Correlation,
) (*models.RiskMetrics, error) {
	started := time.Now()

	months := make([]string, 0, len(strategy.Decisions))
	for _, d := range strategy.Decisions {
		months = append(months, d.Month)
	}

	paths, corrOK, err := e.generatePaths(forecasts, vols, corr, months, e.config.Simulations)
	if err != nil {
		return nil, err
	}

	pnls, err := e.SimulateStrategy(ctx, strategy, paths)
	if err != nil {
		return nil, err
	}

	metrics := e.RiskMetrics(pnls)
	metrics.StrategyID = strategy.ID
	metrics.StrategyName = strategy.Name
	metrics.CorrelationOK = corrOK

	e.log.Infof("simulated %s over %d paths in %s: mean %.0f, VaR5 %.0f",
		strategy.Name, e.config.Simulations, time.Since(started), metrics.Mean, metrics.VaR5)
	return metrics, nil
}

// SimulateStrategy replays the fixed strategy's decisions against each
// simulation's price realizations and returns the per-simulation total P&L.
// Cancel months use the fixed cancellation payoff regardless of prices.
// Simulations are independent, so the replay fans out across workers.
func (e *Engine) SimulateStrategy(ctx context.Context, strategy *models.Strategy, paths map[models.Commodity]*models.PricePath) ([]float64, error) {
	sims := e.config.Simulations
	pnls := make([]float64, sims)

	// resolve buyers once; a decision naming an unknown buyer is a
	// configuration defect
	buyers := make([]models.Buyer, len(strategy.Decisions))
	for i, d := range strategy.Decisions {
		if d.Kind == models.DecisionCancel {
			continue
		}
		buyer, err := e.cfg.BuyerByName(d.Buyer)
		if err != nil {
			return nil, err
		}
		buyers[i] = buyer
	}

	g, _ := errgroup.WithContext(ctx)
	chunk := (sims + e.config.Workers - 1) / e.config.Workers
	for w := 0; w < e.config.Workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > sims {
			hi = sims
		}
		if lo >= hi {
			break
		}
		g.Go(func() error {
			for s := lo; s < hi; s++ {
				total := 0.0
				for i, decision := range strategy.Decisions {
					if decision.Kind == models.DecisionCancel {
						total += e.valuator.ValueCancellation(decision.Month).ExpectedPnL
						continue
					}
					prices := e.pricesAt(paths, i, s)
					result, err := e.valuator.ValueCargo(decision.Month, buyers[i], prices, decision.Volume)
					if err != nil {
						return err
					}
					total += result.ExpectedPnL
				}
				pnls[s] = total
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pnls, nil
}

// pricesAt assembles the simulated price snapshot for month offset m in
// simulation s. The M+1 JKM index reads the next month's path, falling back
// to the current month's value at the final horizon month.
func (e *Engine) pricesAt(paths map[models.Commodity]*models.PricePath, m, s int) models.PriceSet {
	jkm := paths[models.CommodityJKM]
	jkmNext := jkm.At(m, s)
	if m+1 < len(jkm.Values) {
		jkmNext = jkm.At(m+1, s)
	}
	return models.PriceSet{
		HenryHub:    paths[models.CommodityHenryHub].At(m, s),
		JKMCurrent:  jkm.At(m, s),
		JKMNext:     jkmNext,
		Brent:       paths[models.CommodityBrent].At(m, s),
		FreightRate: paths[models.CommodityFreight].At(m, s),
	}
}
