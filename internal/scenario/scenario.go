// Package scenario re-values fixed strategies under deterministic forecast
// shocks.
package scenario

import (
	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/internal/valuation"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Analyzer applies scenario shocks and replays strategies against them
type Analyzer struct {
	cfg      refdata.Config
	valuator *valuation.Valuator
	log      *logger.Logger
}

// NewAnalyzer creates a scenario analyzer
func NewAnalyzer(cfg refdata.Config, valuator *valuation.Valuator) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		valuator: valuator,
		log:      logger.GetLogger("scenario"),
	}
}

// Apply returns a new forecast set with the scenario's multiplicative
// adjustments applied. A commodity absent from the definition is unchanged;
// month-keyed multipliers override the commodity-wide factor.
func (a *Analyzer) Apply(forecasts *forecast.Set, def models.ScenarioDefinition) *forecast.Set {
	return forecasts.Transform(func(commodity models.Commodity, month string, value float64) float64 {
		mult := 1.0
		if m, ok := def.Multipliers[commodity]; ok {
			mult = m
		}
		if byMonth, ok := def.MonthMultipliers[commodity]; ok {
			if m, ok := byMonth[month]; ok {
				mult = m
			}
		}
		return value * mult
	})
}

// EvaluateStrategy replays a fixed strategy's decisions against the
// scenario-adjusted forecasts. Cancel decisions keep their unconditional
// payoff; shipped cargoes are re-valued at the shocked prices.
func (a *Analyzer) EvaluateStrategy(strategy *models.Strategy, def models.ScenarioDefinition, forecasts *forecast.Set) (*models.ScenarioResult, error) {
	adjusted := a.Apply(forecasts, def)

	result := &models.ScenarioResult{
		Scenario: def.Name,
		Strategy: strategy.Name,
		BasePnL:  strategy.TotalExpectedPnL,
	}

	for _, decision := range strategy.Decisions {
		if decision.Kind == models.DecisionCancel {
			cancelled := a.valuator.ValueCancellation(decision.Month)
			result.TotalPnL += cancelled.ExpectedPnL
			result.Decisions = append(result.Decisions, models.CargoDecision{
				Month:     decision.Month,
				Kind:      models.DecisionCancel,
				Valuation: cancelled,
			})
			continue
		}

		buyer, err := a.cfg.BuyerByName(decision.Buyer)
		if err != nil {
			return nil, err
		}
		valued, err := a.valuator.ValueCargoAt(adjusted, decision.Month, buyer, decision.Volume)
		if err != nil {
			return nil, err
		}
		result.TotalPnL += valued.ExpectedPnL
		result.Decisions = append(result.Decisions, models.CargoDecision{
			Month:       decision.Month,
			Kind:        models.DecisionShip,
			Destination: decision.Destination,
			Buyer:       decision.Buyer,
			Volume:      decision.Volume,
			Valuation:   valued,
		})
	}

	result.Delta = result.TotalPnL - result.BasePnL
	a.log.Infof("scenario %s on %s: total P&L %.0f (delta %.0f)", def.Name, strategy.Name, result.TotalPnL, result.Delta)
	return result, nil
}
