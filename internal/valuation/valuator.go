// Package valuation orchestrates pricing, risk adjustment, and hedging into
// a single expected-P&L figure per cargo. Every intermediate dollar figure
// is retained on the result for audit and reporting.
package valuation

import (
	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/hedging"
	"github.com/lngflow/cargo-engine/internal/pricing"
	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/internal/risk"
	"github.com/lngflow/cargo-engine/pkg/metrics"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Valuator values one cargo for a (month, destination, buyer, volume)
// combination
type Valuator struct {
	cfg      refdata.Config
	pricing  *pricing.Model
	adjuster *risk.Adjuster
	hedger   *hedging.Calculator
	recorder *metrics.Recorder // nil when instrumentation is disabled
	log      *logger.Logger
}

// NewValuator creates a cargo valuator and its sub-models
func NewValuator(cfg refdata.Config) *Valuator {
	return &Valuator{
		cfg:      cfg,
		pricing:  pricing.NewModel(cfg),
		adjuster: risk.NewAdjuster(cfg),
		hedger:   hedging.NewCalculator(cfg),
		log:      logger.GetLogger("valuation"),
	}
}

// WithRecorder enables valuation counting on the given recorder
func (v *Valuator) WithRecorder(recorder *metrics.Recorder) *Valuator {
	v.recorder = recorder
	return v
}

// Config returns the reference configuration the valuator was built with
func (v *Valuator) Config() refdata.Config {
	return v.cfg
}

// ValueCargo runs the full valuation sequence: purchase, sale, freight,
// gross P&L, credit adjustment, demand adjustment.
func (v *Valuator) ValueCargo(month string, buyer models.Buyer, prices models.PriceSet, volume float64) (*models.CargoValuationResult, error) {
	if !prices.Valid() {
		return nil, errors.InvalidInputf("incomplete price set for %s: %+v", month, prices)
	}

	purchase, err := v.pricing.PurchaseCost(prices.HenryHub, volume)
	if err != nil {
		return nil, err
	}

	revenue, err := v.pricing.SaleRevenue(buyer.Destination, buyer, prices, volume)
	if err != nil {
		return nil, err
	}

	freight, err := v.pricing.FreightCost(buyer.Destination, prices.FreightRate, purchase, revenue.Gross, volume)
	if err != nil {
		return nil, err
	}

	grossPnL := revenue.Gross - purchase - freight.Total

	credit, err := v.adjuster.CreditAdjustment(buyer, revenue.Gross)
	if err != nil {
		return nil, err
	}
	creditAdjustedPnL := credit.AdjustedRevenue - purchase - freight.Total

	demand, err := v.adjuster.DemandAdjustment(buyer.Destination, buyer.CreditRating, models.CalendarMonth(month), creditAdjustedPnL, volume)
	if err != nil {
		return nil, err
	}

	if v.recorder != nil {
		v.recorder.RecordValuation(string(buyer.Destination))
	}

	return &models.CargoValuationResult{
		Month:        month,
		Destination:  buyer.Destination,
		Buyer:        buyer.Name,
		Volume:       volume,
		PurchaseCost: purchase,
		Revenue:      revenue,
		Freight:      freight,
		GrossPnL:     grossPnL,
		Credit:       credit,
		Demand:       demand,
		ExpectedPnL:  demand.AdjustedPnL,
	}, nil
}

// ValueCargoAt values a cargo using forecasts for the month, flagging the
// result as degraded when any input was carried forward from an earlier
// month. A missing forecast degrades the month, it never aborts the run.
func (v *Valuator) ValueCargoAt(forecasts *forecast.Set, month string, buyer models.Buyer, volume float64) (*models.CargoValuationResult, error) {
	prices, degraded, err := forecasts.PriceSet(month)
	if err != nil {
		return nil, err
	}
	result, err := v.ValueCargo(month, buyer, prices, volume)
	if err != nil {
		return nil, err
	}
	result.Degraded = degraded
	return result, nil
}

// ValueCancellation returns the fixed cancellation payoff for a month: the
// tolling fee is owed on the base volume whether or not the cargo ships.
// Independent of forecasts.
func (v *Valuator) ValueCancellation(month string) *models.CargoValuationResult {
	payoff := -v.cfg.Cargo.TollingFee * v.cfg.Cargo.BaseVolume
	return &models.CargoValuationResult{
		Month:       month,
		Volume:      v.cfg.Cargo.BaseVolume,
		Cancelled:   true,
		GrossPnL:    payoff,
		ExpectedPnL: payoff,
	}
}

// ValueCargoWithHedge computes the unhedged valuation and layers on the
// P&L of a purchase-cost hedge initiated at forwardPrice and settled at
// the delivery-month Henry Hub price. Both figures are exposed for
// comparison reporting.
func (v *Valuator) ValueCargoWithHedge(month string, buyer models.Buyer, prices models.PriceSet, volume, forwardPrice float64) (*models.CargoValuationResult, error) {
	result, err := v.ValueCargo(month, buyer, prices, volume)
	if err != nil {
		return nil, err
	}

	hedge, err := v.hedger.HedgePnL(month, forwardPrice, prices.HenryHub, volume)
	if err != nil {
		return nil, err
	}

	result.Hedge = &hedge
	result.HedgedPnL = result.ExpectedPnL + hedge.PnL
	return result, nil
}
