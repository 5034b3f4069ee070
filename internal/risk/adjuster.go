// Package risk applies counterparty and demand risk adjustments to gross
// cargo economics.
package risk

import (
	"math"
	"time"

	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Adjuster converts gross P&L figures into risk-adjusted expectations
type Adjuster struct {
	cfg refdata.Config
	log *logger.Logger
}

// NewAdjuster creates a risk adjuster
func NewAdjuster(cfg refdata.Config) *Adjuster {
	return &Adjuster{
		cfg: cfg,
		log: logger.GetLogger("risk.adjuster"),
	}
}

// CreditAdjustment reduces gross revenue by the expected default loss for
// the buyer's rating and, for deferred payment terms, by the time value of
// the delayed receivable. Payment terms negotiated per buyer override the
// destination's market convention.
func (a *Adjuster) CreditAdjustment(buyer models.Buyer, grossRevenue float64) (models.CreditAdjustment, error) {
	ratingSpec, err := a.cfg.Rating(buyer.CreditRating)
	if err != nil {
		return models.CreditAdjustment{}, err
	}
	destSpec, err := a.cfg.Destination(buyer.Destination)
	if err != nil {
		return models.CreditAdjustment{}, err
	}

	expectedLoss := grossRevenue * (1 - ratingSpec.RecoveryRate) * ratingSpec.DefaultProbability

	deferredDays := destSpec.DeferredPaymentDays
	if buyer.DeferredPaymentDays > 0 {
		deferredDays = buyer.DeferredPaymentDays
	}

	var timeValueCost float64
	if deferredDays > 0 {
		deferredMonths := float64(deferredDays) / 30.0
		timeValueCost = grossRevenue * a.cfg.Costs.MonthlyDiscountRate * deferredMonths
	}

	return models.CreditAdjustment{
		ExpectedLoss:    expectedLoss,
		TimeValueCost:   timeValueCost,
		AdjustedRevenue: grossRevenue - expectedLoss - timeValueCost,
	}, nil
}

// DemandProbability returns the probability the sale occurs for a
// destination, month, and buyer rating. Top-tier ratings amplify the base
// demand fraction (capped at 1); the bottom tier discounts it.
func (a *Adjuster) DemandProbability(dest models.Destination, rating models.CreditRating, month time.Month) (float64, error) {
	base, err := a.cfg.DemandFraction(dest, month)
	if err != nil {
		return 0, err
	}
	ratingSpec, err := a.cfg.Rating(rating)
	if err != nil {
		return 0, err
	}
	return math.Min(base*ratingSpec.DemandMultiplier, 1.0), nil
}

// DemandAdjustment blends the sale P&L with the storage-penalty outcome by
// the probability of sale. This is an expected-value blend, not a sampled
// outcome: Monte Carlo paths sample prices but reuse this same expectation.
func (a *Adjuster) DemandAdjustment(dest models.Destination, rating models.CreditRating, month time.Month, basePnL, volume float64) (models.DemandAdjustment, error) {
	prob, err := a.DemandProbability(dest, rating, month)
	if err != nil {
		return models.DemandAdjustment{}, err
	}

	storagePenalty := -volume * a.cfg.Costs.StorageCost
	return models.DemandAdjustment{
		ProbabilityOfSale: prob,
		StoragePenalty:    storagePenalty,
		AdjustedPnL:       basePnL*prob + storagePenalty*(1-prob),
	}, nil
}
