// Package optimizer evaluates every destination, buyer, and volume
// combination per delivery month and assembles named shipping strategies.
package optimizer

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/internal/valuation"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Strategy names produced by GenerateAll
const (
	StrategyOptimal      = "Optimal"
	StrategyConservative = "Conservative"
	StrategyHighExposure = "High-Exposure"
)

// Optimizer generates shipping strategies from forecast curves
type Optimizer struct {
	cfg      refdata.Config
	valuator *valuation.Valuator
	log      *logger.Logger
}

// NewOptimizer creates a strategy optimizer
func NewOptimizer(cfg refdata.Config, valuator *valuation.Valuator) *Optimizer {
	return &Optimizer{
		cfg:      cfg,
		valuator: valuator,
		log:      logger.GetLogger("optimizer"),
	}
}

// EvaluateAllOptions values every destination x buyer combination for a
// month, choosing per pair the candidate volume that maximizes expected
// P&L, and appends the cancellation option. Results are sorted descending
// by expected P&L; Cancel is never excluded from the ranking.
func (o *Optimizer) EvaluateAllOptions(forecasts *forecast.Set, month string) []*models.CargoValuationResult {
	results := make([]*models.CargoValuationResult, 0, len(o.cfg.Buyers)+1)

	for _, buyer := range o.cfg.Buyers {
		best := o.bestVolumeFor(forecasts, month, buyer)
		if best != nil {
			results = append(results, best)
		}
	}

	results = append(results, o.valuator.ValueCancellation(month))

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].ExpectedPnL > results[j].ExpectedPnL
	})
	return results
}

// bestVolumeFor picks, for one buyer, the candidate volume with the highest
// expected P&L. A negative-margin cargo shrinks to the minimum volume, a
// strongly positive one expands to the maximum.
func (o *Optimizer) bestVolumeFor(forecasts *forecast.Set, month string, buyer models.Buyer) *models.CargoValuationResult {
	var best *models.CargoValuationResult
	for _, volume := range o.cfg.VolumeCandidates() {
		result, err := o.valuator.ValueCargoAt(forecasts, month, buyer, volume)
		if err != nil {
			o.log.Warnf("skipping %s/%s for %s: %v", buyer.Destination, buyer.Name, month, err)
			return nil
		}
		if best == nil || result.ExpectedPnL > best.ExpectedPnL {
			best = result
		}
	}
	return best
}

// GenerateOptimalStrategy independently picks the top-ranked option for
// each delivery month. A month whose forecasts are unusable degrades to
// Cancel; it never aborts the remaining months.
func (o *Optimizer) GenerateOptimalStrategy(forecasts *forecast.Set, months []string) *models.Strategy {
	return o.buildStrategy(StrategyOptimal, months, func(month string) *models.CargoValuationResult {
		ranked := o.EvaluateAllOptions(forecasts, month)
		return ranked[0]
	})
}

// GenerateConservativeStrategy restricts each month to the highest-rated
// buyers at base volume, as a low-credit-risk comparison baseline.
func (o *Optimizer) GenerateConservativeStrategy(forecasts *forecast.Set, months []string) *models.Strategy {
	topRating := o.bestAvailableRating()
	return o.buildStrategy(StrategyConservative, months, func(month string) *models.CargoValuationResult {
		best := o.valuator.ValueCancellation(month)
		for _, buyer := range o.cfg.Buyers {
			if buyer.CreditRating != topRating {
				continue
			}
			result, err := o.valuator.ValueCargoAt(forecasts, month, buyer, o.cfg.Cargo.BaseVolume)
			if err != nil {
				o.log.Warnf("conservative: skipping %s for %s: %v", buyer.Name, month, err)
				continue
			}
			if result.ExpectedPnL > best.ExpectedPnL {
				best = result
			}
		}
		return best
	})
}

// GenerateHighExposureStrategy restricts each month to the two JKM-linked
// destinations, as a high-spot-exposure comparison baseline.
func (o *Optimizer) GenerateHighExposureStrategy(forecasts *forecast.Set, months []string) *models.Strategy {
	return o.buildStrategy(StrategyHighExposure, months, func(month string) *models.CargoValuationResult {
		best := o.valuator.ValueCancellation(month)
		for _, buyer := range o.cfg.Buyers {
			if buyer.Destination != models.DestinationJapan && buyer.Destination != models.DestinationChina {
				continue
			}
			result := o.bestVolumeFor(forecasts, month, buyer)
			if result != nil && result.ExpectedPnL > best.ExpectedPnL {
				best = result
			}
		}
		return best
	})
}

// GenerateAll produces the optimal strategy plus the comparison baselines
func (o *Optimizer) GenerateAll(forecasts *forecast.Set, months []string) []*models.Strategy {
	return []*models.Strategy{
		o.GenerateOptimalStrategy(forecasts, months),
		o.GenerateConservativeStrategy(forecasts, months),
		o.GenerateHighExposureStrategy(forecasts, months),
	}
}

func (o *Optimizer) buildStrategy(name string, months []string, pick func(month string) *models.CargoValuationResult) *models.Strategy {
	strategy := &models.Strategy{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	for _, month := range models.SortMonths(append([]string(nil), months...)) {
		result := pick(month)
		decision := models.CargoDecision{
			Month:     month,
			Valuation: result,
		}
		if result.Cancelled {
			decision.Kind = models.DecisionCancel
		} else {
			decision.Kind = models.DecisionShip
			decision.Destination = result.Destination
			decision.Buyer = result.Buyer
			decision.Volume = result.Volume
		}
		strategy.Decisions = append(strategy.Decisions, decision)
		strategy.TotalExpectedPnL += result.ExpectedPnL
	}

	o.log.Infof("strategy %s: total expected P&L %.0f over %d months", name, strategy.TotalExpectedPnL, len(strategy.Decisions))
	return strategy
}

// ratingOrder ranks credit ratings from strongest to weakest
var ratingOrder = []models.CreditRating{models.RatingAA, models.RatingA, models.RatingBBB, models.RatingBB}

func (o *Optimizer) bestAvailableRating() models.CreditRating {
	present := make(map[models.CreditRating]bool, len(o.cfg.Buyers))
	for _, b := range o.cfg.Buyers {
		present[b.CreditRating] = true
	}
	for _, r := range ratingOrder {
		if present[r] {
			return r
		}
	}
	return models.RatingBB
}
