// Package options prices optional-cargo candidates and decides which to
// exercise under a four-level hierarchy: financial hurdle, demand check,
// global portfolio cap, and a strict risk check. Candidates are evaluated
// for every destination/buyer combination in every eligible month, then
// ranked and capped globally, because the contract permits multiple
// optional cargoes in the same month.
package options

import (
	"fmt"
	"math"
	"sort"

	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/internal/risk"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Analyzer values and ranks embedded optional cargoes
type Analyzer struct {
	cfg      refdata.Config
	adjuster *risk.Adjuster
	log      *logger.Logger
}

// NewAnalyzer creates an embedded-option analyzer
func NewAnalyzer(cfg refdata.Config) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		adjuster: risk.NewAdjuster(cfg),
		log:      logger.GetLogger("options"),
	}
}

// AnalyzeAll evaluates every destination/buyer combination for every
// delivery month, applies the exercise hierarchy, and returns all
// candidates sorted descending by risk-adjusted value with exercise flags
// set on at most MaxOptions of them.
func (a *Analyzer) AnalyzeAll(forecasts *forecast.Set, vols forecast.Volatilities, months []string) ([]models.OptionCandidate, error) {
	candidates := make([]models.OptionCandidate, 0, len(months)*len(a.cfg.Buyers))

	for _, month := range months {
		for _, buyer := range a.cfg.Buyers {
			candidate, err := a.evaluate(forecasts, vols, month, buyer)
			if err != nil {
				a.log.Warnf("skipping option candidate %s/%s for %s: %v", buyer.Destination, buyer.Name, month, err)
				continue
			}
			candidates = append(candidates, candidate)
		}
	}

	a.applyHierarchy(candidates)

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RiskAdjustedValue > candidates[j].RiskAdjustedValue
	})
	return candidates, nil
}

// evaluate prices one candidate: intrinsic value from the same cost and
// revenue formulas the cargo valuation uses, time value from Black-Scholes.
func (a *Analyzer) evaluate(forecasts *forecast.Set, vols forecast.Volatilities, month string, buyer models.Buyer) (models.OptionCandidate, error) {
	opt := a.cfg.Options
	decisionMonth := models.AddMonths(month, -opt.DecisionLeadMonths)

	destSpec, err := a.cfg.Destination(buyer.Destination)
	if err != nil {
		return models.OptionCandidate{}, err
	}

	// strike: Henry Hub at the decision date plus the tolling fee
	hhAtDecision, _, err := forecasts.Lookup(models.CommodityHenryHub, decisionMonth)
	if err != nil {
		return models.OptionCandidate{}, err
	}
	strike := hhAtDecision + a.cfg.Cargo.TollingFee

	prices, _, err := forecasts.PriceSet(month)
	if err != nil {
		return models.OptionCandidate{}, err
	}

	// expected sale price per MMBtu, same destination formulas as pricing
	var salePrice float64
	if buyer.Destination == models.DestinationSingapore {
		salePrice = prices.Brent*a.cfg.Costs.BrentToLNG + buyer.Premium + destSpec.TerminalTariff
	} else {
		salePrice = prices.JKMNext + buyer.Premium + destSpec.BerthingCost
	}

	// per-unit freight and boil-off drag on the exercise payoff
	boilOffFraction := a.cfg.Costs.BoilOffPerDay * destSpec.VoyageDays
	freightPerUnit := a.freightPerUnit(destSpec, prices.FreightRate, strike, salePrice)
	carryCost := freightPerUnit + salePrice*boilOffFraction

	intrinsic := salePrice - strike - carryCost
	if intrinsic < 0 {
		intrinsic = 0
	}

	// time value: Black-Scholes call on the JKM forecast, falling back to
	// 10% of intrinsic when any input is non-positive
	sigma := (vols[models.CommodityHenryHub] + vols[models.CommodityJKM]) / 2
	jkmForecast, _, err := forecasts.Lookup(models.CommodityJKM, month)
	if err != nil {
		return models.OptionCandidate{}, err
	}
	timeValue, fallback := 0.0, false
	if tv, err := callPrice(jkmForecast, strike, opt.RiskFreeRate, opt.TimeToDeliveryYears, sigma); err == nil {
		timeValue = tv
	} else {
		a.log.Warnf("Black-Scholes fallback for %s/%s %s: %v", buyer.Destination, buyer.Name, month, err)
		timeValue = 0.1 * intrinsic
		fallback = true
	}

	demandProb, err := a.adjuster.DemandProbability(buyer.Destination, buyer.CreditRating, models.CalendarMonth(month))
	if err != nil {
		return models.OptionCandidate{}, err
	}

	totalValue := intrinsic + timeValue
	workingCapital := strike * a.cfg.Costs.WorkingCapitalAnnual * opt.TimeToDeliveryYears
	riskAdjusted := totalValue*demandProb - workingCapital

	return models.OptionCandidate{
		DeliveryMonth:     month,
		DecisionMonth:     decisionMonth,
		Destination:       buyer.Destination,
		Buyer:             buyer.Name,
		IntrinsicValue:    intrinsic,
		TimeValue:         timeValue,
		TotalValue:        totalValue,
		DemandProbability: demandProb,
		RiskAdjustedValue: riskAdjusted,
		TimeValueFallback: fallback,
	}, nil
}

// freightPerUnit approximates the per-MMBtu freight drag at base volume
// using the same seven components as cargo costing
func (a *Analyzer) freightPerUnit(spec refdata.DestinationSpec, freightRate, strike, salePrice float64) float64 {
	volume := a.cfg.Cargo.BaseVolume
	base := freightRate * spec.VoyageDays * spec.RouteScaling
	total := base +
		a.cfg.Costs.InsurancePerVoyage +
		base*a.cfg.Costs.BrokeragePct +
		strike*volume*a.cfg.Costs.WorkingCapitalAnnual*spec.VoyageDays/365 +
		spec.CarbonPerDay*spec.VoyageDays +
		a.cfg.Costs.DemurrageExpected +
		math.Max(salePrice*volume*a.cfg.Costs.LCRate, a.cfg.Costs.LCMinimum)
	return total / volume
}

// applyHierarchy runs the four exercise gates. Levels 1 and 2 are decided
// per candidate; level 3 ranks the survivors globally and keeps the top
// MaxOptions; level 4 requires a strictly positive risk-adjusted value.
// The order of checks shapes the reasoning text, not final admission.
func (a *Analyzer) applyHierarchy(candidates []models.OptionCandidate) {
	opt := a.cfg.Options

	eligible := make([]int, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if c.TotalValue < opt.MinValuePerMMBtu {
			c.Reasoning = fmt.Sprintf("option value $%.2f/MMBtu below $%.2f hurdle", c.TotalValue, opt.MinValuePerMMBtu)
			continue
		}
		if c.DemandProbability < opt.MinDemandProb {
			c.Reasoning = fmt.Sprintf("demand probability %.2f below %.2f threshold", c.DemandProbability, opt.MinDemandProb)
			continue
		}
		eligible = append(eligible, i)
	}

	// global sort-and-truncate across all months
	sort.SliceStable(eligible, func(x, y int) bool {
		return candidates[eligible[x]].RiskAdjustedValue > candidates[eligible[y]].RiskAdjustedValue
	})

	exercised := 0
	for rank, idx := range eligible {
		c := &candidates[idx]
		if rank >= opt.MaxOptions {
			c.Reasoning = fmt.Sprintf("below cap: ranked %d of %d permitted options", rank+1, opt.MaxOptions)
			continue
		}
		if c.RiskAdjustedValue <= 0 {
			c.Reasoning = fmt.Sprintf("risk-adjusted value $%.2f/MMBtu not positive", c.RiskAdjustedValue)
			continue
		}
		c.Exercise = true
		c.Reasoning = fmt.Sprintf("exercised: risk-adjusted value $%.2f/MMBtu, demand probability %.2f", c.RiskAdjustedValue, c.DemandProbability)
		exercised++
	}

	a.log.Infof("option analysis: %d candidates, %d exercised (cap %d)", len(candidates), exercised, opt.MaxOptions)
}
