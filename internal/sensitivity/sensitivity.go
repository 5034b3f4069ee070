// Package sensitivity batch-drives the strategy optimizer under price
// perturbations to produce tornado, break-even, and robustness diagnostics.
package sensitivity

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/optimizer"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Analyzer perturbs forecasts and re-optimizes
type Analyzer struct {
	optimizer *optimizer.Optimizer
	log       *logger.Logger
}

// NewAnalyzer creates a sensitivity analyzer
func NewAnalyzer(opt *optimizer.Optimizer) *Analyzer {
	return &Analyzer{
		optimizer: opt,
		log:       logger.GetLogger("sensitivity"),
	}
}

// Tornado perturbs each commodity by ±shock in turn, re-optimizes, and
// returns the factors sorted by P&L swing, widest first.
func (a *Analyzer) Tornado(forecasts *forecast.Set, months []string, shock float64) []models.SensitivityFactor {
	base := a.optimizer.GenerateOptimalStrategy(forecasts, months).TotalExpectedPnL

	factors := make([]models.SensitivityFactor, 0, len(models.Commodities))
	for _, commodity := range models.Commodities {
		low := a.totalAt(forecasts, months, commodity, 1-shock)
		high := a.totalAt(forecasts, months, commodity, 1+shock)
		factors = append(factors, models.SensitivityFactor{
			Factor: string(commodity),
			Low:    low,
			High:   high,
			Base:   base,
			Swing:  math.Abs(high - low),
		})
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return factors[i].Swing > factors[j].Swing
	})
	return factors
}

// BreakEven bisects the multiplier on one commodity until the optimal
// strategy's total P&L crosses zero. Not every commodity has a zero
// crossing in the searched band; Converged reports whether one was found.
func (a *Analyzer) BreakEven(forecasts *forecast.Set, months []string, commodity models.Commodity) models.BreakEvenResult {
	const (
		loBound    = 0.1
		hiBound    = 3.0
		iterations = 40
		tolerance  = 1.0 // dollars
	)

	lo, hi := loBound, hiBound
	fLo := a.totalAt(forecasts, months, commodity, lo)
	fHi := a.totalAt(forecasts, months, commodity, hi)
	if fLo*fHi > 0 {
		return models.BreakEvenResult{Commodity: commodity, Converged: false}
	}

	mid := lo
	for i := 0; i < iterations; i++ {
		mid = (lo + hi) / 2
		fMid := a.totalAt(forecasts, months, commodity, mid)
		if math.Abs(fMid) < tolerance {
			break
		}
		if fLo*fMid <= 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}

	a.log.Infof("break-even for %s at multiplier %.4f", commodity, mid)
	return models.BreakEvenResult{Commodity: commodity, Multiplier: mid, Converged: true}
}

// Robustness draws random joint perturbations of all commodities and
// measures how often each month's optimal decision survives unchanged.
func (a *Analyzer) Robustness(forecasts *forecast.Set, months []string, perturbations int, shock float64, seed int64) models.RobustnessResult {
	base := a.optimizer.GenerateOptimalStrategy(forecasts, months)
	baseKeys := decisionKeys(base)

	rng := rand.New(rand.NewPCG(uint64(seed), 0))
	unstable := make(map[string]bool)

	for p := 0; p < perturbations; p++ {
		mults := make(map[models.Commodity]float64, len(models.Commodities))
		for _, commodity := range models.Commodities {
			mults[commodity] = 1 - shock + 2*shock*rng.Float64()
		}
		perturbed := forecasts.Transform(func(c models.Commodity, _ string, v float64) float64 {
			return v * mults[c]
		})

		strategy := a.optimizer.GenerateOptimalStrategy(perturbed, months)
		for month, key := range decisionKeys(strategy) {
			if key != baseKeys[month] {
				unstable[month] = true
			}
		}
	}

	stable := 0
	var unstableMonths []string
	for _, month := range months {
		if unstable[month] {
			unstableMonths = append(unstableMonths, month)
		} else {
			stable++
		}
	}

	result := models.RobustnessResult{
		Perturbations:  perturbations,
		StableFraction: float64(stable) / float64(len(months)),
		UnstableMonths: models.SortMonths(unstableMonths),
	}
	a.log.Infof("robustness: %.0f%% of months stable over %d perturbations", result.StableFraction*100, perturbations)
	return result
}

// totalAt re-optimizes with one commodity scaled by mult
func (a *Analyzer) totalAt(forecasts *forecast.Set, months []string, commodity models.Commodity, mult float64) float64 {
	scaled := forecasts.Transform(func(c models.Commodity, _ string, v float64) float64 {
		if c == commodity {
			return v * mult
		}
		return v
	})
	return a.optimizer.GenerateOptimalStrategy(scaled, months).TotalExpectedPnL
}

// decisionKeys flattens a strategy into comparable per-month decision keys
func decisionKeys(s *models.Strategy) map[string]string {
	keys := make(map[string]string, len(s.Decisions))
	for _, d := range s.Decisions {
		if d.Kind == models.DecisionCancel {
			keys[d.Month] = "cancel"
		} else {
			keys[d.Month] = string(d.Destination) + "/" + d.Buyer
		}
	}
	return keys
}
