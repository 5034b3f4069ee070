package montecarlo

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/lngflow/cargo-engine/pkg/models"
)

// RiskMetrics summarizes a simulated P&L distribution. VaR and CVaR are
// empirical: VaR is the percentile of the distribution, CVaR the mean of
// all outcomes at or below that threshold.
func (e *Engine) RiskMetrics(pnls []float64) *models.RiskMetrics {
	m := &models.RiskMetrics{
		Timestamp:   time.Now(),
		Simulations: len(pnls),
		Percentiles: make(map[int]float64),
	}
	if len(pnls) == 0 {
		return m
	}

	data := stats.Float64Data(pnls)
	m.Mean, _ = stats.Mean(data)
	m.StdDev, _ = stats.StandardDeviation(data)

	m.VaR5, _ = stats.Percentile(data, 5)
	m.VaR1, _ = stats.Percentile(data, 1)
	m.CVaR5 = tailMean(pnls, m.VaR5)
	m.CVaR1 = tailMean(pnls, m.VaR1)

	profitable := 0
	for _, p := range pnls {
		if p > 0 {
			profitable++
		}
	}
	m.ProbProfit = float64(profitable) / float64(len(pnls))

	for decile := 10; decile <= 90; decile += 10 {
		m.Percentiles[decile], _ = stats.Percentile(data, float64(decile))
	}

	if m.StdDev > 0 {
		m.Sharpe = m.Mean / m.StdDev
	}
	return m
}

// tailMean averages every outcome at or below the threshold
func tailMean(pnls []float64, threshold float64) float64 {
	sorted := make([]float64, len(pnls))
	copy(sorted, pnls)
	sort.Float64s(sorted)

	sum, count := 0.0, 0
	for _, p := range sorted {
		if p > threshold {
			break
		}
		sum += p
		count++
	}
	if count == 0 {
		return threshold
	}
	return sum / float64(count)
}
