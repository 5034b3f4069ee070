package montecarlo

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/pkg/models"
)

// monthsPerYear converts annualized volatility to a monthly step
const monthsPerYear = 12

// generatePaths builds correlated zero-drift GBM price paths for every
// commodity. Paths are anchored at the first month's forecast value; drift
// is deliberately zero, so the expected path value is the month-1 forecast
// compounded with a variance correction, not the full forward curve.
//
// One extra trailing month is generated beyond the delivery horizon so the
// M+1 JKM index can be read in the final delivery month.
//
// Returns corrOK=false when the correlation matrix was not positive-definite
// and the engine fell back to independence.
func (e *Engine) generatePaths(
	forecasts *forecast.Set,
	vols forecast.Volatilities,
	corr forecast.Correlation,
	months []string,
	sims int,
) (map[models.Commodity]*models.PricePath, bool, error) {
	order := corr.Order
	if len(order) == 0 {
		order = models.Commodities
	}
	n := len(order)

	lower, corrOK := e.factorize(corr, n)

	// path months: delivery horizon plus one trailing month for M+1 pricing
	pathMonths := append(append([]string(nil), months...), models.NextMonth(months[len(months)-1]))
	steps := len(pathMonths)

	// anchor every commodity at its first-month forecast, carried forward
	// if the exact month is missing
	starts := make([]float64, n)
	for i, commodity := range order {
		v, _, err := forecasts.Lookup(commodity, months[0])
		if err != nil {
			return nil, corrOK, err
		}
		starts[i] = v
	}

	monthlyVols := make([]float64, n)
	for i, commodity := range order {
		monthlyVols[i] = vols[commodity] / math.Sqrt(monthsPerYear)
	}

	src := rand.NewPCG(uint64(e.config.Seed), 0)
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	paths := make(map[models.Commodity]*models.PricePath, n)
	for i, commodity := range order {
		values := make([][]float64, steps)
		for m := range values {
			values[m] = make([]float64, sims)
		}
		for s := 0; s < sims; s++ {
			values[0][s] = starts[i]
		}
		paths[commodity] = &models.PricePath{Commodity: commodity, Months: pathMonths, Values: values}
	}

	// one correlated draw per (simulation, month step)
	raw := make([]float64, n)
	shocks := mat.NewVecDense(n, nil)
	for s := 0; s < sims; s++ {
		for m := 1; m < steps; m++ {
			for i := range raw {
				raw[i] = normal.Rand()
			}
			shocks.MulVec(lower, mat.NewVecDense(n, raw))
			for i, commodity := range order {
				sigma := monthlyVols[i]
				prev := paths[commodity].Values[m-1][s]
				step := math.Exp(-0.5*sigma*sigma + sigma*shocks.AtVec(i))
				paths[commodity].Values[m][s] = prev * step
			}
		}
	}

	return paths, corrOK, nil
}

// factorize returns the lower Cholesky factor of the correlation matrix, or
// the identity when the matrix is not positive-definite. The degradation is
// logged and computation proceeds under independence.
func (e *Engine) factorize(corr forecast.Correlation, n int) (*mat.TriDense, bool) {
	identity := func() *mat.TriDense {
		l := mat.NewTriDense(n, mat.Lower, nil)
		for i := 0; i < n; i++ {
			l.SetTri(i, i, 1)
		}
		return l
	}

	if len(corr.Matrix) != n {
		e.log.Warnf("correlation matrix size %d does not match %d commodities, assuming independence", len(corr.Matrix), n)
		return identity(), false
	}

	data := make([]float64, 0, n*n)
	for _, row := range corr.Matrix {
		if len(row) != n {
			e.log.Warn("ragged correlation matrix, assuming independence")
			return identity(), false
		}
		data = append(data, row...)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(mat.NewSymDense(n, data)); !ok {
		e.log.Warn("correlation matrix not positive-definite, falling back to independent paths")
		return identity(), false
	}

	var lower mat.TriDense
	chol.LTo(&lower)
	return &lower, true
}
