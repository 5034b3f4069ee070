// Package forecast exposes the price-forecast surface the valuation engine
// consumes. Forecast fitting itself happens upstream; this package only
// holds fitted curves and answers month lookups, carrying the nearest
// earlier value forward when a month is missing.
package forecast

import (
	"sort"

	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Curve is a month-labelled forecast for one commodity
type Curve map[string]float64

// Set is an immutable collection of forecast curves, one per commodity.
// Derive shocked variants with Transform; never mutate a Set in place.
type Set struct {
	curves   map[models.Commodity]Curve
	observer func(models.Commodity) // notified on carried-forward lookups
	log      *logger.Logger
}

// NewSet builds a forecast set from per-commodity curves
func NewSet(curves map[models.Commodity]Curve) *Set {
	copied := make(map[models.Commodity]Curve, len(curves))
	for commodity, curve := range curves {
		c := make(Curve, len(curve))
		for month, price := range curve {
			c[month] = price
		}
		copied[commodity] = c
	}
	return &Set{
		curves: copied,
		log:    logger.GetLogger("forecast"),
	}
}

// SetDegradedObserver installs a callback invoked whenever a lookup carries
// an earlier value forward, so degradations can be counted in metrics
func (s *Set) SetDegradedObserver(fn func(models.Commodity)) {
	s.observer = fn
}

// Months returns the sorted month labels covered by a commodity's curve
func (s *Set) Months(commodity models.Commodity) []string {
	curve := s.curves[commodity]
	labels := make([]string, 0, len(curve))
	for month := range curve {
		labels = append(labels, month)
	}
	return models.SortMonths(labels)
}

// Lookup returns the forecast for a commodity and month. When the exact
// month is absent the nearest earlier value is carried forward (or the
// first available value when nothing earlier exists); degraded reports
// that a fallback happened so callers can flag it in output metadata.
func (s *Set) Lookup(commodity models.Commodity, month string) (value float64, degraded bool, err error) {
	curve, ok := s.curves[commodity]
	if !ok || len(curve) == 0 {
		return 0, false, errors.MissingForecast("no forecast curve for " + string(commodity))
	}
	if v, ok := curve[month]; ok {
		return v, false, nil
	}

	labels := s.Months(commodity)
	// nearest earlier month; labels sort chronologically
	idx := sort.SearchStrings(labels, month)
	var fallback string
	if idx > 0 {
		fallback = labels[idx-1]
	} else {
		fallback = labels[0]
	}
	s.log.Warnf("forecast missing for %s %s, carrying forward value from %s", commodity, month, fallback)
	if s.observer != nil {
		s.observer(commodity)
	}
	return curve[fallback], true, nil
}

// PriceSet assembles the full price snapshot for a delivery month,
// including the M+1 JKM index. Degraded is set when any component was
// carried forward.
func (s *Set) PriceSet(month string) (models.PriceSet, bool, error) {
	var ps models.PriceSet
	var anyDegraded bool

	read := func(c models.Commodity, m string) (float64, error) {
		v, degraded, err := s.Lookup(c, m)
		if degraded {
			anyDegraded = true
		}
		return v, err
	}

	var err error
	if ps.HenryHub, err = read(models.CommodityHenryHub, month); err != nil {
		return models.PriceSet{}, false, err
	}
	if ps.JKMCurrent, err = read(models.CommodityJKM, month); err != nil {
		return models.PriceSet{}, false, err
	}
	if ps.JKMNext, err = read(models.CommodityJKM, models.NextMonth(month)); err != nil {
		return models.PriceSet{}, false, err
	}
	if ps.Brent, err = read(models.CommodityBrent, month); err != nil {
		return models.PriceSet{}, false, err
	}
	if ps.FreightRate, err = read(models.CommodityFreight, month); err != nil {
		return models.PriceSet{}, false, err
	}
	return ps, anyDegraded, nil
}

// Transform returns a new Set with every point mapped through fn. The
// degraded-lookup observer carries over to the derived set.
func (s *Set) Transform(fn func(commodity models.Commodity, month string, value float64) float64) *Set {
	out := make(map[models.Commodity]Curve, len(s.curves))
	for commodity, curve := range s.curves {
		c := make(Curve, len(curve))
		for month, price := range curve {
			c[month] = fn(commodity, month, price)
		}
		out[commodity] = c
	}
	derived := NewSet(out)
	derived.observer = s.observer
	return derived
}

// Volatilities holds annualized volatility per commodity
type Volatilities map[models.Commodity]float64

// Correlation is a commodity correlation matrix in the order of
// models.Commodities. It is not required to be positive-definite; the
// Monte Carlo engine degrades to independence when it is not.
type Correlation struct {
	Order  []models.Commodity
	Matrix [][]float64
}

// Identity returns an independence correlation matrix over the given order
func Identity(order []models.Commodity) Correlation {
	n := len(order)
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return Correlation{Order: order, Matrix: m}
}
