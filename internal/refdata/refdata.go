// Package refdata holds the static reference data the valuation engine is
// configured with: destinations, buyers, credit ratings, demand seasonality,
// and cost-component rates. A Config is built once at startup, validated,
// and passed by value into each component; nothing mutates it afterwards.
// Sensitivity and scenario analyses build derived copies instead of patching
// shared state.
package refdata

import (
	"time"

	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
)

// CargoSpec describes the physical cargo and its contractual flexibility
type CargoSpec struct {
	BaseVolume      float64 // MMBtu
	VolumeTolerance float64 // fractional band around base, e.g. 0.10
	TollingFee      float64 // $/MMBtu, owed ship-or-cancel
}

// MinVolume returns the lower bound of the contractual volume band
func (c CargoSpec) MinVolume() float64 { return c.BaseVolume * (1 - c.VolumeTolerance) }

// MaxVolume returns the upper bound of the contractual volume band
func (c CargoSpec) MaxVolume() float64 { return c.BaseVolume * (1 + c.VolumeTolerance) }

// DestinationSpec describes one discharge market
type DestinationSpec struct {
	VoyageDays          float64
	RouteScaling        float64 // multiplier on base freight for the route
	CarbonPerDay        float64 // $/day
	BerthingCost        float64 // $/MMBtu, JKM-linked markets
	TerminalTariff      float64 // $/MMBtu, Brent-linked markets
	DeferredPaymentDays int     // 0 means immediate settlement
}

// RatingSpec maps a credit rating to default risk and demand appetite
type RatingSpec struct {
	DefaultProbability float64
	RecoveryRate       float64
	DemandMultiplier   float64 // scales the destination demand fraction
}

// CostRates holds the non-freight cost-component rates
type CostRates struct {
	InsurancePerVoyage   float64 // $ fixed
	BrokeragePct         float64 // fraction of base freight
	WorkingCapitalAnnual float64 // annual carry rate on purchase cost
	DemurrageExpected    float64 // $ expected per voyage
	LCRate               float64 // fraction of sale value
	LCMinimum            float64 // $ floor
	StorageCost          float64 // $/MMBtu penalty when a cargo goes unsold
	BoilOffPerDay        float64 // fractional volume loss per voyage day
	BrentToLNG           float64 // Brent $/bbl to LNG $/MMBtu slope
	MonthlyDiscountRate  float64 // time value of deferred receivables
}

// HedgeSpec configures the purchase-cost futures hedge
type HedgeSpec struct {
	ContractSize float64 // MMBtu per futures contract
	HedgeRatio   float64 // fraction of volume hedged
}

// OptionSpec configures embedded-option valuation and exercise
type OptionSpec struct {
	RiskFreeRate        float64
	TimeToDeliveryYears float64 // decision-to-delivery horizon for Black-Scholes
	MinValuePerMMBtu    float64 // financial hurdle, $/MMBtu
	MinDemandProb       float64 // demand check threshold
	MaxOptions          int     // global portfolio cap
	DecisionLeadMonths  int     // nomination deadline, months before delivery
}

// Config is the complete immutable reference configuration
type Config struct {
	Cargo             CargoSpec
	Destinations      map[models.Destination]DestinationSpec
	Buyers            []models.Buyer
	Ratings           map[models.CreditRating]RatingSpec
	DemandFractions   map[models.Destination]map[time.Month]float64
	Costs             CostRates
	Hedge             HedgeSpec
	Options           OptionSpec
	VolumeFlexibility bool
}

// Default returns the engine's standard reference configuration
func Default() Config {
	return Config{
		Cargo: CargoSpec{
			BaseVolume:      3_800_000,
			VolumeTolerance: 0.10,
			TollingFee:      2.50,
		},
		Destinations: map[models.Destination]DestinationSpec{
			models.DestinationSingapore: {
				VoyageDays:     18,
				RouteScaling:   1.00,
				CarbonPerDay:   2500,
				TerminalTariff: 0.75,
			},
			models.DestinationJapan: {
				VoyageDays:          22,
				RouteScaling:        1.15,
				CarbonPerDay:        3000,
				BerthingCost:        0.45,
				DeferredPaymentDays: 30,
			},
			models.DestinationChina: {
				VoyageDays:          21,
				RouteScaling:        1.10,
				CarbonPerDay:        2800,
				BerthingCost:        0.45,
				DeferredPaymentDays: 30,
			},
		},
		Buyers: []models.Buyer{
			{Name: "Pavilion Energy", Destination: models.DestinationSingapore, CreditRating: models.RatingAA, Premium: 0.00},
			{Name: "Sembcorp Gas", Destination: models.DestinationSingapore, CreditRating: models.RatingA, Premium: 0.15},
			{Name: "JERA", Destination: models.DestinationJapan, CreditRating: models.RatingAA, Premium: 0.10, DeferredPaymentDays: 30},
			{Name: "Tokyo Gas", Destination: models.DestinationJapan, CreditRating: models.RatingA, Premium: 0.20, DeferredPaymentDays: 30},
			{Name: "CNOOC", Destination: models.DestinationChina, CreditRating: models.RatingA, Premium: 0.05, DeferredPaymentDays: 30},
			{Name: "ENN Natural Gas", Destination: models.DestinationChina, CreditRating: models.RatingBBB, Premium: 0.30, DeferredPaymentDays: 30},
			{Name: "Guangzhou Gas", Destination: models.DestinationChina, CreditRating: models.RatingBB, Premium: 0.45, DeferredPaymentDays: 30},
		},
		Ratings: map[models.CreditRating]RatingSpec{
			models.RatingAA:  {DefaultProbability: 0.001, RecoveryRate: 0.95, DemandMultiplier: 1.3},
			models.RatingA:   {DefaultProbability: 0.003, RecoveryRate: 0.90, DemandMultiplier: 1.15},
			models.RatingBBB: {DefaultProbability: 0.010, RecoveryRate: 0.80, DemandMultiplier: 1.0},
			models.RatingBB:  {DefaultProbability: 0.030, RecoveryRate: 0.60, DemandMultiplier: 0.7},
		},
		DemandFractions: defaultDemandFractions(),
		Costs: CostRates{
			InsurancePerVoyage:   80_000,
			BrokeragePct:         0.0125,
			WorkingCapitalAnnual: 0.06,
			DemurrageExpected:    120_000,
			LCRate:               0.015,
			LCMinimum:            50_000,
			StorageCost:          0.50,
			BoilOffPerDay:        0.0015,
			BrentToLNG:           0.13,
			MonthlyDiscountRate:  0.005,
		},
		Hedge: HedgeSpec{
			ContractSize: 10_000,
			HedgeRatio:   1.0,
		},
		Options: OptionSpec{
			RiskFreeRate:        0.04,
			TimeToDeliveryYears: 0.25,
			MinValuePerMMBtu:    0.75,
			MinDemandProb:       0.50,
			MaxOptions:          5,
			DecisionLeadMonths:  2,
		},
		VolumeFlexibility: true,
	}
}

// defaultDemandFractions encodes seasonal demand by destination. Northeast
// Asian demand peaks in winter; Singapore is flatter year-round.
func defaultDemandFractions() map[models.Destination]map[time.Month]float64 {
	seasonal := func(winter, shoulder, summer float64) map[time.Month]float64 {
		return map[time.Month]float64{
			time.January: winter, time.February: winter, time.March: shoulder,
			time.April: shoulder, time.May: summer, time.June: summer,
			time.July: summer, time.August: summer, time.September: shoulder,
			time.October: shoulder, time.November: winter, time.December: winter,
		}
	}
	return map[models.Destination]map[time.Month]float64{
		models.DestinationSingapore: seasonal(0.80, 0.78, 0.75),
		models.DestinationJapan:     seasonal(0.90, 0.70, 0.55),
		models.DestinationChina:     seasonal(0.85, 0.65, 0.50),
	}
}

// Validate checks the configuration for internal consistency. A failure is
// fatal: it is a defect in reference data, not a runtime condition.
func (c Config) Validate() error {
	if c.Cargo.BaseVolume <= 0 {
		return errors.Configuration("cargo base volume must be positive")
	}
	if c.Cargo.VolumeTolerance < 0 || c.Cargo.VolumeTolerance >= 1 {
		return errors.Configurationf("volume tolerance %.2f outside [0,1)", c.Cargo.VolumeTolerance)
	}
	if len(c.Destinations) == 0 {
		return errors.Configuration("no destinations configured")
	}
	for dest, spec := range c.Destinations {
		if spec.VoyageDays <= 0 {
			return errors.Configurationf("destination %s has non-positive voyage days", dest)
		}
		if spec.RouteScaling <= 0 {
			return errors.Configurationf("destination %s has non-positive route scaling", dest)
		}
		if _, ok := c.DemandFractions[dest]; !ok {
			return errors.Configurationf("destination %s has no demand fractions", dest)
		}
	}
	if len(c.Buyers) == 0 {
		return errors.Configuration("no buyers configured")
	}
	for _, b := range c.Buyers {
		if _, ok := c.Destinations[b.Destination]; !ok {
			return errors.Configurationf("buyer %s references unknown destination %s", b.Name, b.Destination)
		}
		if _, ok := c.Ratings[b.CreditRating]; !ok {
			return errors.Configurationf("buyer %s references unknown rating %s", b.Name, b.CreditRating)
		}
	}
	for rating, spec := range c.Ratings {
		if spec.DefaultProbability < 0 || spec.DefaultProbability > 1 {
			return errors.Configurationf("rating %s default probability outside [0,1]", rating)
		}
		if spec.RecoveryRate < 0 || spec.RecoveryRate > 1 {
			return errors.Configurationf("rating %s recovery rate outside [0,1]", rating)
		}
	}
	if c.Hedge.ContractSize <= 0 {
		return errors.Configuration("hedge contract size must be positive")
	}
	if c.Options.MaxOptions < 0 {
		return errors.Configuration("max exercisable options must be non-negative")
	}
	return nil
}

// Destination returns the spec for a destination or a configuration error
func (c Config) Destination(dest models.Destination) (DestinationSpec, error) {
	spec, ok := c.Destinations[dest]
	if !ok {
		return DestinationSpec{}, errors.Configurationf("unknown destination %s", dest)
	}
	return spec, nil
}

// Rating returns the spec for a credit rating or a configuration error
func (c Config) Rating(rating models.CreditRating) (RatingSpec, error) {
	spec, ok := c.Ratings[rating]
	if !ok {
		return RatingSpec{}, errors.Configurationf("unknown credit rating %s", rating)
	}
	return spec, nil
}

// BuyerByName returns a buyer by name or a configuration error
func (c Config) BuyerByName(name string) (models.Buyer, error) {
	for _, b := range c.Buyers {
		if b.Name == name {
			return b, nil
		}
	}
	return models.Buyer{}, errors.Configurationf("unknown buyer %s", name)
}

// BuyersFor returns every buyer delivering into a destination
func (c Config) BuyersFor(dest models.Destination) []models.Buyer {
	var out []models.Buyer
	for _, b := range c.Buyers {
		if b.Destination == dest {
			out = append(out, b)
		}
	}
	return out
}

// DemandFraction returns the base monthly demand fraction for a destination
func (c Config) DemandFraction(dest models.Destination, month time.Month) (float64, error) {
	byMonth, ok := c.DemandFractions[dest]
	if !ok {
		return 0, errors.Configurationf("no demand fractions for destination %s", dest)
	}
	frac, ok := byMonth[month]
	if !ok {
		return 0, errors.Configurationf("no demand fraction for %s in %s", dest, month)
	}
	return frac, nil
}

// VolumeCandidates returns the candidate volumes the optimizer evaluates.
// With flexibility disabled only the base volume is considered.
func (c Config) VolumeCandidates() []float64 {
	if !c.VolumeFlexibility {
		return []float64{c.Cargo.BaseVolume}
	}
	return []float64{c.Cargo.MinVolume(), c.Cargo.BaseVolume, c.Cargo.MaxVolume()}
}

// WithCosts returns a copy of the configuration with replaced cost rates.
// Sensitivity analysis derives per-scenario configs this way instead of
// mutating shared state.
func (c Config) WithCosts(costs CostRates) Config {
	out := c
	out.Costs = costs
	return out
}
