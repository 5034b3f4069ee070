// Package pricing implements the deterministic cargo economics: purchase
// cost at the liquefaction plant, destination sale revenue, and the
// seven-component freight cost. All functions are pure given the injected
// reference configuration.
package pricing

import (
	"math"

	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Model computes purchase, sale, and freight economics for one cargo
type Model struct {
	cfg refdata.Config
	log *logger.Logger
}

// NewModel creates a pricing model
func NewModel(cfg refdata.Config) *Model {
	return &Model{
		cfg: cfg,
		log: logger.GetLogger("pricing"),
	}
}

// PurchaseCost returns the FOB purchase cost: Henry Hub plus the tolling
// fee, per MMBtu loaded
func (m *Model) PurchaseCost(hhPrice, volume float64) (float64, error) {
	if volume <= 0 {
		return 0, errors.InvalidInputf("cannot price cargo with non-positive volume %.0f", volume)
	}
	if hhPrice < 0 {
		return 0, errors.InvalidInputf("negative Henry Hub price %.2f", hhPrice)
	}
	return (hhPrice + m.cfg.Cargo.TollingFee) * volume, nil
}

// SaleRevenue returns the gross sale revenue at a destination for a buyer.
// Singapore prices against Brent; Japan and China settle against the M+1
// JKM index per market convention. Delivered volume is reduced by boil-off
// over the voyage.
func (m *Model) SaleRevenue(dest models.Destination, buyer models.Buyer, prices models.PriceSet, volume float64) (models.RevenueBreakdown, error) {
	if volume <= 0 {
		return models.RevenueBreakdown{}, errors.InvalidInputf("cannot price cargo with non-positive volume %.0f", volume)
	}
	spec, err := m.cfg.Destination(dest)
	if err != nil {
		return models.RevenueBreakdown{}, err
	}

	var pricePerMMBtu float64
	if dest == models.DestinationSingapore {
		pricePerMMBtu = prices.Brent*m.cfg.Costs.BrentToLNG + buyer.Premium + spec.TerminalTariff
	} else {
		pricePerMMBtu = prices.JKMNext + buyer.Premium + spec.BerthingCost
	}

	boilOffFraction := m.cfg.Costs.BoilOffPerDay * spec.VoyageDays
	delivered := volume * (1 - boilOffFraction)

	return models.RevenueBreakdown{
		PricePerMMBtu:   pricePerMMBtu,
		LoadedVolume:    volume,
		DeliveredVolume: delivered,
		BoilOffLoss:     volume - delivered,
		Gross:           pricePerMMBtu * delivered,
	}, nil
}

// FreightCost returns the seven-component shipping cost for a voyage.
// Each component is retained individually for diagnostics.
func (m *Model) FreightCost(dest models.Destination, freightRate, purchaseCost, saleValue, volume float64) (models.FreightBreakdown, error) {
	if volume <= 0 {
		return models.FreightBreakdown{}, errors.InvalidInputf("cannot cost freight for non-positive volume %.0f", volume)
	}
	if freightRate <= 0 {
		return models.FreightBreakdown{}, errors.InvalidInputf("non-positive freight rate %.0f", freightRate)
	}
	spec, err := m.cfg.Destination(dest)
	if err != nil {
		return models.FreightBreakdown{}, err
	}

	fb := models.FreightBreakdown{
		BaseFreight: freightRate * spec.VoyageDays * spec.RouteScaling,
		Insurance:   m.cfg.Costs.InsurancePerVoyage,
		Carbon:      spec.CarbonPerDay * spec.VoyageDays,
		Demurrage:   m.cfg.Costs.DemurrageExpected,
	}
	fb.Brokerage = fb.BaseFreight * m.cfg.Costs.BrokeragePct
	fb.WorkingCapital = purchaseCost * m.cfg.Costs.WorkingCapitalAnnual * spec.VoyageDays / 365
	fb.LetterOfCredit = math.Max(saleValue*m.cfg.Costs.LCRate, m.cfg.Costs.LCMinimum)
	fb.Total = fb.BaseFreight + fb.Insurance + fb.Brokerage + fb.WorkingCapital +
		fb.Carbon + fb.Demurrage + fb.LetterOfCredit

	return fb, nil
}
