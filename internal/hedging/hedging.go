// Package hedging computes the futures hedge that offsets a cargo's
// purchase-cost exposure. The hedge is a long futures position taken at the
// nomination date (M-2) and settled against spot at delivery; it is a pure
// offset and is never itself risk-managed further.
package hedging

import (
	"math"

	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Calculator sizes and values purchase-cost hedges
type Calculator struct {
	cfg refdata.Config
	log *logger.Logger
}

// NewCalculator creates a hedge calculator
func NewCalculator(cfg refdata.Config) *Calculator {
	return &Calculator{
		cfg: cfg,
		log: logger.GetLogger("hedging"),
	}
}

// HedgePnL values a long futures hedge initiated at forwardPrice and
// settled at spotPrice. Effectiveness compares the hedge P&L against the
// purchase-cost change it offsets; a full hedge of a linear exposure
// scores approximately 1.
func (c *Calculator) HedgePnL(month string, forwardPrice, spotPrice, volume float64) (models.HedgePosition, error) {
	if volume <= 0 {
		return models.HedgePosition{}, errors.InvalidInputf("cannot hedge non-positive volume %.0f", volume)
	}
	if forwardPrice < 0 || spotPrice < 0 {
		return models.HedgePosition{}, errors.InvalidInputf("negative hedge prices: forward=%.2f spot=%.2f", forwardPrice, spotPrice)
	}

	hedgedVolume := volume * c.cfg.Hedge.HedgeRatio
	pnl := (spotPrice - forwardPrice) * hedgedVolume
	contracts := int(math.Round(hedgedVolume / c.cfg.Hedge.ContractSize))

	// Purchase cost moves by (spot - forward) * volume; the hedge gains the
	// same amount on the hedged share, so effectiveness is the offset ratio.
	effectiveness := 0.0
	priceChange := spotPrice - forwardPrice
	if priceChange != 0 {
		exposureChange := priceChange * volume
		effectiveness = pnl / exposureChange
	}

	return models.HedgePosition{
		Month:         month,
		ForwardPrice:  forwardPrice,
		SpotPrice:     spotPrice,
		Contracts:     contracts,
		HedgedVolume:  hedgedVolume,
		PnL:           pnl,
		Effectiveness: effectiveness,
	}, nil
}
