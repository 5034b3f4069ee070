package models

import (
	"time"
)

// Commodity identifies a forecasted price series
type Commodity string

const (
	CommodityHenryHub Commodity = "henry_hub"
	CommodityJKM      Commodity = "jkm"
	CommodityBrent    Commodity = "brent"
	CommodityFreight  Commodity = "freight"
)

// Commodities lists every price series the engine consumes, in the order
// used for correlation matrices and path generation
var Commodities = []Commodity{CommodityHenryHub, CommodityJKM, CommodityBrent, CommodityFreight}

// Destination identifies a discharge port market
type Destination string

const (
	DestinationSingapore Destination = "Singapore"
	DestinationJapan     Destination = "Japan"
	DestinationChina     Destination = "China"
)

// CreditRating is an ordinal counterparty credit category
type CreditRating string

const (
	RatingAA  CreditRating = "AA"
	RatingA   CreditRating = "A"
	RatingBBB CreditRating = "BBB"
	RatingBB  CreditRating = "BB"
)

// PriceSet is an immutable snapshot of every commodity price needed to value
// one cargo for a delivery month
type PriceSet struct {
	HenryHub    float64 `json:"henry_hub"`     // $/MMBtu
	JKMCurrent  float64 `json:"jkm_current"`   // $/MMBtu, delivery-month index
	JKMNext     float64 `json:"jkm_next"`      // $/MMBtu, M+1 index
	Brent       float64 `json:"brent"`         // $/bbl
	FreightRate float64 `json:"freight_rate"`  // $/day
}

// Valid reports whether the snapshot can price a cargo: all fields present
// and non-negative, freight strictly positive
func (p PriceSet) Valid() bool {
	return p.HenryHub >= 0 && p.JKMCurrent >= 0 && p.JKMNext >= 0 &&
		p.Brent >= 0 && p.FreightRate > 0
}

// Buyer is static counterparty reference data
type Buyer struct {
	Name                string       `json:"name"`
	Destination         Destination  `json:"destination"`
	CreditRating        CreditRating `json:"credit_rating"`
	Premium             float64      `json:"premium"` // $/MMBtu additive price adjustment
	DeferredPaymentDays int          `json:"deferred_payment_days"` // 0 means the destination's payment terms apply
}

// DecisionKind distinguishes shipping a cargo from cancelling it
type DecisionKind int

const (
	DecisionShip DecisionKind = iota
	DecisionCancel
)

// String returns the kind as a report label
func (k DecisionKind) String() string {
	if k == DecisionCancel {
		return "Cancel"
	}
	return "Ship"
}

// CargoDecision is the optimizer's choice for one delivery month
type CargoDecision struct {
	Month       string                `json:"month"`
	Kind        DecisionKind          `json:"kind"`
	Destination Destination           `json:"destination,omitempty"`
	Buyer       string                `json:"buyer,omitempty"`
	Volume      float64               `json:"volume,omitempty"` // MMBtu
	Valuation   *CargoValuationResult `json:"valuation,omitempty"`
}

// Strategy is a named collection of one decision per delivery month.
// It is created once per optimizer run and read-only afterwards.
type Strategy struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Decisions        []CargoDecision `json:"decisions"`
	TotalExpectedPnL float64         `json:"total_expected_pnl"`
	CreatedAt        time.Time       `json:"created_at"`
}

// RevenueBreakdown decomposes gross sale revenue for one cargo
type RevenueBreakdown struct {
	PricePerMMBtu   float64 `json:"price_per_mmbtu"`
	LoadedVolume    float64 `json:"loaded_volume"`
	DeliveredVolume float64 `json:"delivered_volume"` // after boil-off
	BoilOffLoss     float64 `json:"boil_off_loss"`    // MMBtu lost in transit
	Gross           float64 `json:"gross"`
}

// FreightBreakdown decomposes shipping cost into its seven components
type FreightBreakdown struct {
	BaseFreight    float64 `json:"base_freight"`     // charter rate * voyage days * route scaling
	Insurance      float64 `json:"insurance"`        // fixed per voyage
	Brokerage      float64 `json:"brokerage"`        // percentage of base freight
	WorkingCapital float64 `json:"working_capital"`  // carry on purchase cost over the voyage
	Carbon         float64 `json:"carbon"`           // destination per-day rate * voyage days
	Demurrage      float64 `json:"demurrage"`        // expected value, fixed
	LetterOfCredit float64 `json:"letter_of_credit"` // max(sale value * rate, minimum)
	Total          float64 `json:"total"`
}

// PerMMBtu returns the breakdown normalized by cargo volume, for diagnostics
func (f FreightBreakdown) PerMMBtu(volume float64) FreightBreakdown {
	if volume <= 0 {
		return FreightBreakdown{}
	}
	return FreightBreakdown{
		BaseFreight:    f.BaseFreight / volume,
		Insurance:      f.Insurance / volume,
		Brokerage:      f.Brokerage / volume,
		WorkingCapital: f.WorkingCapital / volume,
		Carbon:         f.Carbon / volume,
		Demurrage:      f.Demurrage / volume,
		LetterOfCredit: f.LetterOfCredit / volume,
		Total:          f.Total / volume,
	}
}

// CreditAdjustment is the credit-risk decomposition of a sale
type CreditAdjustment struct {
	ExpectedLoss    float64 `json:"expected_loss"`
	TimeValueCost   float64 `json:"time_value_cost"`
	AdjustedRevenue float64 `json:"adjusted_revenue"`
}

// DemandAdjustment blends a sale P&L with the storage-penalty outcome by the
// probability the sale occurs
type DemandAdjustment struct {
	ProbabilityOfSale float64 `json:"probability_of_sale"`
	StoragePenalty    float64 `json:"storage_penalty"`
	AdjustedPnL       float64 `json:"adjusted_pnl"`
}

// CargoValuationResult is the full economic decomposition of one cargo.
// Produced fresh on every valuation call; never mutated.
type CargoValuationResult struct {
	Month       string      `json:"month"`
	Destination Destination `json:"destination,omitempty"`
	Buyer       string      `json:"buyer,omitempty"`
	Volume      float64     `json:"volume"`
	Cancelled   bool        `json:"cancelled"`

	PurchaseCost float64          `json:"purchase_cost"`
	Revenue      RevenueBreakdown `json:"revenue"`
	Freight      FreightBreakdown `json:"freight"`
	GrossPnL     float64          `json:"gross_pnl"`

	Credit CreditAdjustment `json:"credit"`
	Demand DemandAdjustment `json:"demand"`

	ExpectedPnL float64 `json:"expected_pnl"`

	// Hedge holds the hedged variant when requested
	Hedge *HedgePosition `json:"hedge,omitempty"`
	// HedgedPnL is ExpectedPnL plus the hedge P&L when Hedge is set
	HedgedPnL float64 `json:"hedged_pnl,omitempty"`

	// Degraded is set when any input was carried forward from an earlier
	// month instead of read at the requested month
	Degraded bool `json:"degraded,omitempty"`
}

// HedgePosition describes a purchase-cost futures hedge taken at M-2 and
// settled against spot at delivery
type HedgePosition struct {
	Month         string  `json:"month"`
	ForwardPrice  float64 `json:"forward_price"`
	SpotPrice     float64 `json:"spot_price"`
	Contracts     int     `json:"contracts"`
	HedgedVolume  float64 `json:"hedged_volume"`
	PnL           float64 `json:"pnl"`
	Effectiveness float64 `json:"effectiveness"`
}
