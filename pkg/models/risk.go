package models

import (
	"time"
)

// PricePath holds simulated prices for one commodity: Values[m][s] is the
// price in month-offset m for simulation s. Generated once per Monte Carlo
// run and consumed read-only.
type PricePath struct {
	Commodity Commodity
	Months    []string
	Values    [][]float64
}

// At returns the simulated price for a month offset and simulation index
func (p *PricePath) At(monthOffset, sim int) float64 {
	return p.Values[monthOffset][sim]
}

// RiskMetrics summarizes a simulated P&L distribution for one strategy
type RiskMetrics struct {
	StrategyID     string    `json:"strategy_id"`
	StrategyName   string    `json:"strategy_name"`
	Timestamp      time.Time `json:"timestamp"`
	Simulations    int       `json:"simulations"`
	Mean           float64   `json:"mean"`
	StdDev         float64   `json:"std_dev"`
	VaR5           float64   `json:"var_5"`
	VaR1           float64   `json:"var_1"`
	CVaR5          float64   `json:"cvar_5"`
	CVaR1          float64   `json:"cvar_1"`
	ProbProfit     float64   `json:"prob_profit"`
	Percentiles    map[int]float64 `json:"percentiles"` // p10..p90 by decile
	Sharpe         float64   `json:"sharpe"`            // mean/std, zero risk-free
	CorrelationOK  bool      `json:"correlation_ok"`    // false when the identity fallback was used
}

// ScenarioDefinition shocks forecasts deterministically. Multipliers apply
// to every month of a commodity; MonthMultipliers override per month.
// A missing commodity key means no change.
type ScenarioDefinition struct {
	Name             string                           `json:"name"`
	Multipliers      map[Commodity]float64            `json:"multipliers,omitempty"`
	MonthMultipliers map[Commodity]map[string]float64 `json:"month_multipliers,omitempty"`
}

// ScenarioResult is a fixed strategy re-valued under a scenario
type ScenarioResult struct {
	Scenario  string          `json:"scenario"`
	Strategy  string          `json:"strategy"`
	TotalPnL  float64         `json:"total_pnl"`
	BasePnL   float64         `json:"base_pnl"`
	Delta     float64         `json:"delta"`
	Decisions []CargoDecision `json:"decisions,omitempty"`
}

// OptionCandidate is one optional-cargo exercise candidate. Candidates are
// generated per (delivery month, destination, buyer) and ranked globally.
type OptionCandidate struct {
	DeliveryMonth     string      `json:"delivery_month"`
	DecisionMonth     string      `json:"decision_month"` // M-2 nomination deadline
	Destination       Destination `json:"destination"`
	Buyer             string      `json:"buyer"`
	IntrinsicValue    float64     `json:"intrinsic_value"`     // $/MMBtu
	TimeValue         float64     `json:"time_value"`          // $/MMBtu
	TotalValue        float64     `json:"total_value"`         // $/MMBtu
	DemandProbability float64     `json:"demand_probability"`
	RiskAdjustedValue float64     `json:"risk_adjusted_value"` // $/MMBtu
	Exercise          bool        `json:"exercise"`
	Reasoning         string      `json:"reasoning"`
	TimeValueFallback bool        `json:"time_value_fallback,omitempty"` // heuristic used instead of Black-Scholes
}

// SensitivityFactor is one bar of a tornado diagram
type SensitivityFactor struct {
	Factor   string  `json:"factor"`
	Low      float64 `json:"low"`       // total P&L at the downside perturbation
	High     float64 `json:"high"`      // total P&L at the upside perturbation
	Base     float64 `json:"base"`
	Swing    float64 `json:"swing"`     // |high - low|
}

// BreakEvenResult is the multiplier on one commodity at which the optimal
// strategy's total P&L crosses zero
type BreakEvenResult struct {
	Commodity  Commodity `json:"commodity"`
	Multiplier float64   `json:"multiplier"`
	Converged  bool      `json:"converged"`
}

// RobustnessResult measures how stable the optimal decisions are under
// perturbed forecasts
type RobustnessResult struct {
	Perturbations  int     `json:"perturbations"`
	StableFraction float64 `json:"stable_fraction"` // share of months whose decision never changed
	UnstableMonths []string `json:"unstable_months,omitempty"`
}
