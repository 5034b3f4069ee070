package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/kafka"
	"github.com/lngflow/cargo-engine/internal/montecarlo"
	"github.com/lngflow/cargo-engine/internal/optimizer"
	"github.com/lngflow/cargo-engine/internal/options"
	"github.com/lngflow/cargo-engine/internal/scenario"
	"github.com/lngflow/cargo-engine/internal/sensitivity"
	"github.com/lngflow/cargo-engine/internal/store"
	"github.com/lngflow/cargo-engine/pkg/metrics"
	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	optimizer      *optimizer.Optimizer
	mcEngine       *montecarlo.Engine
	scenarios      *scenario.Analyzer
	optionAnalyzer *options.Analyzer
	sensitivity    *sensitivity.Analyzer
	strategies     store.StrategyStore
	producer       *kafka.Producer // nil when publishing is disabled
	recorder       *metrics.Recorder

	forecasts *forecast.Set
	vols      forecast.Volatilities
	corr      forecast.Correlation
	months    []string

	log *logger.Logger
}

// HandlerDeps bundles the collaborators the handlers drive
type HandlerDeps struct {
	Optimizer      *optimizer.Optimizer
	MonteCarlo     *montecarlo.Engine
	Scenarios      *scenario.Analyzer
	OptionAnalyzer *options.Analyzer
	Sensitivity    *sensitivity.Analyzer
	Strategies     store.StrategyStore
	Producer       *kafka.Producer
	Recorder       *metrics.Recorder
	Forecasts      *forecast.Set
	Volatilities   forecast.Volatilities
	Correlation    forecast.Correlation
	Months         []string
}

// CreateHandlers creates new API handlers
func CreateHandlers(deps HandlerDeps) *Handlers {
	return &Handlers{
		optimizer:      deps.Optimizer,
		mcEngine:       deps.MonteCarlo,
		scenarios:      deps.Scenarios,
		optionAnalyzer: deps.OptionAnalyzer,
		sensitivity:    deps.Sensitivity,
		strategies:     deps.Strategies,
		producer:       deps.Producer,
		recorder:       deps.Recorder,
		forecasts:      deps.Forecasts,
		vols:           deps.Volatilities,
		corr:           deps.Correlation,
		months:         deps.Months,
		log:            logger.GetLogger("api.handlers"),
	}
}

// HealthCheck handles health check requests
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// OptimizeStrategies runs the optimizer and stores the optimal strategy
// plus the comparison baselines
func (h *Handlers) OptimizeStrategies(c *gin.Context) {
	started := time.Now()
	generated := h.optimizer.GenerateAll(h.forecasts, h.months)

	for _, strategy := range generated {
		if err := h.strategies.Save(strategy); err != nil {
			h.log.Errorf("failed to save strategy %s: %v", strategy.Name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		h.recorder.RecordOptimizerRun(strategy.Name, strategy.TotalExpectedPnL, time.Since(started))
		if h.producer != nil {
			if err := h.producer.PublishStrategy(c.Request.Context(), strategy); err != nil {
				h.log.Warnf("failed to publish strategy %s: %v", strategy.Name, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"strategies": generated})
}

// ListStrategies returns all stored strategies
func (h *Handlers) ListStrategies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategies": h.strategies.List()})
}

// GetStrategy returns one strategy by ID
func (h *Handlers) GetStrategy(c *gin.Context) {
	strategy, err := h.strategies.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, strategy)
}

// SimulateStrategy runs the Monte Carlo engine against a stored strategy
func (h *Handlers) SimulateStrategy(c *gin.Context) {
	strategy, err := h.strategies.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	started := time.Now()
	riskMetrics, err := h.mcEngine.Run(c.Request.Context(), strategy, h.forecasts, h.vols, h.corr)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.recorder.RecordSimulation(strategy.Name, riskMetrics.VaR5, time.Since(started))

	if err := h.strategies.SaveMetrics(riskMetrics); err != nil {
		h.log.Warnf("failed to save metrics for %s: %v", strategy.ID, err)
	}
	if h.producer != nil {
		if err := h.producer.PublishRiskMetrics(c.Request.Context(), riskMetrics); err != nil {
			h.log.Warnf("failed to publish metrics for %s: %v", strategy.ID, err)
		}
	}

	c.JSON(http.StatusOK, riskMetrics)
}

// GetRiskMetrics returns the stored simulation metrics for a strategy
func (h *Handlers) GetRiskMetrics(c *gin.Context) {
	m, err := h.strategies.Metrics(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// EvaluateScenario replays a stored strategy under a posted scenario
func (h *Handlers) EvaluateScenario(c *gin.Context) {
	strategy, err := h.strategies.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	var def models.ScenarioDefinition
	if err := c.ShouldBindJSON(&def); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scenario definition: " + err.Error()})
		return
	}

	result, err := h.scenarios.EvaluateStrategy(strategy, def, h.forecasts)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeOptions prices and ranks every optional-cargo candidate
func (h *Handlers) AnalyzeOptions(c *gin.Context) {
	candidates, err := h.optionAnalyzer.AnalyzeAll(h.forecasts, h.vols, h.months)
	if err != nil {
		h.respondError(c, err)
		return
	}

	exercised := 0
	for _, candidate := range candidates {
		if candidate.Exercise {
			exercised++
		}
	}
	h.recorder.RecordOptionsExercised(exercised)

	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"exercised":  exercised,
	})
}

// Tornado returns the tornado diagram factors
func (h *Handlers) Tornado(c *gin.Context) {
	shock := h.queryFloat(c, "shock", 0.20)
	c.JSON(http.StatusOK, gin.H{"factors": h.sensitivity.Tornado(h.forecasts, h.months, shock)})
}

// BreakEven returns the break-even multiplier for one commodity
func (h *Handlers) BreakEven(c *gin.Context) {
	commodity := models.Commodity(c.Param("commodity"))
	c.JSON(http.StatusOK, h.sensitivity.BreakEven(h.forecasts, h.months, commodity))
}

// Robustness returns the decision-stability diagnostics
func (h *Handlers) Robustness(c *gin.Context) {
	shock := h.queryFloat(c, "shock", 0.10)
	perturbations := int(h.queryFloat(c, "n", 50))
	seed := int64(h.queryFloat(c, "seed", 1))
	c.JSON(http.StatusOK, h.sensitivity.Robustness(h.forecasts, h.months, perturbations, shock, seed))
}

func (h *Handlers) queryFloat(c *gin.Context, key string, fallback float64) float64 {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func (h *Handlers) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch errors.TypeOf(err) {
	case errors.ErrorTypeNotFound:
		status = http.StatusNotFound
	case errors.ErrorTypeInvalidInput:
		status = http.StatusBadRequest
	case errors.ErrorTypeConfiguration:
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
