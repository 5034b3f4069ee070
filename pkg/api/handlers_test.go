package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lngflow/cargo-engine/internal/forecast"
	"github.com/lngflow/cargo-engine/internal/montecarlo"
	"github.com/lngflow/cargo-engine/internal/optimizer"
	"github.com/lngflow/cargo-engine/internal/options"
	"github.com/lngflow/cargo-engine/internal/refdata"
	"github.com/lngflow/cargo-engine/internal/scenario"
	"github.com/lngflow/cargo-engine/internal/sensitivity"
	"github.com/lngflow/cargo-engine/internal/store"
	"github.com/lngflow/cargo-engine/internal/valuation"
	"github.com/lngflow/cargo-engine/pkg/metrics"
	"github.com/lngflow/cargo-engine/pkg/models"
)

// one registration against the default Prometheus registry per test binary
var testRecorder = metrics.NewRecorder()

var testMonths = []string{"2026-01", "2026-02"}

func testForecasts() *forecast.Set {
	curves := map[models.Commodity]forecast.Curve{
		models.CommodityHenryHub: {},
		models.CommodityJKM:      {},
		models.CommodityBrent:    {},
		models.CommodityFreight:  {},
	}
	for _, month := range testMonths {
		curves[models.CommodityHenryHub][month] = 3.00
		curves[models.CommodityJKM][month] = 15.00
		curves[models.CommodityBrent][month] = 75.00
		curves[models.CommodityFreight][month] = 18_000
	}
	return forecast.NewSet(curves)
}

func testVols() forecast.Volatilities {
	return forecast.Volatilities{
		models.CommodityHenryHub: 0.45,
		models.CommodityJKM:      0.55,
		models.CommodityBrent:    0.30,
		models.CommodityFreight:  0.40,
	}
}

func newTestHandlers() (*Handlers, store.StrategyStore) {
	cfg := refdata.Default()
	valuator := valuation.NewValuator(cfg)
	opt := optimizer.NewOptimizer(cfg, valuator)
	strategies := store.NewInMemoryStrategyStore()

	h := CreateHandlers(HandlerDeps{
		Optimizer:      opt,
		MonteCarlo:     montecarlo.NewEngine(montecarlo.Config{Simulations: 50, Workers: 2, Seed: 7}, cfg, valuator),
		Scenarios:      scenario.NewAnalyzer(cfg, valuator),
		OptionAnalyzer: options.NewAnalyzer(cfg),
		Sensitivity:    sensitivity.NewAnalyzer(opt),
		Strategies:     strategies,
		Recorder:       testRecorder,
		Forecasts:      testForecasts(),
		Volatilities:   testVols(),
		Correlation:    forecast.Identity(models.Commodities),
		Months:         testMonths,
	})
	return h, strategies
}

func performRequest(method, target, body string) (*httptest.ResponseRecorder, *gin.Context) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	return w, c
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestHandlers()
	w, c := performRequest(http.MethodGet, "/health", "")

	h.HealthCheck(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestOptimizeStrategies_SavesAllThree(t *testing.T) {
	h, strategies := newTestHandlers()
	w, c := performRequest(http.MethodPost, "/api/v1/strategies/optimize", "")

	h.OptimizeStrategies(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, strategies.List(), 3)

	optimal, err := strategies.GetByName(optimizer.StrategyOptimal)
	require.NoError(t, err)
	assert.Len(t, optimal.Decisions, len(testMonths))
}

func TestGetStrategy_NotFound(t *testing.T) {
	h, _ := newTestHandlers()
	w, c := performRequest(http.MethodGet, "/api/v1/strategies/missing", "")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.GetStrategy(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSimulateStrategy(t *testing.T) {
	h, strategies := newTestHandlers()

	saved := &models.Strategy{
		ID:        "s1",
		Name:      "Optimal",
		CreatedAt: time.Now(),
		Decisions: []models.CargoDecision{
			{Month: "2026-01", Kind: models.DecisionCancel},
			{Month: "2026-02", Kind: models.DecisionCancel},
		},
	}
	require.NoError(t, strategies.Save(saved))

	w, c := performRequest(http.MethodPost, "/api/v1/strategies/s1/simulate", "")
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.SimulateStrategy(c)

	require.Equal(t, http.StatusOK, w.Code)

	var m models.RiskMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, "s1", m.StrategyID)
	assert.Equal(t, 50, m.Simulations)
	assert.InDelta(t, -19_000_000, m.Mean, 1e-6)

	stored, err := strategies.Metrics("s1")
	require.NoError(t, err)
	assert.Equal(t, m.Simulations, stored.Simulations)
}

func TestEvaluateScenario_BadBody(t *testing.T) {
	h, strategies := newTestHandlers()
	require.NoError(t, strategies.Save(&models.Strategy{ID: "s1", Name: "Optimal"}))

	w, c := performRequest(http.MethodPost, "/api/v1/strategies/s1/scenario", "{not json")
	c.Params = gin.Params{{Key: "id", Value: "s1"}}
	c.Request.Header.Set("Content-Type", "application/json")

	h.EvaluateScenario(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeOptions(t *testing.T) {
	h, _ := newTestHandlers()
	w, c := performRequest(http.MethodGet, "/api/v1/options", "")

	h.AnalyzeOptions(c)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Candidates []models.OptionCandidate `json:"candidates"`
		Exercised  int                      `json:"exercised"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Candidates)
	assert.LessOrEqual(t, body.Exercised, refdata.Default().Options.MaxOptions)
}

func TestTornado(t *testing.T) {
	h, _ := newTestHandlers()
	w, c := performRequest(http.MethodGet, "/api/v1/sensitivity/tornado?shock=0.1", "")

	h.Tornado(c)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Factors []models.SensitivityFactor `json:"factors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Factors, len(models.Commodities))
}

func TestQueryFloat(t *testing.T) {
	h, _ := newTestHandlers()

	_, c := performRequest(http.MethodGet, "/x?shock=0.35", "")
	assert.Equal(t, 0.35, h.queryFloat(c, "shock", 0.2))

	_, c = performRequest(http.MethodGet, "/x", "")
	assert.Equal(t, 0.2, h.queryFloat(c, "shock", 0.2))

	_, c = performRequest(http.MethodGet, "/x?shock=abc", "")
	assert.Equal(t, 0.2, h.queryFloat(c, "shock", 0.2))
}
