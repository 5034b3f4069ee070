// Package store keeps generated strategies and their risk metrics so
// downstream analyses and the API can reference them by ID.
package store

import (
	"sync"

	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
	"github.com/lngflow/cargo-engine/pkg/utils/logger"
)

// StrategyStore defines storage for generated strategies
type StrategyStore interface {
	Get(id string) (*models.Strategy, error)
	GetByName(name string) (*models.Strategy, error)
	List() []*models.Strategy
	Save(strategy *models.Strategy) error
	SaveMetrics(metrics *models.RiskMetrics) error
	Metrics(strategyID string) (*models.RiskMetrics, error)
}

// InMemoryStrategyStore implements StrategyStore in process memory.
// Strategies are stored read-only; a new optimizer run saves new objects.
type InMemoryStrategyStore struct {
	strategies map[string]*models.Strategy
	metrics    map[string]*models.RiskMetrics
	mu         sync.RWMutex
	log        *logger.Logger
}

// NewInMemoryStrategyStore creates a new in-memory strategy store
func NewInMemoryStrategyStore() *InMemoryStrategyStore {
	return &InMemoryStrategyStore{
		strategies: make(map[string]*models.Strategy),
		metrics:    make(map[string]*models.RiskMetrics),
		log:        logger.GetLogger("store.strategy"),
	}
}

// Get retrieves a strategy by ID
func (s *InMemoryStrategyStore) Get(id string) (*models.Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	strategy, exists := s.strategies[id]
	if !exists {
		return nil, errors.NotFound("strategy not found: " + id)
	}
	return strategy, nil
}

// GetByName retrieves the most recently saved strategy with a given name
func (s *InMemoryStrategyStore) GetByName(name string) (*models.Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.Strategy
	for _, strategy := range s.strategies {
		if strategy.Name != name {
			continue
		}
		if latest == nil || strategy.CreatedAt.After(latest.CreatedAt) {
			latest = strategy
		}
	}
	if latest == nil {
		return nil, errors.NotFound("no strategy named " + name)
	}
	return latest, nil
}

// List returns all stored strategies
func (s *InMemoryStrategyStore) List() []*models.Strategy {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Strategy, 0, len(s.strategies))
	for _, strategy := range s.strategies {
		out = append(out, strategy)
	}
	return out
}

// Save stores a strategy
func (s *InMemoryStrategyStore) Save(strategy *models.Strategy) error {
	if strategy == nil {
		return errors.InvalidInput("cannot save nil strategy")
	}
	if strategy.ID == "" {
		return errors.InvalidInput("strategy ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies[strategy.ID] = strategy
	return nil
}

// SaveMetrics stores risk metrics for a strategy
func (s *InMemoryStrategyStore) SaveMetrics(metrics *models.RiskMetrics) error {
	if metrics == nil || metrics.StrategyID == "" {
		return errors.InvalidInput("metrics must reference a strategy")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics[metrics.StrategyID] = metrics
	return nil
}

// Metrics retrieves the risk metrics for a strategy
func (s *InMemoryStrategyStore) Metrics(strategyID string) (*models.RiskMetrics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.metrics[strategyID]
	if !exists {
		return nil, errors.NotFound("no risk metrics for strategy " + strategyID)
	}
	return m, nil
}
