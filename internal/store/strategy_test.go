package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
)

func TestSaveAndGet(t *testing.T) {
	s := NewInMemoryStrategyStore()

	strategy := &models.Strategy{ID: "s1", Name: "Optimal", CreatedAt: time.Now()}
	require.NoError(t, s.Save(strategy))

	got, err := s.Get("s1")
	require.NoError(t, err)
	assert.Equal(t, strategy, got)
}

func TestGet_NotFound(t *testing.T) {
	s := NewInMemoryStrategyStore()

	_, err := s.Get("missing")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestGetByName_ReturnsLatest(t *testing.T) {
	s := NewInMemoryStrategyStore()

	older := &models.Strategy{ID: "s1", Name: "Optimal", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Strategy{ID: "s2", Name: "Optimal", CreatedAt: time.Now()}
	require.NoError(t, s.Save(older))
	require.NoError(t, s.Save(newer))

	got, err := s.GetByName("Optimal")
	require.NoError(t, err)
	assert.Equal(t, "s2", got.ID)

	_, err = s.GetByName("Aggressive")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestList(t *testing.T) {
	s := NewInMemoryStrategyStore()
	assert.Empty(t, s.List())

	require.NoError(t, s.Save(&models.Strategy{ID: "s1", Name: "Optimal"}))
	require.NoError(t, s.Save(&models.Strategy{ID: "s2", Name: "Conservative"}))
	assert.Len(t, s.List(), 2)
}

func TestSave_Invalid(t *testing.T) {
	s := NewInMemoryStrategyStore()

	err := s.Save(nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidInput))

	err = s.Save(&models.Strategy{Name: "no id"})
	assert.Error(t, err)
}

func TestMetrics(t *testing.T) {
	s := NewInMemoryStrategyStore()

	require.NoError(t, s.Save(&models.Strategy{ID: "s1", Name: "Optimal"}))
	require.NoError(t, s.SaveMetrics(&models.RiskMetrics{StrategyID: "s1", Mean: 123}))

	m, err := s.Metrics("s1")
	require.NoError(t, err)
	assert.Equal(t, 123.0, m.Mean)

	_, err = s.Metrics("s2")
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))

	err = s.SaveMetrics(&models.RiskMetrics{})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeInvalidInput))
}
