package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
)

func testSet() *Set {
	return NewSet(map[models.Commodity]Curve{
		models.CommodityHenryHub: {"2026-01": 3.00, "2026-02": 3.10, "2026-04": 3.30},
		models.CommodityJKM:      {"2026-01": 15.00, "2026-02": 15.50},
		models.CommodityBrent:    {"2026-01": 75.00, "2026-02": 74.50},
		models.CommodityFreight:  {"2026-01": 18_000, "2026-02": 18_500},
	})
}

func TestLookup_ExactMonth(t *testing.T) {
	s := testSet()

	v, degraded, err := s.Lookup(models.CommodityHenryHub, "2026-02")
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, 3.10, v)
}

func TestLookup_CarriesEarlierValueForward(t *testing.T) {
	s := testSet()

	// 2026-03 is missing; 2026-02 fills in and the lookup is flagged
	v, degraded, err := s.Lookup(models.CommodityHenryHub, "2026-03")
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, 3.10, v)

	// past the end of the curve the last value carries forward
	v, degraded, err = s.Lookup(models.CommodityHenryHub, "2026-09")
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, 3.30, v)
}

func TestLookup_BeforeFirstMonthUsesFirstValue(t *testing.T) {
	s := testSet()

	v, degraded, err := s.Lookup(models.CommodityHenryHub, "2025-11")
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, 3.00, v)
}

func TestLookup_MissingCurve(t *testing.T) {
	s := NewSet(map[models.Commodity]Curve{})

	_, _, err := s.Lookup(models.CommodityBrent, "2026-01")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMissingForecast))
}

func TestPriceSet_AssemblesNextMonthJKM(t *testing.T) {
	s := testSet()

	ps, degraded, err := s.PriceSet("2026-01")
	require.NoError(t, err)
	assert.False(t, degraded)
	assert.Equal(t, 3.00, ps.HenryHub)
	assert.Equal(t, 15.00, ps.JKMCurrent)
	assert.Equal(t, 15.50, ps.JKMNext)
	assert.Equal(t, 75.00, ps.Brent)
	assert.Equal(t, 18_000.0, ps.FreightRate)
	assert.True(t, ps.Valid())
}

func TestPriceSet_DegradedWhenAnyComponentCarried(t *testing.T) {
	s := testSet()

	// 2026-02 itself is fully covered, but its M+1 JKM (2026-03) is not
	ps, degraded, err := s.PriceSet("2026-02")
	require.NoError(t, err)
	assert.True(t, degraded)
	assert.Equal(t, 15.50, ps.JKMNext)
}

func TestSetDegradedObserver(t *testing.T) {
	s := testSet()

	var carried []models.Commodity
	s.SetDegradedObserver(func(c models.Commodity) {
		carried = append(carried, c)
	})

	// exact hits do not notify
	_, _, err := s.Lookup(models.CommodityHenryHub, "2026-01")
	require.NoError(t, err)
	assert.Empty(t, carried)

	_, _, err = s.Lookup(models.CommodityHenryHub, "2026-03")
	require.NoError(t, err)
	assert.Equal(t, []models.Commodity{models.CommodityHenryHub}, carried)

	// derived sets keep reporting to the same observer
	shocked := s.Transform(func(_ models.Commodity, _ string, v float64) float64 { return v * 1.1 })
	_, _, err = shocked.Lookup(models.CommodityJKM, "2026-06")
	require.NoError(t, err)
	assert.Equal(t, []models.Commodity{models.CommodityHenryHub, models.CommodityJKM}, carried)
}

func TestTransform_LeavesOriginalUntouched(t *testing.T) {
	s := testSet()

	doubled := s.Transform(func(c models.Commodity, _ string, v float64) float64 {
		if c == models.CommodityJKM {
			return v * 2
		}
		return v
	})

	v, _, err := doubled.Lookup(models.CommodityJKM, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 30.00, v)

	orig, _, err := s.Lookup(models.CommodityJKM, "2026-01")
	require.NoError(t, err)
	assert.Equal(t, 15.00, orig)
}

func TestMonths_Sorted(t *testing.T) {
	s := testSet()
	assert.Equal(t, []string{"2026-01", "2026-02", "2026-04"}, s.Months(models.CommodityHenryHub))
}

func TestIdentity(t *testing.T) {
	corr := Identity(models.Commodities)
	require.Len(t, corr.Matrix, 4)
	for i, row := range corr.Matrix {
		for j, v := range row {
			if i == j {
				assert.Equal(t, 1.0, v)
			} else {
				assert.Zero(t, v)
			}
		}
	}
}
