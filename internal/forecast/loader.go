package forecast

import (
	"encoding/json"
	"os"

	"github.com/lngflow/cargo-engine/pkg/models"
	"github.com/lngflow/cargo-engine/pkg/utils/errors"
)

// Input is the on-disk forecast bundle produced by the upstream forecasting
// pipeline: month-labelled curves per commodity, annualized volatilities,
// and a commodity correlation matrix in models.Commodities order.
type Input struct {
	Curves         map[models.Commodity]map[string]float64 `json:"curves"`
	Volatilities   map[models.Commodity]float64            `json:"volatilities"`
	Correlation    [][]float64                             `json:"correlation"`
	DeliveryMonths []string                                `json:"delivery_months,omitempty"`
}

// LoadFile reads a forecast bundle from a JSON file. When delivery months
// are not listed explicitly they default to the Henry Hub curve's months.
func LoadFile(path string) (*Set, Volatilities, Correlation, []string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, Correlation{}, nil, errors.Wrapf(err, "failed to read forecast file %s", path)
	}

	var input Input
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, nil, Correlation{}, nil, errors.Wrapf(err, "failed to parse forecast file %s", path)
	}

	if len(input.Curves) == 0 {
		return nil, nil, Correlation{}, nil, errors.Configuration("forecast file contains no curves")
	}

	curves := make(map[models.Commodity]Curve, len(input.Curves))
	for commodity, curve := range input.Curves {
		curves[commodity] = Curve(curve)
	}
	set := NewSet(curves)

	corr := Correlation{Order: models.Commodities, Matrix: input.Correlation}
	if len(input.Correlation) == 0 {
		corr = Identity(models.Commodities)
	}

	months := input.DeliveryMonths
	if len(months) == 0 {
		months = set.Months(models.CommodityHenryHub)
	}
	if len(months) == 0 {
		return nil, nil, Correlation{}, nil, errors.Configuration("forecast file defines no delivery months")
	}

	return set, Volatilities(input.Volatilities), corr, models.SortMonths(months), nil
}
