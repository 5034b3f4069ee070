package options

import (
	"math"

	"github.com/lngflow/cargo-engine/pkg/utils/errors"
)

// callPrice computes the Black-Scholes price of a European call with no
// carry yield. All inputs must be strictly positive; callers fall back to a
// heuristic time value when they are not.
func callPrice(S, K, r, T, sigma float64) (float64, error) {
	if S <= 0 || K <= 0 || T <= 0 || sigma <= 0 {
		return 0, errors.InvalidInputf("invalid Black-Scholes inputs: S=%f, K=%f, T=%f, sigma=%f", S, K, T, sigma)
	}

	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	d2 := d1 - sigma*math.Sqrt(T)

	return S*normalCDF(d1) - K*math.Exp(-r*T)*normalCDF(d2), nil
}

// normalCDF returns the cumulative distribution function of the standard
// normal distribution
func normalCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt(2)))
}
