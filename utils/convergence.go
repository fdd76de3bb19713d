package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ConvergenceOrder is the least squares slope of log(err) against log(h),
// with h = 1/N for each resolution N
func ConvergenceOrder(N []int, errs []float64) (order float64, err error) {
	if len(N) != len(errs) || len(N) < 2 {
		err = fmt.Errorf("convergence order needs at least two resolutions with one error each, got %d and %d",
			len(N), len(errs))
		return
	}
	var (
		logH = make([]float64, len(N))
		logE = make([]float64, len(N))
	)
	for i := range N {
		if N[i] <= 0 || !(errs[i] > 0) || !IsFinite(errs[i]) {
			err = fmt.Errorf("resolution %d has error %g, both must be positive", N[i], errs[i])
			return
		}
		logH[i] = -math.Log(float64(N[i]))
		logE[i] = math.Log(errs[i])
	}
	_, order = stat.LinearRegression(logH, logE, nil, false)
	return
}
