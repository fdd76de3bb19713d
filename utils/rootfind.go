package utils

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNoBracket     = errors.New("utils: root is not bracketed")
	ErrNoConvergence = errors.New("utils: root finder did not converge")
)

// FindRoot locates a zero of f inside [a, b] using regula falsi with the
// Illinois modification. f(a) and f(b) must differ in sign. Iteration stops
// when the bracket is narrower than tol*max(1,|x|) or f(x) is exactly zero.
func FindRoot(f func(x float64) float64, a, b, tol float64, maxIter int) (x float64, iter int, err error) {
	var (
		fa, fb = f(a), f(b)
		side   int
	)
	switch {
	case fa == 0:
		return a, 0, nil
	case fb == 0:
		return b, 0, nil
	case !IsFinite(fa) || !IsFinite(fb):
		err = fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoBracket, a, fa, b, fb)
		return
	case math.Signbit(fa) == math.Signbit(fb):
		err = fmt.Errorf("%w: f(%g)=%g, f(%g)=%g", ErrNoBracket, a, fa, b, fb)
		return
	}
	for iter = 1; iter <= maxIter; iter++ {
		x = (a*fb - b*fa) / (fb - fa)
		fx := f(x)
		if !IsFinite(fx) {
			err = fmt.Errorf("%w: f(%g) is not finite", ErrNoConvergence, x)
			return
		}
		if fx == 0 {
			return
		}
		if math.Signbit(fx) == math.Signbit(fb) {
			b, fb = x, fx
			if side == -1 {
				fa *= 0.5
			}
			side = -1
		} else {
			a, fa = x, fx
			if side == 1 {
				fb *= 0.5
			}
			side = 1
		}
		if math.Abs(b-a) <= tol*math.Max(1, math.Abs(x)) {
			return
		}
	}
	err = fmt.Errorf("%w after %d iterations, bracket [%g, %g]", ErrNoConvergence, maxIter, a, b)
	return
}
