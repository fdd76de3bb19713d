package TwoPhase2D

import (
	"fmt"

	"github.com/notargets/gofvm/types"
	"github.com/notargets/gofvm/utils"
)

const (
	DefaultRelaxationTolerance     = 1.e-12
	DefaultRelaxationMaxIterations = 100
	// Bracket margin keeping the phase densities finite at the ends of (0,1)
	abarEps = 1.e-12
)

// PressureRelaxation finds the volume fraction at which both phases have the
// same pressure, keeping the partial densities and momentum fixed
type PressureRelaxation struct {
	Model         *TwoPhase
	Tolerance     float64
	MaxIterations int
}

func NewPressureRelaxation(tp *TwoPhase, tol float64, maxIter int) (pr *PressureRelaxation, err error) {
	if tol == 0 {
		tol = DefaultRelaxationTolerance
	}
	if maxIter == 0 {
		maxIter = DefaultRelaxationMaxIterations
	}
	if !(tol > 0) || maxIter < 1 {
		err = types.NewConfigurationError("Relaxation",
			"tolerance %g must be positive and iterations %d at least 1", tol, maxIter)
		return
	}
	pr = &PressureRelaxation{Model: tp, Tolerance: tol, MaxIterations: maxIter}
	return
}

// Residual is the pressure difference of the phases at volume fraction abar
func (pr *PressureRelaxation) Residual(arho1, arho2, abar float64) float64 {
	e := pr.Model.EOS
	return e.Phase1.P(arho1/abar) - e.Phase2.P(arho2/(1-abar))
}

func (pr *PressureRelaxation) Relax(q []float64) (err error) {
	var (
		arho1, arho2 = q[ARho1], q[ARho2]
		rho          = arho1 + arho2
		abar         float64
	)
	switch {
	case arho1 <= 0 && arho2 <= 0:
		return fmt.Errorf("relaxation: empty cell, arho1=%g arho2=%g", arho1, arho2)
	case arho1 <= 0:
		abar = 0
	case arho2 <= 0:
		abar = 1
	default:
		// Scaled by a(1-a), which has the same roots inside (0,1) without the poles at the ends
		f := func(a float64) float64 { return a * (1 - a) * pr.Residual(arho1, arho2, a) }
		if abar, _, err = utils.FindRoot(f, abarEps, 1-abarEps, pr.Tolerance, pr.MaxIterations); err != nil {
			return fmt.Errorf("relaxation: arho1=%g arho2=%g: %w", arho1, arho2, err)
		}
	}
	q[AbarRho] = abar * rho
	pr.Model.Auxiliary(q)
	return
}
