package scheme

import (
	"errors"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/types"
)

// RungeKutta is an explicit integrator driven by a Butcher tableau. The stage
// residuals live in an arena indexed by stage, each computed once per step.
// Stages and the final combination are built in a trial copy so a failed
// step leaves the base state untouched.
type RungeKutta struct {
	Tableau *ButcherTableau
	stages  [][]float64 // [stage][interior cell * conservative field]
	update  []float64   // Weighted residual of the last combination
	trial   *mesh.CellSet
	nc      int
}

func NewRungeKutta(bt *ButcherTableau) *RungeKutta {
	return &RungeKutta{Tableau: bt}
}

func (rk *RungeKutta) Name() string { return rk.Tableau.Name }

func (rk *RungeKutta) Init(cells *mesh.CellSet, nc int) {
	rk.nc = nc
	rk.stages = make([][]float64, rk.Tableau.Stages())
	for k := range rk.stages {
		rk.stages[k] = make([]float64, cells.Nx*cells.Ny*nc)
	}
	rk.update = make([]float64, cells.Nx*cells.Ny*nc)
	rk.trial = cells.Copy()
}

// Stage returns the residual stored for stage k during the last step
func (rk *RungeKutta) Stage(k int) []float64 { return rk.stages[k] }

// combine sets the interior conservative fields of trial to
// base - dt * sum_j coeffs[j] * stages[j], then applies the state limiter
// and recomputes derived fields
func (rk *RungeKutta) combine(s *Scheme, base *mesh.CellSet, coeffs []float64, dt float64, out []float64) error {
	return s.partitions.ForEachBucket(func(bn, kMin, kMax int) error {
		for i := kMin; i < kMax; i++ {
			for j := 0; j < base.Ny; j++ {
				var (
					r  = s.ResidualIndex(i, j)
					q0 = base.Cell(i, j)
					q  = rk.trial.Cell(i, j)
				)
				copy(q, q0)
				for n := 0; n < rk.nc; n++ {
					var sum float64
					for jj, a := range coeffs {
						if a != 0 {
							sum += a * rk.stages[jj][r+n]
						}
					}
					if out != nil {
						out[r+n] = sum
					}
					q[n] = q0[n] - dt*sum
				}
				if s.StateLimiter != nil {
					s.StateLimiter.Limit(q)
				}
				s.Problem.Auxiliary(q)
			}
		}
		return nil
	})
}

func (rk *RungeKutta) relax(s *Scheme, t float64) error {
	return s.partitions.ForEachBucket(func(bn, kMin, kMax int) error {
		for i := kMin; i < kMax; i++ {
			for j := 0; j < rk.trial.Ny; j++ {
				if err := s.Relaxation.Relax(rk.trial.Cell(i, j)); err != nil {
					return &types.NumericalInstabilityError{Time: t, Stage: -1, I: i, J: j, Cause: err}
				}
			}
		}
		return nil
	})
}

func (rk *RungeKutta) Step(s *Scheme, m *mesh.Mesh, t, dt float64) (err error) {
	var (
		base   = m.Cells
		bt     = rk.Tableau
		schema = s.Problem.Schema()
	)
	if rk.trial == nil || len(rk.trial.Values) != len(base.Values) {
		return types.NewConfigurationError("Integrator", "%s was not initialized for this mesh", rk.Name())
	}
	for k := 0; k < bt.Stages(); k++ {
		var (
			cells = base
			tk    = t + bt.C.AtVec(k)*dt
		)
		if k > 0 {
			if err = rk.combine(s, base, bt.Row(k), dt, nil); err != nil {
				return
			}
			cells = rk.trial
		}
		m.UpdateGhosts(cells, tk)
		if err = s.Accumulate(m, cells, rk.stages[k]); err != nil {
			return
		}
		if ni := s.checkResidual(rk.stages[k]); ni != nil {
			ni.Time, ni.Stage = tk, k
			return ni
		}
	}
	if err = rk.combine(s, base, bt.B.RawVector().Data, dt, rk.update); err != nil {
		return
	}
	if s.DoRelaxation && s.Relaxation != nil {
		if err = rk.relax(s, t+dt); err != nil {
			var ni *types.NumericalInstabilityError
			if errors.As(err, &ni) {
				return ni
			}
			return
		}
	}
	if ni := checkFinite(rk.trial, schema.Len(), schema.Field); ni != nil {
		ni.Time, ni.Stage = t+dt, -1
		return ni
	}
	base.CopyFrom(rk.trial)
	copy(s.lastResidual, rk.update)
	return
}
