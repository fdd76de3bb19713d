package TwoPhase2D

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofvm/bc"
	"github.com/notargets/gofvm/eos"
	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/scheme"
	"github.com/notargets/gofvm/solver"
	"github.com/notargets/gofvm/types"
	"github.com/notargets/gofvm/writer"
)

func newTwoPhase(t *testing.T) *TwoPhase {
	p1, err := eos.NewLinearizedGas(1e5, 1, 3)
	require.NoError(t, err)
	p2, err := eos.NewLinearizedGas(1e5, 1e3, 15)
	require.NoError(t, err)
	tp, err := NewTwoPhase(eos.TwoPhase{Phase1: p1, Phase2: p2})
	require.NoError(t, err)
	return tp
}

func TestRiemannState(t *testing.T) {
	tp := newTwoPhase(t)
	s, err := tp.RiemannState(0.3, 1.2, 1001, 2)
	require.NoError(t, err)
	q := s.Values
	var (
		p1 = 1e5 + 9*0.2
		p2 = 1e5 + 225*1.
	)
	assert.InDelta(t, 0.3*1.2, q[ARho1], 1e-15)
	assert.InDelta(t, 0.7*1001, q[ARho2], 1e-12)
	assert.InDelta(t, 0.3*q[Rho], q[AbarRho], 1e-12)
	assert.InDelta(t, 2*q[Rho], q[RhoU], 1e-12)
	assert.InDelta(t, 0.3*p1+0.7*p2, q[P], 1e-9)
	{ // Auxiliary recovers the same derived fields from the conserved ones
		r := append([]float64(nil), q[:5]...)
		r = append(r, make([]float64, Schema.Len()-5)...)
		tp.Auxiliary(r)
		for n := 5; n < Schema.Len(); n++ {
			assert.InDeltaf(t, q[n], r[n], 1e-9*math.Max(1, math.Abs(q[n])), FieldNames[n])
		}
	}
	{ // Input file keys
		s, err := tp.Primitives(map[string]float64{"alphabar": 1, "rho1": 1, "rho2": 1000, "U": -1})
		require.NoError(t, err)
		assert.Equal(t, -1., s.Values[U])
		_, err = tp.Primitives(map[string]float64{"alphabar": 0.5})
		assert.ErrorIs(t, err, types.ErrConfiguration)
		_, err = tp.RiemannState(1.5, 1, 1, 0)
		assert.ErrorIs(t, err, types.ErrConfiguration)
	}
}

func TestVanishedPhase(t *testing.T) {
	tp := newTwoPhase(t)
	{ // Pure phase 2
		s, err := tp.RiemannState(0, 1, 1002, 0)
		require.NoError(t, err)
		q := s.Values
		tp.Auxiliary(q)
		assert.Equal(t, q[P2], q[P1])
		assert.InDelta(t, 1e5+450, q[P], 1e-9)
		assert.Equal(t, 3., q[C1])
		assert.InDelta(t, 15., q[C], 1e-12)
	}
	{ // Pure phase 1
		s, err := tp.RiemannState(1, 1.5, 1000, 0)
		require.NoError(t, err)
		q := s.Values
		tp.Auxiliary(q)
		assert.Equal(t, q[P1], q[P2])
		assert.InDelta(t, 1e5+4.5, q[P], 1e-9)
	}
}

func TestPressureRelaxation(t *testing.T) {
	tp := newTwoPhase(t)
	pr, err := NewPressureRelaxation(tp, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultRelaxationTolerance, pr.Tolerance)
	assert.Equal(t, DefaultRelaxationMaxIterations, pr.MaxIterations)
	_, err = NewPressureRelaxation(tp, -1, 10)
	assert.ErrorIs(t, err, types.ErrConfiguration)
	{ // Out of equilibrium mixture
		s, err := tp.RiemannState(0.5, 1.2, 1000, 3)
		require.NoError(t, err)
		q := s.Values
		before := append([]float64(nil), q...)
		require.NotEqual(t, q[P1], q[P2])
		require.NoError(t, pr.Relax(q))
		assert.InDelta(t, 0, q[P1]-q[P2], 1e-5)
		assert.Equal(t, before[ARho1], q[ARho1])
		assert.Equal(t, before[ARho2], q[ARho2])
		assert.Equal(t, before[RhoU], q[RhoU])
		assert.Greater(t, q[Abar], 0.5)
		assert.Less(t, q[Abar], 1.)
		assert.InDelta(t, q[Abar]*q[Rho], q[AbarRho], 1e-12)
		// Relaxing again changes nothing
		again := append([]float64(nil), q...)
		require.NoError(t, pr.Relax(again))
		assert.InDelta(t, q[Abar], again[Abar], 1e-10)
	}
	{ // A cell with one phase only goes to the pure state
		s, err := tp.RiemannState(0, 1, 1000, 0)
		require.NoError(t, err)
		q := s.Values
		require.NoError(t, pr.Relax(q))
		assert.Equal(t, 0., q[Abar])
	}
	{ // An empty cell cannot be relaxed
		q := make([]float64, Schema.Len())
		assert.Error(t, pr.Relax(q))
	}
}

func TestTwoPhaseRiemannProblem(t *testing.T) {
	var (
		tp = newTwoPhase(t)
	)
	left, err := tp.RiemannState(0.8, 1, 1000, 1)
	require.NoError(t, err)
	right, err := tp.RiemannState(0.2, 1, 1000, 1)
	require.NoError(t, err)

	cells, err := mesh.NewRectangular(0, 0, 2, 1, 40, 4, 1, Schema.Len())
	require.NoError(t, err)
	m := mesh.New(cells).
		SetBoundary(mesh.Left, bc.NewDirichlet(left)).
		SetBoundary(mesh.Right, bc.NewDirichlet(right))
	require.NoError(t, bc.MakePeriodic(m, 1))

	rs, err := scheme.NewRusanov(tp)
	require.NoError(t, err)
	pr, err := NewPressureRelaxation(tp, 0, 0)
	require.NoError(t, err)
	sch, err := scheme.New(tp, rs,
		scheme.WithRelaxation(pr, true),
		scheme.WithParallelDegree(2))
	require.NoError(t, err)
	s, err := solver.New(m, sch)
	require.NoError(t, err)
	require.NoError(t, s.Init(InitializeRiemann(left, right, 1)))
	arho1, err := s.Integral("arho1")
	require.NoError(t, err)

	mw := &writer.MemoryWriter{}
	require.NoError(t, s.Solve(context.Background(),
		solver.SolveParams{FinalTime: 0.05, CFL: 0.5}, mw, writer.NewTimeStrategy(0.025)))
	assert.Equal(t, 0.05, s.Time)
	assert.GreaterOrEqual(t, mw.Len(), 2)

	cells.ForInterior(func(i, j int) {
		q := cells.Cell(i, j)
		assert.Greater(t, q[ARho1], 0.)
		assert.Greater(t, q[ARho2], 0.)
		assert.InDelta(t, q[P1], q[P2], 1e-4)
		assert.InDelta(t, 1., q[U], 1e-6)
	})
	// Rows along y stay identical
	for i := 0; i < cells.Nx; i++ {
		assert.Equal(t, cells.Cell(i, 0), cells.Cell(i, 3))
	}
	// Phase 1 flows in on the left faster than it leaves on the right
	after, err := s.Integral("arho1")
	require.NoError(t, err)
	assert.InDelta(t, arho1+0.6*0.05, after, 1e-3)
	_, abar := s.Snapshot().Row(Abar, 0)
	assert.InDelta(t, 0.8, abar[0], 1e-6)
	assert.InDelta(t, 0.2, abar[39], 1e-6)
}
