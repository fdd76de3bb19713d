package Advection2D

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofvm/bc"
	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/scheme"
	"github.com/notargets/gofvm/solver"
	"github.com/notargets/gofvm/types"
)

func TestAdvection(t *testing.T) {
	a, err := NewAdvection([2]float64{2, -0.5})
	require.NoError(t, err)
	{ // Flux and eigenvalues
		F := make([]float64, 2)
		a.Flux([]float64{3}, F)
		assert.Equal(t, []float64{6, -1.5}, F)
		assert.Equal(t, [2]float64{1.2, 1.2}, a.Eigs([]float64{3}, [2]float64{0.6, 0.0}))
		assert.Equal(t, [2]float64{2, -0.5}, a.Velocity(nil))
	}
	{ // Input file states
		s, err := a.Primitives(map[string]float64{"u": 0.25})
		require.NoError(t, err)
		assert.Equal(t, []float64{0.25}, s.Values)
		_, err = a.Primitives(map[string]float64{"rho": 1})
		assert.ErrorIs(t, err, types.ErrConfiguration)
		_, err = NewAdvection([2]float64{math.Inf(1), 0})
		assert.ErrorIs(t, err, types.ErrConfiguration)
	}
	{ // Init types
		it, err := NewInitType("Sine ")
		require.NoError(t, err)
		assert.Equal(t, SINE, it)
		assert.Equal(t, "Sine Wave", it.Print())
		it, err = NewInitType("riemann")
		require.NoError(t, err)
		assert.Equal(t, "Step", it.Print())
		_, err = NewInitType("gaussian")
		assert.ErrorIs(t, err, types.ErrConfiguration)
	}
}

func TestInitialize(t *testing.T) {
	cells, err := mesh.NewRectangular(0, 0, 1, 1, 4, 1, 1, Schema.Len())
	require.NoError(t, err)
	InitializeStep(2, 1, 0.5)(cells)
	var got []float64
	for i := -1; i <= 4; i++ {
		got = append(got, cells.Cell(i, 0)[Q])
	}
	assert.Equal(t, []float64{2, 2, 2, 1, 1, 1}, got)

	InitializeSine(1, 0.5, 0, 1)(cells)
	assert.InDelta(t, 1+0.5*math.Sin(2*math.Pi*0.125), cells.Cell(0, 0)[Q], 1e-15)
	assert.InDelta(t, 1+0.5*math.Sin(2*math.Pi*0.625), cells.Cell(2, 0)[Q], 1e-15)
}

func TestSineRoundTrip(t *testing.T) {
	const N = 64
	a, err := NewAdvection([2]float64{1, 0})
	require.NoError(t, err)
	cells, err := mesh.NewRectangular(0, 0, 1, 1./N, N, 1, 2, Schema.Len())
	require.NoError(t, err)
	m := mesh.New(cells)
	require.NoError(t, bc.MakePeriodic(m, 0))
	require.NoError(t, bc.MakePeriodic(m, 1))

	uw, err := scheme.NewUpwind(a)
	require.NoError(t, err)
	mu, err := scheme.NewMUSCL(scheme.VanLeer{})
	require.NoError(t, err)
	sch, err := scheme.New(a, uw, scheme.WithReconstruction(mu),
		scheme.WithIntegrator(scheme.NewRungeKutta(scheme.RK3SSP)))
	require.NoError(t, err)
	s, err := solver.New(m, sch)
	require.NoError(t, err)
	require.NoError(t, s.Init(InitializeSine(0, 1, 0, 1)))
	_, initial := s.Snapshot().Row(Q, 0)

	// One full period brings the wave back to where it started
	require.NoError(t, s.Solve(context.Background(), solver.SolveParams{FinalTime: 1, CFL: 0.5}, nil, nil))
	assert.Equal(t, 1., s.Time)
	_, final := s.Snapshot().Row(Q, 0)
	if diff := cmp.Diff(initial, final, cmpopts.EquateApprox(0, 0.1)); diff != "" {
		t.Errorf("sine wave after one period (-initial +final):\n%s", diff)
	}
	var sum float64
	for _, v := range final {
		sum += v
	}
	assert.InDelta(t, 0, sum, 1e-12)
}
