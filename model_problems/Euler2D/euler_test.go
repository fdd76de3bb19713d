package Euler2D

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofvm/bc"
	"github.com/notargets/gofvm/eos"
	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/model_problems/Euler2D/isentropic_vortex"
	"github.com/notargets/gofvm/scheme"
	"github.com/notargets/gofvm/sod_shock_tube"
	"github.com/notargets/gofvm/solver"
	"github.com/notargets/gofvm/types"
)

func newPerfectGasEuler(t *testing.T) *Euler {
	gas, err := eos.NewPerfectGas(1.4)
	require.NoError(t, err)
	c, err := NewEuler(gas)
	require.NoError(t, err)
	return c
}

func TestEuler(t *testing.T) {
	c := newPerfectGasEuler(t)
	{ // Derived fields from primitives
		s, err := c.PrimitiveState(1.2, 0.5, -0.25, 2)
		require.NoError(t, err)
		q := s.Values
		assert.Equal(t, 1.2, q[Rho])
		assert.InDelta(t, 0.6, q[RhoU], 1e-15)
		assert.InDelta(t, -0.3, q[RhoV], 1e-15)
		assert.InDelta(t, 2/0.4+0.5*1.2*(0.25+0.0625), q[RhoE], 1e-14)
		assert.InDelta(t, 0.5, q[U], 1e-15)
		assert.InDelta(t, -0.25, q[V], 1e-15)
		assert.InDelta(t, 2., q[P], 1e-14)
		assert.InDelta(t, math.Sqrt(1.4*2/1.2), q[C], 1e-14)
		assert.InDelta(t, 2/(0.4*1.2), q[Ie], 1e-14)
	}
	{ // Flux tensor
		s, _ := c.PrimitiveState(1.2, 0.5, -0.25, 2)
		q := s.Values
		F := make([]float64, 8)
		c.Flux(q, F)
		H := q[RhoE] + 2
		assert.InDeltaSlice(t, []float64{
			0.6, -0.3,
			0.6*0.5 + 2, 0.6 * -0.25,
			-0.3 * 0.5, -0.3*-0.25 + 2,
			H * 0.5, H * -0.25,
		}, F, 1e-14)
		eigs := c.Eigs(q, [2]float64{0, 1})
		assert.InDelta(t, -0.25+q[C], eigs[0], 1e-15)
		assert.InDelta(t, -0.25-q[C], eigs[1], 1e-15)
	}
	{ // Input file primitives
		s, err := c.Primitives(map[string]float64{"rho": 1, "u": 2, "p": 1})
		require.NoError(t, err)
		assert.Equal(t, 2., s.Values[U])
		_, err = c.Primitives(map[string]float64{"rho": 1})
		assert.ErrorIs(t, err, types.ErrConfiguration)
		_, err = c.PrimitiveState(-1, 0, 0, 1)
		assert.ErrorIs(t, err, types.ErrConfiguration)
		_, err = NewEuler(nil)
		assert.ErrorIs(t, err, types.ErrConfiguration)
	}
	{ // Init types
		it, err := NewInitType(" Riemann")
		require.NoError(t, err)
		assert.Equal(t, SHOCKTUBE, it)
		assert.Equal(t, "Shock Tube", it.Print())
		_, err = NewInitType("blast")
		assert.ErrorIs(t, err, types.ErrConfiguration)
	}
}

func TestFlowFunctions(t *testing.T) {
	c := newPerfectGasEuler(t)
	s, err := c.PrimitiveState(0.5, 3, 4, 0.7)
	require.NoError(t, err)
	q := s.Values
	cs := math.Sqrt(1.4 * 0.7 / 0.5)
	for _, tc := range []struct {
		label string
		want  float64
	}{
		{"density", 0.5},
		{"XMomentum", 1.5},
		{"Static Pressure", 0.7},
		{"dynamic pressure", 0.5 * 0.5 * 25},
		{"sound speed", cs},
		{"velocity", 5},
		{"mach", 5 / cs},
		{"enthalpy", (q[RhoE] + 0.7) / 0.5},
		{"internal energy", 0.7 / (0.4 * 0.5)},
		{"entropy", 0.7 / math.Pow(0.5, 1.4)},
	} {
		pf, err := NewFlowFunction(tc.label)
		require.NoError(t, err, tc.label)
		assert.InDeltaf(t, tc.want, c.GetFlowFunction(q, pf), 1e-12, "%s", pf)
	}
	_, err = NewFlowFunction("vorticity")
	assert.ErrorIs(t, err, types.ErrConfiguration)
	{ // Stiffened gas entropy uses the EOS gamma and PInf
		sg, err := eos.NewStiffenedGas(2, 3)
		require.NoError(t, err)
		for _, gas := range []eos.Thermodynamic{sg, &sg} {
			c, err := NewEuler(gas)
			require.NoError(t, err)
			s, err := c.PrimitiveState(2, 0, 0, 1)
			require.NoError(t, err)
			assert.InDelta(t, (1+3)/math.Pow(2, 2), c.GetFlowFunction(s.Values, Entropy), 1e-14)
		}
	}
}

func newEulerSolver(t *testing.T, c *Euler, m *mesh.Mesh, bt *scheme.ButcherTableau, lim scheme.Limiter) *solver.Solver {
	rs, err := scheme.NewRusanov(c)
	require.NoError(t, err)
	mu, err := scheme.NewMUSCL(lim)
	require.NoError(t, err)
	sch, err := scheme.New(c, rs, scheme.WithReconstruction(mu),
		scheme.WithIntegrator(scheme.NewRungeKutta(bt)), scheme.WithParallelDegree(0))
	require.NoError(t, err)
	s, err := solver.New(m, sch)
	require.NoError(t, err)
	return s
}

func TestSodShockTube(t *testing.T) {
	const Nx = 200
	c := newPerfectGasEuler(t)
	cells, err := mesh.NewRectangular(0, 0, 1, 0.01, Nx, 1, 2, Schema.Len())
	require.NoError(t, err)
	m := mesh.New(cells).SetBoundary(mesh.Left, bc.Neumann{}).SetBoundary(mesh.Right, bc.Neumann{})
	s := newEulerSolver(t, c, m, scheme.RK2, scheme.MinMod{})
	left, err := c.PrimitiveState(1, 0, 0, 1)
	require.NoError(t, err)
	right, err := c.PrimitiveState(0.125, 0, 0, 0.1)
	require.NoError(t, err)
	require.NoError(t, s.Init(c.InitializeShockTube(left, right, 0.5)))
	mass0, err := s.Integral("rho")
	require.NoError(t, err)

	require.NoError(t, s.Solve(context.Background(), solver.SolveParams{FinalTime: 0.1, CFL: 0.5}, nil, nil))
	assert.Equal(t, 0.1, s.Time)

	var (
		exact = sod_shock_tube.Sod()
		snap  = s.Snapshot()
		dx    = 1. / Nx
		l1    float64
	)
	x, rho := snap.Row(Rho, 0)
	for i := range x {
		re, _, _ := exact.Sample(x[i], 0.1)
		l1 += math.Abs(rho[i]-re) * dx
	}
	assert.Less(t, l1, 0.02)
	// Waves have not reached the ends, so mass is unchanged
	mass1, err := s.Integral("rho")
	require.NoError(t, err)
	assert.InDelta(t, mass0, mass1, 1e-12)
}

func TestIsentropicVortex(t *testing.T) {
	const N = 40
	var (
		c  = newPerfectGasEuler(t)
		iv = isentropic_vortex.NewIVortex(5, 5, 0, 1.4).Periodic(0, 10)
	)
	cells, err := mesh.NewRectangular(0, -5, 10, 5, N, N, 2, Schema.Len())
	require.NoError(t, err)
	m := mesh.New(cells)
	require.NoError(t, bc.MakePeriodic(m, 0))
	require.NoError(t, bc.MakePeriodic(m, 1))
	s := newEulerSolver(t, c, m, scheme.RK3SSP, scheme.VanLeer{})
	require.NoError(t, s.Init(c.InitializeIVortex(iv)))
	var before [4]float64
	for n := range before {
		before[n], err = s.Integral(FieldNames[n])
		require.NoError(t, err)
	}
	require.NoError(t, s.Solve(context.Background(), solver.SolveParams{FinalTime: 0.5, CFL: 0.5}, nil, nil))
	for n := range before {
		after, err := s.Integral(FieldNames[n])
		require.NoError(t, err)
		assert.InDeltaf(t, before[n], after, 1e-10*math.Max(1, math.Abs(before[n])), FieldNames[n])
	}
	var l1 float64
	cells.ForInterior(func(i, j int) {
		ctr := cells.Centroids[cells.Index(i, j)]
		rho, _, _, _ := iv.GetStateC(s.Time, ctr[0], ctr[1])
		l1 += math.Abs(cells.Cell(i, j)[Rho] - rho)
	})
	assert.Less(t, l1/float64(N*N), 0.01)
}
