package scheme

import (
	"math"

	"github.com/notargets/gofvm/types"
)

// Rusanov is the local Lax-Friedrichs flux. It reads the velocity and sound
// speed of each side by name, so any schema carrying U, V and c can use it.
type Rusanov struct {
	problem    Problem
	nc         int
	iU, iV, iC int
	fL, fR     []float64
}

func NewRusanov(p Problem) (rs *Rusanov, err error) {
	var idx []int
	if idx, err = p.Schema().Indices("U", "V", "c"); err != nil {
		return
	}
	nc := p.Schema().NumConservative()
	rs = &Rusanov{
		problem: p,
		nc:      nc,
		iU:      idx[0], iV: idx[1], iC: idx[2],
		fL: make([]float64, 2*nc),
		fR: make([]float64, 2*nc),
	}
	return
}

func (rs *Rusanov) Name() string { return "Rusanov" }

func (rs *Rusanov) Clone() FluxRule {
	c := *rs
	c.fL = make([]float64, 2*rs.nc)
	c.fR = make([]float64, 2*rs.nc)
	return &c
}

// ComputeSigma is the maximum signal speed of the face
func ComputeSigma(UnL, UnR, cL, cR float64) float64 {
	return math.Max(math.Abs(UnL)+cL, math.Abs(UnR)+cR)
}

func (rs *Rusanov) Sigma(qL, qR []float64, normal [2]float64) float64 {
	var (
		UnL = qL[rs.iU]*normal[0] + qL[rs.iV]*normal[1]
		UnR = qR[rs.iU]*normal[0] + qR[rs.iV]*normal[1]
	)
	return ComputeSigma(UnL, UnR, qL[rs.iC], qR[rs.iC])
}

func (rs *Rusanov) F(qL, qR []float64, normal [2]float64, surface float64, out []float64) {
	var (
		sigma = rs.Sigma(qL, qR, normal)
	)
	rs.problem.Flux(qL, rs.fL)
	rs.problem.Flux(qR, rs.fR)
	for n := 0; n < rs.nc; n++ {
		var (
			dF = 0.5*(rs.fL[2*n]+rs.fR[2*n])*normal[0] + 0.5*(rs.fL[2*n+1]+rs.fR[2*n+1])*normal[1]
			dQ = 0.5 * sigma * (qR[n] - qL[n])
		)
		out[n] = (dF - dQ) * surface
	}
}

// Upwind takes the physical flux of the side the velocity comes from
type Upwind struct {
	problem  Problem
	velocity Advective
	nc       int
	f        []float64
}

func NewUpwind(p Problem) (uw *Upwind, err error) {
	v, ok := p.(Advective)
	if !ok {
		err = &types.SchemaError{Schema: p.Schema().Name(),
			Reason: "upwind flux needs a problem with a transport velocity"}
		return
	}
	nc := p.Schema().NumConservative()
	uw = &Upwind{problem: p, velocity: v, nc: nc, f: make([]float64, 2*nc)}
	return
}

func (uw *Upwind) Name() string { return "Upwind" }

func (uw *Upwind) Clone() FluxRule {
	c := *uw
	c.f = make([]float64, 2*uw.nc)
	return &c
}

func (uw *Upwind) F(qL, qR []float64, normal [2]float64, surface float64, out []float64) {
	var (
		q = qL
	)
	// The face velocity is the same seen from either side, only its sign picks the state
	vL := uw.velocity.Velocity(qL)
	vR := uw.velocity.Velocity(qR)
	vn := 0.5 * ((vL[0]+vR[0])*normal[0] + (vL[1]+vR[1])*normal[1])
	if vn < 0 {
		q = qR
	}
	uw.problem.Flux(q, uw.f)
	for n := 0; n < uw.nc; n++ {
		out[n] = (uw.f[2*n]*normal[0] + uw.f[2*n+1]*normal[1]) * surface
	}
}
