// Package Euler2D is the compressible Euler model: mass, momentum and total
// energy conservation closed by a thermodynamic equation of state.
package Euler2D

import (
	"math"

	"github.com/notargets/gofvm/eos"
	"github.com/notargets/gofvm/state"
	"github.com/notargets/gofvm/types"
)

// Field offsets of the Euler state vector
const (
	Rho  = iota // Density
	RhoU        // X momentum
	RhoV        // Y momentum
	RhoE        // Total energy per volume
	Rhoe        // Internal energy per volume
	U
	V
	P
	C
	Ie // Specific internal energy
)

var FieldNames = []string{"rho", "rhoU", "rhoV", "rhoE", "rhoe", "U", "V", "p", "c", "e"}

var Schema = state.MustNewSchema("euler", FieldNames, 4)

type Euler struct {
	EOS eos.Thermodynamic
}

func NewEuler(e eos.Thermodynamic) (*Euler, error) {
	if e == nil {
		return nil, types.NewConfigurationError("EOS", "the Euler model needs an equation of state")
	}
	return &Euler{EOS: e}, nil
}

func (c *Euler) Schema() *state.Schema { return Schema }

func (c *Euler) Flux(q []float64, F []float64) {
	var (
		u, v = q[U], q[V]
		H    = q[RhoE] + q[P]
	)
	F[0], F[1] = q[RhoU], q[RhoV]
	F[2], F[3] = q[RhoU]*u+q[P], q[RhoU]*v
	F[4], F[5] = q[RhoV]*u, q[RhoV]*v+q[P]
	F[6], F[7] = H*u, H*v
}

// Eigs returns the acoustic wave speeds, the entropy wave Un lies between them
func (c *Euler) Eigs(q []float64, normal [2]float64) [2]float64 {
	Un := q[U]*normal[0] + q[V]*normal[1]
	return [2]float64{Un + q[C], Un - q[C]}
}

func (c *Euler) Auxiliary(q []float64) {
	var (
		rho   = q[Rho]
		oorho = 1. / rho
	)
	q[U] = q[RhoU] * oorho
	q[V] = q[RhoV] * oorho
	q[Rhoe] = q[RhoE] - 0.5*rho*(q[U]*q[U]+q[V]*q[V])
	q[Ie] = q[Rhoe] * oorho
	q[P] = c.EOS.P(rho, q[Ie])
	q[C] = c.EOS.SoundVelocity(rho, q[P])
}

// PrimitiveState builds a full state from density, velocity and pressure
func (c *Euler) PrimitiveState(rho, u, v, p float64) (s state.State, err error) {
	if !(rho > 0) || math.IsInf(rho, 0) || math.IsNaN(p) || math.IsNaN(u) || math.IsNaN(v) {
		err = types.NewConfigurationError("state", "invalid primitive state rho=%g u=%g v=%g p=%g", rho, u, v, p)
		return
	}
	s = state.New(Schema)
	c.SetPrimitive(s.Values, rho, u, v, p)
	return
}

// SetPrimitive fills q from density, velocity and pressure
func (c *Euler) SetPrimitive(q []float64, rho, u, v, p float64) {
	var (
		rhoe = c.EOS.RhoE(rho, p)
	)
	q[Rho], q[RhoU], q[RhoV] = rho, rho*u, rho*v
	q[RhoE] = rhoe + 0.5*rho*(u*u+v*v)
	c.Auxiliary(q)
}

// Primitives maps the names accepted in input files onto a full state.
// Missing velocity components default to zero.
func (c *Euler) Primitives(prim map[string]float64) (s state.State, err error) {
	var (
		rho, okR = prim["rho"]
		p, okP   = prim["p"]
	)
	if !okR || !okP {
		err = types.NewConfigurationError("state", "Euler states need rho and p, got %v", prim)
		return
	}
	return c.PrimitiveState(rho, prim["U"]+prim["u"], prim["V"]+prim["v"], p)
}
