// Package TwoPhase2D is a two phase flow model with a single velocity and a
// large scale volume fraction, each phase closed by a barotropic law. Phase
// pressures are brought to equilibrium by an algebraic relaxation step.
package TwoPhase2D

import (
	"math"

	"github.com/notargets/gofvm/eos"
	"github.com/notargets/gofvm/state"
	"github.com/notargets/gofvm/types"
)

// Field offsets. The first five are conserved.
const (
	AbarRho = iota // Volume fraction of phase 1 times mixture density
	RhoU
	RhoV
	ARho1 // Partial density of phase 1
	ARho2 // Partial density of phase 2
	Rho
	U
	V
	P // Mixture pressure
	C // Mixture sound speed
	Abar
	P1
	C1
	P2
	C2
)

var FieldNames = []string{"abarrho", "rhoU", "rhoV", "arho1", "arho2",
	"rho", "U", "V", "P", "c", "abar", "p1", "c1", "p2", "c2"}

var Schema = state.MustNewSchema("twophase", FieldNames, 5)

type TwoPhase struct {
	EOS eos.TwoPhase
}

func NewTwoPhase(e eos.TwoPhase) (*TwoPhase, error) {
	if e.Phase1 == nil || e.Phase2 == nil {
		return nil, types.NewConfigurationError("EOS", "both phases need an equation of state")
	}
	return &TwoPhase{EOS: e}, nil
}

func (tp *TwoPhase) Schema() *state.Schema { return Schema }

func (tp *TwoPhase) Flux(q []float64, F []float64) {
	var (
		u, v = q[U], q[V]
	)
	F[0], F[1] = q[AbarRho]*u, q[AbarRho]*v
	F[2], F[3] = q[RhoU]*u+q[P], q[RhoU]*v
	F[4], F[5] = q[RhoV]*u, q[RhoV]*v+q[P]
	F[6], F[7] = q[ARho1]*u, q[ARho1]*v
	F[8], F[9] = q[ARho2]*u, q[ARho2]*v
}

func (tp *TwoPhase) Eigs(q []float64, normal [2]float64) [2]float64 {
	Un := q[U]*normal[0] + q[V]*normal[1]
	return [2]float64{Un + q[C], Un - q[C]}
}

// Auxiliary recovers the phase states from the conserved fields. A phase
// that has vanished takes the pressure of the other one.
func (tp *TwoPhase) Auxiliary(q []float64) {
	var (
		e1, e2 = tp.EOS.Phase1, tp.EOS.Phase2
		rho    = q[ARho1] + q[ARho2]
		abar   = q[AbarRho] / rho
	)
	q[Rho] = rho
	q[U], q[V] = q[RhoU]/rho, q[RhoV]/rho
	q[Abar] = abar
	switch {
	case abar <= 0:
		q[P2] = e2.P(q[ARho2] / (1 - abar))
		q[C2] = e2.SoundVelocity(q[ARho2] / (1 - abar))
		q[P1] = q[P2]
		q[C1] = e1.SoundVelocity(e1.Rho(q[P2]))
	case abar >= 1:
		q[P1] = e1.P(q[ARho1] / abar)
		q[C1] = e1.SoundVelocity(q[ARho1] / abar)
		q[P2] = q[P1]
		q[C2] = e2.SoundVelocity(e2.Rho(q[P1]))
	default:
		rho1, rho2 := q[ARho1]/abar, q[ARho2]/(1-abar)
		q[P1], q[C1] = e1.P(rho1), e1.SoundVelocity(rho1)
		q[P2], q[C2] = e2.P(rho2), e2.SoundVelocity(rho2)
	}
	q[P] = abar*q[P1] + (1-abar)*q[P2]
	q[C] = math.Sqrt((q[ARho1]*q[C1]*q[C1] + q[ARho2]*q[C2]*q[C2]) / rho)
}

// RiemannState maps the volume fraction, phase densities and x velocity of a
// Riemann problem side onto a full state
func (tp *TwoPhase) RiemannState(alphabar, rho1, rho2, u float64) (s state.State, err error) {
	if !(alphabar >= 0 && alphabar <= 1) || !(rho1 > 0) || !(rho2 > 0) || math.IsNaN(u) || math.IsInf(u, 0) {
		err = types.NewConfigurationError("state",
			"invalid two phase state alphabar=%g rho1=%g rho2=%g U=%g", alphabar, rho1, rho2, u)
		return
	}
	var (
		e1, e2 = tp.EOS.Phase1, tp.EOS.Phase2
		arho1  = alphabar * rho1
		arho2  = (1 - alphabar) * rho2
		rho    = arho1 + arho2
		p1, p2 = e1.P(rho1), e2.P(rho2)
		c1, c2 = e1.SoundVelocity(rho1), e2.SoundVelocity(rho2)
	)
	s = state.New(Schema)
	q := s.Values
	q[AbarRho] = alphabar * rho
	q[RhoU], q[RhoV] = rho*u, 0
	q[ARho1], q[ARho2] = arho1, arho2
	q[Rho], q[U], q[V] = rho, u, 0
	q[Abar] = alphabar
	q[P1], q[C1], q[P2], q[C2] = p1, c1, p2, c2
	q[P] = alphabar*p1 + (1-alphabar)*p2
	q[C] = math.Sqrt((arho1*c1*c1 + arho2*c2*c2) / rho)
	return
}

// Primitives reads alphabar, rho1, rho2 and U from an input file state
func (tp *TwoPhase) Primitives(prim map[string]float64) (s state.State, err error) {
	var (
		ab, okA   = prim["alphabar"]
		rho1, ok1 = prim["rho1"]
		rho2, ok2 = prim["rho2"]
	)
	if !okA || !ok1 || !ok2 {
		err = types.NewConfigurationError("state", "two phase states need alphabar, rho1 and rho2, got %v", prim)
		return
	}
	return tp.RiemannState(ab, rho1, rho2, prim["U"]+prim["u"])
}
