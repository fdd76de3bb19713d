// Package eos provides the equations of state used to close the flow models.
// All of them are pure functions of their arguments.
package eos

import (
	"fmt"
	"math"

	"github.com/notargets/gofvm/types"
)

// Barotropic gives the pressure as a function of density alone
type Barotropic interface {
	P(rho float64) float64
	Rho(p float64) float64
	SoundVelocity(rho float64) float64
}

// Thermodynamic closes the Euler equations through the internal energy
type Thermodynamic interface {
	P(rho, e float64) float64
	RhoE(rho, p float64) float64 // Internal energy per unit volume
	SoundVelocity(rho, p float64) float64
}

// LinearizedGas is the barotropic law p = P0 + C0^2 (rho - Rho0)
type LinearizedGas struct {
	P0, Rho0, C0 float64
}

func NewLinearizedGas(p0, rho0, c0 float64) (lg LinearizedGas, err error) {
	if !(rho0 > 0) || !(c0 > 0) || math.IsInf(p0, 0) || math.IsNaN(p0) {
		err = types.NewConfigurationError("LinearizedGas",
			"need rho0 > 0 and c0 > 0, got p0=%g rho0=%g c0=%g", p0, rho0, c0)
		return
	}
	lg = LinearizedGas{P0: p0, Rho0: rho0, C0: c0}
	return
}

func (lg LinearizedGas) P(rho float64) float64 {
	return lg.P0 + lg.C0*lg.C0*(rho-lg.Rho0)
}

func (lg LinearizedGas) Rho(p float64) float64 {
	return (p-lg.P0)/(lg.C0*lg.C0) + lg.Rho0
}

func (lg LinearizedGas) SoundVelocity(rho float64) float64 {
	return lg.C0
}

// StiffenedGas is p = (Gamma-1) rho e - Gamma PInf; PInf = 0 is a perfect gas
type StiffenedGas struct {
	Gamma, PInf float64
}

func NewStiffenedGas(gamma, pInf float64) (sg StiffenedGas, err error) {
	if !(gamma > 1) || pInf < 0 || math.IsInf(pInf, 0) {
		err = types.NewConfigurationError("StiffenedGas",
			"need gamma > 1 and pInf >= 0, got gamma=%g pInf=%g", gamma, pInf)
		return
	}
	sg = StiffenedGas{Gamma: gamma, PInf: pInf}
	return
}

func NewPerfectGas(gamma float64) (StiffenedGas, error) {
	return NewStiffenedGas(gamma, 0)
}

func (sg StiffenedGas) P(rho, e float64) float64 {
	return (sg.Gamma-1)*rho*e - sg.Gamma*sg.PInf
}

func (sg StiffenedGas) RhoE(rho, p float64) float64 {
	return (p + sg.Gamma*sg.PInf) / (sg.Gamma - 1)
}

func (sg StiffenedGas) SoundVelocity(rho, p float64) float64 {
	return math.Sqrt(sg.Gamma * (p + sg.PInf) / rho)
}

func (sg StiffenedGas) String() string {
	if sg.PInf == 0 {
		return fmt.Sprintf("PerfectGas(gamma=%g)", sg.Gamma)
	}
	return fmt.Sprintf("StiffenedGas(gamma=%g, pInf=%g)", sg.Gamma, sg.PInf)
}

// TwoPhase carries one barotropic law per phase
type TwoPhase struct {
	Phase1, Phase2 Barotropic
}

func (tp TwoPhase) Phase(n int) Barotropic {
	if n == 1 {
		return tp.Phase1
	}
	return tp.Phase2
}
