package Euler2D

import (
	"math"
	"strings"

	"github.com/notargets/gofvm/eos"
	"github.com/notargets/gofvm/types"
)

type FlowFunction uint8

func (pm FlowFunction) String() string {
	strings := []string{
		"Density",
		"XMomentum",
		"YMomentum",
		"Energy",
		"Mach",
		"Static Pressure",
		"Dynamic Pressure",
		"Sound Speed",
		"Velocity",
		"XVelocity",
		"YVelocity",
		"Enthalpy",
		"Internal Energy",
		"Entropy",
	}
	return strings[int(pm)]
}

const (
	Density FlowFunction = iota
	XMomentum
	YMomentum
	Energy
	Mach            // 4
	StaticPressure  // 5
	DynamicPressure // 6
	SoundSpeed      // 7
	Velocity        // 8
	XVelocity       // 9
	YVelocity       // 10
	Enthalpy        // 11
	InternalEnergy  // 12
	Entropy         // 13
)

var FlowFunctionNames = map[string]FlowFunction{
	"density":         Density,
	"xmomentum":       XMomentum,
	"ymomentum":       YMomentum,
	"energy":          Energy,
	"mach":            Mach,
	"pressure":        StaticPressure,
	"staticpressure":  StaticPressure,
	"dynamicpressure": DynamicPressure,
	"soundspeed":      SoundSpeed,
	"velocity":        Velocity,
	"xvelocity":       XVelocity,
	"yvelocity":       YVelocity,
	"enthalpy":        Enthalpy,
	"internalenergy":  InternalEnergy,
	"entropy":         Entropy,
}

func NewFlowFunction(label string) (pf FlowFunction, err error) {
	var ok bool
	label = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", ""))
	if pf, ok = FlowFunctionNames[label]; !ok {
		err = types.NewConfigurationError("field", "unknown flow function %q", label)
	}
	return
}

// GetFlowFunction evaluates pf on a state whose derived fields are current
func (c *Euler) GetFlowFunction(q []float64, pf FlowFunction) (f float64) {
	var (
		rho   = q[Rho]
		oorho = 1. / rho
		u, v  = q[U], q[V]
	)
	switch pf {
	case Density:
		f = rho
	case XMomentum:
		f = q[RhoU]
	case YMomentum:
		f = q[RhoV]
	case Energy:
		f = q[RhoE]
	case StaticPressure:
		f = q[P]
	case DynamicPressure:
		f = 0.5 * rho * (u*u + v*v)
	case SoundSpeed:
		f = q[C]
	case Velocity:
		f = math.Sqrt(u*u + v*v)
	case XVelocity:
		f = u
	case YVelocity:
		f = v
	case Mach:
		f = math.Sqrt(u*u+v*v) / q[C]
	case Enthalpy:
		f = (q[RhoE] + q[P]) * oorho
	case InternalEnergy:
		f = q[Ie]
	case Entropy:
		f = c.entropy(q)
	}
	return
}

// entropy is the entropy function (p + PInf) / rho^gamma of a stiffened gas.
// Other equations of state get p / rho^gamma with gamma recovered as c^2 rho / p,
// which is exact for a perfect gas only.
func (c *Euler) entropy(q []float64) float64 {
	var sg *eos.StiffenedGas
	switch e := c.EOS.(type) {
	case eos.StiffenedGas:
		sg = &e
	case *eos.StiffenedGas:
		sg = e
	}
	if sg != nil {
		return (q[P] + sg.PInf) / math.Pow(q[Rho], sg.Gamma)
	}
	return q[P] / math.Pow(q[Rho], q[C]*q[C]*q[Rho]/q[P])
}
