// Package bc implements the boundary conditions that fill mesh ghost cells.
package bc

import (
	"fmt"
	"math"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/state"
	"github.com/notargets/gofvm/types"
)

// Dirichlet holds every ghost layer at a fixed full state
type Dirichlet struct {
	Value state.State
}

func NewDirichlet(value state.State) *Dirichlet {
	return &Dirichlet{Value: value.Copy()}
}

func (d *Dirichlet) Kind() types.BCFLAG { return types.BC_Dirichlet }

func (d *Dirichlet) Apply(cells *mesh.CellSet, side mesh.Direction, t float64) {
	mesh.FillConstant(cells, side, d.Value.Values)
}

// Ramp is a time dependent Dirichlet condition. The conservative fields move
// linearly from From to To over RampTime and stay at To afterwards. Derived
// fields are recomputed with Auxiliary after blending.
type Ramp struct {
	From, To  state.State
	RampTime  float64
	Auxiliary func(q []float64)
	value     []float64
}

func NewRamp(from, to state.State, rampTime float64, auxiliary func(q []float64)) (r *Ramp, err error) {
	if from.Schema != to.Schema {
		err = &types.SchemaError{Schema: to.Schema.Name(), Reason: "ramp end states use different schemas"}
		return
	}
	if !(rampTime >= 0) || math.IsInf(rampTime, 0) {
		err = types.NewConfigurationError("RampTime", "must be finite and non negative, got %g", rampTime)
		return
	}
	r = &Ramp{
		From:      from.Copy(),
		To:        to.Copy(),
		RampTime:  rampTime,
		Auxiliary: auxiliary,
		value:     make([]float64, from.Schema.Len()),
	}
	return
}

func (r *Ramp) Kind() types.BCFLAG { return types.BC_Inlet }

// Value returns the ghost state at time t
func (r *Ramp) Value(t float64) []float64 {
	var (
		w  = 1.
		nc = r.From.Schema.NumConservative()
	)
	if r.RampTime > 0 && t < r.RampTime {
		w = math.Max(t, 0) / r.RampTime
	}
	copy(r.value, r.To.Values)
	if w < 1 {
		for n := 0; n < nc; n++ {
			r.value[n] = r.From.Values[n] + w*(r.To.Values[n]-r.From.Values[n])
		}
		if r.Auxiliary != nil {
			r.Auxiliary(r.value)
		}
	}
	return r.value
}

func (r *Ramp) Apply(cells *mesh.CellSet, side mesh.Direction, t float64) {
	mesh.FillConstant(cells, side, r.Value(t))
}

// Neumann mirrors the interior layers, giving a zero normal gradient
type Neumann struct{}

func (Neumann) Kind() types.BCFLAG { return types.BC_Neumann }

func (Neumann) Apply(cells *mesh.CellSet, side mesh.Direction, t float64) {
	mesh.FillZeroGradient(cells, side)
}

// Periodic wraps ghosts onto the interior of the opposite side. It is only
// valid when the opposite side is Periodic as well.
type Periodic struct {
	Axis int
}

func (p Periodic) Kind() types.BCFLAG { return types.BC_Periodic }

func (p Periodic) Apply(cells *mesh.CellSet, side mesh.Direction, t float64) {
	mesh.FillPeriodic(cells, side)
}

// MakePeriodic pairs both sides normal to axis
func MakePeriodic(m *mesh.Mesh, axis int) error {
	switch axis {
	case 0:
		m.SetBoundary(mesh.Left, Periodic{Axis: 0}).SetBoundary(mesh.Right, Periodic{Axis: 0})
	case 1:
		m.SetBoundary(mesh.Bottom, Periodic{Axis: 1}).SetBoundary(mesh.Top, Periodic{Axis: 1})
	default:
		return types.NewConfigurationError("periodic axis", "axis %d is not 0 (x) or 1 (y)", axis)
	}
	return nil
}

// None leaves the side inert: ghosts are zero gradient and faces carry no flux
type None struct{}

func (None) Kind() types.BCFLAG { return types.BC_None }

func (None) Apply(cells *mesh.CellSet, side mesh.Direction, t float64) {
	mesh.FillZeroGradient(cells, side)
}

func Describe(b mesh.Boundary) string {
	switch v := b.(type) {
	case nil:
		return "None (unset)"
	case *Dirichlet:
		return fmt.Sprintf("Dirichlet %v", v.Value.Values[:v.Value.Schema.NumConservative()])
	case *Ramp:
		return fmt.Sprintf("Inlet ramp over %g", v.RampTime)
	default:
		return b.Kind().String()
	}
}
