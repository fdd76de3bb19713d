// Package Advection2D is linear scalar advection by a constant velocity
package Advection2D

import (
	"math"
	"strings"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/state"
	"github.com/notargets/gofvm/types"
)

const Q = 0

var Schema = state.MustNewSchema("advection", []string{"u"}, 1)

type Advection struct {
	V [2]float64
}

func NewAdvection(V [2]float64) (*Advection, error) {
	for _, v := range V {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, types.NewConfigurationError("Velocity", "advection velocity %v is not finite", V)
		}
	}
	return &Advection{V: V}, nil
}

func (a *Advection) Schema() *state.Schema { return Schema }

func (a *Advection) Flux(q []float64, F []float64) {
	F[0], F[1] = q[Q]*a.V[0], q[Q]*a.V[1]
}

func (a *Advection) Eigs(q []float64, normal [2]float64) [2]float64 {
	vn := a.V[0]*normal[0] + a.V[1]*normal[1]
	return [2]float64{vn, vn}
}

func (a *Advection) Auxiliary(q []float64) {}

func (a *Advection) Velocity(q []float64) [2]float64 { return a.V }

// Primitives reads the transported value "u" from an input file state
func (a *Advection) Primitives(prim map[string]float64) (s state.State, err error) {
	u, ok := prim["u"]
	if !ok {
		err = types.NewConfigurationError("state", "advection states need u, got %v", prim)
		return
	}
	s = state.New(Schema)
	s.Values[Q] = u
	return
}

type InitType uint

const (
	STEP InitType = iota
	SINE
)

var (
	InitNames = map[string]InitType{
		"step":    STEP,
		"riemann": STEP,
		"sine":    SINE,
	}
	InitPrintNames = []string{"Step", "Sine Wave"}
)

func (it InitType) Print() (txt string) {
	txt = InitPrintNames[it]
	return
}

func NewInitType(label string) (it InitType, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if it, ok = InitNames[label]; !ok {
		err = types.NewConfigurationError("InitType", "unable to use init type named %q for the advection model", label)
	}
	return
}

// InitializeStep sets left for x < x0 and right elsewhere, ghosts included
func InitializeStep(left, right, x0 float64) func(cells *mesh.CellSet) {
	return func(cells *mesh.CellSet) {
		for k := 0; k < cells.NumCells(); k++ {
			if cells.Centroids[k][0] < x0 {
				cells.CellAt(k)[Q] = left
			} else {
				cells.CellAt(k)[Q] = right
			}
		}
	}
}

// InitializeSine sets mean + amp sin(2 pi (x - xMin) / L)
func InitializeSine(mean, amp, xMin, L float64) func(cells *mesh.CellSet) {
	return func(cells *mesh.CellSet) {
		for k := 0; k < cells.NumCells(); k++ {
			cells.CellAt(k)[Q] = mean + amp*math.Sin(2*math.Pi*(cells.Centroids[k][0]-xMin)/L)
		}
	}
}
