package Euler2D

import (
	"strings"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/model_problems/Euler2D/isentropic_vortex"
	"github.com/notargets/gofvm/state"
	"github.com/notargets/gofvm/types"
)

type InitType uint

const (
	FREESTREAM InitType = iota
	IVORTEX
	SHOCKTUBE
)

var (
	InitNames = map[string]InitType{
		"freestream": FREESTREAM,
		"ivortex":    IVORTEX,
		"shocktube":  SHOCKTUBE,
		"riemann":    SHOCKTUBE,
	}
	InitPrintNames = []string{"Freestream", "Inviscid Vortex Analytic Solution", "Shock Tube"}
)

func (it InitType) Print() (txt string) {
	txt = InitPrintNames[it]
	return
}

func NewInitType(label string) (it InitType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if it, ok = InitNames[label]; !ok {
		err = types.NewConfigurationError("InitType", "unable to use init type named %q for the Euler model", label)
	}
	return
}

// InitializeFS sets every cell, ghosts included, to the state fs
func (c *Euler) InitializeFS(fs state.State) func(cells *mesh.CellSet) {
	return func(cells *mesh.CellSet) {
		for k := 0; k < cells.NumCells(); k++ {
			copy(cells.CellAt(k), fs.Values)
		}
	}
}

// InitializeShockTube places left for x < x0 and right elsewhere
func (c *Euler) InitializeShockTube(left, right state.State, x0 float64) func(cells *mesh.CellSet) {
	return func(cells *mesh.CellSet) {
		for k := 0; k < cells.NumCells(); k++ {
			if cells.Centroids[k][0] < x0 {
				copy(cells.CellAt(k), left.Values)
			} else {
				copy(cells.CellAt(k), right.Values)
			}
		}
	}
}

// InitializeIVortex samples the exact vortex at t = 0 on the cell centroids
func (c *Euler) InitializeIVortex(iv *isentropic_vortex.IVortex) func(cells *mesh.CellSet) {
	return func(cells *mesh.CellSet) {
		for k := 0; k < cells.NumCells(); k++ {
			var (
				x, y = cells.Centroids[k][0], cells.Centroids[k][1]
				q    = cells.CellAt(k)
			)
			q[Rho], q[RhoU], q[RhoV], q[RhoE] = iv.GetStateC(0, x, y)
			c.Auxiliary(q)
		}
	}
}
