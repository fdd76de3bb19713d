package TwoPhase2D

import (
	"strings"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/state"
	"github.com/notargets/gofvm/types"
)

type InitType uint

const (
	RIEMANN InitType = iota
	UNIFORM
)

var (
	InitNames = map[string]InitType{
		"riemann":   RIEMANN,
		"shocktube": RIEMANN,
		"uniform":   UNIFORM,
	}
	InitPrintNames = []string{"Riemann Problem", "Uniform"}
)

func (it InitType) Print() (txt string) {
	txt = InitPrintNames[it]
	return
}

func NewInitType(label string) (it InitType, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if it, ok = InitNames[label]; !ok {
		err = types.NewConfigurationError("InitType", "unable to use init type named %q for the two phase model", label)
	}
	return
}

// InitializeRiemann places left for x < x0 and right elsewhere, ghosts included
func InitializeRiemann(left, right state.State, x0 float64) func(cells *mesh.CellSet) {
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
