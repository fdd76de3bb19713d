package mesh

import (
	"fmt"

	"github.com/notargets/gofvm/types"
)

// Boundary fills the ghost layers of one mesh side
type Boundary interface {
	Kind() types.BCFLAG
	Apply(cells *CellSet, side Direction, t float64)
}

// Mesh couples a cell set with the boundary condition on each of its sides.
// A side without a boundary behaves as None.
type Mesh struct {
	Cells      *CellSet
	Boundaries [4]Boundary
}

func New(cells *CellSet) *Mesh {
	return &Mesh{Cells: cells}
}

func (m *Mesh) SetBoundary(side Direction, b Boundary) *Mesh {
	m.Boundaries[side] = b
	return m
}

func (m *Mesh) Kind(side Direction) types.BCFLAG {
	if m.Boundaries[side] == nil {
		return types.BC_None
	}
	return m.Boundaries[side].Kind()
}

// ZeroFlux reports whether faces on side carry no flux
func (m *Mesh) ZeroFlux(side Direction) bool {
	return m.Kind(side) == types.BC_None
}

// Validate checks the boundary configuration. Periodic sides must come in
// opposite pairs. A None side across a direction with more than one cell is
// legal but reported as a warning.
func (m *Mesh) Validate() (warnings []string, err error) {
	cs := m.Cells
	for _, side := range Directions {
		kind := m.Kind(side)
		if kind == types.BC_Periodic && m.Kind(side.Opposite()) != types.BC_Periodic {
			err = types.NewConfigurationError("BCs",
				"periodic boundary on %s side is not paired, %s side is %s",
				side, side.Opposite(), m.Kind(side.Opposite()))
			return
		}
		if kind == types.BC_None {
			extent := cs.Nx
			if side.Axis() == 1 {
				extent = cs.Ny
			}
			if extent > 1 {
				warnings = append(warnings, fmt.Sprintf(
					"%s side has no boundary condition across %d cells, its faces carry zero flux",
					side, extent))
			}
		}
	}
	return
}

// UpdateGhosts refreshes all ghost layers of cells at time t. Sides without
// a boundary get zero gradient ghosts so that stencils stay defined.
func (m *Mesh) UpdateGhosts(cells *CellSet, t float64) {
	for _, side := range Directions {
		if b := m.Boundaries[side]; b != nil {
			b.Apply(cells, side, t)
		} else {
			FillZeroGradient(cells, side)
		}
	}
}

// GhostLayer visits every ghost cell on side with the interior cell its
// layer mirrors. layer 0 is adjacent to the interior.
func GhostLayer(cells *CellSet, side Direction, fn func(gi, gj, layer int)) {
	G := cells.NGhost
	switch side {
	case Left:
		for l := 0; l < G; l++ {
			for j := 0; j < cells.Ny; j++ {
				fn(-1-l, j, l)
			}
		}
	case Right:
		for l := 0; l < G; l++ {
			for j := 0; j < cells.Ny; j++ {
				fn(cells.Nx+l, j, l)
			}
		}
	case Bottom:
		for l := 0; l < G; l++ {
			for i := 0; i < cells.Nx; i++ {
				fn(i, -1-l, l)
			}
		}
	case Top:
		for l := 0; l < G; l++ {
			for i := 0; i < cells.Nx; i++ {
				fn(i, cells.Ny+l, l)
			}
		}
	}
}

// MirrorIndex is the interior cell reflected onto ghost (gi, gj) across side
func MirrorIndex(cells *CellSet, side Direction, gi, gj, layer int) (i, j int) {
	i, j = gi, gj
	switch side {
	case Left:
		i = layer
	case Right:
		i = cells.Nx - 1 - layer
	case Bottom:
		j = layer
	case Top:
		j = cells.Ny - 1 - layer
	}
	return
}

// PeriodicIndex is the interior cell that ghost (gi, gj) wraps onto
func PeriodicIndex(cells *CellSet, gi, gj int) (i, j int) {
	i = ((gi % cells.Nx) + cells.Nx) % cells.Nx
	j = ((gj % cells.Ny) + cells.Ny) % cells.Ny
	return
}

func clampLayer(cells *CellSet, side Direction, layer int) int {
	n := cells.Nx
	if side.Axis() == 1 {
		n = cells.Ny
	}
	if layer >= n {
		layer = n - 1
	}
	return layer
}

// FillZeroGradient copies interior layers outward, mirrored about the side
func FillZeroGradient(cells *CellSet, side Direction) {
	GhostLayer(cells, side, func(gi, gj, layer int) {
		i, j := MirrorIndex(cells, side, gi, gj, clampLayer(cells, side, layer))
		copy(cells.Cell(gi, gj), cells.Cell(i, j))
	})
}

// FillPeriodic copies the interior layers from the opposite side
func FillPeriodic(cells *CellSet, side Direction) {
	GhostLayer(cells, side, func(gi, gj, layer int) {
		i, j := PeriodicIndex(cells, gi, gj)
		copy(cells.Cell(gi, gj), cells.Cell(i, j))
	})
}

// FillConstant sets every ghost on side to value
func FillConstant(cells *CellSet, side Direction, value []float64) {
	GhostLayer(cells, side, func(gi, gj, layer int) {
		copy(cells.Cell(gi, gj), value)
	})
}
