package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/gofvm/types"
)

// CellSet holds the per cell state and geometry of a structured mesh,
// including NGhost layers of ghost cells on every side. Cell (i, j) is
// interior when 0 <= i < Nx and 0 <= j < Ny, ghost indices run from -NGhost.
//
// Values is flat, NumFields entries per cell, cells ordered with j fastest.
// Geometry is shared between copies and never modified after construction.
type CellSet struct {
	Nx, Ny, NGhost int
	NxT, NyT       int // Totals including ghost layers
	NumFields      int
	Values         []float64
	*Geometry
}

// Geometry is the immutable per cell geometry over all cells, ghosts included
type Geometry struct {
	Centroids [][2]float64    // [cell]
	Volumes   []float64       // [cell]
	Normals   [][4][2]float64 // [cell][Direction], outward unit normals
	Surfaces  [][4]float64    // [cell][Direction], face lengths
}

func NewCellSet(geom *Geometry, Nx, Ny, NGhost, numFields int) (cs *CellSet, err error) {
	if Nx < 1 || Ny < 1 {
		err = &types.DegenerateMeshError{Reason: fmt.Sprintf("mesh has %d x %d interior cells", Nx, Ny)}
		return
	}
	if NGhost < 1 {
		err = types.NewConfigurationError("ghosts", "ghost depth %d must be at least 1", NGhost)
		return
	}
	if numFields < 1 {
		err = types.NewConfigurationError("fields", "cell set needs at least one field")
		return
	}
	cs = &CellSet{
		Nx: Nx, Ny: Ny, NGhost: NGhost,
		NxT: Nx + 2*NGhost, NyT: Ny + 2*NGhost,
		NumFields: numFields,
		Geometry:  geom,
	}
	cs.Values = make([]float64, cs.NxT*cs.NyT*numFields)
	if err = cs.checkGeometry(); err != nil {
		return nil, err
	}
	return
}

func (cs *CellSet) checkGeometry() error {
	nc := cs.NumCells()
	g := cs.Geometry
	if g == nil || len(g.Centroids) != nc || len(g.Volumes) != nc ||
		len(g.Normals) != nc || len(g.Surfaces) != nc {
		return types.NewConfigurationError("geometry",
			"geometry arrays must cover all %d x %d cells", cs.NxT, cs.NyT)
	}
	for i := 0; i < cs.Nx; i++ {
		for j := 0; j < cs.Ny; j++ {
			k := cs.Index(i, j)
			if !(g.Volumes[k] > 0) || math.IsInf(g.Volumes[k], 0) {
				return &types.DegenerateMeshError{
					Reason: fmt.Sprintf("cell (%d,%d) has volume %g", i, j, g.Volumes[k])}
			}
			for _, d := range Directions {
				if !(g.Surfaces[k][d] > 0) || math.IsInf(g.Surfaces[k][d], 0) {
					return &types.DegenerateMeshError{
						Reason: fmt.Sprintf("cell (%d,%d) face %s has length %g", i, j, d, g.Surfaces[k][d])}
				}
			}
		}
	}
	return nil
}

func (cs *CellSet) NumCells() int { return cs.NxT * cs.NyT }

// Index is the flat cell index of (i, j), ghost coordinates allowed
func (cs *CellSet) Index(i, j int) int {
	return (i+cs.NGhost)*cs.NyT + (j + cs.NGhost)
}

// IJ inverts Index
func (cs *CellSet) IJ(k int) (i, j int) {
	i, j = k/cs.NyT-cs.NGhost, k%cs.NyT-cs.NGhost
	return
}

func (cs *CellSet) IsInterior(i, j int) bool {
	return i >= 0 && i < cs.Nx && j >= 0 && j < cs.Ny
}

// Cell is a view of the state of cell (i, j), writes go through
func (cs *CellSet) Cell(i, j int) []float64 {
	k := cs.Index(i, j) * cs.NumFields
	return cs.Values[k : k+cs.NumFields : k+cs.NumFields]
}

func (cs *CellSet) CellAt(k int) []float64 {
	k *= cs.NumFields
	return cs.Values[k : k+cs.NumFields : k+cs.NumFields]
}

// Neighbour returns a read only pairing of cell (i, j) with its neighbour across face d
func (cs *CellSet) Neighbour(i, j int, d Direction) NeighbourView {
	di, dj := d.Offset()
	k := cs.Index(i, j)
	return NeighbourView{
		I: i, J: j, Direction: d,
		Own:       cs.Cell(i, j),
		Neighbour: cs.Cell(i+di, j+dj),
		Normal:    cs.Normals[k][d],
		Surface:   cs.Surfaces[k][d],
	}
}

// Copy duplicates the state values, geometry is shared
func (cs *CellSet) Copy() *CellSet {
	c := *cs
	c.Values = make([]float64, len(cs.Values))
	copy(c.Values, cs.Values)
	return &c
}

// CopyFrom copies all values from o, which must have the same layout
func (cs *CellSet) CopyFrom(o *CellSet) {
	copy(cs.Values, o.Values)
}

// MinCellSize is the smallest interior cell extent, volume over its longest face
func (cs *CellSet) MinCellSize() (minSize float64) {
	minSize = math.Inf(1)
	for i := 0; i < cs.Nx; i++ {
		for j := 0; j < cs.Ny; j++ {
			var (
				k       = cs.Index(i, j)
				maxFace float64
			)
			for _, d := range Directions {
				maxFace = math.Max(maxFace, cs.Surfaces[k][d])
			}
			minSize = math.Min(minSize, cs.Volumes[k]/maxFace)
		}
	}
	return
}

// ForInterior visits interior cells in row order
func (cs *CellSet) ForInterior(fn func(i, j int)) {
	for i := 0; i < cs.Nx; i++ {
		for j := 0; j < cs.Ny; j++ {
			fn(i, j)
		}
	}
}

// ForAll visits every cell, ghosts included
func (cs *CellSet) ForAll(fn func(i, j int)) {
	for i := -cs.NGhost; i < cs.Nx+cs.NGhost; i++ {
		for j := -cs.NGhost; j < cs.Ny+cs.NGhost; j++ {
			fn(i, j)
		}
	}
}
