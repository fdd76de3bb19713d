package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofvm/types"
)

type periodicSide struct{}

func (periodicSide) Kind() types.BCFLAG { return types.BC_Periodic }
func (periodicSide) Apply(cells *CellSet, side Direction, t float64) {
	FillPeriodic(cells, side)
}

func fillIndex(cs *CellSet) {
	cs.ForInterior(func(i, j int) {
		q := cs.Cell(i, j)
		q[0] = float64(i)
		q[1] = float64(j)
	})
}

func TestCellSet(t *testing.T) {
	{ // Layout and geometry of a rectangular mesh
		cs, err := NewRectangular(0, 0, 2, 1, 4, 2, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, 8, cs.NxT)
		assert.Equal(t, 6, cs.NyT)
		assert.Equal(t, 8*6*3, len(cs.Values))
		k := cs.Index(0, 0)
		assert.Equal(t, [2]float64{0.25, 0.25}, cs.Centroids[k])
		assert.Equal(t, 0.25, cs.Volumes[k])
		assert.Equal(t, [2]float64{-1, 0}, cs.Normals[k][Left])
		assert.Equal(t, [2]float64{0, 1}, cs.Normals[k][Top])
		assert.Equal(t, 0.5, cs.Surfaces[k][Left])
		assert.Equal(t, 0.5, cs.Surfaces[k][Bottom])
		assert.Equal(t, [2]float64{-0.75, 0.25}, cs.Centroids[cs.Index(-2, 0)])
		assert.Equal(t, 0.5, cs.MinCellSize())
		for _, ij := range [][2]int{{-2, -2}, {0, 0}, {3, 1}, {5, 3}} {
			i, j := cs.IJ(cs.Index(ij[0], ij[1]))
			assert.Equal(t, ij, [2]int{i, j})
		}
		x0, y0, x1, y1 := cs.Bounds()
		assert.InDeltaSlice(t, []float64{0, 0, 2, 1}, []float64{x0, y0, x1, y1}, 1e-15)
	}
	{ // Cell views write through, copies do not
		cs, err := NewRectangular(0, 0, 1, 1, 2, 2, 1, 2)
		require.NoError(t, err)
		cs.Cell(1, 1)[1] = 3
		assert.Equal(t, 3., cs.Values[cs.Index(1, 1)*2+1])
		cp := cs.Copy()
		cp.Cell(1, 1)[1] = 4
		assert.Equal(t, 3., cs.Cell(1, 1)[1])
		cs.CopyFrom(cp)
		assert.Equal(t, 4., cs.Cell(1, 1)[1])
		nv := cs.Neighbour(1, 1, Right)
		assert.True(t, nv.IsBoundary(cs))
		assert.Equal(t, [2]float64{1, 0}, nv.Normal)
		assert.Equal(t, 0.5, nv.Surface)
		assert.False(t, cs.Neighbour(0, 1, Right).IsBoundary(cs))
		nv = cs.Neighbour(0, 1, Bottom)
		ni, nj := nv.NeighbourIJ()
		assert.Equal(t, [2]int{0, 0}, [2]int{ni, nj})
		nv.Neighbour[1] = 7
		assert.Equal(t, 7., cs.Cell(0, 0)[1])
		assert.Equal(t, cs.Cell(0, 1), nv.Own)
	}
	{ // Degenerate inputs
		_, err := NewRectangular(0, 0, 0, 1, 4, 1, 1, 1)
		assert.ErrorIs(t, err, types.ErrDegenerateMesh)
		_, err = NewRectangular(0, 0, 1, 1, 0, 1, 1, 1)
		assert.ErrorIs(t, err, types.ErrDegenerateMesh)
		_, err = NewRectangular(0, 0, 1, 1, 4, 1, 0, 1)
		assert.ErrorIs(t, err, types.ErrConfiguration)
		cs, _ := NewRectangular(0, 0, 1, 1, 2, 1, 1, 1)
		g := *cs.Geometry
		g.Volumes = append([]float64(nil), g.Volumes...)
		g.Volumes[cs.Index(1, 0)] = 0
		_, err = NewFromGeometry(&g, 2, 1, 1, 1)
		assert.ErrorIs(t, err, types.ErrDegenerateMesh)
		_, err = NewFromGeometry(&Geometry{}, 2, 1, 1, 1)
		assert.ErrorIs(t, err, types.ErrConfiguration)
	}
}

func TestDirection(t *testing.T) {
	assert.Equal(t, Right, Left.Opposite())
	assert.Equal(t, Bottom, Top.Opposite())
	assert.Equal(t, 0, Right.Axis())
	assert.Equal(t, 1, Bottom.Axis())
	d, err := NewDirection(" Top")
	assert.NoError(t, err)
	assert.Equal(t, Top, d)
	_, err = NewDirection("front")
	assert.ErrorIs(t, err, types.ErrConfiguration)
	assert.Equal(t, "Bottom", Bottom.String())
}

func TestMesh_Ghosts(t *testing.T) {
	cs, err := NewRectangular(0, 0, 1, 1, 4, 3, 2, 2)
	require.NoError(t, err)
	fillIndex(cs)
	{ // Unset sides are zero gradient mirrors
		m := New(cs)
		m.UpdateGhosts(cs, 0)
		assert.Equal(t, []float64{0, 1}, cs.Cell(-1, 1))
		assert.Equal(t, []float64{1, 1}, cs.Cell(-2, 1))
		assert.Equal(t, []float64{3, 2}, cs.Cell(4, 2))
		assert.Equal(t, []float64{2, 2}, cs.Cell(5, 2))
		assert.Equal(t, []float64{2, 0}, cs.Cell(2, -1))
		assert.Equal(t, []float64{2, 1}, cs.Cell(2, 4))
	}
	{ // Periodic wraps both layers
		m := New(cs)
		m.SetBoundary(Left, periodicSide{}).SetBoundary(Right, periodicSide{})
		m.UpdateGhosts(cs, 0)
		assert.Equal(t, []float64{3, 1}, cs.Cell(-1, 1))
		assert.Equal(t, []float64{2, 1}, cs.Cell(-2, 1))
		assert.Equal(t, []float64{0, 1}, cs.Cell(4, 1))
		assert.Equal(t, []float64{1, 1}, cs.Cell(5, 1))
	}
}

func TestMesh_Validate(t *testing.T) {
	{ // Unpaired periodic side
		cs, _ := NewRectangular(0, 0, 1, 1, 4, 1, 1, 1)
		m := New(cs).SetBoundary(Left, periodicSide{})
		_, err := m.Validate()
		assert.ErrorIs(t, err, types.ErrConfiguration)
	}
	{ // None across a one cell direction is silent, otherwise a warning
		cs, _ := NewRectangular(0, 0, 1, 1, 4, 1, 1, 1)
		m := New(cs).SetBoundary(Left, periodicSide{}).SetBoundary(Right, periodicSide{})
		warnings, err := m.Validate()
		assert.NoError(t, err)
		assert.Empty(t, warnings)
		assert.True(t, m.ZeroFlux(Top))
		assert.False(t, m.ZeroFlux(Left))

		cs, _ = NewRectangular(0, 0, 1, 1, 4, 3, 1, 1)
		m = New(cs).SetBoundary(Left, periodicSide{}).SetBoundary(Right, periodicSide{})
		warnings, err = m.Validate()
		assert.NoError(t, err)
		assert.Len(t, warnings, 2)
	}
}
