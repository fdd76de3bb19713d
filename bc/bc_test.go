package bc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/state"
	"github.com/notargets/gofvm/types"
)

var testSchema = state.MustNewSchema("test", []string{"q", "twice"}, 1)

func newCells(t *testing.T) *mesh.CellSet {
	cs, err := mesh.NewRectangular(0, 0, 1, 1, 3, 2, 2, 2)
	require.NoError(t, err)
	cs.ForInterior(func(i, j int) {
		q := cs.Cell(i, j)
		q[0] = float64(10*i + j)
		q[1] = 2 * q[0]
	})
	return cs
}

func TestBoundaries(t *testing.T) {
	{ // Dirichlet fills every layer with the fixed state
		cs := newCells(t)
		v, _ := state.FromValues(testSchema, []float64{7, 14})
		d := NewDirichlet(v)
		v.Values[0] = 100 // constructor copies
		m := mesh.New(cs).SetBoundary(mesh.Left, d)
		m.UpdateGhosts(cs, 0)
		assert.Equal(t, []float64{7, 14}, cs.Cell(-1, 0))
		assert.Equal(t, []float64{7, 14}, cs.Cell(-2, 1))
		assert.Equal(t, types.BC_Dirichlet, m.Kind(mesh.Left))
	}
	{ // Neumann mirrors interior layers
		cs := newCells(t)
		m := mesh.New(cs).SetBoundary(mesh.Right, Neumann{})
		m.UpdateGhosts(cs, 0)
		assert.Equal(t, []float64{21, 42}, cs.Cell(3, 1))
		assert.Equal(t, []float64{11, 22}, cs.Cell(4, 1))
	}
	{ // Periodic pairs refresh symmetrically in one pass
		cs := newCells(t)
		m := mesh.New(cs)
		require.NoError(t, MakePeriodic(m, 1))
		m.UpdateGhosts(cs, 0)
		assert.Equal(t, []float64{21, 42}, cs.Cell(2, -1))
		assert.Equal(t, []float64{20, 40}, cs.Cell(2, -2))
		assert.Equal(t, []float64{20, 40}, cs.Cell(2, 2))
		assert.Equal(t, []float64{21, 42}, cs.Cell(2, 3))
		_, err := m.Validate()
		assert.NoError(t, err)
		assert.ErrorIs(t, MakePeriodic(m, 2), types.ErrConfiguration)
	}
	{ // None keeps ghosts defined and marks the side as zero flux
		cs := newCells(t)
		m := mesh.New(cs).SetBoundary(mesh.Top, None{})
		m.UpdateGhosts(cs, 0)
		assert.Equal(t, []float64{1, 2}, cs.Cell(0, 2))
		assert.True(t, m.ZeroFlux(mesh.Top))
	}
}

func TestRamp(t *testing.T) {
	var (
		from, _ = state.FromValues(testSchema, []float64{0, 0})
		to, _   = state.FromValues(testSchema, []float64{4, 8})
		aux     = func(q []float64) { q[1] = 2 * q[0] }
	)
	r, err := NewRamp(from, to, 2, aux)
	require.NoError(t, err)
	assert.Equal(t, types.BC_Inlet, r.Kind())
	assert.Equal(t, []float64{0, 0}, r.Value(0))
	assert.Equal(t, []float64{2, 4}, r.Value(1))
	assert.Equal(t, []float64{4, 8}, r.Value(2))
	assert.Equal(t, []float64{4, 8}, r.Value(5))

	cs := newCells(t)
	m := mesh.New(cs).SetBoundary(mesh.Left, r)
	m.UpdateGhosts(cs, 0.5)
	assert.Equal(t, []float64{1, 2}, cs.Cell(-1, 0))

	_, err = NewRamp(from, to, -1, aux)
	assert.ErrorIs(t, err, types.ErrConfiguration)
	other, _ := state.FromValues(state.MustNewSchema("other", []string{"q", "twice"}, 1), []float64{0, 0})
	_, err = NewRamp(from, other, 1, aux)
	assert.ErrorIs(t, err, types.ErrSchema)
}
