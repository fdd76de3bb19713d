package writer

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gopkg.in/yaml.v3"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/state"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var testSchema = state.MustNewSchema("test", []string{"q", "aux"}, 1)

func testSnapshot(t *testing.T) *Snapshot {
	cs, err := mesh.NewRectangular(0, 0, 1, 1, 4, 2, 1, 2)
	require.NoError(t, err)
	cs.ForAll(func(i, j int) {
		q := cs.Cell(i, j)
		q[0], q[1] = float64(i), float64(j)
	})
	return NewSnapshot(cs, testSchema, 0.5, 7)
}

func TestSnapshot(t *testing.T) {
	s := testSnapshot(t)
	assert.Equal(t, 4*2*2, len(s.Values))
	assert.Equal(t, []float64{3, 1}, s.Cell(3, 1))
	assert.Equal(t, [2]float64{0.875, 0.75}, s.Centroids[3*2+1])
	x, f := s.Row(0, 1)
	assert.Equal(t, []float64{0.125, 0.375, 0.625, 0.875}, x)
	assert.Equal(t, []float64{0, 1, 2, 3}, f)
	assert.Equal(t, 1, s.FieldIndex("aux"))
	assert.Equal(t, -1, s.FieldIndex("nope"))
}

func TestStrategies(t *testing.T) {
	{ // Time strategy writes at zero and at each crossing
		ts := NewTimeStrategy(0.1)
		var writes []float64
		for step, tt := 0, 0.; tt < 0.35; step, tt = step+1, tt+0.03 {
			if ts.ShouldWrite(tt, step) {
				writes = append(writes, tt)
			}
		}
		assert.InDeltaSlice(t, []float64{0, 0.12, 0.21, 0.30}, writes, 1e-12)
	}
	{ // Iteration strategy
		is := IterationStrategy{Every: 3}
		assert.True(t, is.ShouldWrite(0, 0))
		assert.False(t, is.ShouldWrite(0, 2))
		assert.True(t, is.ShouldWrite(0, 6))
		assert.False(t, NeverStrategy{}.ShouldWrite(0, 0))
	}
}

type blockingWriter struct {
	release chan struct{}
	mu      sync.Mutex
	n       int
	fail    bool
}

func (bw *blockingWriter) Write(s *Snapshot) error {
	<-bw.release
	bw.mu.Lock()
	defer bw.mu.Unlock()
	bw.n++
	if bw.fail {
		return errors.New("disk full")
	}
	return nil
}

func (bw *blockingWriter) Close() error { return nil }

func TestAsync(t *testing.T) {
	{ // Writes never block, overflow is dropped, Close drains
		bw := &blockingWriter{release: make(chan struct{})}
		a := NewAsync(bw, 2, nil)
		s := testSnapshot(t)
		for i := 0; i < 10; i++ {
			assert.NoError(t, a.Write(s))
		}
		assert.GreaterOrEqual(t, a.Dropped(), int64(7))
		close(bw.release)
		require.NoError(t, a.Close())
		assert.Equal(t, int64(10), a.Dropped()+int64(bw.n))
		assert.ErrorIs(t, a.Write(s), ErrClosed)
		assert.NoError(t, a.Close())
	}
	{ // The first write error surfaces on Close
		bw := &blockingWriter{release: make(chan struct{}), fail: true}
		close(bw.release)
		a := NewAsync(bw, 4, nil)
		require.NoError(t, a.Write(testSnapshot(t)))
		assert.EqualError(t, a.Close(), "disk full")
	}
	{ // Memory writer behind async
		mw := &MemoryWriter{}
		a := NewAsync(mw, 8, nil)
		for i := 0; i < 5; i++ {
			require.NoError(t, a.Write(testSnapshot(t)))
		}
		require.NoError(t, a.Close())
		assert.Equal(t, 5, mw.Len())
	}
}

func TestCSVWriter(t *testing.T) {
	dir := t.TempDir()
	cw, err := NewCSVWriter(dir, "run")
	require.NoError(t, err)
	require.NoError(t, cw.Write(testSnapshot(t)))
	require.Len(t, cw.Files, 1)
	assert.Equal(t, filepath.Join(dir, "run_000007.csv"), cw.Files[0])
	f, err := os.Open(cw.Files[0])
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+8)
	assert.Equal(t, []string{"time", "x", "y", "q", "aux"}, rows[0])
	assert.Equal(t, []string{"0.5", "0.875", "0.75", "3", "1"}, rows[8])
}

func TestStore(t *testing.T) {
	type input struct {
		Title string  `yaml:"Title"`
		CFL   float64 `yaml:"CFL"`
	}
	s := NewStore(t.TempDir())
	require.NoError(t, s.Init())
	run, err := s.NewRun("euler", input{Title: "sod", CFL: 0.5})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(run.ID, "euler_"))
	data, err := os.ReadFile(filepath.Join(run.Dir, "input.yaml"))
	require.NoError(t, err)
	var back input
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, input{Title: "sod", CFL: 0.5}, back)

	require.NoError(t, run.SaveMetadata(RunMetadata{Model: "euler", Steps: 12}))
	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, 12, runs[0].Steps)
}

func TestPlotProfile(t *testing.T) {
	s := testSnapshot(t)
	txt, err := PlotProfile(s, "q", 0, 20, 5)
	require.NoError(t, err)
	assert.Contains(t, txt, "q at t=0.5")
	_, err = PlotProfile(s, "nope", 0, 20, 5)
	assert.Error(t, err)
	_, err = PlotProfile(s, "q", 2, 20, 5)
	assert.Error(t, err)
}
