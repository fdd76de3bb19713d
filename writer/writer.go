// Package writer receives solution snapshots from the solver and hands them
// to storage, plots or memory without blocking the time loop.
package writer

import (
	"sync"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/state"
)

// Snapshot is a copy of the interior cells at one time level
type Snapshot struct {
	Time      float64
	Step      int
	Nx, Ny    int
	Fields    []string
	Centroids [][2]float64 // [i*Ny+j]
	Values    []float64    // [(i*Ny+j)*len(Fields)+field]
}

// NewSnapshot copies the interior of cells
func NewSnapshot(cells *mesh.CellSet, schema *state.Schema, t float64, step int) *Snapshot {
	var (
		nf = cells.NumFields
		s  = &Snapshot{
			Time: t, Step: step,
			Nx: cells.Nx, Ny: cells.Ny,
			Fields:    schema.Fields(),
			Centroids: make([][2]float64, cells.Nx*cells.Ny),
			Values:    make([]float64, cells.Nx*cells.Ny*nf),
		}
	)
	cells.ForInterior(func(i, j int) {
		ind := i*cells.Ny + j
		s.Centroids[ind] = cells.Centroids[cells.Index(i, j)]
		copy(s.Values[ind*nf:(ind+1)*nf], cells.Cell(i, j))
	})
	return s
}

func (s *Snapshot) NumFields() int { return len(s.Fields) }

func (s *Snapshot) FieldIndex(name string) int {
	for n, f := range s.Fields {
		if f == name {
			return n
		}
	}
	return -1
}

func (s *Snapshot) Cell(i, j int) []float64 {
	var (
		nf  = len(s.Fields)
		ind = (i*s.Ny + j) * nf
	)
	return s.Values[ind : ind+nf]
}

// Row extracts field n along x at row j
func (s *Snapshot) Row(n, j int) (x, f []float64) {
	x, f = make([]float64, s.Nx), make([]float64, s.Nx)
	for i := 0; i < s.Nx; i++ {
		x[i] = s.Centroids[i*s.Ny+j][0]
		f[i] = s.Cell(i, j)[n]
	}
	return
}

type Writer interface {
	Write(s *Snapshot) error
	Close() error
}

// MemoryWriter keeps every snapshot it receives
type MemoryWriter struct {
	mu        sync.Mutex
	Snapshots []*Snapshot
}

func (mw *MemoryWriter) Write(s *Snapshot) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	mw.Snapshots = append(mw.Snapshots, s)
	return nil
}

func (mw *MemoryWriter) Close() error { return nil }

func (mw *MemoryWriter) Len() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	return len(mw.Snapshots)
}

// Multi fans snapshots out to several writers
type Multi []Writer

func (m Multi) Write(s *Snapshot) (err error) {
	for _, w := range m {
		if e := w.Write(s); e != nil && err == nil {
			err = e
		}
	}
	return
}

func (m Multi) Close() (err error) {
	for _, w := range m {
		if e := w.Close(); e != nil && err == nil {
			err = e
		}
	}
	return
}
