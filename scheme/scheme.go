// Package scheme is the finite volume engine. It turns a Problem, a numerical
// flux and a time integrator into explicit updates of cell averaged states.
package scheme

import (
	"fmt"
	"math"
	"runtime"

	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/types"
	"github.com/notargets/gofvm/utils"
)

// Faces are summed pairwise per axis so that a uniform state gives an exactly zero residual
var accumulationOrder = [4]mesh.Direction{mesh.Left, mesh.Right, mesh.Bottom, mesh.Top}

// TimeIntegrator advances the base state of a mesh by one time step
type TimeIntegrator interface {
	Init(cells *mesh.CellSet, nc int)
	Step(s *Scheme, m *mesh.Mesh, t, dt float64) error
	Name() string
}

type Scheme struct {
	Problem        Problem
	Flux           FluxRule
	Reconstruction Reconstruction // nil is first order
	Integrator     TimeIntegrator
	StateLimiter   StateLimiter
	Relaxation     Relaxation
	DoRelaxation   bool
	ParallelDegree int

	nf, nc       int
	Nx, Ny       int
	partitions   *utils.PartitionMap // Interior columns
	reconCols    *utils.PartitionMap // Interior columns plus one ghost column each side
	fluxes       []FluxRule          // One per partition
	faceBuf      [][]float64         // One per partition
	faceValues   []float64           // [cell][Direction][field]
	lastResidual []float64
	initialized  bool
}

type Option func(s *Scheme)

func WithReconstruction(r Reconstruction) Option {
	return func(s *Scheme) { s.Reconstruction = r }
}

func WithIntegrator(ti TimeIntegrator) Option {
	return func(s *Scheme) { s.Integrator = ti }
}

func WithStateLimiter(l StateLimiter) Option {
	return func(s *Scheme) { s.StateLimiter = l }
}

func WithRelaxation(r Relaxation, enabled bool) Option {
	return func(s *Scheme) {
		s.Relaxation = r
		s.DoRelaxation = enabled
	}
}

// WithParallelDegree sets the number of column partitions, zero or less uses all CPUs
func WithParallelDegree(n int) Option {
	return func(s *Scheme) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		s.ParallelDegree = n
	}
}

func New(p Problem, flux FluxRule, opts ...Option) (s *Scheme, err error) {
	if p == nil || flux == nil {
		err = types.NewConfigurationError("Scheme", "a problem and a numerical flux are required")
		return
	}
	s = &Scheme{
		Problem:        p,
		Flux:           flux,
		Integrator:     NewRungeKutta(ForwardEuler),
		ParallelDegree: 1,
		nf:             p.Schema().Len(),
		nc:             p.Schema().NumConservative(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.DoRelaxation && s.Relaxation == nil {
		err = types.NewConfigurationError("Relaxation", "relaxation is enabled but no relaxation is set")
		return nil, err
	}
	return
}

// Init sizes the scratch storage from the mesh dimensions
func (s *Scheme) Init(cells *mesh.CellSet) (err error) {
	if cells.NumFields != s.nf {
		err = &types.SchemaError{Schema: s.Problem.Schema().Name(),
			Reason: fmt.Sprintf("cell set has %d fields per cell, schema has %d", cells.NumFields, s.nf)}
		return
	}
	if s.Reconstruction != nil && cells.NGhost < s.Reconstruction.GhostDepth() {
		err = types.NewConfigurationError("ghosts", "%s reconstruction needs %d ghost layers, mesh has %d",
			s.Reconstruction.Name(), s.Reconstruction.GhostDepth(), cells.NGhost)
		return
	}
	s.Nx, s.Ny = cells.Nx, cells.Ny
	s.partitions = utils.NewPartitionMap(s.ParallelDegree, cells.Nx)
	s.reconCols = utils.NewPartitionMap(s.ParallelDegree, cells.Nx+2)
	s.fluxes = make([]FluxRule, s.partitions.ParallelDegree)
	s.faceBuf = make([][]float64, s.partitions.ParallelDegree)
	for np := range s.fluxes {
		if np == 0 {
			s.fluxes[np] = s.Flux
		} else {
			s.fluxes[np] = s.Flux.Clone()
		}
		s.faceBuf[np] = make([]float64, s.nc)
	}
	s.faceValues = nil
	if s.Reconstruction != nil {
		s.faceValues = make([]float64, cells.NumCells()*4*s.nf)
	}
	s.lastResidual = make([]float64, cells.Nx*cells.Ny*s.nc)
	s.Integrator.Init(cells, s.nc)
	s.initialized = true
	return
}

func (s *Scheme) checkInit(cells *mesh.CellSet) error {
	if !s.initialized || cells.Nx != s.Nx || cells.Ny != s.Ny {
		return types.NewConfigurationError("Scheme", "Init has not been called for a %d x %d mesh", cells.Nx, cells.Ny)
	}
	return nil
}

// ResidualSize is the length of a residual array: interior cells times conservative fields
func (s *Scheme) ResidualSize() int { return s.Nx * s.Ny * s.nc }

// ResidualIndex is the offset of cell (i, j) in a residual array
func (s *Scheme) ResidualIndex(i, j int) int { return (i*s.Ny + j) * s.nc }

func (s *Scheme) faceState(cells *mesh.CellSet, i, j int, d mesh.Direction) []float64 {
	if s.faceValues == nil {
		return cells.Cell(i, j)
	}
	k := (cells.Index(i, j)*4 + int(d)) * s.nf
	return s.faceValues[k : k+s.nf : k+s.nf]
}

// facePair returns the states either side of the face of nv, the
// reconstructed face values when a reconstruction is set
func (s *Scheme) facePair(cells *mesh.CellSet, nv mesh.NeighbourView) (qL, qR []float64) {
	if s.faceValues == nil {
		return nv.Own, nv.Neighbour
	}
	ni, nj := nv.NeighbourIJ()
	return s.faceState(cells, nv.I, nv.J, nv.Direction), s.faceState(cells, ni, nj, nv.Direction.Opposite())
}

func (s *Scheme) reconstructAxis(cells *mesh.CellSet, i, j, axis int) {
	var (
		q            = cells.Cell(i, j)
		loDir, hiDir = mesh.Left, mesh.Right
	)
	if axis == 1 {
		loDir, hiDir = mesh.Bottom, mesh.Top
	}
	lo, hi := s.faceState(cells, i, j, loDir), s.faceState(cells, i, j, hiDir)
	copy(lo, q)
	copy(hi, q)
	s.Reconstruction.Reconstruct(cells, i, j, axis, s.nc, lo, hi)
	s.Problem.Auxiliary(lo)
	s.Problem.Auxiliary(hi)
}

// reconstruct fills the face states of the interior cells and of the first
// ghost layer, which are the only face states read by accumulate
func (s *Scheme) reconstruct(cells *mesh.CellSet) error {
	return s.reconCols.ForEachBucket(func(bn, kMin, kMax int) error {
		for ii := kMin; ii < kMax; ii++ {
			i := ii - 1
			if i == -1 || i == cells.Nx {
				for j := 0; j < cells.Ny; j++ {
					s.reconstructAxis(cells, i, j, 0)
				}
				continue
			}
			for j := 0; j < cells.Ny; j++ {
				s.reconstructAxis(cells, i, j, 0)
				s.reconstructAxis(cells, i, j, 1)
			}
			s.reconstructAxis(cells, i, -1, 1)
			s.reconstructAxis(cells, i, cells.Ny, 1)
		}
		return nil
	})
}

// Accumulate computes the residual of every interior cell of cells, the net
// numerical flux leaving the cell divided by its volume. Faces on sides with
// no boundary condition carry no flux. residual is laid out by ResidualIndex.
func (s *Scheme) Accumulate(m *mesh.Mesh, cells *mesh.CellSet, residual []float64) (err error) {
	if err = s.checkInit(cells); err != nil {
		return
	}
	if len(residual) != s.ResidualSize() {
		return types.NewConfigurationError("residual", "length %d, want %d", len(residual), s.ResidualSize())
	}
	if s.Reconstruction != nil {
		if err = s.reconstruct(cells); err != nil {
			return
		}
	}
	return s.partitions.ForEachBucket(func(bn, kMin, kMax int) error {
		var (
			flux = s.fluxes[bn]
			buf  = s.faceBuf[bn]
		)
		for i := kMin; i < kMax; i++ {
			for j := 0; j < cells.Ny; j++ {
				var (
					k   = cells.Index(i, j)
					res = residual[s.ResidualIndex(i, j) : s.ResidualIndex(i, j)+s.nc]
				)
				for n := range res {
					res[n] = 0
				}
				for _, d := range accumulationOrder {
					nv := cells.Neighbour(i, j, d)
					if nv.IsBoundary(cells) && m.ZeroFlux(d) {
						continue
					}
					qL, qR := s.facePair(cells, nv)
					flux.F(qL, qR, nv.Normal, nv.Surface, buf)
					for n := range res {
						res[n] += buf[n]
					}
				}
				ooV := 1. / cells.Volumes[k]
				for n := range res {
					res[n] *= ooV
				}
			}
		}
		return nil
	})
}

// CFL returns the largest stable time step for the interior of cells,
// cfl times the smallest cell size over the largest wave speed
func (s *Scheme) CFL(cells *mesh.CellSet, cfl float64) (dt float64, err error) {
	var (
		minSize = cells.MinCellSize()
		maxEig  float64
	)
	dt = math.NaN()
	if !(cfl > 0) || math.IsInf(cfl, 0) {
		err = types.NewConfigurationError("CFL", "CFL number must be positive and finite, got %g", cfl)
		return
	}
	for i := 0; i < cells.Nx; i++ {
		for j := 0; j < cells.Ny; j++ {
			var (
				k = cells.Index(i, j)
				q = cells.Cell(i, j)
			)
			for _, d := range mesh.Directions {
				eigs := s.Problem.Eigs(q, cells.Normals[k][d])
				for _, ev := range eigs {
					if !utils.IsFinite(ev) {
						err = &types.NumericalInstabilityError{Stage: -1, I: i, J: j,
							Field: "wave speed", Value: ev}
						return
					}
					maxEig = math.Max(maxEig, math.Abs(ev))
				}
			}
		}
	}
	if !(minSize > 0) || math.IsInf(minSize, 0) {
		err = &types.DegenerateMeshError{MinSize: minSize, MaxWaveSpeed: maxEig, Reason: "no positive cell size"}
		return
	}
	if maxEig == 0 {
		err = &types.DegenerateMeshError{MinSize: minSize, MaxWaveSpeed: maxEig, Reason: "all wave speeds are zero"}
		return
	}
	dt = cfl * minSize / maxEig
	return
}

// Step advances the base state of m from t to t+dt
func (s *Scheme) Step(m *mesh.Mesh, t, dt float64) (err error) {
	if err = s.checkInit(m.Cells); err != nil {
		return
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return types.NewConfigurationError("dt", "time step must be positive and finite, got %g", dt)
	}
	return s.Integrator.Step(s, m, t, dt)
}

// Auxiliary recomputes the derived fields of every cell, ghosts included
func (s *Scheme) Auxiliary(cells *mesh.CellSet) {
	for k := 0; k < cells.NumCells(); k++ {
		s.Problem.Auxiliary(cells.CellAt(k))
	}
}

// ResidualNorms returns the max norm of the last combined update per conservative field
func (s *Scheme) ResidualNorms() (norms []float64) {
	var (
		nCells = len(s.lastResidual) / max(s.nc, 1)
		col    = make([]float64, nCells)
	)
	norms = make([]float64, s.nc)
	if nCells == 0 {
		return
	}
	for n := 0; n < s.nc; n++ {
		for k := 0; k < nCells; k++ {
			col[k] = s.lastResidual[k*s.nc+n]
		}
		norms[n] = floats.Norm(col, math.Inf(1))
	}
	return
}

// checkFinite scans the first nf fields of every interior cell
func checkFinite(cells *mesh.CellSet, nf int, fieldName func(int) string) *types.NumericalInstabilityError {
	for i := 0; i < cells.Nx; i++ {
		for j := 0; j < cells.Ny; j++ {
			q := cells.Cell(i, j)
			if n := utils.FirstNonFinite(q[:nf]); n >= 0 {
				return &types.NumericalInstabilityError{I: i, J: j, Field: fieldName(n), Value: q[n]}
			}
		}
	}
	return nil
}

func (s *Scheme) checkResidual(residual []float64) *types.NumericalInstabilityError {
	if k := utils.FirstNonFinite(residual); k >= 0 {
		var (
			cell = k / s.nc
			n    = k % s.nc
		)
		return &types.NumericalInstabilityError{I: cell / s.Ny, J: cell % s.Ny,
			Field: "residual " + s.Problem.Schema().Field(n), Value: residual[k]}
	}
	return nil
}
