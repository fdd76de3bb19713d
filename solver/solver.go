// Package solver drives a scheme over a mesh in time, hands snapshots to a
// writer and reports progress.
package solver

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/scheme"
	"github.com/notargets/gofvm/types"
	"github.com/notargets/gofvm/utils"
	"github.com/notargets/gofvm/writer"
)

type Solver struct {
	Mesh    *mesh.Mesh
	Scheme  *scheme.Scheme
	Time    float64
	Steps   int
	Elapsed time.Duration
	logger  *zap.Logger
}

type Option func(s *Solver)

func WithLogger(l *zap.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

type SolveParams struct {
	FinalTime     float64
	CFL           float64
	MaxIterations int // Zero or less is unlimited
	ProgressEvery int // Steps between progress lines, zero or less uses 100
}

// New validates the boundary configuration of m and prepares the scheme for it
func New(m *mesh.Mesh, sch *scheme.Scheme, opts ...Option) (s *Solver, err error) {
	if m == nil || m.Cells == nil || sch == nil {
		err = types.NewConfigurationError("Solver", "a mesh with cells and a scheme are required")
		return
	}
	s = &Solver{Mesh: m, Scheme: sch, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	var warnings []string
	if warnings, err = m.Validate(); err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.logger.Warn("boundary configuration", zap.String("warning", w))
	}
	if err = sch.Init(m.Cells); err != nil {
		return nil, err
	}
	return
}

// Init lets fn set the initial state, then completes the derived fields and ghost layers
func (s *Solver) Init(fn func(cells *mesh.CellSet)) error {
	var (
		cells  = s.Mesh.Cells
		schema = s.Scheme.Problem.Schema()
	)
	if fn != nil {
		fn(cells)
	}
	s.Scheme.Auxiliary(cells)
	s.Mesh.UpdateGhosts(cells, s.Time)
	for i := 0; i < cells.Nx; i++ {
		for j := 0; j < cells.Ny; j++ {
			q := cells.Cell(i, j)
			if n := utils.FirstNonFinite(q); n >= 0 {
				return &types.NumericalInstabilityError{Time: s.Time, Stage: -1, I: i, J: j,
					Field: schema.Field(n), Value: q[n]}
			}
		}
	}
	return nil
}

// CFL is the stable time step of the current state
func (s *Solver) CFL(cfl float64) (float64, error) {
	return s.Scheme.CFL(s.Mesh.Cells, cfl)
}

// Step advances exactly one time level of size dt. On error the state and
// time are unchanged.
func (s *Solver) Step(dt float64) (err error) {
	start := time.Now()
	if err = s.Scheme.Step(s.Mesh, s.Time, dt); err != nil {
		return
	}
	s.Elapsed += time.Since(start)
	s.Time += dt
	s.Steps++
	s.Mesh.UpdateGhosts(s.Mesh.Cells, s.Time)
	return
}

func (s *Solver) CheckIfFinished(FinalTime float64, MaxIterations int) (finished bool) {
	if s.Time >= FinalTime || (MaxIterations > 0 && s.Steps >= MaxIterations) {
		finished = true
	}
	return
}

// Solve steps from the current time to FinalTime at the CFL limited time
// step, clipping the last step to land on FinalTime. Snapshots go to w when
// strat asks for them. Cancellation of ctx is checked between steps.
func (s *Solver) Solve(ctx context.Context, p SolveParams, w writer.Writer, strat writer.Strategy) (err error) {
	if math.IsNaN(p.FinalTime) || math.IsInf(p.FinalTime, 0) || p.FinalTime < 0 {
		return types.NewConfigurationError("FinalTime", "must be finite and non negative, got %g", p.FinalTime)
	}
	if strat == nil {
		strat = writer.NeverStrategy{}
	}
	if p.ProgressEvery <= 0 {
		p.ProgressEvery = 100
	}
	s.PrintInitialization(p)
	if err = s.write(w, strat); err != nil {
		return
	}
	finished := s.CheckIfFinished(p.FinalTime, p.MaxIterations)
	for !finished {
		if err = ctx.Err(); err != nil {
			s.logger.Info("solve cancelled", zap.Int("step", s.Steps), zap.Float64("time", s.Time))
			return
		}
		var dt float64
		if dt, err = s.CFL(p.CFL); err != nil {
			return
		}
		last := s.Time+dt >= p.FinalTime
		if last {
			dt = p.FinalTime - s.Time
		}
		if err = s.Step(dt); err != nil {
			s.logger.Error("step failed", zap.Int("step", s.Steps+1), zap.Float64("time", s.Time),
				zap.Float64("dt", dt), zap.Error(err))
			return
		}
		if last {
			s.Time = p.FinalTime
		}
		finished = s.CheckIfFinished(p.FinalTime, p.MaxIterations)
		if finished || s.Steps%p.ProgressEvery == 0 || s.Steps == 1 {
			s.PrintUpdate(dt)
		}
		if err = s.write(w, strat); err != nil {
			return
		}
	}
	s.PrintFinal()
	return
}

func (s *Solver) write(w writer.Writer, strat writer.Strategy) error {
	if w == nil || !strat.ShouldWrite(s.Time, s.Steps) {
		return nil
	}
	return w.Write(s.Snapshot())
}

func (s *Solver) PrintInitialization(p SolveParams) {
	s.logger.Info("solving",
		zap.Float64("final_time", p.FinalTime),
		zap.Float64("cfl", p.CFL),
		zap.Int("max_iterations", p.MaxIterations),
		zap.Int("nx", s.Mesh.Cells.Nx), zap.Int("ny", s.Mesh.Cells.Ny),
		zap.String("flux", s.Scheme.Flux.Name()),
		zap.String("integrator", s.Scheme.Integrator.Name()))
}

func (s *Solver) PrintUpdate(dt float64) {
	s.logger.Info("progress",
		zap.Int("iter", s.Steps),
		zap.Float64("time", s.Time),
		zap.Float64("dt", dt),
		zap.Float64s("residual", s.Scheme.ResidualNorms()))
}

func (s *Solver) PrintFinal() {
	var (
		nCells = s.Mesh.Cells.Nx * s.Mesh.Cells.Ny
		rate   float64
		mem    = utils.GetMemUsage()
	)
	if s.Steps > 0 {
		rate = float64(s.Elapsed.Microseconds()) / float64(nCells*s.Steps)
	}
	s.logger.Info("finished",
		zap.Int("steps", s.Steps),
		zap.Float64("time", s.Time),
		zap.Duration("elapsed", s.Elapsed),
		zap.Float64("us_per_cell_iteration", rate),
		zap.Float64("alloc_mib", mem.AllocMiB),
		zap.Float64("sys_mib", mem.SysMiB),
		zap.Uint32("num_gc", mem.NumGC))
}

// Snapshot copies the interior state at the current time
func (s *Solver) Snapshot() *writer.Snapshot {
	return writer.NewSnapshot(s.Mesh.Cells, s.Scheme.Problem.Schema(), s.Time, s.Steps)
}

// Integral is the volume weighted sum of field over the interior cells
func (s *Solver) Integral(field string) (sum float64, err error) {
	var (
		n     int
		cells = s.Mesh.Cells
		vals  = make([]float64, 0, cells.Nx*cells.Ny)
		vols  = make([]float64, 0, cells.Nx*cells.Ny)
	)
	if n, err = s.Scheme.Problem.Schema().Index(field); err != nil {
		return
	}
	cells.ForInterior(func(i, j int) {
		vals = append(vals, cells.Cell(i, j)[n])
		vols = append(vols, cells.Volumes[cells.Index(i, j)])
	})
	sum = floats.Dot(vals, vols)
	return
}
