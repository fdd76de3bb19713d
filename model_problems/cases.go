// Package model_problems assembles runnable cases from input parameter files:
// the model, its mesh and boundary conditions, the scheme and the solver.
package model_problems

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notargets/gofvm/InputParameters"
	"github.com/notargets/gofvm/bc"
	"github.com/notargets/gofvm/eos"
	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/model_problems/Advection2D"
	"github.com/notargets/gofvm/model_problems/Euler2D"
	"github.com/notargets/gofvm/model_problems/Euler2D/isentropic_vortex"
	"github.com/notargets/gofvm/model_problems/TwoPhase2D"
	"github.com/notargets/gofvm/scheme"
	"github.com/notargets/gofvm/solver"
	"github.com/notargets/gofvm/state"
	"github.com/notargets/gofvm/types"
	"github.com/notargets/gofvm/writer"
)

// Model is a flux law that can also build states from input file primitives
type Model interface {
	scheme.Problem
	Primitives(prim map[string]float64) (state.State, error)
}

type ModelType uint8

const (
	M_Euler ModelType = iota
	M_Advection
	M_TwoPhase
)

var (
	ModelNames = map[string]ModelType{
		"euler":     M_Euler,
		"advection": M_Advection,
		"twophase":  M_TwoPhase,
		"two phase": M_TwoPhase,
	}
	ModelPrintNames = []string{"Euler", "Advection", "Two Phase"}
)

func (mt ModelType) Print() (txt string) {
	txt = ModelPrintNames[mt]
	return
}

func NewModelType(label string) (mt ModelType, err error) {
	var ok bool
	label = strings.ToLower(strings.TrimSpace(label))
	if mt, ok = ModelNames[label]; !ok {
		err = types.NewConfigurationError("Model", "unknown model %q, must be euler, advection or twophase", label)
	}
	return
}

type Case struct {
	Input       *InputParameters.InputParameters2D
	ModelType   ModelType
	Model       Model
	Left, Right state.State
	Mesh        *mesh.Mesh
	Scheme      *scheme.Scheme
	Solver      *solver.Solver
	euler       *Euler2D.Euler // Flow functions, Euler cases only
	logger      *zap.Logger
}

// NewCase builds a ready to run case: the initial condition is applied and
// the ghosts are current at t = 0
func NewCase(ip *InputParameters.InputParameters2D, logger *zap.Logger) (c *Case, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c = &Case{Input: ip, logger: logger}
	if c.ModelType, err = NewModelType(ip.Model); err != nil {
		return nil, err
	}
	if err = c.newModel(); err != nil {
		return nil, err
	}
	if err = c.newStates(); err != nil {
		return nil, err
	}
	var cells *mesh.CellSet
	d := ip.Domain
	if cells, err = mesh.NewRectangular(d[0], d[1], d[2], d[3], ip.Nx, ip.Ny, ip.Ghosts,
		c.Model.Schema().Len()); err != nil {
		return nil, err
	}
	c.Mesh = mesh.New(cells)
	if err = c.setBoundaries(); err != nil {
		return nil, err
	}
	if c.Scheme, err = c.newScheme(); err != nil {
		return nil, err
	}
	if c.Solver, err = solver.New(c.Mesh, c.Scheme, solver.WithLogger(logger)); err != nil {
		return nil, err
	}
	var initFn func(cells *mesh.CellSet)
	if initFn, err = c.initialCondition(); err != nil {
		return nil, err
	}
	if err = c.Solver.Init(initFn); err != nil {
		return nil, err
	}
	return
}

func (c *Case) newModel() (err error) {
	ip := c.Input
	switch c.ModelType {
	case M_Euler:
		var gas eos.StiffenedGas
		if gas, err = eos.NewStiffenedGas(ip.Gamma, ip.PInf); err != nil {
			return
		}
		if c.euler, err = Euler2D.NewEuler(gas); err != nil {
			return
		}
		c.Model = c.euler
	case M_Advection:
		var a *Advection2D.Advection
		if a, err = Advection2D.NewAdvection(ip.Velocity); err != nil {
			return
		}
		c.Model = a
	case M_TwoPhase:
		var phases [2]eos.LinearizedGas
		for n, ph := range ip.EOS {
			if phases[n], err = eos.NewLinearizedGas(ph.P0, ph.Rho0, ph.C0); err != nil {
				return fmt.Errorf("phase %d: %w", n+1, err)
			}
		}
		var tp *TwoPhase2D.TwoPhase
		if tp, err = TwoPhase2D.NewTwoPhase(eos.TwoPhase{Phase1: phases[0], Phase2: phases[1]}); err != nil {
			return
		}
		c.Model = tp
	}
	return
}

// newStates reads Left and Right; an empty Right repeats Left
func (c *Case) newStates() (err error) {
	ip := c.Input
	if c.Left, err = c.Model.Primitives(ip.Left); err != nil {
		return fmt.Errorf("Left: %w", err)
	}
	if len(ip.Right) == 0 {
		c.Right = c.Left.Copy()
		return
	}
	if c.Right, err = c.Model.Primitives(ip.Right); err != nil {
		return fmt.Errorf("Right: %w", err)
	}
	return
}

func (c *Case) setBoundaries() (err error) {
	var (
		ip       = c.Input
		assigned = make(map[mesh.Direction]string)
		bcTypes  = make([]string, 0, len(ip.BCs))
	)
	for key := range ip.BCs {
		bcTypes = append(bcTypes, key)
	}
	sort.Strings(bcTypes)
	for _, key := range bcTypes {
		var flag types.BCFLAG
		if flag, err = types.NewBCFLAG(key); err != nil {
			return
		}
		for _, sideName := range ip.Sides(key) {
			var (
				side   mesh.Direction
				params = ip.BCs[key][sideName]
				b      mesh.Boundary
			)
			if side, err = mesh.NewDirection(sideName); err != nil {
				return
			}
			if prev, ok := assigned[side]; ok {
				return types.NewConfigurationError("BCs", "side %s is set by both %q and %q", side, prev, key)
			}
			assigned[side] = key
			if b, err = c.newBoundary(flag, side, params); err != nil {
				return fmt.Errorf("%s boundary on side %s: %w", key, side, err)
			}
			c.Mesh.SetBoundary(side, b)
			c.logger.Debug("boundary", zap.Stringer("side", side), zap.String("bc", bc.Describe(b)))
		}
	}
	return
}

func (c *Case) newBoundary(flag types.BCFLAG, side mesh.Direction, params map[string]float64) (b mesh.Boundary, err error) {
	switch flag {
	case types.BC_Periodic:
		b = bc.Periodic{Axis: side.Axis()}
	case types.BC_Neumann:
		b = bc.Neumann{}
	case types.BC_None:
		b = bc.None{}
	case types.BC_Dirichlet:
		var s state.State
		if s, err = c.Model.Primitives(params); err != nil {
			return
		}
		b = bc.NewDirichlet(s)
	case types.BC_Inlet:
		// The ramp starts from the initial state on that side of X0
		var (
			to       state.State
			prim     = make(map[string]float64, len(params))
			rampTime = params["RampTime"]
			from     = c.Left
		)
		for k, v := range params {
			if k != "RampTime" {
				prim[k] = v
			}
		}
		if side == mesh.Right {
			from = c.Right
		}
		if to, err = c.Model.Primitives(prim); err != nil {
			return
		}
		b, err = bc.NewRamp(from, to, rampTime, c.Model.Auxiliary)
	default:
		err = types.NewConfigurationError("BCs", "boundary type %s is not supported", flag)
	}
	return
}

func (c *Case) newScheme() (sch *scheme.Scheme, err error) {
	var (
		ip      = c.Input
		ft      scheme.FluxType
		flux    scheme.FluxRule
		rt      scheme.ReconstructionType
		lt      scheme.LimiterType
		recon   scheme.Reconstruction
		it      scheme.IntegratorType
		tableau *scheme.ButcherTableau
	)
	switch {
	case ip.FluxType != "":
		if ft, err = scheme.NewFluxType(ip.FluxType); err != nil {
			return
		}
	case c.ModelType == M_Advection:
		ft = scheme.FLUX_Upwind
	default:
		ft = scheme.FLUX_Rusanov
	}
	if flux, err = scheme.NewFluxRule(ft, c.Model); err != nil {
		return
	}
	if rt, err = scheme.NewReconstructionType(ip.Reconstruction); err != nil {
		return
	}
	if lt, err = scheme.NewLimiterType(ip.Limiter); err != nil {
		return
	}
	if recon, err = scheme.NewReconstruction(rt, lt); err != nil {
		return
	}
	if it, err = scheme.NewIntegratorType(ip.Integrator); err != nil {
		return
	}
	if tableau, err = scheme.NewTableau(it, ip.RK2Alpha); err != nil {
		return
	}
	opts := []scheme.Option{
		scheme.WithReconstruction(recon),
		scheme.WithIntegrator(scheme.NewRungeKutta(tableau)),
		scheme.WithParallelDegree(ip.ParallelDegree),
	}
	if tp, ok := c.Model.(*TwoPhase2D.TwoPhase); ok {
		var pr *TwoPhase2D.PressureRelaxation
		if pr, err = TwoPhase2D.NewPressureRelaxation(tp, ip.RelaxationTolerance, ip.RelaxationMaxIterations); err != nil {
			return
		}
		opts = append(opts, scheme.WithRelaxation(pr, ip.Relaxation))
	}
	return scheme.New(c.Model, flux, opts...)
}

func (c *Case) initialCondition() (fn func(cells *mesh.CellSet), err error) {
	var (
		ip   = c.Input
		d    = ip.Domain
		left = c.Left
	)
	switch c.ModelType {
	case M_Euler:
		var it Euler2D.InitType
		if it, err = Euler2D.NewInitType(ip.InitType); err != nil {
			return
		}
		switch it {
		case Euler2D.FREESTREAM:
			fn = c.euler.InitializeFS(left)
		case Euler2D.SHOCKTUBE:
			fn = c.euler.InitializeShockTube(left, c.Right, ip.X0)
		case Euler2D.IVORTEX:
			beta := ip.Beta
			if beta == 0 {
				beta = 5
			}
			iv := isentropic_vortex.NewIVortex(beta, ip.X0, 0.5*(d[1]+d[3]), ip.Gamma)
			if c.Mesh.Kind(mesh.Left) == types.BC_Periodic {
				iv.Periodic(d[0], d[2]-d[0])
			}
			fn = c.euler.InitializeIVortex(iv)
		}
	case M_Advection:
		var it Advection2D.InitType
		if it, err = Advection2D.NewInitType(ip.InitType); err != nil {
			return
		}
		switch it {
		case Advection2D.STEP:
			fn = Advection2D.InitializeStep(left.Values[Advection2D.Q], c.Right.Values[Advection2D.Q], ip.X0)
		case Advection2D.SINE:
			fn = Advection2D.InitializeSine(left.Values[Advection2D.Q], ip.Amplitude, d[0], d[2]-d[0])
		}
	case M_TwoPhase:
		var it TwoPhase2D.InitType
		if it, err = TwoPhase2D.NewInitType(ip.InitType); err != nil {
			return
		}
		switch it {
		case TwoPhase2D.RIEMANN:
			fn = TwoPhase2D.InitializeRiemann(left, c.Right, ip.X0)
		case TwoPhase2D.UNIFORM:
			fn = TwoPhase2D.InitializeRiemann(left, left, ip.X0)
		}
	}
	return
}

func (c *Case) SolveParams() solver.SolveParams {
	return solver.SolveParams{
		FinalTime:     c.Input.FinalTime,
		CFL:           c.Input.CFL,
		MaxIterations: c.Input.MaxIterations,
	}
}

// Strategy picks time based output when DtSave is set, else every Every steps
func (c *Case) Strategy() writer.Strategy {
	out := c.Input.Output
	switch {
	case out.DtSave > 0:
		return writer.NewTimeStrategy(out.DtSave)
	case out.Every > 0:
		return writer.IterationStrategy{Every: out.Every}
	default:
		return writer.NeverStrategy{}
	}
}

func (c *Case) Run(ctx context.Context, w writer.Writer) error {
	return c.Solver.Solve(ctx, c.SolveParams(), w, c.Strategy())
}

// Field evaluates a schema field, or for Euler cases a flow function, on
// every interior cell in snapshot order
func (c *Case) Field(name string) (f []float64, err error) {
	var (
		cells  = c.Mesh.Cells
		schema = c.Model.Schema()
		eval   func(q []float64) float64
	)
	if n, serr := schema.Index(name); serr == nil {
		eval = func(q []float64) float64 { return q[n] }
	} else if c.euler != nil {
		var pf Euler2D.FlowFunction
		if pf, err = Euler2D.NewFlowFunction(name); err != nil {
			return nil, serr
		}
		eval = func(q []float64) float64 { return c.euler.GetFlowFunction(q, pf) }
	} else {
		return nil, serr
	}
	f = make([]float64, cells.Nx*cells.Ny)
	cells.ForInterior(func(i, j int) {
		f[i*cells.Ny+j] = eval(cells.Cell(i, j))
	})
	return
}

// Metadata describes the finished run for a writer.Store
func (c *Case) Metadata(wall time.Duration) writer.RunMetadata {
	var (
		ip    = c.Input
		recon = "First Order"
	)
	if c.Scheme.Reconstruction != nil {
		recon = c.Scheme.Reconstruction.Name()
	}
	return writer.RunMetadata{
		Title:          ip.Title,
		Model:          c.ModelType.Print(),
		Timestamp:      time.Now(),
		Nx:             ip.Nx,
		Ny:             ip.Ny,
		Flux:           c.Scheme.Flux.Name(),
		Reconstruction: recon,
		Integrator:     c.Scheme.Integrator.Name(),
		CFL:            ip.CFL,
		FinalTime:      c.Solver.Time,
		Steps:          c.Solver.Steps,
		WallSeconds:    wall.Seconds(),
	}
}
