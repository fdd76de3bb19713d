package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"go.uber.org/zap"
)

// Barotropic phase of a two phase mixture, p = P0 + C0^2 (rho - Rho0)
type PhaseParameters struct {
	P0   float64 `json:"P0" yaml:"P0"`
	Rho0 float64 `json:"Rho0" yaml:"Rho0"`
	C0   float64 `json:"C0" yaml:"C0"`
}

type OutputParameters struct {
	Directory string  `json:"Directory" yaml:"Directory"`
	DtSave    float64 `json:"DtSave" yaml:"DtSave"`
	Every     int     `json:"Every" yaml:"Every"`
	Format    string  `json:"Format" yaml:"Format"`
}

// Parameters obtained from the YAML input file
type InputParameters2D struct {
	Title                   string                                   `json:"Title" yaml:"Title"`
	Model                   string                                   `json:"Model" yaml:"Model"`
	FluxType                string                                   `json:"FluxType" yaml:"FluxType"`
	Reconstruction          string                                   `json:"Reconstruction" yaml:"Reconstruction"`
	Limiter                 string                                   `json:"Limiter" yaml:"Limiter"`
	Integrator              string                                   `json:"Integrator" yaml:"Integrator"`
	RK2Alpha                float64                                  `json:"RK2Alpha" yaml:"RK2Alpha"`
	CFL                     float64                                  `json:"CFL" yaml:"CFL"`
	FinalTime               float64                                  `json:"FinalTime" yaml:"FinalTime"`
	MaxIterations           int                                      `json:"MaxIterations" yaml:"MaxIterations"`
	Nx                      int                                      `json:"Nx" yaml:"Nx"`
	Ny                      int                                      `json:"Ny" yaml:"Ny"`
	Ghosts                  int                                      `json:"Ghosts" yaml:"Ghosts"`
	Domain                  [4]float64                               `json:"Domain" yaml:"Domain"` // xMin, yMin, xMax, yMax
	InitType                string                                   `json:"InitType" yaml:"InitType"`
	X0                      float64                                  `json:"X0" yaml:"X0"`
	Left                    map[string]float64                       `json:"Left" yaml:"Left"`
	Right                   map[string]float64                       `json:"Right" yaml:"Right"`
	Amplitude               float64                                  `json:"Amplitude" yaml:"Amplitude"`
	Beta                    float64                                  `json:"Beta" yaml:"Beta"`
	Gamma                   float64                                  `json:"Gamma" yaml:"Gamma"`
	PInf                    float64                                  `json:"PInf" yaml:"PInf"`
	Velocity                [2]float64                               `json:"Velocity" yaml:"Velocity"`
	EOS                     [2]PhaseParameters                       `json:"EOS" yaml:"EOS"`
	Relaxation              bool                                     `json:"Relaxation" yaml:"Relaxation"`
	RelaxationTolerance     float64                                  `json:"RelaxationTolerance" yaml:"RelaxationTolerance"`
	RelaxationMaxIterations int                                      `json:"RelaxationMaxIterations" yaml:"RelaxationMaxIterations"`
	ParallelDegree          int                                      `json:"ParallelDegree" yaml:"ParallelDegree"`
	BCs                     map[string]map[string]map[string]float64 `json:"BCs" yaml:"BCs"` // BC type, then side, then parameter name
	Output                  OutputParameters                         `json:"Output" yaml:"Output"`
}

func (ip *InputParameters2D) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return fmt.Errorf("input parameters: %w", err)
	}
	ip.SetDefaults()
	return
}

// SetDefaults fills the parameters left out of an input file
func (ip *InputParameters2D) SetDefaults() {
	if ip.Model == "" {
		ip.Model = "euler"
	}
	if ip.Reconstruction == "" {
		ip.Reconstruction = "first order"
	}
	if ip.Limiter == "" {
		ip.Limiter = "minmod"
	}
	if ip.Integrator == "" {
		ip.Integrator = "forward euler"
	}
	if ip.CFL == 0 {
		ip.CFL = 0.5
	}
	if ip.Ny == 0 {
		ip.Ny = 1
	}
	if ip.Ghosts == 0 {
		ip.Ghosts = 2
	}
	if ip.Domain == [4]float64{} {
		ip.Domain = [4]float64{0, 0, 1, 1}
	}
	if ip.Gamma == 0 {
		ip.Gamma = 1.4
	}
	if ip.Output.Format == "" {
		ip.Output.Format = "csv"
	}
}

// Sides returns the sides named in the BCs map for one BC type, sorted
func (ip *InputParameters2D) Sides(bcType string) (sides []string) {
	for side := range ip.BCs[bcType] {
		sides = append(sides, side)
	}
	sort.Strings(sides)
	return
}

func (ip *InputParameters2D) Print(logger *zap.Logger) {
	logger.Info("input parameters",
		zap.String("title", ip.Title),
		zap.String("model", ip.Model),
		zap.Float64("cfl", ip.CFL),
		zap.Float64("final_time", ip.FinalTime),
		zap.String("flux", ip.FluxType),
		zap.String("reconstruction", ip.Reconstruction),
		zap.String("limiter", ip.Limiter),
		zap.String("integrator", ip.Integrator),
		zap.String("init", ip.InitType),
		zap.Ints("cells", []int{ip.Nx, ip.Ny}),
		zap.Float64s("domain", ip.Domain[:]),
	)
	keys := make([]string, 0, len(ip.BCs))
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		logger.Info("boundary conditions",
			zap.String("type", key),
			zap.String("sides", strings.Join(ip.Sides(key), ",")),
			zap.Any("parameters", ip.BCs[key]))
	}
}
