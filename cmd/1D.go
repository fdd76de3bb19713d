/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/gofvm/InputParameters"
	"github.com/notargets/gofvm/model_problems"
	"github.com/notargets/gofvm/sod_shock_tube"
	"github.com/notargets/gofvm/writer"
)

// OneDCmd represents the 1D command
var OneDCmd = &cobra.Command{
	Use:   "1D",
	Short: "One Dimensional Model Problem Solutions",
	Long: `
Runs one of the built in one dimensional problems on a single row of cells and
plots the final profile:

	advect   - a sine wave carried once around a periodic domain
	sod      - Sod's shock tube, compared with the exact solution
	twophase - a volume fraction contact in a two phase mixture

gofvm 1D --case sod -n 200`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m1d := &Model1D{}
		flags := cmd.Flags()
		m1d.Case, _ = flags.GetString("case")
		m1d.N, _ = flags.GetInt("n")
		m1d.CFL, _ = flags.GetFloat64("CFL")
		m1d.FinalTime, _ = flags.GetFloat64("finalTime")
		m1d.Field, _ = flags.GetString("field")
		m1d.Width, _ = flags.GetInt("width")
		m1d.Height, _ = flags.GetInt("height")
		var out string
		if out, err = Run1D(cmd, m1d); err != nil {
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return
	},
}

func init() {
	rootCmd.AddCommand(OneDCmd)
	OneDCmd.Flags().StringP("case", "c", "sod", "case to run: advect, sod or twophase")
	OneDCmd.Flags().IntP("n", "n", 200, "number of cells")
	OneDCmd.Flags().Float64("CFL", 0, "CFL, zero uses the case default")
	OneDCmd.Flags().Float64("finalTime", 0, "FinalTime - the target end time for the sim, zero uses the case default")
	OneDCmd.Flags().StringP("field", "q", "", "field or flow function to plot, empty uses the case default")
	OneDCmd.Flags().Int("width", 80, "plot width in characters")
	OneDCmd.Flags().Int("height", 15, "plot height in lines")
}

type Model1D struct {
	Case           string
	N              int
	CFL, FinalTime float64
	Field          string
	Width, Height  int
}

var defaultField = map[string]string{
	"advect":   "u",
	"sod":      "rho",
	"twophase": "abar",
}

// Builtin1D returns the input parameters of a built in case with N cells
func Builtin1D(name string, N int) (ip *InputParameters.InputParameters2D, err error) {
	if N < 2 {
		err = fmt.Errorf("1D cases need at least 2 cells, got %d", N)
		return
	}
	periodicY := map[string]map[string]float64{"bottom": {}, "top": {}}
	ip = &InputParameters.InputParameters2D{
		Title:  name,
		Nx:     N,
		Domain: [4]float64{0, 0, 1, 1 / float64(N)},
		X0:     0.5,
	}
	switch name {
	case "advect":
		ip.Title = "Sine wave advection"
		ip.Model = "advection"
		ip.Velocity = [2]float64{1, 0}
		ip.InitType = "sine"
		ip.Left = map[string]float64{"u": 0}
		ip.Amplitude = 1
		ip.Reconstruction, ip.Limiter, ip.Integrator = "muscl", "van leer", "rk3ssp"
		ip.FinalTime = 1
		ip.BCs = map[string]map[string]map[string]float64{
			"periodic": {"left": {}, "right": {}, "bottom": {}, "top": {}},
		}
	case "sod":
		ip.Title = "Sod shock tube"
		ip.Model = "euler"
		ip.InitType = "shocktube"
		ip.Left = map[string]float64{"rho": 1, "p": 1}
		ip.Right = map[string]float64{"rho": 0.125, "p": 0.1}
		ip.Reconstruction, ip.Limiter, ip.Integrator = "muscl", "minmod", "rk2"
		ip.FinalTime = 0.2
		ip.BCs = map[string]map[string]map[string]float64{
			"neumann":  {"left": {}, "right": {}},
			"periodic": periodicY,
		}
	case "twophase":
		ip.Title = "Two phase contact"
		ip.Model = "twophase"
		ip.InitType = "riemann"
		ip.EOS = [2]InputParameters.PhaseParameters{{P0: 1e5, Rho0: 1, C0: 3}, {P0: 1e5, Rho0: 1e3, C0: 15}}
		ip.Relaxation = true
		ip.Left = map[string]float64{"alphabar": 0.8, "rho1": 1, "rho2": 1000, "U": 1}
		ip.Right = map[string]float64{"alphabar": 0.2, "rho1": 1, "rho2": 1000, "U": 1}
		ip.FinalTime = 0.2
		ip.BCs = map[string]map[string]map[string]float64{
			"neumann":  {"left": {}, "right": {}},
			"periodic": periodicY,
		}
	default:
		return nil, fmt.Errorf("unknown 1D case %q, must be advect, sod or twophase", name)
	}
	ip.SetDefaults()
	return
}

func Run1D(cmd *cobra.Command, m1d *Model1D) (out string, err error) {
	var (
		ip *InputParameters.InputParameters2D
		c  *model_problems.Case
	)
	if ip, err = Builtin1D(m1d.Case, m1d.N); err != nil {
		return
	}
	if m1d.CFL > 0 {
		ip.CFL = m1d.CFL
	}
	if m1d.FinalTime > 0 {
		ip.FinalTime = m1d.FinalTime
	}
	if m1d.Field == "" {
		m1d.Field = defaultField[m1d.Case]
	}
	ip.Print(logger)
	if c, err = model_problems.NewCase(ip, logger); err != nil {
		return
	}
	start := time.Now()
	if err = c.Run(commandContext(cmd), nil); err != nil {
		return
	}
	wall := time.Since(start)

	var (
		f     []float64
		stats = [][2]string{
			{"Case", ip.Title},
			{"Cells", fmt.Sprint(ip.Nx)},
			{"Steps", fmt.Sprint(c.Solver.Steps)},
			{"Time", fmt.Sprintf("%.4g", c.Solver.Time)},
			{"Wall", wall.Round(time.Millisecond).String()},
		}
	)
	if f, err = c.Field(m1d.Field); err != nil {
		return
	}
	if l1, ok := exactError(m1d.Case, c); ok {
		stats = append(stats, [2]string{"L1 error", fmt.Sprintf("%.4e", l1)})
		logger.Info("exact solution", zap.Float64("l1", l1))
	}
	plot := writer.PlotSeries(f, fmt.Sprintf("%s at t=%.4g", m1d.Field, c.Solver.Time), m1d.Width, m1d.Height)
	out = lipgloss.JoinVertical(lipgloss.Left, plot, "", summary(stats))
	return
}

// exactError is the L1 error of the cases with an exact solution
func exactError(name string, c *model_problems.Case) (l1 float64, ok bool) {
	var (
		snap = c.Solver.Snapshot()
		dx   = 1. / float64(snap.Nx)
	)
	switch name {
	case "advect":
		// Exactly one period
		for i, ctr := range snap.Centroids {
			l1 += math.Abs(snap.Cell(i, 0)[0]-math.Sin(2*math.Pi*(ctr[0]-snap.Time))) * dx
		}
		return l1, true
	case "sod":
		exact := sod_shock_tube.Sod()
		x, rho := snap.Row(0, 0)
		for i := range x {
			re, _, _ := exact.Sample(x[i], snap.Time)
			l1 += math.Abs(rho[i]-re) * dx
		}
		return l1, true
	}
	return
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(10)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func summary(stats [][2]string) string {
	var lines []string
	for i, kv := range stats {
		if i == 0 {
			lines = append(lines, titleStyle.Render(kv[1]))
			continue
		}
		lines = append(lines, labelStyle.Render(kv[0])+kv[1])
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
