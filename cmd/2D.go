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
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/gofvm/InputParameters"
	"github.com/notargets/gofvm/model_problems"
	"github.com/notargets/gofvm/writer"
)

type Model2D struct {
	ICFile     string
	OutputDir  string
	QueueDepth int
}

const exampleFile = `
########################################
Title: "Test Case"
Model: euler      # euler, advection or twophase
FluxType: rusanov
Reconstruction: muscl
Limiter: minmod
Integrator: rk3ssp
CFL: 0.5
FinalTime: 0.2
Nx: 200
Ny: 1
Domain: [0, 0, 1, 0.005]
InitType: shocktube
X0: 0.5
Left: {rho: 1, p: 1}
Right: {rho: 0.125, p: 0.1}
BCs:
  neumann: {left: {}, right: {}}
  periodic: {bottom: {}, top: {}}
Output:
  Directory: runs
  DtSave: 0.05
########################################
`

// TwoDCmd represents the 2D command
var TwoDCmd = &cobra.Command{
	Use:   "2D",
	Short: "Two dimensional solver, reads an input parameters file and stores solution snapshots",
	Long: `Two dimensional solver, reads an input parameters file and stores solution snapshots
in a new run directory, one CSV file per snapshot, plus the run metadata`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m2d := &Model2D{}
		if m2d.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		m2d.OutputDir, _ = cmd.Flags().GetString("output")
		m2d.QueueDepth, _ = cmd.Flags().GetInt("queue")
		var ip *InputParameters.InputParameters2D
		if ip, err = processInput(m2d); err != nil {
			return
		}
		var run *writer.Run
		if run, err = Run2D(cmd, m2d, ip); err != nil {
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), run.Dir)
		return
	},
}

func processInput(m2d *Model2D) (ip *InputParameters.InputParameters2D, err error) {
	if len(m2d.ICFile) == 0 {
		err = fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile) in YAML, for example:%s", exampleFile)
		return
	}
	var data []byte
	if data, err = os.ReadFile(m2d.ICFile); err != nil {
		return
	}
	ip = &InputParameters.InputParameters2D{}
	if err = ip.Parse(data); err != nil {
		return nil, err
	}
	if m2d.OutputDir != "" {
		ip.Output.Directory = m2d.OutputDir
	}
	if ip.Output.Directory == "" {
		ip.Output.Directory = "runs"
	}
	return
}

func init() {
	rootCmd.AddCommand(TwoDCmd)
	TwoDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CFL\n\t- Model\n\t- BCs")
	TwoDCmd.Flags().StringP("output", "o", "", "directory holding the run directories, overrides Output.Directory")
	TwoDCmd.Flags().Int("queue", 8, "snapshots buffered for the writer before new ones are dropped")
}

func Run2D(cmd *cobra.Command, m2d *Model2D, ip *InputParameters.InputParameters2D) (run *writer.Run, err error) {
	var (
		c     *model_problems.Case
		store = writer.NewStore(ip.Output.Directory)
		w     writer.Writer
	)
	ip.Print(logger)
	if c, err = model_problems.NewCase(ip, logger); err != nil {
		return
	}
	if err = store.Init(); err != nil {
		return
	}
	if run, err = store.NewRun(strings.ToLower(c.ModelType.Print()), ip); err != nil {
		return
	}
	logger.Info("run", zap.String("id", run.ID), zap.String("dir", run.Dir))
	switch strings.ToLower(ip.Output.Format) {
	case "csv":
		var cw *writer.CSVWriter
		if cw, err = writer.NewCSVWriter(run.Dir, "snapshot"); err != nil {
			return
		}
		w = cw
	case "none":
	default:
		err = fmt.Errorf("unknown output format %q, must be csv or none", ip.Output.Format)
		return
	}
	var async *writer.Async
	if w != nil {
		async = writer.NewAsync(w, m2d.QueueDepth, logger)
		w = async
	}
	start := time.Now()
	err = c.Run(commandContext(cmd), w)
	wall := time.Since(start)
	if async != nil {
		if cerr := async.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		return
	}
	meta := c.Metadata(wall)
	meta.Metrics = make(map[string]float64)
	if async != nil {
		meta.Metrics["dropped_snapshots"] = float64(async.Dropped())
	}
	for _, field := range c.Model.Schema().Fields()[:c.Model.Schema().NumConservative()] {
		var total float64
		if total, err = c.Solver.Integral(field); err != nil {
			return
		}
		meta.Metrics["integral_"+field] = total
	}
	err = run.SaveMetadata(meta)
	return
}
