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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/notargets/gofvm/model_problems"
	"github.com/notargets/gofvm/utils"
)

// ConvergenceCmd measures the order of accuracy on the advected sine wave
var ConvergenceCmd = &cobra.Command{
	Use:   "convergence",
	Short: "Grid convergence study of the advected sine wave",
	Long: `
Runs the periodic sine wave advection case at each resolution, first order and
MUSCL, and writes title, N, CFL, L1 and LInf errors as CSV. The file is the
input of tools/convOrder.

gofvm convergence -r 16,32,64,128 -o study.csv`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			resolutions, _ = cmd.Flags().GetIntSlice("resolutions")
			outFile, _     = cmd.Flags().GetString("output")
			finalTime, _   = cmd.Flags().GetFloat64("finalTime")
			out            = cmd.OutOrStdout()
		)
		if outFile != "" {
			var f *os.File
			if f, err = os.Create(outFile); err != nil {
				return
			}
			defer func() {
				if cerr := f.Close(); err == nil {
					err = cerr
				}
			}()
			out = f
		}
		return RunConvergence(cmd, resolutions, finalTime, out)
	},
}

func init() {
	rootCmd.AddCommand(ConvergenceCmd)
	ConvergenceCmd.Flags().IntSliceP("resolutions", "r", []int{16, 32, 64, 128}, "numbers of cells")
	ConvergenceCmd.Flags().StringP("output", "o", "", "CSV file, default is stdout")
	ConvergenceCmd.Flags().Float64("finalTime", 1, "end time, a whole number of periods keeps the exact solution simple")
}

func RunConvergence(cmd *cobra.Command, resolutions []int, finalTime float64, out io.Writer) (err error) {
	w := csv.NewWriter(out)
	if err = w.Write([]string{"title", "N", "CFL", "L1", "LInf"}); err != nil {
		return
	}
	for _, recon := range []string{"first order", "muscl"} {
		var l1s []float64
		for _, N := range resolutions {
			var l1, lInf, cfl float64
			if l1, lInf, cfl, err = sineErrors(cmd, recon, N, finalTime); err != nil {
				return
			}
			l1s = append(l1s, l1)
			if err = w.Write([]string{recon, strconv.Itoa(N), fmtFloat(cfl), fmtFloat(l1), fmtFloat(lInf)}); err != nil {
				return
			}
		}
		if order, oerr := utils.ConvergenceOrder(resolutions, l1s); oerr == nil {
			logger.Info("convergence", zap.String("reconstruction", recon), zap.Float64("l1_order", order))
		}
	}
	w.Flush()
	return w.Error()
}

func fmtFloat(f float64) string { return strconv.FormatFloat(f, 'g', 8, 64) }

func sineErrors(cmd *cobra.Command, recon string, N int, finalTime float64) (l1, lInf, cfl float64, err error) {
	ip, err := Builtin1D("advect", N)
	if err != nil {
		return
	}
	ip.Reconstruction = recon
	ip.FinalTime = finalTime
	var c *model_problems.Case
	if c, err = model_problems.NewCase(ip, logger); err != nil {
		return
	}
	if err = c.Run(commandContext(cmd), nil); err != nil {
		return
	}
	snap := c.Solver.Snapshot()
	for i, ctr := range snap.Centroids {
		e := math.Abs(snap.Cell(i, 0)[0] - math.Sin(2*math.Pi*(ctr[0]-snap.Time)))
		l1 += e / float64(N)
		lInf = math.Max(lInf, e)
	}
	if l1 == 0 {
		err = fmt.Errorf("zero error at N=%d", N)
	}
	return l1, lInf, ip.CFL, err
}
