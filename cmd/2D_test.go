package cmd

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gofvm/writer"
)

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun2D(t *testing.T) {
	var (
		dir  = t.TempDir()
		file = filepath.Join(dir, "case.yaml")
		runs = filepath.Join(dir, "runs")
	)
	require.NoError(t, os.WriteFile(file, []byte(`
Title: Test Case
Model: advection
Velocity: [1, 0]
Reconstruction: muscl
Limiter: superbee
Integrator: rk2
FinalTime: 0.25
Nx: 16
Ny: 4
InitType: step
X0: 0.25
Left: {u: 1}
Right: {u: 0}
BCs:
  periodic:
    left: {}
    right: {}
    bottom: {}
    top: {}
Output:
  DtSave: 0.125
`), 0644))
	out, err := execute(t, "2D", "-I", file, "-o", runs)
	require.NoError(t, err)

	store := writer.NewStore(runs)
	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	meta := list[0]
	assert.Equal(t, "Test Case", meta.Title)
	assert.Equal(t, "Advection", meta.Model)
	assert.Equal(t, "MUSCL", meta.Reconstruction)
	assert.Equal(t, 0.25, meta.FinalTime)
	assert.Greater(t, meta.Steps, 0)
	// The step is carried around a periodic box, so its integral is unchanged
	assert.InDelta(t, 0.25, meta.Metrics["integral_u"], 1e-12)

	runDir := strings.TrimSpace(out)
	assert.Equal(t, meta.ID, filepath.Base(runDir))
	assert.FileExists(t, filepath.Join(runDir, "input.yaml"))
	snapshots, err := filepath.Glob(filepath.Join(runDir, "snapshot_*.csv"))
	require.NoError(t, err)
	assert.Equal(t, 3-int(meta.Metrics["dropped_snapshots"]), len(snapshots))

	_, err = execute(t, "2D", "-I", filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestRun1D(t *testing.T) {
	out, err := execute(t, "1D", "--case", "sod", "-n", "40", "--finalTime", "0.05", "--width", "40", "--height", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Sod shock tube")
	assert.Contains(t, out, "L1 error")
	assert.Contains(t, out, "rho at t=0.05")

	out, err = execute(t, "1D", "--case", "twophase", "-n", "20", "--finalTime", "0.01", "--field", "p1")
	require.NoError(t, err)
	assert.Contains(t, out, "Two phase contact")

	_, err = execute(t, "1D", "--case", "blast")
	assert.Error(t, err)
	_, err = Builtin1D("sod", 1)
	assert.Error(t, err)
}

func TestConvergence(t *testing.T) {
	file := filepath.Join(t.TempDir(), "study.csv")
	_, err := execute(t, "convergence", "-r", "8,16", "--finalTime", "0.25", "-o", file)
	require.NoError(t, err)
	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"title", "N", "CFL", "L1", "LInf"}, records[0])
	l1 := func(row int) float64 {
		v, err := strconv.ParseFloat(records[row][3], 64)
		require.NoError(t, err)
		return v
	}
	// Errors fall with resolution, and faster with MUSCL
	assert.Less(t, l1(2), l1(1))
	assert.Less(t, l1(4), l1(3))
	assert.Less(t, l1(4), l1(2))
}
