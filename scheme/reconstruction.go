package scheme

import (
	"strings"

	"github.com/notargets/gofvm/mesh"
	"github.com/notargets/gofvm/types"
)

// Reconstruction extrapolates cell averages to the two faces of a cell along
// an axis. lo receives the state at the Left (axis 0) or Bottom (axis 1) face,
// hi the Right or Top face. Only the first nc fields are written.
type Reconstruction interface {
	Reconstruct(cells *mesh.CellSet, i, j, axis, nc int, lo, hi []float64)
	// GhostDepth is the number of ghost layers the stencil reaches past a boundary face
	GhostDepth() int
	Name() string
}

type ReconstructionType uint8

const (
	RECON_FirstOrder ReconstructionType = iota
	RECON_MUSCL
)

var (
	ReconstructionNames = map[string]ReconstructionType{
		"":           RECON_FirstOrder,
		"none":       RECON_FirstOrder,
		"firstorder": RECON_FirstOrder,
		"muscl":      RECON_MUSCL,
	}
	ReconstructionPrintNames = []string{"First Order", "MUSCL"}
)

func (rt ReconstructionType) Print() (txt string) {
	txt = ReconstructionPrintNames[rt]
	return
}

func NewReconstructionType(label string) (rt ReconstructionType, err error) {
	var ok bool
	label = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", ""))
	if rt, ok = ReconstructionNames[label]; !ok {
		err = types.NewConfigurationError("Reconstruction", "unable to use reconstruction named %q", label)
	}
	return
}

// NewReconstruction returns nil for first order, which reads cell averages directly
func NewReconstruction(rt ReconstructionType, lt LimiterType) (Reconstruction, error) {
	switch rt {
	case RECON_FirstOrder:
		return nil, nil
	case RECON_MUSCL:
		mu, err := NewMUSCL(NewLimiter(lt))
		if err != nil {
			return nil, err
		}
		return mu, nil
	}
	return nil, types.NewConfigurationError("Reconstruction", "reconstruction %d is not implemented", rt)
}

// MUSCL is a piecewise linear reconstruction with a slope limiter
type MUSCL struct {
	Limiter Limiter
}

func NewMUSCL(l Limiter) (*MUSCL, error) {
	if l == nil {
		return nil, types.NewConfigurationError("Limiter", "MUSCL reconstruction needs a slope limiter")
	}
	return &MUSCL{Limiter: l}, nil
}

func (mu *MUSCL) GhostDepth() int { return 2 }

func (mu *MUSCL) Name() string { return "MUSCL" }

func (mu *MUSCL) Reconstruct(cells *mesh.CellSet, i, j, axis, nc int, lo, hi []float64) {
	var (
		di, dj = 1, 0
	)
	if axis == 1 {
		di, dj = 0, 1
	}
	var (
		qm = cells.Cell(i-di, j-dj)
		q  = cells.Cell(i, j)
		qp = cells.Cell(i+di, j+dj)
	)
	for n := 0; n < nc; n++ {
		s := 0.5 * mu.Limiter.Limit(q[n]-qm[n], qp[n]-q[n])
		lo[n] = q[n] - s
		hi[n] = q[n] + s
	}
}
