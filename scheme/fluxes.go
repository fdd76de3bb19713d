package scheme

import (
	"strings"

	"github.com/notargets/gofvm/types"
)

// FluxRule is a numerical flux through one face. F writes the flux of the
// conservative fields leaving the cell holding qL through a face of the given
// outward normal, multiplied by the face length. Rules carry scratch space,
// Clone gives an independent copy for each worker.
type FluxRule interface {
	F(qL, qR []float64, normal [2]float64, surface float64, out []float64)
	Name() string
	Clone() FluxRule
}

type FluxType uint8

const (
	FLUX_Central FluxType = iota
	FLUX_Rusanov
	FLUX_Upwind
)

var (
	FluxNames = map[string]FluxType{
		"average":       FLUX_Central,
		"central":       FLUX_Central,
		"rusanov":       FLUX_Rusanov,
		"lax":           FLUX_Rusanov,
		"laxfriedrichs": FLUX_Rusanov,
		"upwind":        FLUX_Upwind,
	}
	FluxPrintNames = []string{"Central", "Rusanov", "Upwind"}
)

func (ft FluxType) Print() (txt string) {
	txt = FluxPrintNames[ft]
	return
}

func NewFluxType(label string) (ft FluxType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", ""))
	if ft, ok = FluxNames[label]; !ok {
		err = types.NewConfigurationError("FluxType", "unable to use flux named %q", label)
	}
	return
}

// NewFluxRule builds the named flux for problem
func NewFluxRule(ft FluxType, p Problem) (fr FluxRule, err error) {
	switch ft {
	case FLUX_Central:
		fr = NewCentral(p)
	case FLUX_Rusanov:
		var rs *Rusanov
		if rs, err = NewRusanov(p); err == nil {
			fr = rs
		}
	case FLUX_Upwind:
		var uw *Upwind
		if uw, err = NewUpwind(p); err == nil {
			fr = uw
		}
	default:
		err = types.NewConfigurationError("FluxType", "flux %d is not implemented", ft)
	}
	return
}

// Central averages the physical fluxes of both sides
type Central struct {
	problem Problem
	nc      int
	fL, fR  []float64
}

func NewCentral(p Problem) *Central {
	nc := p.Schema().NumConservative()
	return &Central{
		problem: p,
		nc:      nc,
		fL:      make([]float64, 2*nc),
		fR:      make([]float64, 2*nc),
	}
}

func (c *Central) Name() string { return "Central" }

func (c *Central) Clone() FluxRule { return NewCentral(c.problem) }

func (c *Central) F(qL, qR []float64, normal [2]float64, surface float64, out []float64) {
	c.problem.Flux(qL, c.fL)
	c.problem.Flux(qR, c.fR)
	for n := 0; n < c.nc; n++ {
		fx := 0.5 * (c.fL[2*n] + c.fR[2*n])
		fy := 0.5 * (c.fL[2*n+1] + c.fR[2*n+1])
		out[n] = (fx*normal[0] + fy*normal[1]) * surface
	}
}
