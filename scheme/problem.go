package scheme

import (
	"github.com/notargets/gofvm/state"
)

// Problem is the physical flux law of a model. All methods work on single
// cell state vectors laid out by Schema and must not retain them.
type Problem interface {
	Schema() *state.Schema
	// Flux writes the physical flux tensor, F[2*n+d] for conservative field n
	// and coordinate direction d
	Flux(q []float64, F []float64)
	// Eigs returns the extreme wave speeds along normal, (Un + c, Un - c)
	Eigs(q []float64, normal [2]float64) [2]float64
	// Auxiliary recomputes the derived fields from the conservative ones
	Auxiliary(q []float64)
}

// Advective is implemented by problems transported by a known velocity
type Advective interface {
	Velocity(q []float64) [2]float64
}

// FluxArray evaluates the flux tensor of every cell in values, giving an
// array shaped [cell][conservative field][direction]
func FluxArray(p Problem, values []float64) (F []float64) {
	var (
		nf     = p.Schema().Len()
		nc     = p.Schema().NumConservative()
		nCells = len(values) / nf
	)
	F = make([]float64, nCells*nc*2)
	for k := 0; k < nCells; k++ {
		p.Flux(values[k*nf:(k+1)*nf], F[k*nc*2:(k+1)*nc*2])
	}
	return
}

// NormalFlux projects the flux tensor onto normal
func NormalFlux(F []float64, normal [2]float64, out []float64) {
	for n := range out {
		out[n] = F[2*n]*normal[0] + F[2*n+1]*normal[1]
	}
}
