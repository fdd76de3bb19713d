package scheme

import (
	"math"

	"github.com/notargets/gofvm/types"
)

// Relaxation projects a cell state onto an equilibrium manifold after a full
// time step. It acts on one cell at a time and may be called concurrently.
type Relaxation interface {
	Relax(q []float64) error
}

// StateLimiter adjusts a trial state before its ghosts are refreshed
type StateLimiter interface {
	Limit(q []float64)
}

// BoundsLimiter clamps one conservative field into [Min, Max]
type BoundsLimiter struct {
	Field    int
	Min, Max float64
}

func NewBoundsLimiter(p Problem, field string, min, max float64) (bl *BoundsLimiter, err error) {
	var idx int
	if idx, err = p.Schema().Index(field); err != nil {
		return
	}
	if idx >= p.Schema().NumConservative() {
		err = &types.SchemaError{Schema: p.Schema().Name(), Field: field,
			Reason: "bounds limiter acts on conservative fields only"}
		return
	}
	if !(min <= max) {
		err = types.NewConfigurationError("BoundsLimiter", "min %g exceeds max %g", min, max)
		return
	}
	bl = &BoundsLimiter{Field: idx, Min: min, Max: max}
	return
}

func (bl *BoundsLimiter) Limit(q []float64) {
	q[bl.Field] = math.Min(math.Max(q[bl.Field], bl.Min), bl.Max)
}
