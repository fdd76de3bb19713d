package writer

import (
	"math"
)

// Strategy decides when the solver hands a snapshot to its writer
type Strategy interface {
	ShouldWrite(t float64, step int) bool
}

// TimeStrategy writes at t = 0 and every time a multiple of DtSave is crossed
type TimeStrategy struct {
	DtSave float64
	next   float64
	primed bool
}

func NewTimeStrategy(dtSave float64) *TimeStrategy {
	return &TimeStrategy{DtSave: dtSave}
}

func (ts *TimeStrategy) ShouldWrite(t float64, step int) bool {
	if !(ts.DtSave > 0) {
		return false
	}
	if !ts.primed {
		ts.primed = true
		ts.next = (math.Floor(t/ts.DtSave+1e-9) + 1) * ts.DtSave
		return true
	}
	// t within a relative 1e-9 of the next save time counts as reaching it
	if t >= ts.next-1e-9*ts.DtSave {
		for ts.next <= t+1e-9*ts.DtSave {
			ts.next += ts.DtSave
		}
		return true
	}
	return false
}

// IterationStrategy writes every Every steps, the first step included
type IterationStrategy struct {
	Every int
}

func (is IterationStrategy) ShouldWrite(t float64, step int) bool {
	return is.Every > 0 && step%is.Every == 0
}

type NeverStrategy struct{}

func (NeverStrategy) ShouldWrite(t float64, step int) bool { return false }
