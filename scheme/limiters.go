package scheme

import (
	"math"
	"strings"

	"github.com/notargets/gofvm/types"
)

// Limiter returns a limited slope from the backward and forward differences
type Limiter interface {
	Limit(dMinus, dPlus float64) float64
}

type LimiterType uint8

const (
	None LimiterType = iota
	MinModT
	VanLeerT
	SuperbeeT
)

var (
	LimiterNames = map[string]LimiterType{
		"":         None,
		"none":     None,
		"minmod":   MinModT,
		"vanleer":  VanLeerT,
		"van leer": VanLeerT,
		"superbee": SuperbeeT,
	}
	LimiterNamesRev = map[LimiterType]string{
		MinModT:   "MinMod",
		VanLeerT:  "Van Leer",
		SuperbeeT: "Superbee",
	}
)

func (lt LimiterType) Print() (txt string) {
	if val, ok := LimiterNamesRev[lt]; !ok {
		txt = "None"
	} else {
		txt = val
	}
	return
}

func NewLimiterType(label string) (lt LimiterType, err error) {
	var (
		ok bool
	)
	label = strings.ToLower(strings.TrimSpace(label))
	if lt, ok = LimiterNames[label]; !ok {
		err = types.NewConfigurationError("Limiter", "unable to use limiter named [%s]", label)
	}
	return
}

// NewLimiter returns nil for None
func NewLimiter(lt LimiterType) Limiter {
	switch lt {
	case MinModT:
		return MinMod{}
	case VanLeerT:
		return VanLeer{}
	case SuperbeeT:
		return Superbee{}
	}
	return nil
}

type MinMod struct{}

func (MinMod) Limit(a, b float64) float64 {
	if a*b <= 0 {
		return 0
	}
	if math.Abs(a) < math.Abs(b) {
		return a
	}
	return b
}

type VanLeer struct{}

func (VanLeer) Limit(a, b float64) float64 {
	if a*b <= 0 {
		return 0
	}
	return 2 * a * b / (a + b)
}

type Superbee struct{}

func (Superbee) Limit(a, b float64) float64 {
	if a*b <= 0 {
		return 0
	}
	var (
		aa, ab = math.Abs(a), math.Abs(b)
		s      = math.Max(math.Min(2*aa, ab), math.Min(aa, 2*ab))
	)
	return math.Copysign(s, a)
}
