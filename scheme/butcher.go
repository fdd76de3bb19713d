package scheme

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gofvm/types"
)

const tableauTol = 1e-12

// ButcherTableau describes an explicit Runge-Kutta method with s stages. A is
// strictly lower triangular, C[0] is always zero.
type ButcherTableau struct {
	Name string
	A    *mat.Dense
	B    *mat.VecDense
	C    *mat.VecDense
	rows [][]float64
}

// NewButcherTableau takes the strictly lower triangular entries of A row by
// row, s weights b and the s-1 stage times of stages 1..s-1
func NewButcherTableau(name string, a, b, c []float64) (bt *ButcherTableau, err error) {
	var (
		s = len(b)
	)
	switch {
	case s == 0:
		err = types.NewConfigurationError("ButcherTableau", "%s: no stages", name)
	case len(a) != s*(s-1)/2:
		err = types.NewConfigurationError("ButcherTableau",
			"%s: %d stages need %d coefficients in a, got %d", name, s, s*(s-1)/2, len(a))
	case len(c) != s-1:
		err = types.NewConfigurationError("ButcherTableau",
			"%s: %d stages need %d stage times in c, got %d", name, s, s-1, len(c))
	}
	if err != nil {
		return
	}
	for _, v := range [][]float64{a, b, c} {
		for _, x := range v {
			if math.IsNaN(x) || math.IsInf(x, 0) {
				err = types.NewConfigurationError("ButcherTableau", "%s: coefficient %g is not finite", name, x)
				return
			}
		}
	}
	bt = &ButcherTableau{
		Name: name,
		A:    mat.NewDense(s, s, nil),
		B:    mat.NewVecDense(s, append([]float64(nil), b...)),
		C:    mat.NewVecDense(s, nil),
	}
	var ind int
	for k := 1; k < s; k++ {
		for j := 0; j < k; j++ {
			bt.A.Set(k, j, a[ind])
			ind++
		}
		bt.C.SetVec(k, c[k-1])
	}
	for k := 1; k < s; k++ {
		if rs := mat.Sum(bt.A.RowView(k)); math.Abs(rs-bt.C.AtVec(k)) > tableauTol {
			err = types.NewConfigurationError("ButcherTableau",
				"%s: row %d of a sums to %g but c is %g", name, k, rs, bt.C.AtVec(k))
			return nil, err
		}
	}
	if sb := mat.Sum(bt.B); math.Abs(sb-1) > tableauTol {
		err = types.NewConfigurationError("ButcherTableau", "%s: weights b sum to %g, not 1", name, sb)
		return nil, err
	}
	bt.rows = make([][]float64, s)
	for k := 0; k < s; k++ {
		bt.rows[k] = mat.Row(nil, k, bt.A)[:k]
	}
	return
}

func mustTableau(name string, a, b, c []float64) *ButcherTableau {
	bt, err := NewButcherTableau(name, a, b, c)
	if err != nil {
		panic(err)
	}
	return bt
}

func (bt *ButcherTableau) Stages() int { return bt.B.Len() }

// Row returns a[k][0:k]
func (bt *ButcherTableau) Row(k int) []float64 { return bt.rows[k] }

func (bt *ButcherTableau) String() string {
	return fmt.Sprintf("%s (%d stages)\nA = %v\nb = %v\nc = %v", bt.Name, bt.Stages(),
		mat.Formatted(bt.A, mat.Prefix("    ")), mat.Formatted(bt.B.T()), mat.Formatted(bt.C.T()))
}

var (
	ForwardEuler = mustTableau("Forward Euler", nil, []float64{1}, nil)
	RK2          = mustTableau("RK2 Heun", []float64{1}, []float64{0.5, 0.5}, []float64{1})
	RK3SSP       = mustTableau("RK3 SSP", []float64{1, 0.25, 0.25}, []float64{1. / 6, 1. / 6, 2. / 3}, []float64{1, 0.5})
	RK4          = mustTableau("RK4",
		[]float64{0.5, 0, 0.5, 0, 0, 1},
		[]float64{1. / 6, 1. / 3, 1. / 3, 1. / 6},
		[]float64{0.5, 0.5, 1})
)

// RK2Alpha is the two stage family with the intermediate stage at alpha;
// alpha = 1 is Heun, alpha = 0.5 the midpoint rule
func RK2Alpha(alpha float64) (*ButcherTableau, error) {
	if !(alpha > 0) || alpha > 1 {
		return nil, types.NewConfigurationError("RK2Alpha", "alpha %g outside (0,1]", alpha)
	}
	return NewButcherTableau(fmt.Sprintf("RK2 alpha=%g", alpha),
		[]float64{alpha}, []float64{1 - 1/(2*alpha), 1 / (2 * alpha)}, []float64{alpha})
}

type IntegratorType uint8

const (
	INT_ForwardEuler IntegratorType = iota
	INT_RK2
	INT_RK2Alpha
	INT_RK3SSP
	INT_RK4
)

var (
	IntegratorNames = map[string]IntegratorType{
		"euler":        INT_ForwardEuler,
		"forwardeuler": INT_ForwardEuler,
		"rk1":          INT_ForwardEuler,
		"rk2":          INT_RK2,
		"heun":         INT_RK2,
		"rk2alpha":     INT_RK2Alpha,
		"rk3":          INT_RK3SSP,
		"rk3ssp":       INT_RK3SSP,
		"ssprk3":       INT_RK3SSP,
		"rk4":          INT_RK4,
	}
	IntegratorPrintNames = []string{"Forward Euler", "RK2 Heun", "RK2 Alpha", "RK3 SSP", "RK4"}
)

func (it IntegratorType) Print() (txt string) {
	txt = IntegratorPrintNames[it]
	return
}

func NewIntegratorType(label string) (it IntegratorType, err error) {
	var ok bool
	label = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", ""))
	if it, ok = IntegratorNames[label]; !ok {
		err = types.NewConfigurationError("Integrator", "unable to use integrator named %q", label)
	}
	return
}

// NewTableau returns the tableau of it, alpha is only read by INT_RK2Alpha
func NewTableau(it IntegratorType, alpha float64) (*ButcherTableau, error) {
	switch it {
	case INT_ForwardEuler:
		return ForwardEuler, nil
	case INT_RK2:
		return RK2, nil
	case INT_RK2Alpha:
		return RK2Alpha(alpha)
	case INT_RK3SSP:
		return RK3SSP, nil
	case INT_RK4:
		return RK4, nil
	}
	return nil, types.NewConfigurationError("Integrator", "integrator %d is not implemented", it)
}
