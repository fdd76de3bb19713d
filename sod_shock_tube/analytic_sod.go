// Package sod_shock_tube is the exact solution of the one dimensional Riemann
// problem for a perfect gas, used to validate shock tube runs.
package sod_shock_tube

import (
	"fmt"
	"math"

	"github.com/notargets/gofvm/types"
	"github.com/notargets/gofvm/utils"
)

type Side struct {
	Rho, U, P float64
}

// SOD holds the star region of a Riemann problem with the diaphragm at X0
type SOD struct {
	Gamma        float64
	Left, Right  Side
	X0           float64
	PStar, UStar float64
	cL, cR       float64
}

// Sod is the classic problem on [0,1], (1, 0, 1) | (0.125, 0, 0.1), gamma 1.4
func Sod() *SOD {
	st, err := NewSOD(1.4, Side{1, 0, 1}, Side{0.125, 0, 0.1}, 0.5)
	if err != nil {
		panic(err)
	}
	return st
}

func NewSOD(gamma float64, left, right Side, x0 float64) (st *SOD, err error) {
	for _, s := range []Side{left, right} {
		if !(s.Rho > 0) || !(s.P > 0) || !utils.IsFinite(s.U) {
			err = types.NewConfigurationError("shock tube", "invalid side state %+v", s)
			return
		}
	}
	if !(gamma > 1) {
		err = types.NewConfigurationError("shock tube", "gamma %g must exceed 1", gamma)
		return
	}
	st = &SOD{
		Gamma: gamma,
		Left:  left, Right: right,
		X0: x0,
		cL: math.Sqrt(gamma * left.P / left.Rho),
		cR: math.Sqrt(gamma * right.P / right.Rho),
	}
	if 2/(gamma-1)*(st.cL+st.cR) <= right.U-left.U {
		err = types.NewConfigurationError("shock tube", "initial states generate vacuum")
		return nil, err
	}
	if err = st.solveStar(); err != nil {
		return nil, err
	}
	return
}

// pressureFunction is the velocity jump across the wave of one side at star pressure p
func (st *SOD) pressureFunction(p float64, s Side, c float64) float64 {
	g := st.Gamma
	if p > s.P {
		var (
			A = 2 / ((g + 1) * s.Rho)
			B = (g - 1) / (g + 1) * s.P
		)
		return (p - s.P) * math.Sqrt(A/(p+B))
	}
	return 2 * c / (g - 1) * (math.Pow(p/s.P, (g-1)/(2*g)) - 1)
}

func (st *SOD) solveStar() (err error) {
	var (
		du = st.Right.U - st.Left.U
		f  = func(p float64) float64 {
			return st.pressureFunction(p, st.Left, st.cL) + st.pressureFunction(p, st.Right, st.cR) + du
		}
		lo = 1e-14 * math.Min(st.Left.P, st.Right.P)
		hi = math.Max(st.Left.P, st.Right.P)
	)
	for f(hi) < 0 {
		hi *= 2
	}
	if st.PStar, _, err = utils.FindRoot(f, lo, hi, 1e-12, 200); err != nil {
		return fmt.Errorf("shock tube star pressure: %w", err)
	}
	st.UStar = 0.5*(st.Left.U+st.Right.U) +
		0.5*(st.pressureFunction(st.PStar, st.Right, st.cR)-st.pressureFunction(st.PStar, st.Left, st.cL))
	return
}

func (st *SOD) shockDensity(s Side) float64 {
	var (
		g6  = (st.Gamma - 1) / (st.Gamma + 1)
		rat = st.PStar / s.P
	)
	return s.Rho * (rat + g6) / (g6*rat + 1)
}

// Sample returns density, velocity and pressure at x and time t
func (st *SOD) Sample(x, t float64) (rho, u, p float64) {
	var (
		g  = st.Gamma
		L  = st.Left
		R  = st.Right
		ps = st.PStar
		us = st.UStar
	)
	if t <= 0 {
		if x < st.X0 {
			return L.Rho, L.U, L.P
		}
		return R.Rho, R.U, R.P
	}
	S := (x - st.X0) / t
	if S <= us {
		if ps > L.P {
			SL := L.U - st.cL*math.Sqrt((g+1)/(2*g)*ps/L.P+(g-1)/(2*g))
			if S < SL {
				return L.Rho, L.U, L.P
			}
			return st.shockDensity(L), us, ps
		}
		if S < L.U-st.cL {
			return L.Rho, L.U, L.P
		}
		cmL := st.cL * math.Pow(ps/L.P, (g-1)/(2*g))
		if S > us-cmL {
			return L.Rho * math.Pow(ps/L.P, 1/g), us, ps
		}
		u = 2 / (g + 1) * (st.cL + (g-1)/2*L.U + S)
		c := 2 / (g + 1) * (st.cL + (g-1)/2*(L.U-S))
		rho = L.Rho * math.Pow(c/st.cL, 2/(g-1))
		p = L.P * math.Pow(c/st.cL, 2*g/(g-1))
		return
	}
	if ps > R.P {
		SR := R.U + st.cR*math.Sqrt((g+1)/(2*g)*ps/R.P+(g-1)/(2*g))
		if S > SR {
			return R.Rho, R.U, R.P
		}
		return st.shockDensity(R), us, ps
	}
	if S > R.U+st.cR {
		return R.Rho, R.U, R.P
	}
	cmR := st.cR * math.Pow(ps/R.P, (g-1)/(2*g))
	if S < us+cmR {
		return R.Rho * math.Pow(ps/R.P, 1/g), us, ps
	}
	u = 2 / (g + 1) * (-st.cR + (g-1)/2*R.U + S)
	c := 2 / (g + 1) * (st.cR - (g-1)/2*(R.U-S))
	rho = R.Rho * math.Pow(c/st.cR, 2/(g-1))
	p = R.P * math.Pow(c/st.cR, 2*g/(g-1))
	return
}

// WavePositions returns the head and tail of the left wave, the contact and
// the leading edge of the right wave at time t
func (st *SOD) WavePositions(t float64) (x1, x2, x3, x4 float64) {
	var (
		g  = st.Gamma
		ps = st.PStar
		L  = st.Left
		R  = st.Right
	)
	if ps > L.P {
		SL := L.U - st.cL*math.Sqrt((g+1)/(2*g)*ps/L.P+(g-1)/(2*g))
		x1, x2 = st.X0+SL*t, st.X0+SL*t
	} else {
		cmL := st.cL * math.Pow(ps/L.P, (g-1)/(2*g))
		x1, x2 = st.X0+(L.U-st.cL)*t, st.X0+(st.UStar-cmL)*t
	}
	x3 = st.X0 + st.UStar*t
	if ps > R.P {
		x4 = st.X0 + (R.U+st.cR*math.Sqrt((g+1)/(2*g)*ps/R.P+(g-1)/(2*g)))*t
	} else {
		x4 = st.X0 + (R.U+st.cR)*t
	}
	return
}

// SOD_calc samples density, pressure, velocity and specific internal energy
// at the points X
func (st *SOD) SOD_calc(t float64, X []float64) (Rho, P, U, E []float64) {
	Rho = make([]float64, len(X))
	P = make([]float64, len(X))
	U = make([]float64, len(X))
	E = make([]float64, len(X))
	for i, x := range X {
		Rho[i], U[i], P[i] = st.Sample(x, t)
		E[i] = P[i] / ((st.Gamma - 1.) * Rho[i])
	}
	return
}
