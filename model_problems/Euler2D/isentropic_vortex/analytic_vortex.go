package isentropic_vortex

import (
	"math"
)

// IVortex is the exact isentropic vortex of strength Beta convected by a
// uniform stream Ufs along x, centred on (X0, Y0) at t = 0
type IVortex struct {
	Beta, X0, Y0, Gamma float64
	Ufs                 float64
	// Lx is the period of the domain along x; when set the vortex centre
	// wraps around so the solution stays exact on a periodic box
	Lx, XMin float64
}

func NewIVortex(Beta, X0, Y0, Gamma float64, UfsO ...float64) (iv *IVortex) {
	var (
		Ufs = 1.0
	)
	if len(UfsO) > 0 {
		Ufs = UfsO[0]
	}
	iv = &IVortex{
		Beta:  Beta,
		X0:    X0,
		Y0:    Y0,
		Gamma: Gamma,
		Ufs:   Ufs,
	}
	return
}

// Periodic makes the centre wrap within [xMin, xMin+lx)
func (iv *IVortex) Periodic(xMin, lx float64) *IVortex {
	iv.XMin, iv.Lx = xMin, lx
	return iv
}

func (iv *IVortex) centre(t float64) (xc float64) {
	xc = iv.X0 + iv.Ufs*t
	if iv.Lx > 0 {
		xc = iv.XMin + math.Mod(math.Mod(xc-iv.XMin, iv.Lx)+iv.Lx, iv.Lx)
	}
	return
}

// GetState returns the primitive state at (x, y) and time t. The perturbation
// has swirl speed s = beta/(2pi) e^(1-r^2), temperature T = 1 - (gamma-1)/(4 gamma) s^2
// and p = rho^gamma.
func (iv *IVortex) GetState(t, x, y float64) (u, v, rho, p float64) {
	dx, dy := x-iv.centre(t), y-iv.Y0
	if iv.Lx > 0 { // nearest periodic image of the centre
		dx -= iv.Lx * math.Round(dx/iv.Lx)
	}
	var (
		gm1   = iv.Gamma - 1
		swirl = iv.Beta / (2 * math.Pi) * math.Exp(1-dx*dx-dy*dy)
		T     = 1 - gm1/(4*iv.Gamma)*swirl*swirl
	)
	u, v = iv.Ufs-swirl*dy, swirl*dx
	rho = math.Pow(T, 1/gm1)
	p = rho * T
	return
}

// GetStateC returns the conservative state, E being the total energy per volume
func (iv *IVortex) GetStateC(t, x, y float64) (Rho, RhoU, RhoV, E float64) {
	var (
		ooGM1 = 1. / (iv.Gamma - 1.)
	)
	u, v, rho, p := iv.GetState(t, x, y)
	q := 0.5 * rho * (u*u + v*v)
	Rho, RhoU, RhoV, E = rho, rho*u, rho*v, p*ooGM1+q
	return
}
