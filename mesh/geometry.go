package mesh

import (
	"fmt"
	"math"

	"github.com/notargets/gofvm/types"
)

// NewRectangular builds a uniform Cartesian cell set over [x0,x1] x [y0,y1]
// with Nx x Ny interior cells. Ghost cells continue the uniform spacing.
func NewRectangular(x0, y0, x1, y1 float64, Nx, Ny, NGhost, numFields int) (cs *CellSet, err error) {
	if !(x1 > x0) || !(y1 > y0) || math.IsInf(x1-x0, 0) || math.IsInf(y1-y0, 0) {
		err = &types.DegenerateMeshError{
			Reason: fmt.Sprintf("domain [%g,%g] x [%g,%g] has no extent", x0, x1, y0, y1)}
		return
	}
	if Nx < 1 || Ny < 1 || NGhost < 1 {
		return NewCellSet(nil, Nx, Ny, NGhost, numFields)
	}
	var (
		dx, dy   = (x1 - x0) / float64(Nx), (y1 - y0) / float64(Ny)
		NxT, NyT = Nx + 2*NGhost, Ny + 2*NGhost
		nc       = NxT * NyT
		g        = &Geometry{
			Centroids: make([][2]float64, nc),
			Volumes:   make([]float64, nc),
			Normals:   make([][4][2]float64, nc),
			Surfaces:  make([][4]float64, nc),
		}
	)
	for ii := 0; ii < NxT; ii++ {
		for jj := 0; jj < NyT; jj++ {
			var (
				i, j = ii - NGhost, jj - NGhost
				k    = ii*NyT + jj
			)
			g.Centroids[k] = [2]float64{x0 + (float64(i)+0.5)*dx, y0 + (float64(j)+0.5)*dy}
			g.Volumes[k] = dx * dy
			for _, d := range Directions {
				g.Normals[k][d] = d.Normal()
				if d.Axis() == 0 {
					g.Surfaces[k][d] = dy
				} else {
					g.Surfaces[k][d] = dx
				}
			}
		}
	}
	return NewCellSet(g, Nx, Ny, NGhost, numFields)
}

// NewFromGeometry wraps externally generated geometry. The arrays must cover
// all cells including ghosts, in CellSet.Index order.
func NewFromGeometry(g *Geometry, Nx, Ny, NGhost, numFields int) (*CellSet, error) {
	return NewCellSet(g, Nx, Ny, NGhost, numFields)
}

// Bounds returns the interior extent from the face positions of the corner cells
func (cs *CellSet) Bounds() (xMin, yMin, xMax, yMax float64) {
	var (
		first = cs.Index(0, 0)
		last  = cs.Index(cs.Nx-1, cs.Ny-1)
		c0    = cs.Centroids[first]
		c1    = cs.Centroids[last]
	)
	hx0, hy0 := cs.Volumes[first]/cs.Surfaces[first][Left]/2, cs.Volumes[first]/cs.Surfaces[first][Bottom]/2
	hx1, hy1 := cs.Volumes[last]/cs.Surfaces[last][Right]/2, cs.Volumes[last]/cs.Surfaces[last][Top]/2
	return c0[0] - hx0, c0[1] - hy0, c1[0] + hx1, c1[1] + hy1
}
