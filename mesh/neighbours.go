package mesh

// NeighbourView pairs a cell with its neighbour across one face. It is built
// on demand and only valid while the underlying cell set is not resized.
type NeighbourView struct {
	I, J      int
	Direction Direction
	Own       []float64
	Neighbour []float64
	Normal    [2]float64
	Surface   float64
}

// NeighbourIJ is the index of the neighbour cell, a ghost when the face is on the boundary
func (nv NeighbourView) NeighbourIJ() (ni, nj int) {
	di, dj := nv.Direction.Offset()
	return nv.I + di, nv.J + dj
}

// IsBoundary reports whether the neighbour is a ghost cell
func (nv NeighbourView) IsBoundary(cs *CellSet) bool {
	return !cs.IsInterior(nv.NeighbourIJ())
}
