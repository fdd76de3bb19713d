package mesh

import (
	"fmt"
	"strings"

	"github.com/notargets/gofvm/types"
)

// Direction names a cell face, and the mesh side lying in that direction
type Direction uint8

const (
	Left Direction = iota
	Bottom
	Right
	Top
)

var Directions = [4]Direction{Left, Bottom, Right, Top}

var DirectionNames = map[string]Direction{
	"left":   Left,
	"bottom": Bottom,
	"right":  Right,
	"top":    Top,
}

var directionPrintNames = [4]string{"Left", "Bottom", "Right", "Top"}

func (d Direction) String() string {
	if int(d) < len(directionPrintNames) {
		return directionPrintNames[d]
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

func NewDirection(label string) (d Direction, err error) {
	var ok bool
	if d, ok = DirectionNames[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = types.NewConfigurationError("side", "unknown side %q, must be left, bottom, right or top", label)
	}
	return
}

func (d Direction) Opposite() Direction { return (d + 2) % 4 }

// Offset is the (di, dj) step to the neighbour across face d
func (d Direction) Offset() (di, dj int) {
	switch d {
	case Left:
		di = -1
	case Right:
		di = 1
	case Bottom:
		dj = -1
	case Top:
		dj = 1
	}
	return
}

// Axis is 0 for faces normal to x, 1 for faces normal to y
func (d Direction) Axis() int { return int(d) % 2 }

// Normal is the outward unit normal of a face of an axis aligned cell
func (d Direction) Normal() [2]float64 {
	di, dj := d.Offset()
	return [2]float64{float64(di), float64(dj)}
}
