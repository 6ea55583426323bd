package orientation

import "github.com/ArminGh02/ventmap/pkg/util/coord"

type Orientation int

const (
	// Point is a segment whose endpoints coincide. It is horizontal,
	// vertical and diagonal at once.
	Point Orientation = iota
	Horizontal
	Vertical
	Diagonal
	Sloped
)

// Of classifies the segment running from start to end.
func Of(start, end coord.Coord) Orientation {
	dx, dy := abs(end.X-start.X), abs(end.Y-start.Y)
	switch {
	case dx == 0 && dy == 0:
		return Point
	case dy == 0:
		return Horizontal
	case dx == 0:
		return Vertical
	case dx == dy:
		return Diagonal
	default:
		return Sloped
	}
}

func (o Orientation) IsStraight() bool {
	return o == Point || o == Horizontal || o == Vertical
}

func (o Orientation) IsTraceable() bool {
	return o != Sloped
}

func (o Orientation) String() string {
	switch o {
	case Point:
		return "point"
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Diagonal:
		return "diagonal"
	case Sloped:
		return "sloped"
	default:
		return "unknown"
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
