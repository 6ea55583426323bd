package coord

import "fmt"

// Coord is a lattice point. Coordinates are expected to be non-negative.
type Coord struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

func New(x, y int) Coord {
	return Coord{
		X: x,
		Y: y,
	}
}

func Minus(a, b Coord) Coord {
	return Coord{
		X: a.X - b.X,
		Y: a.Y - b.Y,
	}
}

// Less orders coords row by row, the way the map is drawn.
func Less(a, b Coord) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}
