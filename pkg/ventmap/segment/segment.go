// Package segment parses vent lines and enumerates the lattice points they
// cover.
package segment

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/exp/constraints"

	"github.com/ArminGh02/ventmap/pkg/util/coord"
	"github.com/ArminGh02/ventmap/pkg/ventmap/orientation"
)

var ErrSyntax = errors.New("malformed segment")

var lineRegexp = regexp.MustCompile(`^\s*(\d+)\s*,\s*(\d+)\s*->\s*(\d+)\s*,\s*(\d+)\s*$`)

type Segment struct {
	Start coord.Coord `json:"start" bson:"start"`
	End   coord.Coord `json:"end" bson:"end"`
}

func New(start, end coord.Coord) Segment {
	return Segment{
		Start: start,
		End:   end,
	}
}

// Parse reads a segment written as "x1,y1 -> x2,y2".
func Parse(line string) (Segment, error) {
	m := lineRegexp.FindStringSubmatch(line)
	if m == nil {
		return Segment{}, fmt.Errorf("%w: %q", ErrSyntax, line)
	}

	var nums [4]int
	for i := range nums {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Segment{}, fmt.Errorf("%w: %q: %v", ErrSyntax, line, err)
		}
		nums[i] = n
	}
	return New(coord.New(nums[0], nums[1]), coord.New(nums[2], nums[3])), nil
}

// MustParse is like Parse but panics on malformed input.
func MustParse(line string) Segment {
	s, err := Parse(line)
	if err != nil {
		panic(err)
	}
	return s
}

func (s Segment) Orientation() orientation.Orientation {
	return orientation.Of(s.Start, s.End)
}

func (s Segment) IsHorizontal() bool {
	return s.Start.Y == s.End.Y
}

func (s Segment) IsVertical() bool {
	return s.Start.X == s.End.X
}

// IsDiagonal reports whether the segment runs at exactly 45 degrees.
func (s Segment) IsDiagonal() bool {
	return abs(s.Start.X-s.End.X) == abs(s.Start.Y-s.End.Y)
}

func (s Segment) IsStraight() bool {
	return s.IsHorizontal() || s.IsVertical()
}

func (s Segment) Reversed() Segment {
	return New(s.End, s.Start)
}

func (s Segment) String() string {
	return fmt.Sprintf("%v -> %v", s.Start, s.End)
}

// ShapeError is returned by Trace for a segment that is neither horizontal,
// vertical nor diagonal.
type ShapeError struct {
	Segment Segment
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("segment %v is not a straight or 45° line", e.Segment)
}

// Trace returns every point the segment covers, from Start to End inclusive.
// Each call allocates a fresh slice.
func (s Segment) Trace() ([]coord.Coord, error) {
	switch {
	case s.IsHorizontal():
		xs := PointRange(s.Start.X, s.End.X)
		res := make([]coord.Coord, len(xs))
		for i, x := range xs {
			res[i] = coord.New(x, s.Start.Y)
		}
		return res, nil
	case s.IsVertical():
		ys := PointRange(s.Start.Y, s.End.Y)
		res := make([]coord.Coord, len(ys))
		for i, y := range ys {
			res[i] = coord.New(s.Start.X, y)
		}
		return res, nil
	case s.IsDiagonal():
		xs := PointRange(s.Start.X, s.End.X)
		ys := PointRange(s.Start.Y, s.End.Y)
		res := make([]coord.Coord, len(xs))
		for i := range xs {
			res[i] = coord.New(xs[i], ys[i])
		}
		return res, nil
	default:
		return nil, &ShapeError{Segment: s}
	}
}

// PointRange returns the integers from..to inclusive, stepping by one in
// whichever direction reaches to.
func PointRange[T constraints.Integer](from, to T) []T {
	if from <= to {
		res := make([]T, 0, to-from+1)
		for v := from; ; v++ {
			res = append(res, v)
			if v == to {
				return res
			}
		}
	}

	res := make([]T, 0, from-to+1)
	for v := from; ; v-- {
		res = append(res, v)
		if v == to {
			return res
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
