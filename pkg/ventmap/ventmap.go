// Package ventmap solves the vent map: it rasterizes vent lines into a
// coverage table and counts the points where lines overlap.
package ventmap

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/ArminGh02/ventmap/pkg/util/coord"
	"github.com/ArminGh02/ventmap/pkg/ventmap/coverage"
	"github.com/ArminGh02/ventmap/pkg/ventmap/heat"
	"github.com/ArminGh02/ventmap/pkg/ventmap/segment"
)

type Variant int

const (
	// Straight only considers horizontal and vertical lines.
	Straight Variant = iota
	// All considers every line, diagonals included.
	All
)

var Variants = []Variant{Straight, All}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "straight":
		return Straight, nil
	case "all":
		return All, nil
	default:
		return 0, fmt.Errorf("unknown variant %q", s)
	}
}

func (v Variant) String() string {
	if v == Straight {
		return "straight"
	}
	return "all"
}

func (v Variant) Accepts(s segment.Segment) bool {
	return v == All || s.IsStraight()
}

// Filter keeps the segments v accepts, in order, and reports how many were
// left out.
func (v Variant) Filter(segments []segment.Segment) (kept []segment.Segment, skipped int) {
	kept = make([]segment.Segment, 0, len(segments))
	for _, s := range segments {
		if v.Accepts(s) {
			kept = append(kept, s)
		} else {
			skipped++
		}
	}
	return kept, skipped
}

// DropSloped removes the segments Trace would reject.
func DropSloped(segments []segment.Segment) (kept []segment.Segment, dropped int) {
	kept = make([]segment.Segment, 0, len(segments))
	for _, s := range segments {
		if s.Orientation().IsTraceable() {
			kept = append(kept, s)
		} else {
			dropped++
		}
	}
	return kept, dropped
}

// Extent returns the corners of the box enclosing every endpoint of
// segments. ok is false for no segments.
func Extent(segments []segment.Segment) (min, max coord.Coord, ok bool) {
	for _, s := range segments {
		for _, p := range [...]coord.Coord{s.Start, s.End} {
			if !ok {
				min, max, ok = p, p, true
				continue
			}
			if p.X < min.X {
				min.X = p.X
			}
			if p.Y < min.Y {
				min.Y = p.Y
			}
			if p.X > max.X {
				max.X = p.X
			}
			if p.Y > max.Y {
				max.Y = p.Y
			}
		}
	}
	return min, max, ok
}

// ParseInput reads one segment per line, ignoring blank lines.
func ParseInput(r io.Reader) ([]segment.Segment, error) {
	var res []segment.Segment
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		s, err := segment.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
		res = append(res, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Map is a coverage table together with the segments recorded into it.
type Map struct {
	id      string
	variant Variant
	acc     *coverage.Accumulator
	history []segment.Segment
	skipped int
}

func New(variant Variant) *Map {
	return &Map{
		id:      uuid.NewString(),
		variant: variant,
		acc:     coverage.New(),
	}
}

func (m *Map) ID() string {
	return m.id
}

func (m *Map) Variant() Variant {
	return m.variant
}

// Record traces s and counts its points. A ShapeError leaves the map
// unchanged.
func (m *Map) Record(s segment.Segment) error {
	points, err := s.Trace()
	if err != nil {
		return err
	}
	m.acc.Record(points)
	m.history = append(m.history, s)
	return nil
}

func (m *Map) Coverage() *coverage.Accumulator {
	return m.acc
}

// History returns the recorded segments in recording order.
func (m *Map) History() []segment.Segment {
	res := make([]segment.Segment, len(m.history))
	copy(res, m.history)
	return res
}

func (m *Map) DangerousPoints() int {
	return m.acc.DangerousPointCount()
}

func (m *Map) Report() Report {
	return Report{
		Variant:         m.variant,
		Segments:        len(m.history),
		Skipped:         m.skipped,
		DangerousPoints: m.acc.DangerousPointCount(),
		TotalVisits:     m.acc.TotalVisitCount(),
	}
}

func (m *Map) String() string {
	return fmt.Sprintf("map %s (%v, %d segments)", m.id, m.variant, len(m.history))
}

// Grid returns the heat level of every point inside [min, max], row by row.
func Grid(acc *coverage.Accumulator, min, max coord.Coord) [][]heat.Level {
	res := make([][]heat.Level, 0, max.Y-min.Y+1)
	for y := min.Y; y <= max.Y; y++ {
		row := make([]heat.Level, 0, max.X-min.X+1)
		for x := min.X; x <= max.X; x++ {
			row = append(row, heat.Of(acc.CountAt(coord.New(x, y))))
		}
		res = append(res, row)
	}
	return res
}

type Report struct {
	Variant         Variant
	Segments        int
	Skipped         int
	DangerousPoints int
	TotalVisits     uint
}

func (r Report) String() string {
	return fmt.Sprintf("number of dangerous points (%v) %d", r.Variant, r.DangerousPoints)
}
