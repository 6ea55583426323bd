// Package coverage counts how many vent lines cover each point.
package coverage

import (
	"sort"

	"github.com/ArminGh02/ventmap/pkg/util/coord"
	"github.com/ArminGh02/ventmap/pkg/util/multiset"
)

// Accumulator owns a sparse point -> visit count table. It is not safe for
// concurrent use; see Merge for combining per-worker accumulators.
type Accumulator struct {
	visits multiset.Multiset[coord.Coord]
}

func New() *Accumulator {
	return &Accumulator{
		visits: multiset.New[coord.Coord](),
	}
}

// Record counts one visit for every point given.
func (a *Accumulator) Record(points []coord.Coord) {
	for _, p := range points {
		a.visits.Insert(p)
	}
}

// DangerousPointCount returns the number of points visited more than once.
func (a *Accumulator) DangerousPointCount() int {
	count := 0
	a.visits.Each(func(_ coord.Coord, n uint) {
		if n > 1 {
			count++
		}
	})
	return count
}

// TotalVisitCount is the sum of all counters, i.e. the total length of every
// recorded sequence.
func (a *Accumulator) TotalVisitCount() uint {
	var total uint
	a.visits.Each(func(_ coord.Coord, n uint) {
		total += n
	})
	return total
}

func (a *Accumulator) CountAt(p coord.Coord) uint {
	return a.visits.Count(p)
}

func (a *Accumulator) Len() int {
	return a.visits.Len()
}

// Merge adds other's counters into a. other is left untouched.
func (a *Accumulator) Merge(other *Accumulator) {
	a.visits.AddAll(&other.visits)
}

// Bounds returns the smallest and largest corner enclosing every covered
// point. ok is false when nothing was recorded.
func (a *Accumulator) Bounds() (min, max coord.Coord, ok bool) {
	a.visits.Each(func(p coord.Coord, _ uint) {
		if !ok {
			min, max, ok = p, p, true
			return
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
	})
	return min, max, ok
}

// Points returns the distinct covered points ordered row by row.
func (a *Accumulator) Points() []coord.Coord {
	res := make([]coord.Coord, 0, a.visits.Len())
	a.visits.Each(func(p coord.Coord, _ uint) {
		res = append(res, p)
	})
	sort.Slice(res, func(i, j int) bool {
		return coord.Less(res[i], res[j])
	})
	return res
}
