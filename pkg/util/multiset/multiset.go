// Package multiset provides a counting set: every element carries the number
// of times it was inserted.
package multiset

type Multiset[T comparable] struct {
	m map[T]uint
}

func New[T comparable]() Multiset[T] {
	return Multiset[T]{
		m: make(map[T]uint),
	}
}

// Insert adds one occurrence of element and returns its new count.
func (set *Multiset[T]) Insert(element T) uint {
	set.m[element]++
	return set.m[element]
}

// Count returns 0 for elements never inserted.
func (set *Multiset[T]) Count(element T) uint {
	return set.m[element]
}

// Len is the number of distinct elements.
func (set *Multiset[T]) Len() int {
	return len(set.m)
}

// Each calls f for every distinct element in unspecified order.
func (set *Multiset[T]) Each(f func(element T, count uint)) {
	for element, count := range set.m {
		f(element, count)
	}
}

// AddAll adds every occurrence held by other.
func (set *Multiset[T]) AddAll(other *Multiset[T]) {
	for element, count := range other.m {
		set.m[element] += count
	}
}
