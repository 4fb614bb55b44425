package game

import "math/rand"

// WeightedEntry pairs a value with its relative weight
type WeightedEntry[T any] struct {
	Value  T
	Weight int
}

// Weighted picks values by integer weight. Entries keep their declared order,
// so a roll of 1..total always maps to the same value for a given table.
type Weighted[T any] struct {
	entries []WeightedEntry[T]
	total   int
}

// NewWeighted builds a table, dropping entries with non-positive weight
func NewWeighted[T any](entries ...WeightedEntry[T]) Weighted[T] {
	w := Weighted[T]{}
	for _, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		w.entries = append(w.entries, e)
		w.total += e.Weight
	}
	return w
}

// Len returns the number of selectable entries
func (w Weighted[T]) Len() int {
	return len(w.entries)
}

// Total returns the sum of weights
func (w Weighted[T]) Total() int {
	return w.total
}

// Pick rolls 1..Total and walks the cumulative weights.
// A single-entry table returns its value without consuming randomness.
func (w Weighted[T]) Pick(rng *rand.Rand) (T, bool) {
	var zero T
	switch len(w.entries) {
	case 0:
		return zero, false
	case 1:
		return w.entries[0].Value, true
	}
	return w.ForRoll(rng.Intn(w.total) + 1)
}

// ForRoll maps a roll in 1..Total to its value
func (w Weighted[T]) ForRoll(roll int) (T, bool) {
	var zero T
	if roll < 1 || roll > w.total {
		return zero, false
	}
	cumulative := 0
	for _, e := range w.entries {
		cumulative += e.Weight
		if roll <= cumulative {
			return e.Value, true
		}
	}
	return zero, false
}
