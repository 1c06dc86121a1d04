package world

import "golang.org/x/exp/slices"

// Holder is a map that assigns its own monotonically increasing key to
// each inserted value, used to give every spawned creature a stable id
// without the caller having to invent one.
type Holder[T any] struct {
	counter int
	storage map[int]T
}

// NewHolder returns an empty Holder.
func NewHolder[T any]() *Holder[T] {
	return &Holder[T]{counter: 1, storage: make(map[int]T)}
}

// Insert stores val under a freshly assigned key and returns it.
func (h *Holder[T]) Insert(val T) int {
	h.counter++
	h.storage[h.counter] = val
	return h.counter
}

// Remove deletes the entry at key, if any.
func (h *Holder[T]) Remove(key int) {
	delete(h.storage, key)
}

// Get returns the value at key.
func (h *Holder[T]) Get(key int) (T, bool) {
	v, ok := h.storage[key]
	return v, ok
}

// Set overwrites the value at an existing key.
func (h *Holder[T]) Set(key int, val T) {
	h.storage[key] = val
}

// Len returns the number of stored entries.
func (h *Holder[T]) Len() int {
	return len(h.storage)
}

// Keys returns every assigned key, sorted ascending so repeated calls
// iterate creatures in the same stable order (insertion order, since
// keys are assigned monotonically), as the simulation ordering in
// World.updateCreatures requires.
func (h *Holder[T]) Keys() []int {
	out := make([]int, 0, len(h.storage))
	for k := range h.storage {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// Each calls f for every stored entry.
func (h *Holder[T]) Each(f func(key int, val T)) {
	for k, v := range h.storage {
		f(k, v)
	}
}
