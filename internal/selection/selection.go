// Package selection provides the value type behind multi-select UI state such
// as expanded table rows, checked filter labels and processed widget items.
package selection

import "slices"

// Set is an insertion-ordered set of comparable values. The zero value is an
// empty set ready to use. Methods with a value receiver never mutate; methods
// on *Set mutate in place.
type Set[T comparable] struct {
	items []T
}

// Of returns a set holding the given values, ignoring duplicates.
func Of[T comparable](values ...T) Set[T] {
	var s Set[T]
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Has reports whether v is a member.
func (s Set[T]) Has(v T) bool {
	return slices.Contains(s.items, v)
}

// Len returns the number of members.
func (s Set[T]) Len() int { return len(s.items) }

// Empty reports whether the set has no members.
func (s Set[T]) Empty() bool { return len(s.items) == 0 }

// Items returns the members in insertion order. The slice is a copy.
func (s Set[T]) Items() []T {
	return slices.Clone(s.items)
}

// Add inserts v. Adding an existing member is a no-op.
// It reports whether the set changed.
func (s *Set[T]) Add(v T) bool {
	if s.Has(v) {
		return false
	}
	s.items = append(s.items, v)
	return true
}

// Remove deletes v. Removing a non-member is a no-op.
// It reports whether the set changed.
func (s *Set[T]) Remove(v T) bool {
	i := slices.Index(s.items, v)
	if i < 0 {
		return false
	}
	s.items = slices.Delete(s.items, i, i+1)
	return true
}

// Toggle removes v if present and adds it otherwise. Two toggles of the same
// value leave the set as it was. It reports whether v is a member afterwards.
func (s *Set[T]) Toggle(v T) bool {
	if s.Remove(v) {
		return false
	}
	s.Add(v)
	return true
}

// Clear removes every member.
func (s *Set[T]) Clear() {
	s.items = nil
}

// Clone returns an independent copy.
func (s Set[T]) Clone() Set[T] {
	return Set[T]{items: slices.Clone(s.items)}
}

// Equal reports whether both sets hold the same members, in any order.
func (s Set[T]) Equal(other Set[T]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, v := range s.items {
		if !other.Has(v) {
			return false
		}
	}
	return true
}

// Single is an at-most-one selection, as used by accordions where opening
// one entry closes the previous.
type Single[T comparable] struct {
	value T
	set   bool
}

// Get returns the selected value and whether one is selected.
func (s Single[T]) Get() (T, bool) { return s.value, s.set }

// Is reports whether v is the selected value.
func (s Single[T]) Is(v T) bool { return s.set && s.value == v }

// Toggle selects v, or clears the selection if v was already selected.
// It reports whether v is selected afterwards.
func (s *Single[T]) Toggle(v T) bool {
	if s.Is(v) {
		s.Clear()
		return false
	}
	s.value, s.set = v, true
	return true
}

// Clear drops the selection.
func (s *Single[T]) Clear() {
	var zero T
	s.value, s.set = zero, false
}
