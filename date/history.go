package date

import (
	"iter"
	"slices"
)

// point is one dated value of a History.
type point[T any] struct {
	on    Date
	value T
}

// History is a series of values keyed by day: one value per day, in chronological order.
//
// The zero value is an empty History ready to use.
type History[T any] struct {
	points []point[T]
}

// find returns the index of on, or where it would be inserted.
func (h *History[T]) find(on Date) (int, bool) {
	return slices.BinarySearchFunc(h.points, on, func(p point[T], on Date) int { return p.on.Compare(on) })
}

// Append sets the value of day on, replacing any previous value for that day.
func (h *History[T]) Append(on Date, v T) *History[T] {
	if n := len(h.points); n == 0 || h.points[n-1].on.Before(on) {
		h.points = append(h.points, point[T]{on, v})
		return h
	}
	i, found := h.find(on)
	if found {
		h.points[i].value = v
	} else {
		h.points = slices.Insert(h.points, i, point[T]{on, v})
	}
	return h
}

// Len is the number of days with a value.
func (h *History[T]) Len() int { return len(h.points) }

// Get returns the value of day on.
func (h *History[T]) Get(on Date) (v T, ok bool) {
	if i, found := h.find(on); found {
		return h.points[i].value, true
	}
	return v, false
}

// ValueAsOf returns the value of day on, or else the last value before it.
func (h *History[T]) ValueAsOf(on Date) (v T, ok bool) {
	i, found := h.find(on)
	if !found {
		i--
	}
	if i < 0 {
		return v, false
	}
	return h.points[i].value, true
}

// Latest returns the last day and its value, or the zero Date when h is empty.
func (h *History[T]) Latest() (on Date, v T) {
	if len(h.points) == 0 {
		return on, v
	}
	p := h.points[len(h.points)-1]
	return p.on, p.value
}

// Values iterates over the days and values in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for _, p := range h.points {
			if !yield(p.on, p.value) {
				return
			}
		}
	}
}
