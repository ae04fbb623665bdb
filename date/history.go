package date

import (
	"encoding/json"
	"iter"
	"slices"
	"sort"
)

// History stores a chronological series of values, each associated with a specific date.
// It ensures that dates are unique and the series is always sorted.
type History[T float32 | float64 | string] struct {
	days   []Date
	values []T
}

// Latest returns the latest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) Latest() (day Date, value T) {
	last := len(h.days) - 1
	if last < 0 {
		return Date{}, *new(T) // return zero value of T
	}
	return h.days[last], h.values[last]
}

// First returns the earliest date and value in the history.
// If the history is empty, it returns zero value.
func (h *History[T]) First() (day Date, value T) {
	if len(h.days) == 0 {
		return Date{}, *new(T)
	}
	return h.days[0], h.values[0]
}

// Clear removes all items from the history.
func (h *History[T]) Clear() {
	h.days = h.days[:0]
	h.values = h.values[:0]
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.days)
}

// chronological is a private implementation to make this history chronologically sorted.
type chronological[T float32 | float64 | string] struct{ *History[T] }

func (s chronological[T]) Less(i, j int) bool { return s.days[i].Before(s.days[j]) }

func (s chronological[T]) Swap(i, j int) {
	s.days[i], s.days[j] = s.days[j], s.days[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

// sort sorts the history in chronological order.
func (h *History[T]) sort() { sort.Stable(chronological[T]{h}) }

// index returns the position of 'on' and whether it is present.
func (h *History[T]) index(on Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, on, Date.Compare)
}

// Append adds a point to the history.
//
// Existing value at that date are overwritten.
func (h *History[T]) Append(on Date, q T) *History[T] {
	if n := len(h.days); n == 0 || h.days[n-1].Before(on) {
		// Chronological loading is the common case.
		h.days, h.values = append(h.days, on), append(h.values, q)
		return h
	}
	if i, found := h.index(on); found {
		// We choose to replace, because it will give higher priority to the last data
		h.values[i] = q
		return h
	}
	h.days, h.values = append(h.days, on), append(h.values, q)
	h.sort()
	return h
}

// Values returns an iterator over all date/value pairs in the history, in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		if h == nil {
			return
		}
		for i, on := range h.days {
			if !yield(on, h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (T, bool) {
	var value T
	if i, found := h.index(day); found {
		return h.values[i], true
	}
	return value, false
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
// It returns the value and true if found, otherwise it returns the zero value and false.
func (h *History[T]) ValueAsOf(day Date) (T, bool) {
	if h == nil {
		return *new(T), false
	}
	i, found := h.index(day)
	if found {
		return h.values[i], true
	}
	// Not found. `i` is the index where `day` would be inserted.
	// The value we want is at `i-1`, which is the last entry before the target date.
	if i == 0 {
		var zero T
		return zero, false // No date on or before the given day.
	}
	return h.values[i-1], true
}

// MarshalJSON encodes the history as a json object mapping "YYYY-MM-DD" to values.
func (h History[T]) MarshalJSON() ([]byte, error) {
	m := make(map[Date]T, len(h.days))
	for i, d := range h.days {
		m[d] = h.values[i]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes a json object mapping "YYYY-MM-DD" to values.
func (h *History[T]) UnmarshalJSON(data []byte) error {
	var m map[Date]T
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	h.Clear()
	for d, v := range m {
		h.days, h.values = append(h.days, d), append(h.values, v)
	}
	h.sort()
	return nil
}

// Cursor walks a History for a sequence of non decreasing query dates.
//
// Successive queries cost O(1) amortized. A query earlier than the previous one is still answered
// correctly, through a binary search.
type Cursor[T float32 | float64 | string] struct {
	h    *History[T]
	next int // number of entries on or before the last query
	last Date
}

// Cursor returns a new cursor positioned before the first entry.
func (h *History[T]) Cursor() *Cursor[T] { return &Cursor[T]{h: h} }

// AsOf returns the value on day, or the most recent value before it.
func (c *Cursor[T]) AsOf(day Date) (T, bool) {
	n := c.h.Len()
	if day.Before(c.last) {
		i, found := c.h.index(day)
		if found {
			i++
		}
		c.next = i
	}
	for c.next < n && !c.h.days[c.next].After(day) {
		c.next++
	}
	c.last = day
	if c.next == 0 {
		return *new(T), false
	}
	return c.h.values[c.next-1], true
}
