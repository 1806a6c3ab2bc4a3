package date

import (
	"iter"
	"slices"
)

// History stores a chronological series of values, each associated with a specific date.
// Dates are unique and the series is always sorted.
type History[T any] struct {
	days   []Date
	values []T
}

// search returns the index of day, or where it would be inserted.
func (h *History[T]) search(day Date) (int, bool) {
	return slices.BinarySearchFunc(h.days, day, Date.Compare)
}

// Append adds a point to the history. An existing value at that date is overwritten.
func (h *History[T]) Append(on Date, v T) *History[T] {
	i, found := h.search(on)
	if found {
		h.values[i] = v
		return h
	}
	h.days = slices.Insert(h.days, i, on)
	h.values = slices.Insert(h.values, i, v)
	return h
}

// Len returns the number of items in the history.
func (h *History[T]) Len() int {
	if h == nil {
		return 0
	}
	return len(h.days)
}

// Days returns a copy of the dates in the history.
func (h *History[T]) Days() []Date {
	if h == nil {
		return nil
	}
	return slices.Clone(h.days)
}

// First returns the earliest date and value, or zero values.
func (h *History[T]) First() (day Date, value T) {
	if h.Len() == 0 {
		return Date{}, value
	}
	return h.days[0], h.values[0]
}

// Latest returns the latest date and value, or zero values.
func (h *History[T]) Latest() (day Date, value T) {
	if h.Len() == 0 {
		return Date{}, value
	}
	last := len(h.days) - 1
	return h.days[last], h.values[last]
}

// Values returns an iterator over all date/value pairs in chronological order.
func (h *History[T]) Values() iter.Seq2[Date, T] {
	return func(yield func(Date, T) bool) {
		for i := 0; i < h.Len(); i++ {
			if !yield(h.days[i], h.values[i]) {
				return
			}
		}
	}
}

// Get returns the value at 'day' and true or zero value and false.
func (h *History[T]) Get(day Date) (value T, ok bool) {
	if h.Len() == 0 {
		return value, false
	}
	if i, found := h.search(day); found {
		return h.values[i], true
	}
	return value, false
}

// ValueAsOf returns the value on a given day, or the most recent value before it.
func (h *History[T]) ValueAsOf(day Date) (value T, ok bool) {
	_, value, ok = h.EntryAsOf(day)
	return
}

// EntryAsOf is like ValueAsOf but also returns the date of the value found.
func (h *History[T]) EntryAsOf(day Date) (on Date, value T, ok bool) {
	if h.Len() == 0 {
		return on, value, false
	}
	i, found := h.search(day)
	if found {
		return h.days[i], h.values[i], true
	}
	if i == 0 {
		return on, value, false
	}
	return h.days[i-1], h.values[i-1], true
}

// ValueWithin is like ValueAsOf but ignores values older than lookback days.
func (h *History[T]) ValueWithin(day Date, lookback int) (value T, ok bool) {
	on, v, ok := h.EntryAsOf(day)
	if !ok || day.DaysSince(on) > lookback {
		return value, false
	}
	return v, true
}

// Merge returns an iterator over all unique, sorted dates from multiple sorted series of dates.
func Merge(series ...[]Date) iter.Seq[Date] {
	return func(yield func(Date) bool) {
		indexes := make([]int, len(series))
		for {
			var m Date
			found := false
			for i, index := range indexes {
				if index < len(series[i]) {
					if on := series[i][index]; !found || on.Before(m) {
						m, found = on, true
					}
				}
			}
			if !found {
				return
			}
			for i, index := range indexes {
				if index < len(series[i]) && series[i][index] == m {
					indexes[i]++
				}
			}
			if !yield(m) {
				return
			}
		}
	}
}
