// Package series derives the time series drawn by the dashboard from the ledger:
// contribution, balance, drawdown, performance, composition and their boundary
// handling when a date filter is applied.
package series

import (
	"math"
	"slices"

	"github.com/etnz/fundterm/date"
)

// Point is a sample of a time series. Synthetic points are never real samples,
// they only keep a line continuous at a boundary.
type Point struct {
	Date      date.Date `json:"date"`
	Value     float64   `json:"value"`
	Synthetic bool      `json:"synthetic,omitempty"`
}

// Sort sorts points by date in place, keeping the input order for equal dates.
func Sort(points []Point) {
	slices.SortStableFunc(points, func(a, b Point) int { return a.Date.Compare(b.Date) })
}

// finite returns a sorted copy of points without NaN or infinite values.
func finite(points []Point) []Point {
	res := make([]Point, 0, len(points))
	for _, p := range points {
		if !math.IsNaN(p.Value) && !math.IsInf(p.Value, 0) && !p.Date.IsZero() {
			res = append(res, p)
		}
	}
	Sort(res)
	return res
}

// FilterRange returns the points within rng.
func FilterRange(points []Point, rng date.Range) []Point {
	var res []Point
	for _, p := range points {
		if rng.Contains(p.Date) {
			res = append(res, p)
		}
	}
	return res
}

// At returns the last point on or before on.
func At(points []Point, on date.Date) (Point, bool) {
	i, found := slices.BinarySearchFunc(points, on, func(p Point, d date.Date) int { return p.Date.Compare(d) })
	if found {
		// the last point of that day
		for i+1 < len(points) && points[i+1].Date == on {
			i++
		}
		return points[i], true
	}
	if i == 0 {
		return Point{}, false
	}
	return points[i-1], true
}

// Last returns the last point, if any.
func Last(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	return points[len(points)-1], true
}
