package series

import (
	"math"

	"github.com/etnz/fundterm/date"
)

const zeroTolerance = 1e-6

// InjectSyntheticStart carries the synthetic lead-in point of full into filtered,
// the part of full kept by a date filter starting on from.
//
// When the point of full preceding the first filtered point is synthetic:
//   - if it lies before from, a synthetic point with its value is clamped on from,
//     unless filtered already starts on from;
//   - otherwise, if its value is zero, it is prepended as is.
//
// In every other case filtered is returned unchanged.
func InjectSyntheticStart(filtered, full []Point, from date.Date) []Point {
	if len(filtered) == 0 || len(full) == 0 {
		return filtered
	}
	first := filtered[0]
	i := -1
	for j, p := range full {
		if p.Date == first.Date {
			i = j
			break
		}
	}
	if i <= 0 {
		return filtered
	}
	pred := full[i-1]
	if !pred.Synthetic {
		return filtered
	}
	if !from.IsZero() && pred.Date.Before(from) {
		if first.Date == from {
			return filtered
		}
		return prepend(Point{Date: from, Value: pred.Value, Synthetic: true}, filtered)
	}
	if math.Abs(pred.Value) <= zeroTolerance && pred.Date != first.Date {
		return prepend(pred, filtered)
	}
	return filtered
}

func prepend(p Point, points []Point) []Point {
	res := make([]Point, 0, len(points)+1)
	return append(append(res, p), points...)
}

// Window returns the points of full within rng, with the synthetic start carried.
func Window(full []Point, rng date.Range) []Point {
	if rng.IsZero() {
		return full
	}
	return InjectSyntheticStart(FilterRange(full, rng), full, rng.From)
}

// Domain is the time axis of a chart.
type Domain struct {
	Min date.Date `json:"min"`
	Max date.Date `json:"max"`
}

// TimeDomain computes the time axis of the visible series of a chart filtered by rng.
//
// The upper bound is the latest actual sample within rng, capped by rng.To or
// today: it never extends to a far filter bound when the data ends earlier. The
// lower bound is the earliest sample within rng, raised to rng.From.
func TimeDomain(visible [][]Point, rng date.Range, today date.Date) (Domain, bool) {
	var earliest, latest date.Date
	for _, points := range visible {
		for _, p := range points {
			if !rng.Contains(p.Date) {
				continue
			}
			earliest = date.Min(earliest, p.Date)
			if !p.Synthetic {
				latest = date.Max(latest, p.Date)
			}
		}
	}
	if earliest.IsZero() {
		return Domain{}, false
	}
	if latest.IsZero() {
		latest = earliest
	}
	upper := rng.To
	if upper.IsZero() {
		upper = today
	}
	lower := rng.From
	if lower.IsZero() {
		lower = earliest
	}
	d := Domain{Min: date.Max(earliest, lower), Max: date.Min(latest, upper)}
	if d.Max.Before(d.Min) {
		d.Max = d.Min
	}
	return d, true
}
