// Package crosshair reads the values of the visible lines of a chart under a time
// cursor.
package crosshair

import (
	"cmp"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/chart"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/series"
	"github.com/etnz/fundterm/session"
)

// Composition charts list at most maxGroups groups worth more than minGroupValue.
const (
	maxGroups     = 7
	minGroupValue = 0.01
)

// Value is the value of one line under the cursor.
type Value struct {
	Key       string  `json:"key"`
	Label     string  `json:"label"`
	Color     string  `json:"color"`
	Value     float64 `json:"value"`
	Formatted string  `json:"formatted"`
}

// Snapshot is the state of the crosshair.
type Snapshot struct {
	Time date.Date `json:"time"`
	// DateLabel is the date to display.
	DateLabel string           `json:"dateLabel"`
	Series    []Value          `json:"series"`
	ChartKey  session.ChartKey `json:"chartKey"`
}

// Service tracks the snapshot of the crosshair of a chart.
type Service struct {
	mu      sync.Mutex
	current *Snapshot
}

// Current returns the active snapshot, nil when the crosshair is cleared.
func (s *Service) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// SnapshotAt returns the last real sample on or before cursor of every visible
// line of c, and makes it the active snapshot. A nil cursor clears the active
// snapshot.
//
// It returns nil when no line has a sample on or before the cursor, or when every
// value of a composition chart is filtered out.
func (s *Service) SnapshotAt(cursor *date.Date, c *chart.Chart) *Snapshot {
	var snap *Snapshot
	if cursor != nil && c != nil {
		snap = Take(*cursor, c)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = snap
	return snap
}

// Take computes the snapshot of c at cursor, without changing any state.
func Take(cursor date.Date, c *chart.Chart) *Snapshot {
	snap := &Snapshot{ChartKey: c.Key}
	for _, l := range c.Lines {
		p, ok := sampleAt(l.Points, cursor)
		if !ok {
			continue
		}
		snap.Time = date.Max(snap.Time, p.Date)
		snap.Series = append(snap.Series, Value{Key: l.Key, Label: l.Label, Color: l.Color, Value: p.Value, Formatted: l.Format(p.Value)})
	}
	if c.Key.IsComposition() {
		snap.Series = slices.DeleteFunc(snap.Series, func(v Value) bool { return v.Value <= minGroupValue })
		slices.SortStableFunc(snap.Series, func(a, b Value) int { return cmp.Compare(b.Value, a.Value) })
		if len(snap.Series) > maxGroups {
			snap.Series = snap.Series[:maxGroups]
		}
	}
	if len(snap.Series) == 0 {
		return nil
	}
	snap.DateLabel = snap.Time.Format(date.DateFormat)
	return snap
}

// sampleAt returns the last real point on or before on.
func sampleAt(points []series.Point, on date.Date) (series.Point, bool) {
	n := sort.Search(len(points), func(i int) bool { return points[i].Date.After(on) })
	for i := n - 1; i >= 0; i-- {
		if !points[i].Synthetic {
			return points[i], true
		}
	}
	return series.Point{}, false
}

// Change is the change of one line over a range.
type Change struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Color string  `json:"color"`
	Delta float64 `json:"delta"`
	// Percent is the relative change, NaN when undefined.
	Percent          float64 `json:"-"`
	DeltaFormatted   string  `json:"deltaFormatted"`
	PercentFormatted string  `json:"percentFormatted,omitempty"`
}

// Summary is the change of the visible lines of a chart between two days.
type Summary struct {
	From    date.Date `json:"from"`
	To      date.Date `json:"to"`
	Days    int       `json:"days"`
	Changes []Change  `json:"changes"`
}

// RangeSummary returns the change of every visible line of c between start and
// end, clamped to the chart time axis. It returns nil for an empty range.
func RangeSummary(c *chart.Chart, start, end date.Date) *Summary {
	if c == nil || len(c.Lines) == 0 {
		return nil
	}
	if end.Before(start) {
		start, end = end, start
	}
	if !c.Domain.Min.IsZero() {
		start = date.Min(date.Max(start, c.Domain.Min), c.Domain.Max)
		end = date.Min(date.Max(end, c.Domain.Min), c.Domain.Max)
	}
	if start == end {
		return nil
	}
	sum := &Summary{From: start, To: end, Days: end.DaysSince(start)}
	for _, l := range c.Lines {
		first, ok := sampleAt(l.Points, start)
		if !ok {
			continue
		}
		last, ok := sampleAt(l.Points, end)
		if !ok {
			continue
		}
		ch := Change{Key: l.Key, Label: l.Label, Color: l.Color, Delta: last.Value - first.Value, Percent: math.NaN()}
		switch l.Unit {
		case chart.Percent:
			if f := 1 + first.Value/100; math.Abs(f) > 1e-9 {
				ch.Percent = ((1+last.Value/100)/f - 1) * 100
			}
		default:
			if math.Abs(first.Value) > 1e-9 {
				ch.Percent = ch.Delta / math.Abs(first.Value) * 100
			}
			if !math.IsNaN(ch.Percent) {
				ch.PercentFormatted = fundterm.Percent(ch.Percent).SignedString()
			}
		}
		ch.DeltaFormatted = l.FormatChange(ch.Delta)
		sum.Changes = append(sum.Changes, ch)
	}
	if len(sum.Changes) == 0 {
		return nil
	}
	return sum
}
