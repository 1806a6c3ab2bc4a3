package date

import "fmt"

// Range represents a range of dates, boundaries included.
// A zero From or To means the range is unbounded on that side.
type Range struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// NewRange returns the period range containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Since returns the range starting on from with no upper bound.
func Since(from Date) Range { return Range{From: from} }

// Until returns the range ending on to with no lower bound.
func Until(to Date) Range { return Range{To: to} }

// IsZero reports whether the range is unbounded on both sides.
func (r Range) IsZero() bool { return r.From.IsZero() && r.To.IsZero() }

// Contains return true date is included in the range (boundaries included).
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// Valid reports whether From is not after To when both are set.
func (r Range) Valid() bool {
	return r.From.IsZero() || r.To.IsZero() || !r.From.After(r.To)
}

// Period returns the standard period this range spans, if any.
func (r Range) Period() (p Period, ok bool) {
	if r.From.IsZero() || r.To.IsZero() {
		return Daily, false
	}
	for _, p := range []Period{Yearly, Quarterly, Monthly} {
		if r.From.StartOf(p) == r.From && r.From.EndOf(p) == r.To {
			return p, true
		}
	}
	if r.From == r.To {
		return Daily, true
	}
	return Daily, false
}

// String returns the human label of the range: "Q1 2023", "2023", "from 2023-01-01",
// "to 2023-12-31", "2023-01-01 to 2023-06-30" or "all time".
func (r Range) String() string {
	switch {
	case r.IsZero():
		return "all time"
	case r.To.IsZero():
		return "from " + r.From.String()
	case r.From.IsZero():
		return "to " + r.To.String()
	}
	if p, ok := r.Period(); ok {
		switch p {
		case Yearly:
			return fmt.Sprintf("%d", r.From.Year())
		case Quarterly:
			return fmt.Sprintf("Q%d %d", r.From.Quarter(), r.From.Year())
		}
	}
	return r.From.String() + " to " + r.To.String()
}
