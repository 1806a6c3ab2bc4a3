package date

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	yearRE          = regexp.MustCompile(`^\d{4}$`)
	quarterYearRE   = regexp.MustCompile(`^(\d{4})-?q([1-4])$`)
	yearQuarterRE   = regexp.MustCompile(`^q([1-4])-?(\d{4})$`)
	bareQuarterRE   = regexp.MustCompile(`^q([1-4])$`)
	calendarDayRE   = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)
	resetKeywordSet = map[string]bool{"all": true, "reset": true, "clear": true}
)

// IsResetKeyword reports whether token asks to clear a date range.
func IsResetKeyword(token string) bool { return resetKeywordSet[strings.ToLower(token)] }

// Resolver turns free-text tokens into date ranges.
//
// A bare quarter token like "q2" is resolved against the context year: the
// year of the last committed token that carried one, or the current year. A
// resolution only moves the context year once Commit is called.
type Resolver struct {
	// Now returns the current day. Defaults to Today.
	Now func() Date

	contextYear int
	pending     int // year of the last resolution, until committed
}

func (r *Resolver) today() Date {
	if r.Now == nil {
		return Today()
	}
	return r.Now()
}

// ContextYear returns the year used for bare quarter tokens.
func (r *Resolver) ContextYear() int {
	if r.contextYear != 0 {
		return r.contextYear
	}
	return r.today().Year()
}

// Commit makes the year of the last resolution the context year.
func (r *Resolver) Commit() {
	if r.pending != 0 {
		r.contextYear = r.pending
	}
	r.pending = 0
}

// Discard forgets the year of the last resolution.
func (r *Resolver) Discard() { r.pending = 0 }

// workingYear is the year bare quarters resolve to during a resolution.
func (r *Resolver) workingYear() int {
	if r.pending != 0 {
		return r.pending
	}
	return r.ContextYear()
}

// ResolveTokens resolves and commits tokens. It returns the zero Range when the
// tokens are not a date range. Callers treat the zero Range as "no change".
func (r *Resolver) ResolveTokens(tokens []string) Range {
	rng, ok := r.Resolve(tokens)
	if ok {
		r.Commit()
	}
	return rng
}

// Resolve returns the range described by tokens and whether they were recognized.
//
// Grammars, in precedence order:
//
//	2023                    the whole year
//	2023-01-01,2023-06-30   literal bounds
//	from 2023               from a year, quarter or day, unbounded end
//	2022 to 2023            from the start of the first to the end of the last
//	f:2023, from:2023, to:2023, 2022:2023, q1:q3
//
// Quarter tokens (2023q1, q1-2023, q1) are accepted wherever a year is.
func (r *Resolver) Resolve(tokens []string) (Range, bool) {
	r.pending = 0
	rng, ok := r.resolve(tokens)
	if !ok {
		r.pending = 0
	}
	return rng, ok
}

func (r *Resolver) resolve(tokens []string) (Range, bool) {
	lower := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			lower = append(lower, t)
		}
	}

	switch len(lower) {
	case 1:
		tok := lower[0]
		if r.isYear(tok) {
			y, _ := strconv.Atoi(tok)
			r.pending = y
			return NewRange(New(y, time.January, 1), Yearly), true
		}
		if rng, ok := r.quarter(tok); ok {
			return rng, true
		}
		if from, to, ok := strings.Cut(tok, ","); ok {
			return r.between(from, to)
		}
		if strings.Contains(tok, ":") {
			return r.shorthand(tok)
		}
	case 2:
		switch lower[0] {
		case "from", "f":
			if from, ok := r.bound(lower[1], false); ok {
				return Since(from), true
			}
		case "to", "t":
			if to, ok := r.bound(lower[1], true); ok {
				return Until(to), true
			}
		}
	case 3:
		if lower[1] == "to" {
			return r.between(lower[0], lower[2])
		}
	}
	return Range{}, false
}

// between resolves two bounds, rejecting reversed ranges.
func (r *Resolver) between(first, last string) (Range, bool) {
	from, ok := r.bound(first, false)
	if !ok {
		return Range{}, false
	}
	to, ok := r.bound(last, true)
	if !ok {
		return Range{}, false
	}
	rng := Range{From: from, To: to}
	if !rng.Valid() {
		return Range{}, false
	}
	return rng, true
}

func (r *Resolver) shorthand(tok string) (Range, bool) {
	head, tail, _ := strings.Cut(tok, ":")
	switch head {
	case "f", "from":
		if from, ok := r.bound(tail, false); ok {
			return Since(from), true
		}
		return Range{}, false
	case "t", "to":
		if to, ok := r.bound(tail, true); ok {
			return Until(to), true
		}
		return Range{}, false
	}
	return r.between(head, tail)
}

// bound resolves a single year, quarter or day token to the start (or end) of its period.
func (r *Resolver) bound(tok string, end bool) (Date, bool) {
	var rng Range
	switch {
	case r.isYear(tok):
		y, _ := strconv.Atoi(tok)
		r.pending = y
		rng = NewRange(New(y, time.January, 1), Yearly)
	case calendarDayRE.MatchString(tok):
		d, err := Parse(tok)
		if err != nil {
			return Date{}, false
		}
		rng = Range{From: d, To: d}
	default:
		q, ok := r.quarter(tok)
		if !ok {
			return Date{}, false
		}
		rng = q
	}
	if end {
		return rng.To, true
	}
	return rng.From, true
}

func (r *Resolver) quarter(tok string) (Range, bool) {
	var year, q int
	switch {
	case quarterYearRE.MatchString(tok):
		m := quarterYearRE.FindStringSubmatch(tok)
		year, _ = strconv.Atoi(m[1])
		q, _ = strconv.Atoi(m[2])
	case yearQuarterRE.MatchString(tok):
		m := yearQuarterRE.FindStringSubmatch(tok)
		q, _ = strconv.Atoi(m[1])
		year, _ = strconv.Atoi(m[2])
	case bareQuarterRE.MatchString(tok):
		m := bareQuarterRE.FindStringSubmatch(tok)
		q, _ = strconv.Atoi(m[1])
		year = r.workingYear()
	default:
		return Range{}, false
	}
	if !r.validYear(year) {
		return Range{}, false
	}
	r.pending = year
	return NewRange(New(year, time.Month((q-1)*3+1), 1), Quarterly), true
}

func (r *Resolver) isYear(tok string) bool {
	if !yearRE.MatchString(tok) {
		return false
	}
	y, _ := strconv.Atoi(tok)
	return r.validYear(y)
}

func (r *Resolver) validYear(y int) bool {
	return y >= 1900 && y <= r.today().Year()+5
}
