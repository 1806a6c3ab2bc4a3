package series

import (
	"math"

	"github.com/etnz/fundterm/date"
)

// BuildPerformance returns the cumulative time-weighted return, in percent, of a
// balance series given the daily cash flows into it.
//
// The return of a period is the value at its end divided by the value at its start
// plus the flows of its end day. Periods starting from an empty portfolio are
// neutral.
func BuildPerformance(balance []Point, flows map[date.Date]float64) []Point {
	points := finite(balance)
	if len(points) == 0 {
		return nil
	}
	res := make([]Point, 0, len(points))
	index := 1.0
	prev := 0.0
	for i, p := range points {
		if i > 0 {
			if base := prev + flows[p.Date]; base > 0 {
				index *= p.Value / base
			}
		}
		prev = p.Value
		res = append(res, Point{Date: p.Date, Value: (index - 1) * 100, Synthetic: p.Synthetic})
	}
	return res
}

// BuildRolling returns the trailing one year return, in percent, of a cumulative
// performance series. Points with less than a year of history are skipped.
func BuildRolling(performance []Point) []Point {
	var res []Point
	for i, p := range performance {
		yearAgo := p.Date.AddYears(-1)
		for j := i - 1; j >= 0; j-- {
			start := performance[j]
			if start.Date.After(yearAgo) {
				continue
			}
			startIndex := 1 + start.Value/100
			if startIndex != 0 {
				res = append(res, Point{Date: p.Date, Value: ((1+p.Value/100)/startIndex - 1) * 100})
			}
			break
		}
	}
	return res
}

// CAGR returns the compound annual growth rate, in percent, of a cumulative
// performance series. It is NaN when the series spans less than a day.
func CAGR(performance []Point) float64 {
	if len(performance) < 2 {
		return math.NaN()
	}
	first, last := performance[0], performance[len(performance)-1]
	days := last.Date.DaysSince(first.Date)
	if days <= 0 {
		return math.NaN()
	}
	growth := (1 + last.Value/100) / (1 + first.Value/100)
	if growth <= 0 {
		return math.NaN()
	}
	return (math.Pow(growth, 365.25/float64(days)) - 1) * 100
}

// PeriodReturns returns the return, in percent, of each calendar period covered by
// a cumulative performance series, in date order. Each return chains from the last
// point of the previous period, or from the first point for the first period.
func PeriodReturns(performance []Point, period date.Period) []Point {
	if len(performance) == 0 {
		return nil
	}
	var res []Point
	start := 1 + performance[0].Value/100
	current := performance[0].Date.StartOf(period)
	prev := start
	for _, p := range performance {
		index := 1 + p.Value/100
		if on := p.Date.StartOf(period); on != current {
			res = append(res, Point{Date: current, Value: (prev/start - 1) * 100})
			current, start = on, prev
		}
		prev = index
	}
	return append(res, Point{Date: current, Value: (prev/start - 1) * 100})
}
