package date

import (
	"fmt"
	"strings"
)

// Period is a calendar period used to round dates.
type Period int

const (
	Daily Period = iota
	Weekly
	Monthly
	Quarterly
	Yearly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case Yearly:
		return "yearly"
	default:
		panic(fmt.Sprintf("unknown period %d", p))
	}
}

// ParsePeriod parses a period name, long or single letter.
func ParsePeriod(p string) (Period, error) {
	switch strings.ToLower(p) {
	case "daily", "day", "d":
		return Daily, nil
	case "weekly", "week", "w":
		return Weekly, nil
	case "monthly", "month", "m":
		return Monthly, nil
	case "quarterly", "quarter", "q":
		return Quarterly, nil
	case "yearly", "year", "y":
		return Yearly, nil
	default:
		return Daily, fmt.Errorf("unknown period %s", p)
	}
}

// Label returns the short name of the period containing d: "2023", "Q1 2023",
// "2023-02", "week of 2023-02-06" or "2023-02-08".
func (p Period) Label(d Date) string {
	start := d.StartOf(p)
	switch p {
	case Yearly:
		return fmt.Sprintf("%d", start.Year())
	case Quarterly:
		return fmt.Sprintf("Q%d %d", start.Quarter(), start.Year())
	case Monthly:
		return start.Format("2006-01")
	case Weekly:
		return "week of " + start.String()
	default:
		return start.String()
	}
}
