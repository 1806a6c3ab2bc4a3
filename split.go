package fundterm

import (
	"slices"

	"github.com/etnz/fundterm/date"
)

// SplitEvent is a stock split: on EffectiveDate every share of Security becomes
// Ratio shares.
type SplitEvent struct {
	Security      string    `json:"security"`
	EffectiveDate date.Date `json:"effectiveDate"`
	Ratio         float64   `json:"ratio"`
}

// SplitAdjustment returns the product of the ratios of the splits of security that
// take effect strictly after on. Multiplying a share count held on that day by the
// adjustment expresses it in today's shares.
func SplitAdjustment(splits []SplitEvent, security string, on date.Date) float64 {
	symbol := NormalizeSymbol(security)
	adjustment := 1.0
	for _, s := range splits {
		if s.Ratio <= 0 || NormalizeSymbol(s.Security) != symbol {
			continue
		}
		if s.EffectiveDate.After(on) {
			adjustment *= s.Ratio
		}
	}
	return adjustment
}

// SplitsOf returns the splits of a security sorted by effective date.
func SplitsOf(splits []SplitEvent, security string) []SplitEvent {
	symbol := NormalizeSymbol(security)
	var res []SplitEvent
	for _, s := range splits {
		if s.Ratio > 0 && NormalizeSymbol(s.Security) == symbol {
			res = append(res, s)
		}
	}
	sortSplits(res)
	return res
}

func sortSplits(splits []SplitEvent) {
	slices.SortStableFunc(splits, func(a, b SplitEvent) int { return a.EffectiveDate.Compare(b.EffectiveDate) })
}
