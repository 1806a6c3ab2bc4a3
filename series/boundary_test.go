package series

import (
	"testing"

	"github.com/etnz/fundterm/date"
	"github.com/google/go-cmp/cmp"
)

func syn(on string, v float64) Point { return Point{Date: date.MustParse(on), Value: v, Synthetic: true} }

func TestInjectSyntheticStart(t *testing.T) {
	full := []Point{syn("2023-01-09", 0), pt("2023-01-12", 1000), pt("2023-01-20", 1100)}

	testCases := []struct {
		name     string
		filtered []Point
		full     []Point
		from     string
		want     []Point
	}{
		{
			name:     "clamped on from",
			filtered: full[1:],
			full:     full,
			from:     "2023-01-10",
			want:     []Point{syn("2023-01-10", 0), pt("2023-01-12", 1000), pt("2023-01-20", 1100)},
		},
		{
			name:     "already starts on from",
			filtered: full[1:],
			full:     full,
			from:     "2023-01-12",
			want:     full[1:],
		},
		{
			name:     "zero lead-in within window",
			filtered: full[1:],
			full:     full,
			from:     "2023-01-01",
			want:     full,
		},
		{
			name:     "real predecessor",
			filtered: full[2:],
			full:     full,
			from:     "2023-01-15",
			want:     full[2:],
		},
		{
			name:     "non zero synthetic within window",
			filtered: []Point{pt("2023-01-12", 1000)},
			full:     []Point{syn("2023-01-09", 5), pt("2023-01-12", 1000)},
			from:     "2023-01-01",
			want:     []Point{pt("2023-01-12", 1000)},
		},
		{
			name: "empty filtered",
			full: full,
			from: "2023-01-10",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := InjectSyntheticStart(tc.filtered, tc.full, date.MustParse(tc.from))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("InjectSyntheticStart() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInjectSyntheticStartHasNoDuplicateOnFrom(t *testing.T) {
	full := []Point{syn("2023-01-09", 0), pt("2023-01-12", 1000)}
	from := date.New(2023, 1, 12)
	got := Window(full, date.Since(from))
	if len(got) != 1 || got[0].Date != from {
		t.Errorf("Window() = %v, want a single point on %v", got, from)
	}
}

func TestTimeDomain(t *testing.T) {
	today := date.New(2025, 6, 1)
	balance := []Point{syn("2023-01-10", 0), pt("2023-01-12", 1000), pt("2023-03-01", 1100)}
	contribution := []Point{pt("2023-01-12", 1000), pt("2023-02-01", 1000)}

	testCases := []struct {
		name string
		rng  date.Range
		want Domain
	}{
		{"unbounded", date.Range{}, Domain{date.New(2023, 1, 10), date.New(2023, 3, 1)}},
		{"far future bound", date.Range{From: date.New(2023, 1, 10), To: date.New(2030, 1, 1)}, Domain{date.New(2023, 1, 10), date.New(2023, 3, 1)}},
		{"bounded", date.Range{From: date.New(2023, 1, 11), To: date.New(2023, 2, 15)}, Domain{date.New(2023, 1, 12), date.New(2023, 2, 1)}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TimeDomain([][]Point{balance, contribution}, tc.rng, today)
			if !ok || got != tc.want {
				t.Errorf("TimeDomain(%v) = %v, %v want %v", tc.rng, got, ok, tc.want)
			}
		})
	}
	if _, ok := TimeDomain(nil, date.Range{}, today); ok {
		t.Errorf("TimeDomain(nil) = ok, want no domain")
	}
}
