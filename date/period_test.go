package date

import (
	"testing"
	"time"
)

func TestNewRange(t *testing.T) {
	wed := New(2025, time.September, 10)
	testCases := []struct {
		period Period
		in     Date
		want   Range
	}{
		{Daily, wed, Range{From: wed, To: wed}},
		{Weekly, wed, Range{From: New(2025, time.September, 8), To: New(2025, time.September, 14)}},
		{Weekly, New(2025, time.September, 14), Range{From: New(2025, time.September, 8), To: New(2025, time.September, 14)}},
		{Monthly, New(2024, time.February, 15), Range{From: New(2024, time.February, 1), To: New(2024, time.February, 29)}},
		{Quarterly, New(2025, time.May, 20), Range{From: New(2025, time.April, 1), To: New(2025, time.June, 30)}},
		{Yearly, wed, Range{From: New(2025, time.January, 1), To: New(2025, time.December, 31)}},
	}
	for _, tc := range testCases {
		t.Run(tc.period.String(), func(t *testing.T) {
			if got := NewRange(tc.in, tc.period); got != tc.want {
				t.Errorf("NewRange(%v, %v) = %v, want %v", tc.in, tc.period, got, tc.want)
			}
		})
	}
}

func TestRangeString(t *testing.T) {
	feb := New(2023, time.February, 3)
	testCases := []struct {
		in   Range
		want string
	}{
		{Range{}, "all time"},
		{NewRange(feb, Yearly), "2023"},
		{NewRange(feb, Quarterly), "Q1 2023"},
		{NewRange(feb, Monthly), "2023-02-01 to 2023-02-28"},
		{NewRange(feb, Daily), "2023-02-03 to 2023-02-03"},
		{Since(New(2023, time.January, 1)), "from 2023-01-01"},
		{Until(New(2023, time.December, 31)), "to 2023-12-31"},
	}
	for _, tc := range testCases {
		if got := tc.in.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRangeContains(t *testing.T) {
	d := New(2023, time.June, 1)
	testCases := []struct {
		in   Range
		want bool
	}{
		{Range{}, true},
		{Since(New(2023, time.January, 1)), true},
		{Since(New(2023, time.July, 1)), false},
		{Until(New(2023, time.July, 1)), true},
		{Until(New(2023, time.May, 31)), false},
		{NewRange(d, Quarterly), true},
		{NewRange(New(2023, time.July, 1), Quarterly), false},
	}
	for _, tc := range testCases {
		if got := tc.in.Contains(d); got != tc.want {
			t.Errorf("%v.Contains(%v) = %v, want %v", tc.in, d, got, tc.want)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	testCases := []struct {
		in   string
		want Period
	}{
		{"d", Daily},
		{"Week", Weekly},
		{"m", Monthly},
		{"QUARTERLY", Quarterly},
		{"y", Yearly},
	}
	for _, tc := range testCases {
		got, err := ParsePeriod(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParsePeriod(%q) = %v, %v, want %v", tc.in, got, err, tc.want)
		}
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Errorf("ParsePeriod(%q) succeeded, want error", "fortnight")
	}
}

func TestPeriodLabel(t *testing.T) {
	d := New(2023, time.February, 8)
	testCases := []struct {
		period Period
		want   string
	}{
		{Daily, "2023-02-08"},
		{Weekly, "week of 2023-02-06"},
		{Monthly, "2023-02"},
		{Quarterly, "Q1 2023"},
		{Yearly, "2023"},
	}
	for _, tc := range testCases {
		if got := tc.period.Label(d); got != tc.want {
			t.Errorf("%v.Label(%v) = %q, want %q", tc.period, d, got, tc.want)
		}
	}
}
