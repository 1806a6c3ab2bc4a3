package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNewNormalizes(t *testing.T) {
	got := New(2024, time.February, 30)
	want := New(2024, time.March, 1)
	if got != want {
		t.Errorf("New(2024, 2, 30) = %v, want %v", got, want)
	}
}

func TestCompare(t *testing.T) {
	testCases := []struct {
		a, b Date
		want int
	}{
		{New(2023, 1, 1), New(2023, 1, 2), -1},
		{New(2023, 2, 1), New(2023, 1, 31), 1},
		{New(2022, 12, 31), New(2023, 1, 1), -1},
		{New(2023, 5, 5), New(2023, 5, 5), 0},
	}
	for _, tc := range testCases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2025-07-01", New(2025, 7, 1), false},
		{"2025-7-1", New(2025, 7, 1), false},
		{"07/01/2025", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestDaysSince(t *testing.T) {
	if got := New(2024, 3, 1).DaysSince(New(2024, 2, 28)); got != 2 {
		t.Errorf("DaysSince() = %d, want 2", got)
	}
}

func TestMinMaxIgnoreZero(t *testing.T) {
	a := New(2023, 1, 1)
	if got := Min(Date{}, a); got != a {
		t.Errorf("Min(zero, %v) = %v", a, got)
	}
	if got := Max(a, Date{}); got != a {
		t.Errorf("Max(%v, zero) = %v", a, got)
	}
	b := New(2024, 1, 1)
	if got := Max(a, b); got != b {
		t.Errorf("Max(%v, %v) = %v", a, b, got)
	}
}

func TestJSON(t *testing.T) {
	d := New(2023, 4, 5)
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2023-04-05"` {
		t.Errorf("MarshalJSON() = %s", b)
	}
	var got Date
	if err := got.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("UnmarshalJSON(%s) = %v, want %v", b, got, d)
	}
	if err := got.UnmarshalJSON([]byte("null")); err != nil || !got.IsZero() {
		t.Errorf("UnmarshalJSON(null) = %v, %v want zero date", got, err)
	}
}
