package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneIsDeep(t *testing.T) {
	s := New("eur")
	s.ChartVisibility["buy"] = false
	s.CompositionFilterTickers = []string{"AAPL"}
	s.PushHistory("plot balance")

	c := s.Clone()
	c.ChartVisibility["buy"] = true
	c.CompositionFilterTickers[0] = "MSFT"
	c.PushHistory("label")

	assert.False(t, s.Visible("buy"))
	assert.Equal(t, []string{"AAPL"}, s.CompositionFilterTickers)
	assert.Equal(t, []string{"plot balance"}, s.CommandHistory)
	assert.Equal(t, "EUR", s.Currency())
}

func TestHistoryNavigation(t *testing.T) {
	s := New("")
	assert.Equal(t, "", s.HistoryUp())
	for _, line := range []string{"plot balance", "2023", "label"} {
		s.PushHistory(line)
	}

	assert.Equal(t, "label", s.HistoryUp())
	assert.Equal(t, "2023", s.HistoryUp())
	assert.Equal(t, "plot balance", s.HistoryUp())
	assert.Equal(t, "plot balance", s.HistoryUp(), "stays on the oldest line")
	assert.Equal(t, "2023", s.HistoryDown())
	assert.Equal(t, "label", s.HistoryDown())
	assert.Equal(t, "", s.HistoryDown())
	assert.Equal(t, -1, s.HistoryIndex)

	s.HistoryUp()
	s.PushHistory("stats holdings")
	assert.Equal(t, -1, s.HistoryIndex, "a submission stops navigation")
}

func TestFilterActive(t *testing.T) {
	s := New("USD")
	assert.False(t, s.FilterActive())
	s.Filters = append(s.Filters, "aapl")
	assert.True(t, s.FilterActive())
	assert.Equal(t, []string{"AAPL"}, s.Query().Tickers())
}

func TestChartKeyVariants(t *testing.T) {
	tests := []struct {
		key      ChartKey
		absolute bool
		want     ChartKey
	}{
		{Composition, true, CompositionAbs},
		{CompositionAbs, false, Composition},
		{Drawdown, true, DrawdownAbs},
		{MarketCapAbs, true, MarketCapAbs},
		{Performance, true, Performance},
	}
	for _, tt := range tests {
		if got := tt.key.WithAbsolute(tt.absolute); got != tt.want {
			t.Errorf("%v.WithAbsolute(%v) = %v, want %v", tt.key, tt.absolute, got, tt.want)
		}
	}
	assert.True(t, SectorsAbs.Absolute())
	assert.False(t, Sectors.Absolute())
	assert.False(t, Fx.Absolute())
	by, ok := Geography.Grouping()
	assert.True(t, ok)
	assert.Equal(t, "geography", by.String())
	assert.False(t, ChartKey("pie").Valid())
}
