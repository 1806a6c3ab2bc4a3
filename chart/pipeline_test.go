package chart

import (
	"testing"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/series"
	"github.com/etnz/fundterm/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPipeline(t *testing.T) (*Pipeline, *session.State) {
	t.Helper()
	store := fundterm.NewStore()
	require.NoError(t, store.SetTransactions([]fundterm.Transaction{
		{ID: 0, TradeDate: date.New(2023, 1, 3), Security: "AAPL", Quantity: 10, Price: 100, OrderType: fundterm.Buy},
		{ID: 1, TradeDate: date.New(2023, 6, 1), Security: "VOO", Quantity: 1, Price: 400, OrderType: fundterm.Buy},
		{ID: 2, TradeDate: date.New(2024, 2, 1), Security: "AAPL", Quantity: 5, Price: 120, OrderType: fundterm.Sell},
	}))
	store.SetFx(fundterm.NewFxRates("USD", map[string]float64{"EUR": 0.5}))
	store.SetMetadata(fundterm.Metadata{"VOO": {AssetClass: "etf"}})

	s := session.New("USD")
	builder := series.NewBuilder(store, s)
	p := NewPipeline(store, builder)
	today := func() date.Date { return date.New(2024, 6, 1) }
	p.Today, builder.Today = today, today
	return p, s
}

func TestBuildNoChart(t *testing.T) {
	p, s := newPipeline(t)
	c, err := p.Build(s)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestBuildContributionChart(t *testing.T) {
	p, s := newPipeline(t)
	s.ActiveChart = session.Contribution
	s.ChartVisibility["sell"] = false

	c, err := p.Build(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"sell"}, c.Hidden)
	balance, ok := c.Line("balance")
	require.True(t, ok)
	last, _ := series.Last(balance.Points)
	assert.InDelta(t, 5*120+400, last.Value, 1e-9)
	assert.Equal(t, date.New(2024, 6, 1), c.Domain.Max, "contribution is padded to today")

	s.ChartDateRange = date.Range{From: date.New(2023, 1, 1), To: date.New(2023, 12, 31)}
	c, err = p.Build(s)
	require.NoError(t, err)
	assert.Equal(t, date.New(2023, 6, 1), c.Domain.Max, "the axis ends on the last sample in range")
	assert.Equal(t, date.New(2023, 1, 2), c.Domain.Min, "the synthetic zero before the first trade starts the axis")
}

func TestBuildCompositionChartNarrowed(t *testing.T) {
	p, s := newPipeline(t)
	s.ActiveChart = session.CompositionAbs
	s.SelectedCurrency = "EUR"

	c, err := p.Build(s)
	require.NoError(t, err)
	require.Len(t, c.Lines, 2)
	voo, ok := c.Line("VOO")
	require.True(t, ok)
	last, _ := series.Last(voo.Points)
	assert.InDelta(t, 200, last.Value, 1e-9)
	assert.Equal(t, "EUR", voo.Currency)

	s.CompositionAssetClassFilter = "stock"
	c, err = p.Build(s)
	require.NoError(t, err)
	require.Len(t, c.Lines, 1)
	assert.Equal(t, "AAPL", c.Lines[0].Key)
}

func TestBuildUnknownCurrency(t *testing.T) {
	p, s := newPipeline(t)
	s.ActiveChart = session.Drawdown
	s.SelectedCurrency = "JPY"
	_, err := p.Build(s)
	assert.ErrorIs(t, err, fundterm.ErrUnknownCurrency)
}

func TestTableAndSummary(t *testing.T) {
	p, s := newPipeline(t)
	s.Filters = []string{"aapl"}
	s.TableDateRange = date.Range{From: date.New(2024, 1, 1)}
	rows := p.Table(s)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].ID)

	s.ActiveChart = session.Performance
	c, err := p.Build(s)
	require.NoError(t, err)
	assert.Contains(t, Summary(c), "TWRR: ")
	assert.Empty(t, Summary(nil))
}
