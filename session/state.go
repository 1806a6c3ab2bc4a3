// Package session holds the state of one dashboard session: what chart is shown,
// over which dates, in which currency and for which part of the ledger.
package session

import (
	"maps"
	"slices"
	"strings"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
)

// State is the session state mutated by the terminal.
//
// A State is not safe for concurrent use. The terminal owns it and hands clones to
// the readers.
type State struct {
	// ActiveChart is the key of the chart shown, empty when no chart is shown.
	ActiveChart ChartKey `json:"activeChart"`
	// ChartVisibility hides individual lines of a chart. Missing keys are visible.
	ChartVisibility map[string]bool `json:"chartVisibility"`
	// SelectedCurrency is the currency of every amount. Empty means the base currency.
	SelectedCurrency string `json:"selectedCurrency"`
	ShowChartLabels  bool   `json:"showChartLabels"`
	// CompositionFilterTickers narrows composition charts to these normalized tickers.
	CompositionFilterTickers []string `json:"compositionFilterTickers"`
	// CompositionAssetClassFilter narrows composition charts to an asset class.
	CompositionAssetClassFilter string `json:"compositionAssetClassFilter,omitempty"`
	// CommandHistory holds submitted lines, newest first.
	CommandHistory []string `json:"commandHistory"`
	// HistoryIndex is the position in CommandHistory, -1 when not navigating.
	HistoryIndex int `json:"historyIndex"`

	ChartDateRange date.Range `json:"chartDateRange"`
	TableVisible   bool       `json:"tableVisible"`
	TableDateRange date.Range `json:"tableDateRange"`
	// Filters are the ledger searches applied to the transaction table, in order.
	Filters []string `json:"filters"`
	Zoomed  bool     `json:"zoomed"`
}

// New returns the state of a new session in currency.
func New(currency string) *State {
	return &State{
		ChartVisibility:  map[string]bool{},
		SelectedCurrency: strings.ToUpper(currency),
		HistoryIndex:     -1,
		TableVisible:     true,
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	c.ChartVisibility = maps.Clone(s.ChartVisibility)
	if c.ChartVisibility == nil {
		c.ChartVisibility = map[string]bool{}
	}
	c.CompositionFilterTickers = slices.Clone(s.CompositionFilterTickers)
	c.CommandHistory = slices.Clone(s.CommandHistory)
	c.Filters = slices.Clone(s.Filters)
	return &c
}

// Currency returns the selected currency, or the base currency.
func (s *State) Currency() string {
	if s == nil || s.SelectedCurrency == "" {
		return fundterm.BaseCurrency
	}
	return s.SelectedCurrency
}

// Visible reports whether the line key is visible.
func (s *State) Visible(key string) bool {
	v, ok := s.ChartVisibility[key]
	return !ok || v
}

// Query returns the ledger search made of every active filter.
func (s *State) Query() fundterm.Query {
	return fundterm.ParseQuery(strings.Join(s.Filters, " "))
}

// FilterActive reports whether the ledger search narrows the transactions.
func (s *State) FilterActive() bool { return !s.Query().IsZero() }

// PushHistory records a submitted line and stops history navigation.
func (s *State) PushHistory(line string) {
	s.CommandHistory = slices.Insert(s.CommandHistory, 0, line)
	s.HistoryIndex = -1
}

// HistoryUp moves to the previous line and returns it.
func (s *State) HistoryUp() string {
	if len(s.CommandHistory) == 0 {
		return ""
	}
	if s.HistoryIndex < len(s.CommandHistory)-1 {
		s.HistoryIndex++
	}
	return s.CommandHistory[s.HistoryIndex]
}

// HistoryDown moves to the next line and returns it, or the empty line past the
// newest one.
func (s *State) HistoryDown() string {
	if s.HistoryIndex <= 0 {
		s.HistoryIndex = -1
		return ""
	}
	s.HistoryIndex--
	return s.CommandHistory[s.HistoryIndex]
}
