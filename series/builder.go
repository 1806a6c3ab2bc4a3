package series

import (
	"fmt"
	"strings"
	"sync"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
)

// CurrencySource provides the session default currency.
type CurrencySource interface {
	Currency() string
}

// View describes what a chart shows: the transactions kept by the ledger search and
// whether a search is active at all.
type View struct {
	// Filtered are the transactions kept by the active search.
	Filtered []fundterm.Transaction
	// FilterActive is false when the chart covers the whole ledger.
	FilterActive bool
	// Currency overrides the session default currency when set.
	Currency string
}

// Builder builds the series of the store for a view.
//
// Series of the whole ledger are built once per store version and currency, and
// cached already normalized. Series of a filtered view are computed raw and
// normalized exactly once.
type Builder struct {
	store    *fundterm.Store
	defaults CurrencySource
	// Today returns the current day, defaults to date.Today.
	Today func() date.Date

	mu      sync.Mutex
	version uint64
	cache   map[string]Series
}

// NewBuilder returns a Builder reading store. defaults may be nil.
func NewBuilder(store *fundterm.Store, defaults CurrencySource) *Builder {
	return &Builder{store: store, defaults: defaults, Today: date.Today, cache: map[string]Series{}}
}

func (b *Builder) today() date.Date {
	if b.Today == nil {
		return date.Today()
	}
	return b.Today()
}

// Currency resolves the currency of a request: explicit option, then session
// default, then base currency.
func (b *Builder) Currency(explicit string) string {
	if explicit != "" {
		return strings.ToUpper(explicit)
	}
	if b.defaults != nil {
		if c := b.defaults.Currency(); c != "" {
			return strings.ToUpper(c)
		}
	}
	return fundterm.BaseCurrency
}

// Contribution builds the contribution series of txs. The explicit opts.Currency
// takes precedence over the session default.
func (b *Builder) Contribution(txs []fundterm.Transaction, opts ContributionOptions) ([]ContributionPoint, error) {
	opts.Currency = b.Currency(opts.Currency)
	if opts.Today.IsZero() {
		opts.Today = b.today()
	}
	return BuildContribution(txs, b.store.Fx(), opts)
}

// ContributionSeries returns the cumulative contribution of a view.
func (b *Builder) ContributionSeries(v View) ([]ContributionPoint, error) {
	txs := v.Filtered
	if !v.FilterActive {
		txs = b.store.Transactions()
	}
	return b.Contribution(txs, ContributionOptions{Currency: v.Currency})
}

// Balance returns the market value series of a view in the view currency.
func (b *Builder) Balance(v View) (Series, error) {
	currency := b.Currency(v.Currency)
	if !v.FilterActive {
		return b.portfolio(currency)
	}
	raw := NewRaw(BuildFilteredBalance(v.Filtered, b.store.Prices(), b.store.Splits()))
	return Normalize(raw, currency, b.store.Fx())
}

// portfolio returns the cached balance of the whole ledger in currency.
func (b *Builder) portfolio(currency string) (Series, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if v := b.store.Version(); v != b.version || b.cache == nil {
		b.version, b.cache = v, map[string]Series{}
	}
	if s, ok := b.cache[currency]; ok {
		return s, nil
	}
	raw, ok := b.cache[fundterm.BaseCurrency]
	if !ok {
		raw = NewRaw(BuildFilteredBalance(b.store.Transactions(), b.store.Prices(), b.store.Splits()))
		raw, _ = Normalize(raw, fundterm.BaseCurrency, b.store.Fx())
		b.cache[fundterm.BaseCurrency] = raw
	}
	s, err := Normalize(raw, currency, b.store.Fx())
	if err != nil {
		return raw, err
	}
	b.cache[currency] = s
	return s, nil
}

// Drawdown returns the percent (or absolute) drawdown of the view balance.
func (b *Builder) Drawdown(v View, absolute bool) (Series, error) {
	balance, err := b.Balance(v)
	if absolute {
		balance.Points = BuildAbsoluteDrawdown(balance.Points)
		return balance, err
	}
	balance.Points = BuildDrawdown(balance.Points)
	return balance, err
}

// Performance returns the cumulative time-weighted return of the view, in percent.
func (b *Builder) Performance(v View) (Series, error) {
	balance, err := b.Balance(v)
	cps, cerr := b.ContributionSeries(View{Filtered: v.Filtered, FilterActive: v.FilterActive, Currency: balance.Currency})
	if cerr != nil {
		return balance, fmt.Errorf("performance in %s: %w: %w", balance.Currency, ErrCurrencyMismatch, cerr)
	}
	balance.Points = BuildPerformance(balance.Points, Flows(cps))
	return balance, err
}

// Composition returns the breakdown of the view by group.
func (b *Builder) Composition(v View, by fundterm.GroupBy, filter CompositionFilter) Composition {
	txs := v.Filtered
	if !v.FilterActive {
		txs = b.store.Transactions()
	}
	return BuildComposition(txs, b.store.Prices(), b.store.Splits(), b.store.Metadata(), by, filter)
}

// Fx returns the rate history of the view currency.
func (b *Builder) Fx(v View, rng date.Range) []Point {
	return BuildFx(b.store.Fx(), b.Currency(v.Currency), rng, b.today())
}
