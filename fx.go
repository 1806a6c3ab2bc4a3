package fundterm

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/etnz/fundterm/date"
)

// BaseCurrency is the currency every raw amount of the ledger is expressed in.
const BaseCurrency = "USD"

// ErrUnknownCurrency is returned when no rate is known for a currency.
var ErrUnknownCurrency = errors.New("unknown currency")

// FxRates holds the rates of currencies relative to the base currency, expressed as
// units of currency for one unit of base.
//
// Rates is the latest snapshot. History, when present for a currency, is used for
// dated conversions and the snapshot is the fallback.
type FxRates struct {
	Base    string                            `json:"base"`
	Rates   map[string]float64                `json:"rates"`
	History map[string]*date.History[float64] `json:"-"`
}

// NewFxRates returns rates with the given base and snapshot.
func NewFxRates(base string, rates map[string]float64) FxRates {
	if base == "" {
		base = BaseCurrency
	}
	return FxRates{Base: strings.ToUpper(base), Rates: rates, History: map[string]*date.History[float64]{}}
}

func (f FxRates) base() string {
	if f.Base == "" {
		return BaseCurrency
	}
	return f.Base
}

// Rate returns the rate of currency as of a day. The base currency rate is 1.
func (f FxRates) Rate(currency string, on date.Date) (float64, bool) {
	currency = strings.ToUpper(currency)
	if currency == "" || currency == f.base() {
		return 1, true
	}
	if !on.IsZero() {
		if r, ok := f.History[currency].ValueAsOf(on); ok && r > 0 {
			return r, true
		}
	}
	if r, ok := f.Rates[currency]; ok && r > 0 {
		return r, true
	}
	return 1, false
}

// Convert converts a base currency value into currency using the rate as of on.
// Converting into the base currency is the identity. When the rate is unknown the
// value is returned unchanged and ok is false.
func (f FxRates) Convert(value float64, on date.Date, currency string) (float64, bool) {
	r, ok := f.Rate(currency, on)
	return value * r, ok
}

// ConvertBetween converts value from one currency to another through the base.
func (f FxRates) ConvertBetween(value float64, from, to string, on date.Date) (float64, error) {
	rf, ok := f.Rate(from, on)
	if !ok {
		return value, fmt.Errorf("convert from %s: %w", from, ErrUnknownCurrency)
	}
	rt, ok := f.Rate(to, on)
	if !ok {
		return value, fmt.Errorf("convert to %s: %w", to, ErrUnknownCurrency)
	}
	return value / rf * rt, nil
}

// Currencies returns the base followed by every known currency, sorted.
func (f FxRates) Currencies() []string {
	set := map[string]bool{}
	for c := range f.Rates {
		set[c] = true
	}
	for c := range f.History {
		set[c] = true
	}
	delete(set, f.base())
	res := slices.Sorted(maps.Keys(set))
	return append([]string{f.base()}, res...)
}

// Clone returns a copy of the rates, histories are shared.
func (f FxRates) Clone() FxRates {
	return FxRates{Base: f.Base, Rates: maps.Clone(f.Rates), History: maps.Clone(f.History)}
}
