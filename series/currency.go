package series

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/fundterm"
)

// ErrCurrencyMismatch is returned when a series cannot be expressed in the currency
// of the series it is combined with.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Kind tells whether the values of a Series still need a currency conversion.
type Kind int

const (
	// Raw values are in the base currency, freshly computed from transactions.
	Raw Kind = iota
	// Normalized values are already expressed in the Series currency.
	Normalized
)

func (k Kind) String() string {
	if k == Normalized {
		return "normalized"
	}
	return "raw"
}

// Series is a list of points tagged with their currency state.
type Series struct {
	Kind     Kind    `json:"kind"`
	Currency string  `json:"currency"`
	Points   []Point `json:"points"`
}

// NewRaw tags points freshly computed in the base currency.
func NewRaw(points []Point) Series {
	return Series{Kind: Raw, Currency: fundterm.BaseCurrency, Points: points}
}

// Normalize expresses s in the target currency, converting each value at its date.
//
// A Raw series is converted exactly once. A Normalized series in the target
// currency is returned as is; in another currency it is rebased through the base
// currency. Unknown rates return s unchanged with an error wrapping
// fundterm.ErrUnknownCurrency, and also ErrCurrencyMismatch for a Normalized series.
func Normalize(s Series, target string, fx fundterm.FxRates) (Series, error) {
	target = strings.ToUpper(target)
	if target == "" {
		target = fundterm.BaseCurrency
	}
	switch {
	case s.Kind == Normalized && s.Currency == target:
		return s, nil
	case s.Kind == Raw && target == fundterm.BaseCurrency:
		return Series{Kind: Normalized, Currency: target, Points: s.Points}, nil
	}

	from := s.Currency
	if s.Kind == Raw {
		from = fundterm.BaseCurrency
	}
	points := make([]Point, len(s.Points))
	for i, p := range s.Points {
		v, err := fx.ConvertBetween(p.Value, from, target, p.Date)
		if err != nil && s.Kind == Normalized {
			return s, fmt.Errorf("rebase %s series to %s: %w: %w", s.Currency, target, ErrCurrencyMismatch, err)
		}
		if err != nil {
			return s, fmt.Errorf("normalize %s series to %s: %w", s.Kind, target, err)
		}
		points[i] = Point{Date: p.Date, Value: v, Synthetic: p.Synthetic}
	}
	return Series{Kind: Normalized, Currency: target, Points: points}, nil
}
