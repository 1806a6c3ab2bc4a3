package fundterm

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents an exact monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns a Money value.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: strings.ToUpper(currency)}
}

func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	}
	return decimal.Zero
}

// currency returns the go-money currency, never nil.
func currency(code string) money.Currency {
	if code == "" {
		code = BaseCurrency
	}
	return *money.New(0, code).Currency()
}

// String formats the value with its currency symbol, e.g. "$1,234.50".
func (m Money) String() string {
	cur := currency(m.cur)
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString is like String with an explicit sign. Zero is "-".
func (m Money) SignedString() string {
	switch {
	case m.value.IsZero():
		return "-"
	case m.value.IsPositive():
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string            { return m.cur }
func (m Money) Decimal() decimal.Decimal    { return m.value }
func (m Money) Float() float64              { return m.value.InexactFloat64() }
func (m Money) IsZero() bool                { return m.value.IsZero() }
func (m Money) IsNegative() bool            { return m.value.IsNegative() }
func (m Money) Neg() Money                  { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Add(n Money) Money           { return Money{value: m.value.Add(n.value), cur: pick(m, n)} }
func (m Money) Sub(n Money) Money           { return Money{value: m.value.Sub(n.value), cur: pick(m, n)} }
func (m Money) Equal(n Money) bool          { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) Mul(q decimal.Decimal) Money { return Money{value: m.value.Mul(q), cur: m.cur} }

// pick makes the "" currency weak.
func pick(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	return a.cur
}

// FormatMoney formats a float amount in currency.
func FormatMoney(value float64, currency string) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	return M(value, currency).String()
}

// FormatSignedMoney formats a float amount in currency with an explicit sign.
func FormatSignedMoney(value float64, currency string) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "-"
	}
	return M(value, currency).SignedString()
}
