// Package chart assembles the lines of the active chart from the session state:
// the data contract handed to a renderer.
package chart

import (
	"fmt"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/series"
)

// Unit tells how the values of a Line are formatted.
type Unit int

const (
	Money Unit = iota
	Percent
	Index // unitless, like an HHI
	Rate  // an exchange rate
)

// Line is one series of a chart.
type Line struct {
	Key      string         `json:"key"`
	Label    string         `json:"label"`
	Color    string         `json:"color"`
	Unit     Unit           `json:"unit"`
	Currency string         `json:"currency,omitempty"`
	Points   []series.Point `json:"points"`
}

// Format formats v in the unit of the line.
func (l Line) Format(v float64) string {
	switch l.Unit {
	case Money:
		return fundterm.FormatMoney(v, l.Currency)
	case Percent:
		return fundterm.Percent(v).String()
	case Rate:
		return fmt.Sprintf("%.4f", v)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// FormatChange formats a difference of two values of the line.
func (l Line) FormatChange(delta float64) string {
	switch l.Unit {
	case Money:
		return fundterm.FormatSignedMoney(delta, l.Currency)
	case Percent:
		return fundterm.Percent(delta).SignedString()
	case Rate:
		return fmt.Sprintf("%+.4f", delta)
	default:
		return fmt.Sprintf("%+.0f", delta)
	}
}

// palette is the color cycle of grouped lines.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// Colors of the fixed lines.
const (
	colorContribution = "#b3b3b3"
	colorBalance      = "#4e79a7"
	colorBuy          = "#59a14f"
	colorSell         = "#e15759"
	colorPerformance  = "#f28e2b"
	colorDrawdown     = "#e15759"
	colorNeutral      = "#76b7b2"
)
