// Package renderer renders the terminal tables and charts to markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/chart"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/series"
)

//go:embed templates/*.md
var files embed.FS

var templates, _ = fs.Sub(files, "templates")

// TransactionRow is a formatted transaction.
type TransactionRow struct {
	ID       int
	Date     date.Date
	Type     fundterm.OrderType
	Security string
	Quantity float64
	Price    string
	Amount   string
}

// TransactionTable is the transaction table of a session.
type TransactionTable struct {
	Range    date.Range
	Currency string
	Rows     []TransactionRow
	Total    string // net contribution of the rows
}

// NewTransactionTable formats txs in currency. The table falls back to the base
// currency when a rate of currency is missing.
func NewTransactionTable(txs []fundterm.Transaction, rng date.Range, fx fundterm.FxRates, currency string) TransactionTable {
	for _, tx := range txs {
		if _, ok := fx.Rate(currency, tx.TradeDate); !ok {
			currency = ""
			break
		}
	}
	if currency == "" {
		currency = fx.Base
	}
	if currency == "" {
		currency = fundterm.BaseCurrency
	}
	t := TransactionTable{Range: rng, Currency: currency}
	var total float64
	for _, tx := range txs {
		price, _ := fx.Convert(tx.Price, tx.TradeDate, currency)
		amount, _ := fx.Convert(tx.NetAmount(), tx.TradeDate, currency)
		total += amount
		t.Rows = append(t.Rows, TransactionRow{
			ID:       tx.ID,
			Date:     tx.TradeDate,
			Type:     tx.OrderType,
			Security: tx.Security,
			Quantity: tx.Shares(),
			Price:    fundterm.FormatMoney(price, currency),
			Amount:   fundterm.FormatSignedMoney(amount, currency),
		})
	}
	t.Total = fundterm.FormatSignedMoney(total, currency)
	return t
}

// Transactions renders the transaction table.
func Transactions(t TransactionTable) string {
	return renderTemplate("transactions", "transactions.md", nil, t)
}

// ChartLine is the first and last real points of a chart line.
type ChartLine struct {
	Label  string
	First  series.Point
	Last   series.Point
	Start  string
	End    string
	Change string
}

// ChartView is a chart reduced to what a text terminal shows.
type ChartView struct {
	Title    string
	Range    date.Range
	Currency string
	Domain   series.Domain
	Lines    []ChartLine
}

// NewChartView summarizes the visible lines of c.
func NewChartView(c *chart.Chart) ChartView {
	v := ChartView{Title: c.Title, Range: c.Range, Currency: c.Currency, Domain: c.Domain}
	for _, l := range c.Lines {
		var first series.Point
		found := false
		for _, p := range l.Points {
			if !p.Synthetic {
				first, found = p, true
				break
			}
		}
		if !found {
			continue
		}
		last, _ := series.Last(l.Points)
		v.Lines = append(v.Lines, ChartLine{
			Label:  l.Label,
			First:  first,
			Last:   last,
			Start:  l.Format(first.Value),
			End:    l.Format(last.Value),
			Change: l.FormatChange(last.Value - first.Value),
		})
	}
	return v
}

// Chart renders the chart summary as a table.
func Chart(c *chart.Chart) string {
	partials := map[string]string{
		"chart_lines": "chart_lines.md",
	}
	return renderTemplate("chart", "chart.md", partials, NewChartView(c))
}

// Points renders the points of every line of c as tab separated values: one row
// per date, one column per line. Missing values are empty.
func Points(c *chart.Chart) string {
	var days []date.Date
	values := make([]map[date.Date]float64, len(c.Lines))
	seen := map[date.Date]bool{}
	for i, l := range c.Lines {
		values[i] = map[date.Date]float64{}
		for _, p := range l.Points {
			values[i][p.Date] = p.Value
			if !seen[p.Date] {
				seen[p.Date] = true
				days = append(days, p.Date)
			}
		}
	}
	slices.SortFunc(days, date.Date.Compare)

	var b strings.Builder
	b.WriteString("date")
	for _, l := range c.Lines {
		b.WriteString("\t" + l.Key)
	}
	b.WriteByte('\n')
	for _, day := range days {
		b.WriteString(day.String())
		for i := range c.Lines {
			b.WriteByte('\t')
			if v, ok := values[i][day]; ok {
				fmt.Fprintf(&b, "%g", v)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var funcs = template.FuncMap{
	"qty": func(q float64) string { return strconv.FormatFloat(q, 'f', -1, 64) },
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
