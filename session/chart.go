package session

import "github.com/etnz/fundterm"

// ChartKey identifies a chart of the dashboard.
type ChartKey string

const (
	NoChart        ChartKey = ""
	Contribution   ChartKey = "contribution"
	Performance    ChartKey = "performance"
	Rolling        ChartKey = "rolling"
	Drawdown       ChartKey = "drawdown"
	DrawdownAbs    ChartKey = "drawdownAbs"
	Composition    ChartKey = "composition"
	CompositionAbs ChartKey = "compositionAbs"
	Sectors        ChartKey = "sectors"
	SectorsAbs     ChartKey = "sectorsAbs"
	Geography      ChartKey = "geography"
	GeographyAbs   ChartKey = "geographyAbs"
	MarketCap      ChartKey = "marketcap"
	MarketCapAbs   ChartKey = "marketcapAbs"
	Concentration  ChartKey = "concentration"
	Fx             ChartKey = "fx"
)

type chartInfo struct {
	name     string
	percent  ChartKey // percent variant
	absolute ChartKey // absolute variant
	grouping fundterm.GroupBy
	grouped  bool
}

var charts = map[ChartKey]chartInfo{
	Contribution:   {name: "contribution"},
	Performance:    {name: "performance"},
	Rolling:        {name: "rolling returns"},
	Drawdown:       {name: "drawdown", percent: Drawdown, absolute: DrawdownAbs},
	DrawdownAbs:    {name: "drawdown (absolute)", percent: Drawdown, absolute: DrawdownAbs},
	Composition:    {name: "composition", percent: Composition, absolute: CompositionAbs, grouping: fundterm.BySecurity, grouped: true},
	CompositionAbs: {name: "composition (absolute)", percent: Composition, absolute: CompositionAbs, grouping: fundterm.BySecurity, grouped: true},
	Sectors:        {name: "sectors", percent: Sectors, absolute: SectorsAbs, grouping: fundterm.BySector, grouped: true},
	SectorsAbs:     {name: "sectors (absolute)", percent: Sectors, absolute: SectorsAbs, grouping: fundterm.BySector, grouped: true},
	Geography:      {name: "geography", percent: Geography, absolute: GeographyAbs, grouping: fundterm.ByGeography, grouped: true},
	GeographyAbs:   {name: "geography (absolute)", percent: Geography, absolute: GeographyAbs, grouping: fundterm.ByGeography, grouped: true},
	MarketCap:      {name: "market cap", percent: MarketCap, absolute: MarketCapAbs, grouping: fundterm.ByMarketCap, grouped: true},
	MarketCapAbs:   {name: "market cap (absolute)", percent: MarketCap, absolute: MarketCapAbs, grouping: fundterm.ByMarketCap, grouped: true},
	Concentration:  {name: "concentration"},
	Fx:             {name: "FX"},
}

// Valid reports whether k is a known chart.
func (k ChartKey) Valid() bool {
	_, ok := charts[k]
	return ok
}

// Name returns the name of the chart used in terminal messages.
func (k ChartKey) Name() string {
	if info, ok := charts[k]; ok {
		return info.name
	}
	return string(k)
}

// Absolute reports whether k is the absolute variant of a chart.
func (k ChartKey) Absolute() bool {
	info := charts[k]
	return info.absolute != NoChart && info.absolute == k
}

// HasVariants reports whether k has a percent and an absolute variant.
func (k ChartKey) HasVariants() bool { return charts[k].absolute != NoChart }

// WithAbsolute returns the absolute (or percent) variant of k, or k itself when it
// has no variants.
func (k ChartKey) WithAbsolute(absolute bool) ChartKey {
	info := charts[k]
	switch {
	case info.absolute == NoChart:
		return k
	case absolute:
		return info.absolute
	default:
		return info.percent
	}
}

// Grouping returns how a composition chart groups securities.
func (k ChartKey) Grouping() (fundterm.GroupBy, bool) {
	info := charts[k]
	return info.grouping, info.grouped
}

// IsComposition reports whether k belongs to the composition family.
func (k ChartKey) IsComposition() bool { return charts[k].grouped }
