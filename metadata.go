package fundterm

import (
	"fmt"
	"strings"
)

// Asset classes used by the ledger search and the composition charts.
const (
	AssetStock = "stock"
	AssetETF   = "etf"
)

// SecurityInfo is descriptive data about a security.
type SecurityInfo struct {
	Name       string `json:"name,omitempty"`
	AssetClass string `json:"assetClass,omitempty"`
	Sector     string `json:"sector,omitempty"`
	Country    string `json:"country,omitempty"`
	MarketCap  string `json:"marketCap,omitempty"`
}

// Metadata maps normalized symbols to their descriptive data.
type Metadata map[string]SecurityInfo

// Info returns the data about security. Missing data yields an empty SecurityInfo.
func (m Metadata) Info(security string) SecurityInfo { return m[NormalizeSymbol(security)] }

// AssetClass returns the asset class of security, stock when unknown.
func (m Metadata) AssetClass(security string) string {
	if c := strings.ToLower(m.Info(security).AssetClass); c != "" {
		return c
	}
	return AssetStock
}

// GroupBy selects how securities are aggregated in composition charts.
type GroupBy int

const (
	BySecurity GroupBy = iota
	BySector
	ByGeography
	ByMarketCap
	ByAssetClass
)

func (g GroupBy) String() string {
	switch g {
	case BySecurity:
		return "security"
	case BySector:
		return "sector"
	case ByGeography:
		return "geography"
	case ByMarketCap:
		return "marketcap"
	case ByAssetClass:
		return "asset class"
	default:
		panic(fmt.Sprintf("unknown grouping %d", int(g)))
	}
}

// Other is the group of securities with no metadata for the grouping.
const Other = "Other"

// Group returns the group label of security.
func (m Metadata) Group(security string, by GroupBy) string {
	info := m.Info(security)
	var label string
	switch by {
	case BySecurity:
		return NormalizeSymbol(security)
	case BySector:
		label = info.Sector
	case ByGeography:
		label = info.Country
	case ByMarketCap:
		label = info.MarketCap
	case ByAssetClass:
		label = m.AssetClass(security)
	}
	if label == "" {
		return Other
	}
	return label
}
