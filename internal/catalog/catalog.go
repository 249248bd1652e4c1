package catalog

import (
	"github.com/SaieshPriolkar/coinvision/internal/models"
)

// CurrencyGroup is the market group the currency-pair resolver searches.
const CurrencyGroup = "Currency Markets"

// Default returns the static series catalog. The returned slice is freshly
// allocated on every call so callers can hold it as an immutable value;
// declaration order is the resolver's tie-break order.
func Default() []models.MarketGroup {
	return []models.MarketGroup{
		{
			Name: CurrencyGroup,
			Series: []models.SeriesDescriptor{
				{ID: "DTWEXBGS", Label: "US Dollar Index (Broad)", UnitLabel: "Index", Color: "#264653"},
				{ID: "DEXUSEU", Label: "USD/EUR", UnitLabel: "USD per EUR", Color: "#2a9d8f", Base: "USD", Quote: "EUR"},
				{ID: "DEXUSUK", Label: "USD/GBP", UnitLabel: "USD per GBP", Color: "#e76f51", Base: "USD", Quote: "GBP"},
				{ID: "DEXJPUS", Label: "USD/JPY", UnitLabel: "JPY per USD", Color: "#457b9d", Base: "USD", Quote: "JPY"},
				{ID: "DEXCHUS", Label: "USD/CHF", UnitLabel: "CHF per USD", Color: "#8d99ae", Base: "USD", Quote: "CHF"},
				{ID: "DEXINUS", Label: "USD to INR Exchange Rate", UnitLabel: "INR per USD", Color: "#e76f51", Base: "USD", Quote: "INR"},
			},
		},
		{
			Name: "Economic Indicators",
			Series: []models.SeriesDescriptor{
				{ID: "CPIAUCSL", Label: "US Consumer Price Index (CPI)", UnitLabel: "Index", Color: "#457b9d"},
				{ID: "UNRATE", Label: "US Unemployment Rate", UnitLabel: "Percent", Color: "#e9c46a"},
				{ID: "FEDFUNDS", Label: "Federal Funds Rate", UnitLabel: "Percent", Color: "#f4a261"},
			},
		},
	}
}

// InflationSeriesID is the CPI-like series the inflation endpoints read.
const InflationSeriesID = "CPIAUCSL"

// IDs returns every series id in the catalog, in declaration order.
func IDs(groups []models.MarketGroup) []string {
	var ids []string
	for _, g := range groups {
		for _, s := range g.Series {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// Find returns the descriptor for id, or nil if the catalog doesn't list it.
func Find(groups []models.MarketGroup, id string) *models.SeriesDescriptor {
	for _, g := range groups {
		for i := range g.Series {
			if g.Series[i].ID == id {
				return &g.Series[i]
			}
		}
	}
	return nil
}

// Group returns the named market group, or nil.
func Group(groups []models.MarketGroup, name string) *models.MarketGroup {
	for i := range groups {
		if groups[i].Name == name {
			return &groups[i]
		}
	}
	return nil
}
