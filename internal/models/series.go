package models

// Observation is a single dated value from an economic or exchange-rate
// series. Observations are ordered ascending by date, as delivered by the
// provider.
type Observation struct {
	Date  string  `json:"date"` // YYYY-MM-DD
	Value float64 `json:"value"`
}

// SeriesDescriptor identifies one series in the static catalog.
// Base and Quote carry the currency pair explicitly for exchange-rate
// series; they are empty for index-style series (CPI, unemployment, ...).
type SeriesDescriptor struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	UnitLabel string `json:"unitLabel"`
	Color     string `json:"color"`
	Base      string `json:"base,omitempty"`
	Quote     string `json:"quote,omitempty"`
}

// MarketGroup is a named, ordered grouping of series descriptors.
// Declaration order is significant: the resolver picks the first match.
type MarketGroup struct {
	Name   string             `json:"name"`
	Series []SeriesDescriptor `json:"series"`
}

// SeriesData maps a series id to its parsed observations. Built once per
// dashboard request by the batch fetch and then only read.
type SeriesData map[string][]Observation
