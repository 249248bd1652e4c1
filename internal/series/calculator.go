package series

import (
	"math"

	"github.com/SaieshPriolkar/coinvision/internal/models"
)

// HistoricalValue computes what amount was worth yearsAgo years back, using
// the observation yearsAgo*12 points from the end of the series.
//
// Precondition: the series is sampled at roughly monthly granularity. A
// daily series produces a much shorter effective lookback; callers feed
// this from FRED monthly series only.
//
// A lookback longer than the series clamps to the oldest point. A forward
// match divides (the rate quotes the base currency's source side), any
// other match multiplies.
func HistoricalValue(obs []models.Observation, amount float64, yearsAgo int, forward bool) (float64, error) {
	monthsBack := yearsAgo * 12
	idx := len(obs) - monthsBack
	if idx < 0 {
		idx = 0
	}
	if len(obs) == 0 || idx >= len(obs) {
		return 0, ErrInsufficientData
	}

	oldRate := obs[idx].Value
	if oldRate == 0 {
		return 0, ErrInsufficientData
	}

	if forward {
		return amount / oldRate, nil
	}
	return amount * oldRate, nil
}

// YearValue is one step of a compounding projection.
type YearValue struct {
	Year    int     `json:"year"`
	Nominal float64 `json:"nominal"`
	Real    float64 `json:"real"`
}

// Projection is the result of RealValue: the final nominal and
// inflation-adjusted amounts plus the full year-by-year trajectory.
type Projection struct {
	NominalFinal float64     `json:"nominalFinal"`
	RealFinal    float64     `json:"realFinal"`
	Trajectory   []YearValue `json:"trajectory"`
}

// RealValue projects initial compounded at nominalRate over years, and
// deflates each year by inflationRate. Rates are decimals (0.05 = 5%).
// Pure arithmetic: pathological inputs (nominalRate = -1, non-finite
// rates) propagate into the result unchanged.
func RealValue(initial, nominalRate float64, years int, inflationRate float64) Projection {
	p := Projection{Trajectory: make([]YearValue, 0, max(years, 0))}

	for year := 1; year <= years; year++ {
		nominal := initial * math.Pow(1+nominalRate, float64(year))
		real := nominal / math.Pow(1+inflationRate, float64(year))
		p.Trajectory = append(p.Trajectory, YearValue{Year: year, Nominal: nominal, Real: real})
	}

	p.NominalFinal = initial * math.Pow(1+nominalRate, float64(years))
	p.RealFinal = p.NominalFinal / math.Pow(1+inflationRate, float64(years))
	return p
}

// LatestInflationRate converts the latest observation of a CPI-like series
// from a percentage to a decimal rate. An empty series means no inflation
// data; it deflates to 0 rather than failing the projection.
func LatestInflationRate(obs []models.Observation) float64 {
	if len(obs) == 0 {
		return 0
	}
	return obs[len(obs)-1].Value / 100
}

// AdjustedSeries rescales a CPI series into the value of amount over time:
// each point becomes amount * cpi / latestCPI. Returns nil when the series
// is empty or the latest CPI is zero.
func AdjustedSeries(amount float64, cpi []models.Observation) []models.Observation {
	if len(cpi) == 0 {
		return nil
	}
	latest := cpi[len(cpi)-1].Value
	if latest == 0 {
		return nil
	}

	out := make([]models.Observation, len(cpi))
	for i, o := range cpi {
		out[i] = models.Observation{Date: o.Date, Value: amount * o.Value / latest}
	}
	return out
}

// ChartWindow returns the trailing years*12 observations (the whole series
// when shorter), for chart rendering.
func ChartWindow(obs []models.Observation, years int) []models.Observation {
	months := years * 12
	if months <= 0 || months >= len(obs) {
		return obs
	}
	return obs[len(obs)-months:]
}
