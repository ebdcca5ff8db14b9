package models

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Years is the CAPM lookback window.
type Years int

var YearOptions = []Years{1, 2, 3, 5}

const DefaultYears Years = 1

func (y Years) Valid() bool {
	for _, o := range YearOptions {
		if y == o {
			return true
		}
	}
	return false
}

func (y Years) String() string {
	if y == 1 {
		return "1 Year"
	}
	return fmt.Sprintf("%d Years", int(y))
}

type CAPMRequest struct {
	Stocks []string `json:"stocks"`
	Years  Years    `json:"years"`
}

type BetaResult struct {
	Stock string  `json:"stock"`
	Beta  float64 `json:"beta"`
	Alpha float64 `json:"alpha"`
}

type CAPMResult struct {
	Stock          string  `json:"stock"`
	Beta           float64 `json:"beta"`
	ExpectedReturn float64 `json:"expected_return"`
}

type CAPMResponse struct {
	MarketReturn   float64      `json:"market_return"`
	RiskFreeRate   float64      `json:"risk_free_rate"`
	BetaResults    []BetaResult `json:"beta_results"`
	CAPMResults    []CAPMResult `json:"capm_results"`
	NormalizedData []SeriesRow  `json:"normalized_data"`
	StocksData     []SeriesRow  `json:"stocks_data,omitempty"`
}

// SeriesRow is one dated row of a wide table: {"Date": ..., "AAPL": 1.02, ...}.
type SeriesRow struct {
	Date   string
	Values map[string]float64
}

func (r SeriesRow) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Values)+1)
	for k, v := range r.Values {
		m[k] = v
	}
	m["Date"] = r.Date
	return json.Marshal(m)
}

// UnmarshalJSON keeps numeric columns and ignores anything else besides Date.
func (r *SeriesRow) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Date = ""
	r.Values = make(map[string]float64, len(raw))
	for k, v := range raw {
		if k == "Date" {
			// epoch or other non-string dates are kept verbatim
			if err := json.Unmarshal(v, &r.Date); err != nil {
				r.Date = string(v)
			}
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			continue
		}
		r.Values[k] = f
	}
	return nil
}

// Columns returns the row's value keys in sorted order.
func (r SeriesRow) Columns() []string {
	cols := make([]string, 0, len(r.Values))
	for k := range r.Values {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

type AvailableStocks struct {
	Stocks      []string `json:"stocks"`
	Description string   `json:"description"`
}
