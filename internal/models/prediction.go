package models

import "fmt"

// Days is the forecast horizon.
type Days int

var DayOptions = []Days{7, 14, 30, 60, 90}

const DefaultDays Days = 30

func (d Days) Valid() bool {
	for _, o := range DayOptions {
		if d == o {
			return true
		}
	}
	return false
}

func (d Days) String() string {
	return fmt.Sprintf("%d Days", int(d))
}

type PredictionRequest struct {
	Symbol string `json:"symbol"`
	Days   Days   `json:"days"`
}

type Prediction struct {
	Date                    string   `json:"date"`
	PredictedPrice          float64  `json:"predicted_price"`
	ConfidenceIntervalUpper *float64 `json:"confidence_interval_upper,omitempty"`
	ConfidenceIntervalLower *float64 `json:"confidence_interval_lower,omitempty"`
}

type PredictionResponse struct {
	Symbol         string       `json:"symbol,omitempty"`
	HistoricalData []PricePoint `json:"historical_data"`
	Predictions    []Prediction `json:"predictions"`
	ModelInfo      Metrics      `json:"model_info"`
}
