package models

// Period is the price history window of a technical analysis.
type Period string

const (
	Period1D Period = "1d"
	Period5D Period = "5d"
	Period1M Period = "1mo"
	Period3M Period = "3mo"
	Period6M Period = "6mo"
	Period1Y Period = "1y"
	Period2Y Period = "2y"
	Period5Y Period = "5y"

	DefaultPeriod = Period1Y
)

var PeriodOptions = []Period{Period1D, Period5D, Period1M, Period3M, Period6M, Period1Y, Period2Y, Period5Y}

func (p Period) Valid() bool {
	for _, o := range PeriodOptions {
		if p == o {
			return true
		}
	}
	return false
}

// Label is the human name shown in selectors.
func (p Period) Label() string {
	switch p {
	case Period1D:
		return "1 Day"
	case Period5D:
		return "5 Days"
	case Period1M:
		return "1 Month"
	case Period3M:
		return "3 Months"
	case Period6M:
		return "6 Months"
	case Period1Y:
		return "1 Year"
	case Period2Y:
		return "2 Years"
	case Period5Y:
		return "5 Years"
	default:
		return string(p)
	}
}

type AnalysisRequest struct {
	Symbol string `json:"symbol"`
	Period Period `json:"period"`
}

// Indicator values are nil when the history is too short to compute them.
type MovingAverages struct {
	MA10 *float64 `json:"ma_10"`
	MA20 *float64 `json:"ma_20"`
	MA50 *float64 `json:"ma_50"`
}

type MACD struct {
	MACD      *float64 `json:"macd"`
	Signal    *float64 `json:"signal"`
	Histogram *float64 `json:"histogram"`
}

type BollingerBands struct {
	Upper  *float64 `json:"upper"`
	Middle *float64 `json:"middle"`
	Lower  *float64 `json:"lower"`
}

type Volume struct {
	Current  *float64 `json:"current"`
	Average  *float64 `json:"average"`
	Relative *float64 `json:"relative"`
}

type TechnicalIndicators struct {
	MovingAverages MovingAverages `json:"moving_averages"`
	RSI            *float64       `json:"rsi"`
	MACD           MACD           `json:"macd"`
	BollingerBands BollingerBands `json:"bollinger_bands"`
	Volume         *Volume        `json:"volume,omitempty"`
}

type AnalysisResponse struct {
	Symbol              string              `json:"symbol"`
	CurrentPrice        float64             `json:"current_price"`
	PriceData           []PricePoint        `json:"price_data"`
	TechnicalIndicators TechnicalIndicators `json:"technical_indicators"`
	Summary             Metrics             `json:"summary"`
}

type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Type     string `json:"type"`
}

type SearchResults struct {
	Results []SearchResult `json:"results"`
}

// StockInfo is the company profile block; keys vary by listing.
type StockInfo = Metrics
