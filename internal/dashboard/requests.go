package dashboard

import (
	"errors"
	"fmt"

	"github.com/dyike/stocklyzer/internal/api"
	"github.com/dyike/stocklyzer/internal/models"
	"github.com/dyike/stocklyzer/internal/symbol"
)

var (
	ErrInvalidSymbol = errors.New("please enter a valid stock symbol")
	ErrInvalidYears  = errors.New("years must be one of 1, 2, 3 or 5")
	ErrInvalidPeriod = errors.New("period must be one of 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y")
	ErrInvalidDays   = errors.New("days must be one of 7, 14, 30, 60 or 90")
)

// NewCAPMRequest validates a CAPM submission. Errors are *api.Error of
// KindValidation and no request should be sent when one is returned.
func NewCAPMRequest(stocks []string, years models.Years) (models.CAPMRequest, error) {
	syms, err := symbol.CheckBasket(stocks)
	if err != nil {
		return models.CAPMRequest{}, api.ValidationError(err)
	}
	if !years.Valid() {
		return models.CAPMRequest{}, api.ValidationError(ErrInvalidYears)
	}
	return models.CAPMRequest{Stocks: syms, Years: years}, nil
}

func NewAnalysisRequest(sym string, period models.Period) (models.AnalysisRequest, error) {
	if !symbol.Validate(sym) {
		return models.AnalysisRequest{}, api.ValidationError(fmt.Errorf("%w: %q", ErrInvalidSymbol, sym))
	}
	if !period.Valid() {
		return models.AnalysisRequest{}, api.ValidationError(ErrInvalidPeriod)
	}
	return models.AnalysisRequest{Symbol: symbol.Format(sym), Period: period}, nil
}

func NewPredictionRequest(sym string, days models.Days) (models.PredictionRequest, error) {
	if !symbol.Validate(sym) {
		return models.PredictionRequest{}, api.ValidationError(fmt.Errorf("%w: %q", ErrInvalidSymbol, sym))
	}
	if !days.Valid() {
		return models.PredictionRequest{}, api.ValidationError(ErrInvalidDays)
	}
	return models.PredictionRequest{Symbol: symbol.Format(sym), Days: days}, nil
}
