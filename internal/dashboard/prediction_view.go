package dashboard

import (
	"context"

	"github.com/dyike/stocklyzer/internal/api"
	"github.com/dyike/stocklyzer/internal/models"
)

// PredictionView is the price forecast form.
type PredictionView struct {
	svc    PredictionService
	symbol string
	days   models.Days
	state  tracker[models.PredictionResponse]
}

func NewPredictionView(svc PredictionService) *PredictionView {
	return &PredictionView{svc: svc, symbol: "AAPL", days: models.DefaultDays}
}

func (v *PredictionView) SetSymbol(s string) {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	v.symbol = s
}

func (v *PredictionView) SetDays(d models.Days) error {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	if !d.Valid() {
		return v.state.reject(api.ValidationError(ErrInvalidDays))
	}
	v.days = d
	return nil
}

func (v *PredictionView) Symbol() string {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.symbol
}

func (v *PredictionView) Days() models.Days {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.days
}

func (v *PredictionView) Snapshot() Snapshot[models.PredictionResponse] {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.state.snapshot()
}

func (v *PredictionView) Submit(ctx context.Context) (*models.PredictionResponse, error) {
	build := func() (models.PredictionRequest, error) {
		return NewPredictionRequest(v.symbol, v.days)
	}
	return run(ctx, &v.state, build, v.svc.Predict)
}
