package dashboard

import (
	"context"

	"github.com/dyike/stocklyzer/internal/api"
	"github.com/dyike/stocklyzer/internal/models"
)

// AnalysisView is the technical analysis form.
type AnalysisView struct {
	svc    AnalysisService
	symbol string
	period models.Period
	state  tracker[models.AnalysisResponse]
}

func NewAnalysisView(svc AnalysisService) *AnalysisView {
	return &AnalysisView{svc: svc, symbol: "AAPL", period: models.DefaultPeriod}
}

// SetSymbol stores raw input; it is validated on Submit.
func (v *AnalysisView) SetSymbol(s string) {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	v.symbol = s
}

func (v *AnalysisView) SetPeriod(p models.Period) error {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	if !p.Valid() {
		return v.state.reject(api.ValidationError(ErrInvalidPeriod))
	}
	v.period = p
	return nil
}

func (v *AnalysisView) Symbol() string {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.symbol
}

func (v *AnalysisView) Period() models.Period {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.period
}

func (v *AnalysisView) Snapshot() Snapshot[models.AnalysisResponse] {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.state.snapshot()
}

func (v *AnalysisView) Submit(ctx context.Context) (*models.AnalysisResponse, error) {
	build := func() (models.AnalysisRequest, error) {
		return NewAnalysisRequest(v.symbol, v.period)
	}
	return run(ctx, &v.state, build, v.svc.Analyze)
}
