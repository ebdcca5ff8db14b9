package dashboard

import (
	"context"
	"errors"

	"github.com/dyike/stocklyzer/internal/api"
	"github.com/dyike/stocklyzer/internal/models"
	"github.com/dyike/stocklyzer/internal/symbol"
)

// CAPMView is the CAPM calculator form.
type CAPMView struct {
	svc    CAPMService
	basket *symbol.Basket
	years  models.Years
	state  tracker[models.CAPMResponse]
}

func NewCAPMView(svc CAPMService) *CAPMView {
	basket := symbol.MustBasket("AAPL")
	return &CAPMView{svc: svc, basket: basket, years: models.DefaultYears}
}

// AddStock appends s to the basket, recording a validation message on failure.
func (v *CAPMView) AddStock(s string) error {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()

	if _, err := v.basket.Add(s); err != nil {
		msg := err
		if errors.Is(err, symbol.ErrInvalid) {
			msg = symbol.ErrInvalid
		}
		return v.state.reject(api.ValidationError(msg))
	}
	v.state.errMsg = ""
	return nil
}

func (v *CAPMView) RemoveStock(s string) bool {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.basket.Remove(s)
}

func (v *CAPMView) SetYears(y models.Years) error {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	if !y.Valid() {
		return v.state.reject(api.ValidationError(ErrInvalidYears))
	}
	v.years = y
	return nil
}

func (v *CAPMView) Stocks() []string {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.basket.Symbols()
}

func (v *CAPMView) Years() models.Years {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.years
}

func (v *CAPMView) Snapshot() Snapshot[models.CAPMResponse] {
	v.state.mu.Lock()
	defer v.state.mu.Unlock()
	return v.state.snapshot()
}

// Submit calculates CAPM for the current basket.
func (v *CAPMView) Submit(ctx context.Context) (*models.CAPMResponse, error) {
	build := func() (models.CAPMRequest, error) {
		return NewCAPMRequest(v.basket.Symbols(), v.years)
	}
	return run(ctx, &v.state, build, v.svc.CalculateCAPM)
}
