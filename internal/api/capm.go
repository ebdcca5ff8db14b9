package api

import (
	"context"
	"net/http"

	"github.com/dyike/stocklyzer/internal/models"
)

const (
	capmFallback            = "Failed to calculate CAPM"
	availableStocksFallback = "Failed to load available stocks"
)

// CalculateCAPM posts req to /capm/calculate. req must already be validated.
func (c *Client) CalculateCAPM(ctx context.Context, req models.CAPMRequest) (*models.CAPMResponse, error) {
	var out models.CAPMResponse
	if err := c.do(ctx, http.MethodPost, "/capm/calculate", nil, req, &out, capmFallback); err != nil {
		return nil, err
	}
	return &out, nil
}

// AvailableStocks lists the symbols the service suggests for CAPM.
func (c *Client) AvailableStocks(ctx context.Context) (*models.AvailableStocks, error) {
	var out models.AvailableStocks
	if err := c.do(ctx, http.MethodGet, "/capm/available-stocks", nil, nil, &out, availableStocksFallback); err != nil {
		return nil, err
	}
	return &out, nil
}
