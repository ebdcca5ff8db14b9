package api

import (
	"context"
	"net/http"

	"github.com/dyike/stocklyzer/internal/models"
)

const (
	analysisFallback = "Failed to analyze stock"
	searchFallback   = "Failed to search stocks"
	infoFallback     = "Failed to get stock info"
)

func (c *Client) Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisResponse, error) {
	var out models.AnalysisResponse
	if err := c.do(ctx, http.MethodPost, "/analysis/analyze", nil, req, &out, analysisFallback); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search looks up listings by company name or symbol.
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResults, error) {
	var out models.SearchResults
	params := map[string]string{"query": query}
	if err := c.do(ctx, http.MethodGet, "/analysis/search/{query}", params, nil, &out, searchFallback); err != nil {
		return nil, err
	}
	return &out, nil
}

// Info fetches the company profile for symbol.
func (c *Client) Info(ctx context.Context, symbol string) (models.StockInfo, error) {
	var out models.StockInfo
	params := map[string]string{"symbol": symbol}
	if err := c.do(ctx, http.MethodGet, "/analysis/info/{symbol}", params, nil, &out, infoFallback); err != nil {
		return nil, err
	}
	return out, nil
}
