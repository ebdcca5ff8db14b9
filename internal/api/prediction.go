package api

import (
	"context"
	"net/http"

	"github.com/dyike/stocklyzer/internal/models"
)

const predictionFallback = "Failed to predict stock prices"

func (c *Client) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResponse, error) {
	var out models.PredictionResponse
	if err := c.do(ctx, http.MethodPost, "/prediction/predict", nil, req, &out, predictionFallback); err != nil {
		return nil, err
	}
	return &out, nil
}
