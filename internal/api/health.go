package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/dyike/stocklyzer/internal/models"
)

const healthMessage = "Backend service is not available"

// Health calls GET /health. Every failure collapses to the same message and
// the cause is dropped.
func (c *Client) Health(ctx context.Context) (*models.Health, error) {
	var out models.Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &out, healthMessage); err != nil {
		kind := KindTransport
		var apiErr *Error
		if errors.As(err, &apiErr) {
			kind = apiErr.Kind
		}
		return nil, &Error{Kind: kind, Message: healthMessage}
	}
	return &out, nil
}
