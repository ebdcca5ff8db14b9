package models

// Health is the body of GET /health; the service reports {"status":"healthy"}.
type Health struct {
	Status string `json:"status"`
}
