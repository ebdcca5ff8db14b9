// Package models holds the request and response shapes exchanged with the
// analytics service. Field names follow the service's JSON.
package models

import (
	"fmt"
	"strconv"
	"time"
)

// PricePoint is one closing price on an ISO-8601 date.
type PricePoint struct {
	Date  string  `json:"date"`
	Price float64 `json:"price"`
}

// Time parses Date for display. Both plain dates and RFC 3339 timestamps are accepted.
func (p PricePoint) Time() (time.Time, error) {
	return ParseDate(p.Date)
}

// Metrics is a loosely typed summary block: values are float64, string or nil.
type Metrics map[string]any

// Float returns the numeric value under key, if any.
func (m Metrics) Float(key string) (float64, bool) {
	v, ok := m[key].(float64)
	return v, ok
}

// String returns the string value under key, if any.
func (m Metrics) String(key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// Display renders the value under key for a terminal cell.
func (m Metrics) Display(key string) string {
	switch v := m[key].(type) {
	case nil:
		return "N/A"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses the date formats the service emits.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", s)
}
