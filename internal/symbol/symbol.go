// Package symbol validates and normalizes stock ticker input before it is
// sent to the analytics service.
package symbol

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxBasketSize is the largest number of symbols a CAPM request may carry.
const MaxBasketSize = 10

var symbolPattern = regexp.MustCompile(`^[A-Za-z]{1,5}$`)

var (
	ErrInvalid   = errors.New("please enter a valid stock symbol (1-5 letters)")
	ErrDuplicate = errors.New("stock already added")
	ErrFull      = fmt.Errorf("maximum %d stocks allowed", MaxBasketSize)
	ErrEmpty     = errors.New("please add at least one stock")
)

// Format trims surrounding whitespace and uppercases s.
func Format(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Validate reports whether the trimmed s is 1 to 5 ASCII letters.
// Dotted or hyphenated tickers such as BRK.B are rejected.
func Validate(s string) bool {
	return symbolPattern.MatchString(strings.TrimSpace(s))
}

// Parse formats s and returns ErrInvalid when it does not validate.
func Parse(s string) (string, error) {
	if !Validate(s) {
		return "", fmt.Errorf("%w: %q", ErrInvalid, strings.TrimSpace(s))
	}
	return Format(s), nil
}

// CheckBasket validates a complete CAPM submission: non-empty, at most
// MaxBasketSize entries, every entry valid and no entry repeated after
// formatting. It returns the formatted symbols in input order.
func CheckBasket(symbols []string) ([]string, error) {
	if len(symbols) == 0 {
		return nil, ErrEmpty
	}
	if len(symbols) > MaxBasketSize {
		return nil, ErrFull
	}

	out := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		sym, err := Parse(s)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[sym]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicate, sym)
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out, nil
}
