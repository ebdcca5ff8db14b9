package symbol

import "slices"

// Basket is the ordered, duplicate-free symbol list edited in the CAPM view.
// It never grows past MaxBasketSize and never shrinks below one entry.
type Basket struct {
	symbols []string
}

// NewBasket returns a basket seeded with initial, which must pass CheckBasket.
func NewBasket(initial ...string) (*Basket, error) {
	if len(initial) == 0 {
		return &Basket{}, nil
	}
	syms, err := CheckBasket(initial)
	if err != nil {
		return nil, err
	}
	return &Basket{symbols: syms}, nil
}

// MustBasket is like NewBasket but panics if initial is not a valid basket.
// It is meant for fixed seeds.
func MustBasket(initial ...string) *Basket {
	b, err := NewBasket(initial...)
	if err != nil {
		panic("symbol: MustBasket: " + err.Error())
	}
	return b
}

// Add formats and appends s.
func (b *Basket) Add(s string) (string, error) {
	sym, err := Parse(s)
	if err != nil {
		return "", err
	}
	if b.Contains(sym) {
		return "", ErrDuplicate
	}
	if len(b.symbols) >= MaxBasketSize {
		return "", ErrFull
	}
	b.symbols = append(b.symbols, sym)
	return sym, nil
}

// Remove drops s unless it is the last remaining symbol. It reports whether
// the basket changed.
func (b *Basket) Remove(s string) bool {
	if len(b.symbols) <= 1 {
		return false
	}
	i := slices.Index(b.symbols, Format(s))
	if i < 0 {
		return false
	}
	b.symbols = slices.Delete(b.symbols, i, i+1)
	return true
}

func (b *Basket) Contains(s string) bool {
	return slices.Contains(b.symbols, Format(s))
}

func (b *Basket) Len() int { return len(b.symbols) }

// Full reports whether another symbol would be rejected for size.
func (b *Basket) Full() bool { return len(b.symbols) >= MaxBasketSize }

// Symbols returns a copy of the current list.
func (b *Basket) Symbols() []string {
	return slices.Clone(b.symbols)
}
