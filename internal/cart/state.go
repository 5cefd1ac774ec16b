package cart

import (
	"storefront/internal/domain"
	"storefront/internal/pricing"
)

// State is an immutable snapshot of the cart. Lines are unique by item URL and
// keep insertion order.
type State struct {
	lines []domain.CartLine
}

// EmptyState returns a cart with no lines.
func EmptyState() State {
	return State{}
}

// Lines returns a copy of the cart lines in order.
func (s State) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s State) Len() int {
	return len(s.lines)
}

func (s State) IsEmpty() bool {
	return len(s.lines) == 0
}

// Find returns the line holding the item with url.
func (s State) Find(url string) (domain.CartLine, bool) {
	if i := s.indexOf(url); i >= 0 {
		return s.lines[i], true
	}
	return domain.CartLine{}, false
}

// TotalItemCount is the sum of all line quantities.
func (s State) TotalItemCount() int {
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is the local-currency subtotal. Lines with an invalid cost add nothing.
func (s State) TotalPrice() float64 {
	var total float64
	for _, line := range s.lines {
		total += pricing.LineTotal(line.Item.CostInCredits, line.Quantity)
	}
	return total
}

// Equal reports whether both states hold the same items and quantities in the same order.
func (s State) Equal(other State) bool {
	if len(s.lines) != len(other.lines) {
		return false
	}
	for i := range s.lines {
		if s.lines[i] != other.lines[i] {
			return false
		}
	}
	return true
}

func (s State) indexOf(url string) int {
	for i, line := range s.lines {
		if line.Item.URL == url {
			return i
		}
	}
	return -1
}
