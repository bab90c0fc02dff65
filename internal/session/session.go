// Package session holds per-user conversational cart state keyed by an
// opaque identifier.
package session

import (
	"time"

	"github.com/lucaferri/pizzaiolo/internal/menu"
)

// Line is one unit in the cart. The cart is a flat ordered multiset, one
// entry per unit, so grouping happens at read time.
type Line struct {
	PizzaID string    `json:"id"`
	Name    string    `json:"name"`
	Price   float64   `json:"price"`
	AddedAt time.Time `json:"addedAt"`
}

// Session is the mutable state for one conversation.
// All cart mutation must happen under Store.Mutate.
type Session struct {
	ID   string `json:"id"`
	Cart []Line `json:"cart"`
}

// CartItem is one grouped row of a cart summary.
type CartItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CartSummary groups cart lines by pizza and carries the running total.
type CartSummary struct {
	Items []CartItem `json:"cart"`
	Total float64    `json:"total"`
}

// AddLines appends n cart lines for the given pizza, stamped now.
func (s *Session) AddLines(item menu.Item, n int) {
	now := time.Now()
	for i := 0; i < n; i++ {
		s.Cart = append(s.Cart, Line{
			PizzaID: item.ID,
			Name:    item.Name,
			Price:   item.Price,
			AddedAt: now,
		})
	}
}

// RemoveLines removes up to n lines of the given pizza, most recently
// added first, and returns the count actually removed.
func (s *Session) RemoveLines(pizzaID string, n int) int {
	removed := 0
	for i := len(s.Cart) - 1; i >= 0 && removed < n; i-- {
		if s.Cart[i].PizzaID == pizzaID {
			s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
			removed++
		}
	}
	return removed
}

// SetQuantity replaces all lines of the given pizza with exactly n fresh
// lines. Negative n is clamped to zero, i.e. full removal.
func (s *Session) SetQuantity(item menu.Item, n int) int {
	if n < 0 {
		n = 0
	}
	kept := s.Cart[:0]
	for _, l := range s.Cart {
		if l.PizzaID != item.ID {
			kept = append(kept, l)
		}
	}
	s.Cart = kept
	s.AddLines(item, n)
	return n
}

// Clear empties the cart and returns the pre-clear line count.
func (s *Session) Clear() int {
	n := len(s.Cart)
	s.Cart = nil
	return n
}

// Summary groups the cart by pizza in first-added order and sums unit
// prices into the total.
func (s *Session) Summary() CartSummary {
	var sum CartSummary
	index := make(map[string]int)
	for _, l := range s.Cart {
		if i, ok := index[l.PizzaID]; ok {
			sum.Items[i].Quantity++
		} else {
			index[l.PizzaID] = len(sum.Items)
			sum.Items = append(sum.Items, CartItem{Name: l.Name, Price: l.Price, Quantity: 1})
		}
		sum.Total += l.Price
	}
	return sum
}
