package book

import "sort"

// priceSide holds one side of the book: a dense sorted price slice plus a
// map from price to its aggregate level. Bids sort descending (best bid
// first), asks ascending (best ask first), per spec §4.3.
//
// Ported from awstasiuk-market-simulator's priceSide (internal/orderbook/book.go):
// same binary-search insert/remove discipline, collapsed to a plain
// aggregate (no per-order FIFO queue) since spec §4.3 explicitly does not
// model time priority within a level.
type priceSide struct {
	prices []float64
	levels map[float64]*PriceLevel
	desc   bool // true = bids (descending), false = asks (ascending)
}

func newPriceSide(desc bool) *priceSide {
	return &priceSide{levels: make(map[float64]*PriceLevel), desc: desc}
}

func (s *priceSide) less(a, b float64) bool {
	if s.desc {
		return a > b
	}
	return a < b
}

func (s *priceSide) search(price float64) int {
	return sort.Search(len(s.prices), func(i int) bool {
		if s.desc {
			return s.prices[i] <= price
		}
		return s.prices[i] >= price
	})
}

// getOrCreate returns the level at price, creating an empty one (inserted
// in sorted position) if absent.
func (s *priceSide) getOrCreate(price float64) *PriceLevel {
	if lvl, ok := s.levels[price]; ok {
		return lvl
	}
	lvl := &PriceLevel{Price: price}
	s.levels[price] = lvl
	i := s.search(price)
	s.prices = append(s.prices, 0)
	copy(s.prices[i+1:], s.prices[i:])
	s.prices[i] = price
	return lvl
}

// remove drops the level at price entirely.
func (s *priceSide) remove(price float64) {
	delete(s.levels, price)
	i := s.search(price)
	if i < len(s.prices) && s.prices[i] == price {
		s.prices = append(s.prices[:i], s.prices[i+1:]...)
	}
}

func (s *priceSide) best() (*PriceLevel, bool) {
	if len(s.prices) == 0 {
		return nil, false
	}
	return s.levels[s.prices[0]], true
}

// depth returns up to n levels in best-first order.
func (s *priceSide) depth(n int) []BookLevel {
	if n > len(s.prices) {
		n = len(s.prices)
	}
	out := make([]BookLevel, n)
	for i := 0; i < n; i++ {
		lvl := s.levels[s.prices[i]]
		out[i] = BookLevel{Price: lvl.Price, Quantity: lvl.Quantity}
	}
	return out
}

func (s *priceSide) clear() {
	s.prices = s.prices[:0]
	s.levels = make(map[float64]*PriceLevel)
}

// totalQuantity sums the aggregate quantity across every level on this
// side, used by the volume-imbalance and conservation computations.
func (s *priceSide) totalQuantity() float64 {
	var total float64
	for _, lvl := range s.levels {
		total += lvl.Quantity
	}
	return total
}
