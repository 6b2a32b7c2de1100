package order

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Stats summarizes the order list for the admin view.
type Stats struct {
	Total     int             `json:"total"`
	Completed int             `json:"completed"`
	Pending   int             `json:"pending"`
	Cancelled int             `json:"cancelled"`
	Revenue   decimal.Decimal `json:"revenue"` // completed orders only
}

// Store holds placed orders for the lifetime of the session. Newest first;
// no deletion, no pagination, linear scan everywhere.
type Store struct {
	mu     sync.RWMutex
	orders []Order
}

func NewStore() *Store {
	return &Store{}
}

// Append inserts at the front so callers see newest orders first.
func (s *Store) Append(o Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append([]Order{o}, s.orders...)
}

// SetStatus overwrites the status of the matching order. Returns false when
// no order matches; that is a no-op, not an error.
func (s *Store) SetStatus(orderID string, status Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			return true
		}
	}
	return false
}

func (s *Store) List() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Order, len(s.orders))
	copy(result, s.orders)
	return result
}

func (s *Store) ListByUser(userID string) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Order
	for _, o := range s.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result
}

func (s *Store) Get(orderID string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return Order{}, false
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.orders), Revenue: decimal.Zero}
	for _, o := range s.orders {
		switch o.Status {
		case StatusCompleted:
			stats.Completed++
			stats.Revenue = stats.Revenue.Add(o.Total)
		case StatusPending:
			stats.Pending++
		case StatusCancelled:
			stats.Cancelled++
		}
	}
	return stats
}
