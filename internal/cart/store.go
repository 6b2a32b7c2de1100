package cart

import (
	"context"
	"sync"
	"time"

	"github.com/kasen/storefront/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const persistTimeout = time.Second

// Store owns the session cart. Every mutation triggers a best-effort write of
// the current line set; persistence failures are logged, never returned.
type Store struct {
	mu          sync.Mutex
	cart        *Cart
	persistence Persistence
	sfg         singleflight.Group // collapses concurrent restores
	log         *logrus.Logger
}

func NewStore(persistence Persistence, log *logrus.Logger) *Store {
	return &Store{
		cart:        New(),
		persistence: persistence,
		log:         log,
	}
}

// Restore replaces the cart with the persisted snapshot, if any. A missing or
// malformed snapshot leaves the cart empty; neither is an error for the
// caller.
func (s *Store) Restore(ctx context.Context) {
	v, err, _ := s.sfg.Do("restore", func() (interface{}, error) {
		return s.persistence.Load(ctx)
	})
	if err != nil {
		if err != ErrNoSnapshot {
			s.log.WithError(err).Warn("discarding persisted cart")
		}
		return
	}

	lines, _ := v.([]Line)
	s.mu.Lock()
	s.cart.Replace(lines)
	s.mu.Unlock()
}

func (s *Store) AddProduct(p catalog.Product) {
	s.mu.Lock()
	s.cart.Add(p)
	lines := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(lines)
}

func (s *Store) RemoveProduct(productID string) {
	s.mu.Lock()
	s.cart.Remove(productID)
	lines := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(lines)
}

func (s *Store) SetQuantity(productID string, quantity int) {
	s.mu.Lock()
	s.cart.SetQuantity(productID, quantity)
	lines := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(lines)
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.cart.Clear()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.persistence.Delete(ctx); err != nil {
		s.log.WithError(err).Warn("cart persistence delete failed")
	}
}

func (s *Store) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Total
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.ItemCount
}

// Snapshot returns the current lines and total as one consistent view, for
// checkout.
func (s *Store) Snapshot() ([]Line, decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(), s.cart.Total
}

func (s *Store) snapshotLocked() []Line {
	lines := make([]Line, len(s.cart.Lines))
	copy(lines, s.cart.Lines)
	return lines
}

func (s *Store) persist(lines []Line) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := s.persistence.Save(ctx, lines); err != nil {
		s.log.WithError(err).Warn("cart persistence write failed")
	}
}
