package cart

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"storefront/internal/domain"
)

// Persister durably keeps cart lines between runs. Implementations absorb
// their own failures: the in-memory state stays authoritative.
type Persister interface {
	Load(ctx context.Context) []domain.CartLine
	Save(ctx context.Context, lines []domain.CartLine)
	Clear(ctx context.Context)
}

// Store holds the current cart and serializes transitions. Every transition
// that changes the cart is persisted before it returns.
type Store struct {
	mu        sync.Mutex
	state     State
	reducer   Reducer
	persister Persister
	logger    *zap.Logger
}

// NewStore hydrates a store from persister. maxQuantity <= 0 selects
// domain.DefaultMaxQuantity.
func NewStore(ctx context.Context, persister Persister, maxQuantity int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		state:     EmptyState(),
		reducer:   NewReducer(maxQuantity),
		persister: persister,
		logger:    logger,
	}
	if persister != nil {
		if lines := persister.Load(ctx); len(lines) > 0 {
			s.state = s.reducer.Reduce(s.state, LoadCart{Lines: lines})
			logger.Info("cart hydrated", zap.Int("lines", s.state.Len()))
		}
	}
	return s
}

// MaxQuantity is the per-line quantity cap.
func (s *Store) MaxQuantity() int {
	return s.reducer.MaxQuantity
}

// Add puts one more unit of item in the cart. At the cap the call is absorbed.
func (s *Store) Add(ctx context.Context, item domain.Item) State {
	return s.dispatch(ctx, AddItem{Item: item})
}

// Remove drops the line for url, if any.
func (s *Store) Remove(ctx context.Context, url string) State {
	return s.dispatch(ctx, RemoveItem{URL: url})
}

// SetQuantity sets the quantity for url. Quantities <= 0 remove the line and
// quantities above the cap leave the cart unchanged.
func (s *Store) SetQuantity(ctx context.Context, url string, quantity int) State {
	return s.dispatch(ctx, UpdateQuantity{URL: url, Quantity: quantity})
}

// Clear empties the cart and deletes the persisted snapshot.
func (s *Store) Clear(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = s.reducer.Reduce(s.state, ClearCart{})
	if s.persister != nil {
		s.persister.Clear(ctx)
	}
	return s.state
}

// Drain empties the cart like Clear and returns the state it held, in one
// step.
func (s *Store) Drain(ctx context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	s.state = s.reducer.Reduce(s.state, ClearCart{})
	if s.persister != nil {
		s.persister.Clear(ctx)
	}
	return prev
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) Lines() []domain.CartLine {
	return s.Snapshot().Lines()
}

func (s *Store) TotalItemCount() int {
	return s.Snapshot().TotalItemCount()
}

func (s *Store) TotalPrice() float64 {
	return s.Snapshot().TotalPrice()
}

func (s *Store) dispatch(ctx context.Context, action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.reducer.Reduce(s.state, action)
	if next.Equal(s.state) {
		return s.state
	}
	s.state = next
	if s.persister != nil {
		s.persister.Save(ctx, next.Lines())
	}
	return next
}
