// Package persistence stores the cart between runs in a kv.Store.
//
// Failures never reach the cart: corrupt snapshots are deleted on load and
// write errors are logged and dropped, leaving the in-memory cart
// authoritative for the session.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/repository/kv"
)

// DefaultKey is the storage key holding the cart snapshot.
const DefaultKey = "cart_items"

// Adapter persists cart lines as a JSON array under a single key.
type Adapter struct {
	store       kv.Store
	key         string
	maxQuantity int
	timeout     time.Duration
	logger      *zap.Logger
}

type Option func(*Adapter)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(a *Adapter) {
		if key != "" {
			a.key = key
		}
	}
}

// WithMaxQuantity sets the largest quantity accepted on load.
func WithMaxQuantity(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.maxQuantity = n
		}
	}
}

// WithTimeout bounds every store call.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func New(store kv.Store, logger *zap.Logger, opts ...Option) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Adapter{
		store:       store,
		key:         DefaultKey,
		maxQuantity: domain.DefaultMaxQuantity,
		timeout:     2 * time.Second,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// storeContext bounds a store call by the adapter timeout alone. Caller
// cancellation does not reach the store.
func (a *Adapter) storeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
}

// Load returns the persisted lines, or nil when nothing valid is stored. An
// invalid snapshot is deleted.
func (a *Adapter) Load(ctx context.Context) []domain.CartLine {
	ctx, cancel := a.storeContext(ctx)
	defer cancel()

	raw, err := a.store.Get(ctx, a.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	if err != nil {
		a.logger.Warn("read cart snapshot", zap.String("key", a.key), zap.Error(err))
		return nil
	}

	lines, err := Decode([]byte(raw), a.maxQuantity)
	if err != nil {
		a.logger.Warn("discarding corrupt cart snapshot", zap.String("key", a.key), zap.Error(err))
		a.delete(ctx)
		return nil
	}
	return lines
}

// Save writes lines under the adapter key.
func (a *Adapter) Save(ctx context.Context, lines []domain.CartLine) {
	data, err := Encode(lines)
	if err != nil {
		a.logger.Warn("encode cart snapshot", zap.Error(err))
		return
	}

	ctx, cancel := a.storeContext(ctx)
	defer cancel()

	if err := a.store.Set(ctx, a.key, string(data)); err != nil {
		a.logger.Warn("write cart snapshot", zap.String("key", a.key), zap.Error(err))
	}
}

// Clear deletes the persisted snapshot.
func (a *Adapter) Clear(ctx context.Context) {
	ctx, cancel := a.storeContext(ctx)
	defer cancel()
	a.delete(ctx)
}

func (a *Adapter) delete(ctx context.Context) {
	if err := a.store.Delete(ctx, a.key); err != nil {
		a.logger.Warn("delete cart snapshot", zap.String("key", a.key), zap.Error(err))
	}
}

// Encode serializes lines as stored by Save. A nil slice encodes as [].
func Encode(lines []domain.CartLine) ([]byte, error) {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	return json.Marshal(lines)
}

// Decode parses and validates a stored snapshot. The snapshot must be a
// non-empty JSON array of {"starship": {...}, "quantity": n} objects with
// unique item urls and integral quantities in [1, maxQuantity]. Any violation
// rejects the whole snapshot.
func Decode(data []byte, maxQuantity int) ([]domain.CartLine, error) {
	if maxQuantity <= 0 {
		maxQuantity = domain.DefaultMaxQuantity
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("snapshot is not an array: %w", err)
	}
	if len(elems) == 0 {
		return nil, errors.New("snapshot has no lines")
	}

	lines := make([]domain.CartLine, 0, len(elems))
	seen := make(map[string]struct{}, len(elems))
	for i, elem := range elems {
		line, err := decodeLine(elem, maxQuantity)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i, err)
		}
		if _, dup := seen[line.Item.URL]; dup {
			return nil, fmt.Errorf("line %d: duplicate item %q", i, line.Item.URL)
		}
		seen[line.Item.URL] = struct{}{}
		lines = append(lines, line)
	}
	return lines, nil
}

func decodeLine(elem json.RawMessage, maxQuantity int) (domain.CartLine, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		return domain.CartLine{}, errors.New("not an object")
	}

	rawItem, ok := fields["starship"]
	if !ok {
		return domain.CartLine{}, errors.New("missing item")
	}
	var itemFields map[string]json.RawMessage
	if err := json.Unmarshal(rawItem, &itemFields); err != nil || itemFields == nil {
		return domain.CartLine{}, errors.New("item is not an object")
	}
	var item domain.Item
	if err := json.Unmarshal(rawItem, &item); err != nil {
		return domain.CartLine{}, fmt.Errorf("decode item: %w", err)
	}
	if item.URL == "" {
		return domain.CartLine{}, errors.New("item has no url")
	}

	rawQty, ok := fields["quantity"]
	if !ok {
		return domain.CartLine{}, errors.New("missing quantity")
	}
	var qty float64
	if err := json.Unmarshal(rawQty, &qty); err != nil {
		return domain.CartLine{}, errors.New("quantity is not a number")
	}
	if qty <= 0 || qty != math.Trunc(qty) || qty > float64(maxQuantity) {
		return domain.CartLine{}, fmt.Errorf("quantity %v out of range", qty)
	}

	return domain.CartLine{Item: item, Quantity: int(qty)}, nil
}
