package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/pricing"
)

const (
	PaymentCreditCard = "credit_card"
	PaymentCash       = "cash"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("payment method must be credit_card or cash")
)

type cartStore interface {
	Snapshot() cart.State
	Drain(ctx context.Context) cart.State
}

type Service struct {
	store   cartStore
	taxRate float64
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

func New(store cartStore, taxRate float64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		taxRate: taxRate,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

type Summary struct {
	Items     []domain.CartLine `json:"items"`
	ItemCount int               `json:"itemCount"`
	Subtotal  float64           `json:"subtotal"`
	TaxRate   float64           `json:"taxRate"`
	Tax       float64           `json:"tax"`
	Total     float64           `json:"total"`
	Currency  string            `json:"currency"`
}

type Order struct {
	ID            string    `json:"id"`
	PaymentMethod string    `json:"paymentMethod"`
	PlacedAt      time.Time `json:"placedAt"`
	Summary       Summary   `json:"summary"`
}

func (s *Service) Summary() Summary {
	return s.summarize(s.store.Snapshot())
}

// PlaceOrder confirms the current cart and empties it. A blank method means
// credit card.
func (s *Service) PlaceOrder(ctx context.Context, method string) (*Order, error) {
	method = strings.ToLower(strings.TrimSpace(method))
	if method == "" {
		method = PaymentCreditCard
	}
	if method != PaymentCreditCard && method != PaymentCash {
		return nil, ErrInvalidPaymentMethod
	}
	if s.store.Snapshot().IsEmpty() {
		return nil, ErrEmptyCart
	}

	state := s.store.Drain(ctx)
	if state.IsEmpty() {
		return nil, ErrEmptyCart
	}
	order := &Order{
		ID:            s.newID(),
		PaymentMethod: method,
		PlacedAt:      s.now().UTC(),
		Summary:       s.summarize(state),
	}
	s.logger.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("payment_method", method),
		zap.Int("items", order.Summary.ItemCount),
		zap.Float64("total", order.Summary.Total),
	)
	return order, nil
}

func (s *Service) summarize(state cart.State) Summary {
	subtotal := state.TotalPrice()
	return Summary{
		Items:     state.Lines(),
		ItemCount: state.TotalItemCount(),
		Subtotal:  subtotal,
		TaxRate:   s.taxRate,
		Tax:       pricing.Tax(subtotal, s.taxRate),
		Total:     pricing.OrderTotal(subtotal, s.taxRate),
		Currency:  pricing.Currency,
	}
}
