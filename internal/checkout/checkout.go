package checkout

import (
	"context"
	"log/slog"
	"strconv"

	"storefront/internal/cart"
	"storefront/internal/platform/metrics"
	"storefront/internal/remote"
	"storefront/internal/session"
	derrors "storefront/pkg/domain-errors"
)

// OrderCreator is the slice of the order client checkout needs.
type OrderCreator interface {
	Create(ctx context.Context, req remote.CreateOrderRequest) (remote.Order, error)
}

// Request carries the shipping details the buyer fills in. The line items come
// from the cart, never from the caller.
type Request struct {
	Fullname       string `json:"fullname"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Address        string `json:"address"`
	Note           string `json:"note"`
	ShippingMethod string `json:"shipping_method"`
	PaymentMethod  string `json:"payment_method"`
}

// Service submits the active cart as one order with embedded line items and
// clears the cart on success. One request, one order: there is no per-line
// follow-up call to the remote API.
type Service struct {
	orders   OrderCreator
	cart     *cart.Store
	sessions *session.Holder
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewService(orders OrderCreator, cartStore *cart.Store, sessions *session.Holder, logger *slog.Logger, m *metrics.Metrics) *Service {
	return &Service{orders: orders, cart: cartStore, sessions: sessions, logger: logger, metrics: m}
}

// Submit validates, builds the flat order payload from the cart, and sends it.
// Validation failures never reach the network.
func (s *Service) Submit(ctx context.Context, req Request) (remote.Order, error) {
	if !s.sessions.Current().Authenticated {
		return remote.Order{}, derrors.New(derrors.CodeUnauthorized, "please log in to place an order")
	}
	if req.Fullname == "" || req.PhoneNumber == "" || req.Address == "" {
		return remote.Order{}, derrors.New(derrors.CodeBadRequest, "name, phone number and address are required")
	}

	lines := s.cart.Items()
	if len(lines) == 0 {
		return remote.Order{}, derrors.New(derrors.CodeBadRequest, "cart is empty")
	}

	items := make([]remote.OrderItem, 0, len(lines))
	for _, line := range lines {
		productID, err := strconv.ParseInt(line.ProductID, 10, 64)
		if err != nil {
			return remote.Order{}, derrors.Wrap(derrors.CodeInternal, "cart holds an unknown product reference", err)
		}
		items = append(items, remote.OrderItem{ProductID: productID, Quantity: line.Quantity})
	}

	order, err := s.orders.Create(ctx, remote.CreateOrderRequest{
		Fullname:       req.Fullname,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
		Note:           req.Note,
		TotalMoney:     s.cart.TotalPrice(),
		ShippingMethod: req.ShippingMethod,
		PaymentMethod:  req.PaymentMethod,
		CartItems:      items,
	})
	if err != nil {
		return remote.Order{}, err
	}

	s.cart.Clear(ctx)
	s.metrics.Checkouts.Inc()
	s.logger.InfoContext(ctx, "order submitted", "order_id", order.ID, "items", len(items))
	return order, nil
}
