package checkout

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"storefront/internal/cart"
	"storefront/internal/platform/metrics"
	"storefront/internal/remote"
	"storefront/internal/session"
	"storefront/internal/storage"
	derrors "storefront/pkg/domain-errors"
)

type fakeOrderCreator struct {
	requests []remote.CreateOrderRequest
	err      error
}

func (f *fakeOrderCreator) Create(_ context.Context, req remote.CreateOrderRequest) (remote.Order, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return remote.Order{}, f.err
	}
	return remote.Order{ID: 101, TotalMoney: req.TotalMoney, Status: "pending"}, nil
}

type fetcherStub struct{ identity session.Identity }

func (f fetcherStub) CurrentUser(context.Context) (session.Identity, error) {
	return f.identity, nil
}

type CheckoutSuite struct {
	suite.Suite
	kv      *storage.Memory
	orders  *fakeOrderCreator
	holder  *session.Holder
	cart    *cart.Store
	service *Service
}

func (s *CheckoutSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())

	s.kv = storage.NewMemory()
	s.orders = &fakeOrderCreator{}
	s.holder = session.NewHolder(s.kv, fetcherStub{identity: session.Identity{ID: "7", DisplayName: "Alice"}}, logger)
	s.cart = cart.NewStore(context.Background(), s.kv, logger, m)
	s.holder.Subscribe(s.cart.HandleSessionChange)
	s.service = NewService(s.orders, s.cart, s.holder, logger, m)
}

func TestCheckoutSuite(t *testing.T) {
	suite.Run(t, new(CheckoutSuite))
}

func (s *CheckoutSuite) validRequest() Request {
	return Request{
		Fullname:       "Alice",
		PhoneNumber:    "0123",
		Address:        "1 Main St",
		ShippingMethod: "express",
		PaymentMethod:  "cod",
	}
}

func (s *CheckoutSuite) TestSubmitRequiresLogin() {
	_, err := s.service.Submit(context.Background(), s.validRequest())
	s.Require().Error(err)
	s.True(derrors.Is(err, derrors.CodeUnauthorized))
	s.Empty(s.orders.requests)
}

func (s *CheckoutSuite) TestSubmitRejectsEmptyCart() {
	_, err := s.holder.Login(context.Background(), "tok")
	s.Require().NoError(err)

	_, err = s.service.Submit(context.Background(), s.validRequest())
	s.Require().Error(err)
	s.True(derrors.Is(err, derrors.CodeBadRequest))
	s.Empty(s.orders.requests)
}

func (s *CheckoutSuite) TestSubmitRejectsMissingShippingDetails() {
	_, err := s.holder.Login(context.Background(), "tok")
	s.Require().NoError(err)

	_, err = s.service.Submit(context.Background(), Request{Fullname: "Alice"})
	s.Require().Error(err)
	s.True(derrors.Is(err, derrors.CodeBadRequest))
}

func (s *CheckoutSuite) TestSubmitSendsOneOrderWithEmbeddedItems() {
	ctx := context.Background()
	_, err := s.holder.Login(ctx, "tok")
	s.Require().NoError(err)

	_, err = s.cart.AddItem(ctx, cart.Product{ID: "11", Name: "phone", UnitPrice: 100}, 2, "")
	s.Require().NoError(err)
	_, err = s.cart.AddItem(ctx, cart.Product{ID: "12", Name: "case", UnitPrice: 50}, 1, "")
	s.Require().NoError(err)

	order, err := s.service.Submit(ctx, s.validRequest())
	s.Require().NoError(err)
	s.Equal(int64(101), order.ID)

	// Exactly one request, all line items embedded. No per-line follow-up.
	s.Require().Len(s.orders.requests, 1)
	req := s.orders.requests[0]
	s.Equal([]remote.OrderItem{
		{ProductID: 11, Quantity: 2},
		{ProductID: 12, Quantity: 1},
	}, req.CartItems)
	s.InDelta(250.0, req.TotalMoney, 0.0001)
	s.Equal("express", req.ShippingMethod)

	// The cart is cleared only after the order is accepted.
	s.Empty(s.cart.Items())
}

func (s *CheckoutSuite) TestSubmitFailureKeepsCart() {
	ctx := context.Background()
	_, err := s.holder.Login(ctx, "tok")
	s.Require().NoError(err)

	_, err = s.cart.AddItem(ctx, cart.Product{ID: "11", Name: "phone", UnitPrice: 100}, 1, "")
	s.Require().NoError(err)

	s.orders.err = derrors.New(derrors.CodeUnavailable, "cannot reach the server")
	_, err = s.service.Submit(ctx, s.validRequest())
	s.Require().Error(err)
	s.Len(s.cart.Items(), 1, "a failed submission must not lose the cart")
}
