package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"storefront/internal/platform/metrics"
	"storefront/internal/session"
	"storefront/internal/storage"
	derrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/sentinel"
)

type CartStoreSuite struct {
	suite.Suite
	kv    *storage.Memory
	store *Store
}

func (s *CartStoreSuite) SetupTest() {
	s.kv = storage.NewMemory()
	s.store = s.newStore()
}

func (s *CartStoreSuite) newStore() *Store {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewStore(context.Background(), s.kv, logger, metrics.New(prometheus.NewRegistry()))
}

func TestCartStoreSuite(t *testing.T) {
	suite.Run(t, new(CartStoreSuite))
}

func (s *CartStoreSuite) login(userID string) {
	s.store.HandleSessionChange(context.Background(), session.Event{
		Next: session.Session{Authenticated: true, UserID: userID, Role: session.RoleUser},
	})
}

func (s *CartStoreSuite) logout(userID string) {
	s.store.HandleSessionChange(context.Background(), session.Event{
		Prev: session.Session{Authenticated: true, UserID: userID, Role: session.RoleUser},
	})
}

func (s *CartStoreSuite) TestAddItem() {
	ctx := context.Background()
	s.login("7")

	s.Run("accumulates quantity for a repeated product", func() {
		apple := Product{ID: "a", Name: "apple", UnitPrice: 10}
		for _, qty := range []int{1, 2, 4} {
			outcome, err := s.store.AddItem(ctx, apple, qty, "/product/a")
			s.Require().NoError(err)
			s.Equal(StatusAdded, outcome.Status)
		}

		items := s.store.Items()
		s.Require().Len(items, 1)
		s.Equal(7, items[0].Quantity)
	})

	s.Run("appends distinct products in insertion order", func() {
		_, err := s.store.AddItem(ctx, Product{ID: "b", Name: "banana", UnitPrice: 5}, 1, "")
		s.Require().NoError(err)
		_, err = s.store.AddItem(ctx, Product{ID: "c", Name: "cherry", UnitPrice: 3}, 1, "")
		s.Require().NoError(err)

		items := s.store.Items()
		s.Require().Len(items, 3)
		s.Equal("a", items[0].ProductID)
		s.Equal("b", items[1].ProductID)
		s.Equal("c", items[2].ProductID)
	})

	s.Run("rejects quantity below one", func() {
		before := s.store.Items()
		_, err := s.store.AddItem(ctx, Product{ID: "a"}, 0, "")
		s.Require().Error(err)
		s.True(derrors.Is(err, derrors.CodeBadRequest))
		s.Equal(before, s.store.Items())
	})

	s.Run("writes the cart through to storage", func() {
		_, err := s.kv.Read(ctx, "cart_7")
		s.Require().NoError(err)
	})
}

func (s *CartStoreSuite) TestDeferredAdd() {
	ctx := context.Background()

	s.Run("anonymous add records pending slot and redirect, not cart state", func() {
		outcome, err := s.store.AddItem(ctx, Product{ID: "p", Name: "pear", UnitPrice: 2}, 2, "/product/p")
		s.Require().NoError(err)
		s.Equal(StatusDeferredLogin, outcome.Status)
		s.Equal("/login", outcome.RedirectTo)
		s.Empty(s.store.Items())

		_, err = s.kv.Read(ctx, "pending_product")
		s.Require().NoError(err)
		_, err = s.kv.Read(ctx, "cart_redirect_path")
		s.Require().NoError(err)
	})

	s.Run("pending slot is last write wins", func() {
		_, err := s.store.AddItem(ctx, Product{ID: "q", Name: "quince", UnitPrice: 4}, 3, "/product/q")
		s.Require().NoError(err)

		s.login("9")
		items := s.store.Items()
		s.Require().Len(items, 1)
		s.Equal("q", items[0].ProductID)
		s.Equal(3, items[0].Quantity)
	})
}

func (s *CartStoreSuite) TestUpdateQuantity() {
	ctx := context.Background()
	s.login("7")
	_, err := s.store.AddItem(ctx, Product{ID: "a", Name: "apple", UnitPrice: 10}, 2, "")
	s.Require().NoError(err)

	s.Run("replaces the quantity", func() {
		s.store.UpdateQuantity(ctx, "a", 5)
		s.Equal(5, s.store.Items()[0].Quantity)
	})

	s.Run("quantity below one never mutates the cart", func() {
		before := s.store.Items()
		s.store.UpdateQuantity(ctx, "a", 0)
		s.store.UpdateQuantity(ctx, "a", -1)
		s.Equal(before, s.store.Items())
	})

	s.Run("unknown product is a no-op", func() {
		before := s.store.Items()
		s.store.UpdateQuantity(ctx, "missing", 4)
		s.Equal(before, s.store.Items())
	})
}

func (s *CartStoreSuite) TestRemoveItem() {
	ctx := context.Background()
	s.login("7")
	_, err := s.store.AddItem(ctx, Product{ID: "a", Name: "apple", UnitPrice: 10}, 2, "")
	s.Require().NoError(err)

	s.Run("removes the matching line", func() {
		s.store.RemoveItem(ctx, "a")
		s.Empty(s.store.Items())
	})

	s.Run("removing an absent product is idempotent", func() {
		s.store.RemoveItem(ctx, "a")
		s.Empty(s.store.Items())
	})
}

func (s *CartStoreSuite) TestTotals() {
	ctx := context.Background()
	s.login("7")
	_, err := s.store.AddItem(ctx, Product{ID: "a", Name: "apple", UnitPrice: 100}, 2, "")
	s.Require().NoError(err)
	_, err = s.store.AddItem(ctx, Product{ID: "b", Name: "banana", UnitPrice: 50}, 1, "")
	s.Require().NoError(err)

	s.Equal(3, s.store.TotalItemCount())
	s.InDelta(250.0, s.store.TotalPrice(), 0.0001)
}

func (s *CartStoreSuite) TestClear() {
	ctx := context.Background()
	s.login("7")
	_, err := s.store.AddItem(ctx, Product{ID: "a", Name: "apple", UnitPrice: 10}, 1, "")
	s.Require().NoError(err)

	s.store.Clear(ctx)
	s.Empty(s.store.Items())

	// The record is gone entirely, so a reload starts from absence, not from a
	// stored empty cart.
	_, err = s.kv.Read(ctx, "cart_7")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	reloaded := s.newStore()
	reloaded.HandleSessionChange(context.Background(), session.Event{
		Next: session.Session{Authenticated: true, UserID: "7"},
	})
	s.Empty(reloaded.Items())
}

func (s *CartStoreSuite) TestMergeOnLogin() {
	ctx := context.Background()

	// Guest cart [{A,2}], user's stored cart [{A,1},{B,3}].
	s.Require().NoError(storage.WriteJSON(ctx, s.kv, "temp_cart", []Line{
		{ProductID: "A", Name: "alpha", UnitPrice: 10, Quantity: 2},
	}))
	s.Require().NoError(storage.WriteJSON(ctx, s.kv, "cart_42", []Line{
		{ProductID: "A", Name: "alpha", UnitPrice: 10, Quantity: 1},
		{ProductID: "B", Name: "beta", UnitPrice: 20, Quantity: 3},
	}))

	s.login("42")

	items := s.store.Items()
	s.Require().Len(items, 2)
	s.Equal("A", items[0].ProductID)
	s.Equal(3, items[0].Quantity)
	s.Equal("B", items[1].ProductID)
	s.Equal(3, items[1].Quantity)

	// Guest record is deleted, merged cart persisted under the user key.
	_, err := s.kv.Read(ctx, "temp_cart")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	persisted, ok := storage.ReadJSON[[]Line](ctx, s.kv, "cart_42", slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().True(ok)
	s.Equal(items, persisted)
}

func (s *CartStoreSuite) TestMergeAppendsGuestOnlyLines() {
	ctx := context.Background()

	s.Require().NoError(storage.WriteJSON(ctx, s.kv, "temp_cart", []Line{
		{ProductID: "C", Name: "gamma", UnitPrice: 5, Quantity: 1},
	}))
	s.Require().NoError(storage.WriteJSON(ctx, s.kv, "cart_42", []Line{
		{ProductID: "B", Name: "beta", UnitPrice: 20, Quantity: 3},
	}))

	s.login("42")

	items := s.store.Items()
	s.Require().Len(items, 2)
	s.Equal("B", items[0].ProductID)
	s.Equal("C", items[1].ProductID)
}

func (s *CartStoreSuite) TestPendingAdditionFlow() {
	ctx := context.Background()

	outcome, err := s.store.AddItem(ctx, Product{ID: "P", Name: "pi", UnitPrice: 7}, 2, "/product/P")
	s.Require().NoError(err)
	s.Equal(StatusDeferredLogin, outcome.Status)

	s.login("42")

	items := s.store.Items()
	s.Require().Len(items, 1)
	s.Equal("P", items[0].ProductID)
	s.Equal(2, items[0].Quantity)

	s.Equal("/product/P", s.store.ConsumeRedirect(ctx))

	// Both single-slot records are consumed exactly once.
	_, err = s.kv.Read(ctx, "pending_product")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
	s.Equal("/", s.store.ConsumeRedirect(ctx))
}

func (s *CartStoreSuite) TestPendingAdditionAccumulatesIntoMergedCart() {
	ctx := context.Background()

	s.Require().NoError(storage.WriteJSON(ctx, s.kv, "cart_42", []Line{
		{ProductID: "P", Name: "pi", UnitPrice: 7, Quantity: 1},
	}))

	_, err := s.store.AddItem(ctx, Product{ID: "P", Name: "pi", UnitPrice: 7}, 2, "/product/P")
	s.Require().NoError(err)

	s.login("42")

	items := s.store.Items()
	s.Require().Len(items, 1)
	s.Equal(3, items[0].Quantity)
}

func (s *CartStoreSuite) TestLogoutSwitchesToGuestCart() {
	ctx := context.Background()
	s.login("7")
	_, err := s.store.AddItem(ctx, Product{ID: "a", Name: "apple", UnitPrice: 10}, 2, "")
	s.Require().NoError(err)

	s.logout("7")

	s.Empty(s.store.Items())

	// The user's cart stays in storage for next login.
	_, err = s.kv.Read(ctx, "cart_7")
	s.Require().NoError(err)
}

func (s *CartStoreSuite) TestDifferentUserNeverSeesPriorCarts() {
	ctx := context.Background()

	s.Require().NoError(storage.WriteJSON(ctx, s.kv, "temp_cart", []Line{
		{ProductID: "g", Name: "guest item", UnitPrice: 1, Quantity: 1},
	}))

	s.login("7")
	_, err := s.store.AddItem(ctx, Product{ID: "a", Name: "apple", UnitPrice: 10}, 2, "")
	s.Require().NoError(err)
	s.logout("7")

	// Guest state accumulated under the first session is gone; the second
	// user starts from their own (absent) cart only.
	s.login("8")
	items := s.store.Items()
	for _, line := range items {
		s.NotEqual("a", line.ProductID)
		s.NotEqual("g", line.ProductID)
	}
	s.Empty(items)
}

func (s *CartStoreSuite) TestPersistenceFailureKeepsInMemoryChange() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := NewStore(ctx, failingKV{}, logger, metrics.New(prometheus.NewRegistry()))
	store.HandleSessionChange(ctx, session.Event{
		Next: session.Session{Authenticated: true, UserID: "7"},
	})

	outcome, err := store.AddItem(ctx, Product{ID: "a", Name: "apple", UnitPrice: 10}, 1, "")
	s.Require().NoError(err)
	s.Equal(StatusAdded, outcome.Status)
	s.Len(store.Items(), 1)
}

// failingKV simulates a broken storage backend: reads see nothing, writes and
// deletes fail.
type failingKV struct{}

func (failingKV) Read(context.Context, string) ([]byte, error) {
	return nil, sentinel.ErrNotFound
}

func (failingKV) Write(context.Context, string, []byte) error {
	return sentinel.ErrUnavailable
}

func (failingKV) Delete(context.Context, string) error {
	return sentinel.ErrUnavailable
}
