package cart

import (
	"context"
	"log/slog"
	"sync"

	"storefront/internal/platform/metrics"
	"storefront/internal/session"
	"storefront/internal/storage"
	derrors "storefront/pkg/domain-errors"
)

// Client-state keys. The guest cart lives under a fixed key; user carts are
// keyed by user ID so they survive logout untouched.
const (
	guestCartKey    = "temp_cart"
	userCartPrefix  = "cart_"
	pendingKey      = "pending_product"
	redirectPathKey = "cart_redirect_path"

	loginPath      = "/login"
	storefrontRoot = "/"
)

// Store owns the one active cart and keeps it consistent with the session
// across the anonymous/authenticated boundary without losing items.
//
// Every operation completes in memory and writes through to storage before the
// next one starts; the mutex is what stands in for the original's
// single-UI-thread ordering. Persistence failures are logged and swallowed:
// the in-memory cart keeps the intended change, the UI is never blocked on a
// failed write.
type Store struct {
	kv      storage.KeyValue
	logger  *slog.Logger
	metrics *metrics.Metrics

	mu           sync.Mutex
	activeUserID string // empty means the guest cart is active
	lines        []Line
}

// NewStore loads the guest cart and returns a store in the anonymous state.
// Wire it to the session holder with Subscribe(store.HandleSessionChange).
func NewStore(ctx context.Context, kv storage.KeyValue, logger *slog.Logger, m *metrics.Metrics) *Store {
	s := &Store{kv: kv, logger: logger, metrics: m}
	s.lines, _ = storage.ReadJSON[[]Line](ctx, kv, guestCartKey, logger)
	return s
}

// AddItem adds quantity of product to the active cart.
//
// Anonymous actors never mutate cart state here: the request is parked as a
// PendingAddition, currentPath is parked as the post-login redirect target,
// and the DeferredLogin outcome tells the caller to hand control to the login
// screen. Callers must treat that outcome as terminal for this interaction.
func (s *Store) AddItem(ctx context.Context, product Product, quantity int, currentPath string) (Outcome, error) {
	if quantity < 1 {
		return Outcome{}, derrors.New(derrors.CodeBadRequest, "quantity must be at least 1")
	}
	if product.ID == "" {
		return Outcome{}, derrors.New(derrors.CodeBadRequest, "product is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeUserID == "" {
		s.persistJSON(ctx, pendingKey, PendingAddition{Product: product, Quantity: quantity})
		if currentPath == "" {
			currentPath = storefrontRoot
		}
		s.persistJSON(ctx, redirectPathKey, currentPath)
		s.metrics.DeferredAdds.Inc()
		return Outcome{Status: StatusDeferredLogin, RedirectTo: loginPath}, nil
	}

	s.upsertLocked(product, quantity)
	s.persistActiveLocked(ctx)
	s.metrics.CartAdds.Inc()
	return Outcome{Status: StatusAdded, Message: "item added to cart"}, nil
}

// UpdateQuantity replaces the line's quantity. Quantities below 1 are rejected
// silently: the store never auto-removes on decrement, callers must use
// RemoveItem for removal.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			s.persistActiveLocked(ctx)
			return
		}
	}
}

// RemoveItem deletes the matching line. Removing an absent product is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persistActiveLocked(ctx)
			return
		}
	}
}

// Clear empties the active cart and deletes its persisted record entirely, so
// a later load sees "no record" rather than a stored empty cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	if err := s.kv.Delete(ctx, s.activeKeyLocked()); err != nil {
		s.logger.WarnContext(ctx, "cart record delete failed", "error", err)
	}
}

// Items returns a copy of the active cart lines in display order.
func (s *Store) Items() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Line(nil), s.lines...)
}

// TotalItemCount is the sum of line quantities, recomputed from state.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity, recomputed from state.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, line := range s.lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// ConsumeRedirect returns the parked post-login redirect path and clears the
// slot, defaulting to the storefront root. Call it once, right after a
// successful login.
func (s *Store) ConsumeRedirect(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	path, ok := storage.ReadJSON[string](ctx, s.kv, redirectPathKey, s.logger)
	if ok {
		if err := s.kv.Delete(ctx, redirectPathKey); err != nil {
			s.logger.WarnContext(ctx, "redirect slot delete failed", "error", err)
		}
	}
	if path == "" {
		return storefrontRoot
	}
	return path
}

// HandleSessionChange reacts to session transitions: login triggers the guest
// merge and pending-addition replay, logout switches back to the guest cart.
// The holder delivers events synchronously, so the whole merge runs to
// completion before any other cart operation can interleave.
func (s *Store) HandleSessionChange(ctx context.Context, evt session.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case evt.Next.Authenticated:
		s.mergeOnLoginLocked(ctx, evt.Next.UserID)
	case evt.Prev.Authenticated:
		// Logout: the user's cart stays in storage for next login; the
		// guest cart is reloaded fresh.
		s.activeUserID = ""
		s.lines, _ = storage.ReadJSON[[]Line](ctx, s.kv, guestCartKey, s.logger)
	}
}

// mergeOnLoginLocked reconciles the guest cart into the user's stored cart.
// Quantities add, never replace; the user cart's line order is preserved and
// guest-only lines append after it. The guest record is deleted afterward so
// it cannot resurface under a different identity later.
func (s *Store) mergeOnLoginLocked(ctx context.Context, userID string) {
	guest, _ := storage.ReadJSON[[]Line](ctx, s.kv, guestCartKey, s.logger)
	merged, _ := storage.ReadJSON[[]Line](ctx, s.kv, userCartPrefix+userID, s.logger)

	for _, g := range guest {
		if i := indexOf(merged, g.ProductID); i >= 0 {
			merged[i].Quantity += g.Quantity
		} else {
			merged = append(merged, g)
		}
	}

	s.activeUserID = userID
	s.lines = merged
	if len(guest) > 0 {
		// Only a real merge changes the user's stored cart.
		s.persistActiveLocked(ctx)
		s.metrics.CartMerges.Inc()
	}
	if err := s.kv.Delete(ctx, guestCartKey); err != nil {
		s.logger.WarnContext(ctx, "guest cart delete failed", "error", err)
	}

	if pending, ok := storage.ReadJSON[PendingAddition](ctx, s.kv, pendingKey, s.logger); ok {
		if pending.Product.ID != "" && pending.Quantity >= 1 {
			s.upsertLocked(pending.Product, pending.Quantity)
			s.persistActiveLocked(ctx)
			s.metrics.CartAdds.Inc()
		}
		if err := s.kv.Delete(ctx, pendingKey); err != nil {
			s.logger.WarnContext(ctx, "pending addition delete failed", "error", err)
		}
	}
}

// upsertLocked accumulates quantity into an existing line or appends a new one.
func (s *Store) upsertLocked(product Product, quantity int) {
	if i := indexOf(s.lines, product.ID); i >= 0 {
		s.lines[i].Quantity += quantity
		return
	}
	s.lines = append(s.lines, Line{
		ProductID:    product.ID,
		Name:         product.Name,
		UnitPrice:    product.UnitPrice,
		ThumbnailURL: product.ThumbnailURL,
		Quantity:     quantity,
	})
}

func (s *Store) activeKeyLocked() string {
	if s.activeUserID == "" {
		return guestCartKey
	}
	return userCartPrefix + s.activeUserID
}

// persistActiveLocked writes the active cart through to storage. Failures are
// logged and swallowed: in-memory state keeps the intended change.
func (s *Store) persistActiveLocked(ctx context.Context) {
	s.persistJSON(ctx, s.activeKeyLocked(), s.lines)
}

func (s *Store) persistJSON(ctx context.Context, key string, value any) {
	if err := storage.WriteJSON(ctx, s.kv, key, value); err != nil {
		s.logger.WarnContext(ctx, "state write failed, keeping in-memory change", "key", key, "error", err)
	}
}

func indexOf(lines []Line, productID string) int {
	for i := range lines {
		if lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}
