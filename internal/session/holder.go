package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"storefront/internal/storage"
	"storefront/pkg/platform/sentinel"
)

// tokenKey is where the bearer credential lives in client state.
const tokenKey = "token"

// UserFetcher resolves the stored credential into a user identity. Backed by
// the remote auth client; the credential itself travels via the TokenSource.
type UserFetcher interface {
	CurrentUser(ctx context.Context) (Identity, error)
}

// Subscriber receives session transitions. Delivery is synchronous: a
// transition does not complete until every subscriber has run, which is what
// gives the cart merge its run-to-completion guarantee.
type Subscriber func(ctx context.Context, evt Event)

// Holder owns the session state machine: Anonymous or Authenticated. It is
// constructed once at startup and handed to consumers explicitly; nothing
// resolves it through ambient lookup.
type Holder struct {
	kv     storage.KeyValue
	fetch  UserFetcher
	logger *slog.Logger

	mu        sync.Mutex
	current   Session
	resolving bool
	subs      []Subscriber
}

func NewHolder(kv storage.KeyValue, fetch UserFetcher, logger *slog.Logger) *Holder {
	return &Holder{kv: kv, fetch: fetch, logger: logger}
}

// Subscribe registers a transition subscriber. Call during wiring, before any
// transition can fire; registration is not synchronized against delivery.
func (h *Holder) Subscribe(fn Subscriber) {
	h.subs = append(h.subs, fn)
}

// Current returns the session snapshot.
func (h *Holder) Current() Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Resolving reports whether startup session resolution is still in progress,
// so callers can defer rendering decisions.
func (h *Holder) Resolving() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolving
}

// Resolve determines the initial state from the stored credential. A present,
// locally-unexpired token is resolved against the remote API; any failure
// clears the token and forces Anonymous. An expired token never touches the
// network.
func (h *Holder) Resolve(ctx context.Context) {
	h.mu.Lock()
	h.resolving = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.resolving = false
		h.mu.Unlock()
	}()

	raw, err := h.kv.Read(ctx, tokenKey)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			h.logger.WarnContext(ctx, "token read failed, starting anonymous", "error", err)
		}
		return
	}

	if err := checkLocalExpiry(string(raw)); err != nil {
		h.logger.InfoContext(ctx, "stored token expired, clearing", "error", err)
		h.clearToken(ctx)
		return
	}

	id, err := h.fetch.CurrentUser(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "user details fetch failed, clearing token", "error", err)
		h.clearToken(ctx)
		return
	}

	h.transition(ctx, authenticated(id))
}

// Login stores the already-verified credential and transitions to
// Authenticated with the identity the remote API reports for it. On a failed
// identity fetch the token is cleared and the state stays Anonymous.
func (h *Holder) Login(ctx context.Context, token string) (Session, error) {
	if err := h.kv.Write(ctx, tokenKey, []byte(token)); err != nil {
		// Non-fatal: the session still works for this process lifetime,
		// it just will not survive a restart.
		h.logger.WarnContext(ctx, "token persist failed", "error", err)
	}

	id, err := h.fetch.CurrentUser(ctx)
	if err != nil {
		h.clearToken(ctx)
		return Session{}, err
	}

	next := authenticated(id)
	h.transition(ctx, next)
	return next, nil
}

// Logout clears the stored credential and transitions to Anonymous.
func (h *Holder) Logout(ctx context.Context) {
	h.clearToken(ctx)
	h.transition(ctx, Session{})
}

func (h *Holder) clearToken(ctx context.Context) {
	if err := h.kv.Delete(ctx, tokenKey); err != nil {
		h.logger.WarnContext(ctx, "token delete failed", "error", err)
	}
}

// transition swaps the current session and notifies subscribers outside the
// lock so they can read back through the holder.
func (h *Holder) transition(ctx context.Context, next Session) {
	h.mu.Lock()
	prev := h.current
	h.current = next
	subs := h.subs
	h.mu.Unlock()

	evt := Event{Prev: prev, Next: next}
	for _, fn := range subs {
		fn(ctx, evt)
	}
}

func authenticated(id Identity) Session {
	role := id.Role
	if role == "" {
		role = RoleUser
	}
	return Session{
		Authenticated: true,
		UserID:        id.ID,
		DisplayName:   id.DisplayName,
		Role:          role,
	}
}
