package session

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/storage"
	"storefront/pkg/platform/sentinel"
)

// TokenSource hands the stored bearer credential to the remote API clients.
// Reading from storage on every call keeps it consistent with login/logout
// without sharing state with the holder.
type TokenSource struct {
	kv storage.KeyValue
}

func NewTokenSource(kv storage.KeyValue) *TokenSource {
	return &TokenSource{kv: kv}
}

// Token returns the stored credential, or sentinel.ErrNotFound when the actor
// is anonymous.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	raw, err := t.kv.Read(ctx, tokenKey)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// checkLocalExpiry decodes the token without verifying its signature, purely
// to skip a doomed user-details call when the expiry has already passed.
// Signature verification is the remote API's job, not the client's.
func checkLocalExpiry(token string) error {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque (non-JWT) tokens are fine; let the API judge them.
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return fmt.Errorf("%w: token expired at %s", sentinel.ErrExpired, exp.Time.Format(time.RFC3339))
	}
	return nil
}
