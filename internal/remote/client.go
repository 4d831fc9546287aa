package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	derrors "storefront/pkg/domain-errors"
	"storefront/pkg/platform/sentinel"
)

// TokenSource supplies the bearer credential for authenticated calls.
// sentinel.ErrNotFound means the actor is anonymous.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the shared JSON transport under the typed API clients. It attaches
// the bearer credential, maps remote error envelopes onto domain errors, and
// logs original causes that are not safe to surface.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		tokens:  tokens,
		logger:  logger,
	}
}

// errorEnvelope is the remote API's error body shape.
type errorEnvelope struct {
	Message string `json:"message"`
}

// do issues one JSON request. authenticated=true attaches the bearer token and
// fails fast with CodeUnauthorized when no token is stored, so callers can
// redirect to login without a doomed network round trip.
func (c *Client) do(ctx context.Context, method, path string, authenticated bool, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return derrors.Wrap(derrors.CodeInternal, "encode request", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return derrors.Wrap(derrors.CodeInternal, "build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return derrors.New(derrors.CodeUnauthorized, "please log in first")
			}
			return derrors.Wrap(derrors.CodeUnavailable, "credential unavailable", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "remote API unreachable", "method", method, "path", path, "error", err)
		return derrors.Wrap(derrors.CodeUnavailable, "cannot reach the server", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(ctx, method, path, resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.WarnContext(ctx, "remote API returned malformed body", "method", method, "path", path, "error", err)
		return derrors.Wrap(derrors.CodeUnavailable, "unexpected server response", err)
	}
	return nil
}

// mapError turns a remote failure into a domain error whose message is safe to
// show. The remote message is trusted for 4xx (it is written for end users);
// 5xx and unparseable bodies collapse to a generic message with the cause
// logged.
func (c *Client) mapError(ctx context.Context, method, path string, resp *http.Response) error {
	var envelope errorEnvelope
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &envelope)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return derrors.New(derrors.CodeUnauthorized, messageOr(envelope, "session expired, please log in again"))
	case resp.StatusCode == http.StatusForbidden:
		return derrors.New(derrors.CodeForbidden, messageOr(envelope, "you are not allowed to do that"))
	case resp.StatusCode == http.StatusNotFound:
		return derrors.New(derrors.CodeNotFound, messageOr(envelope, "not found"))
	case resp.StatusCode < 500:
		return derrors.New(derrors.CodeBadRequest, messageOr(envelope, "request rejected"))
	default:
		c.logger.ErrorContext(ctx, "remote API error",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"body", string(raw),
		)
		return derrors.New(derrors.CodeUnavailable, "the server had a problem, please try again")
	}
}

func messageOr(envelope errorEnvelope, fallback string) string {
	if envelope.Message != "" {
		return envelope.Message
	}
	return fallback
}

func pathf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}
