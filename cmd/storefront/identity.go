package main

import (
	"context"
	"strconv"
	"strings"

	"storefront/internal/remote"
	"storefront/internal/session"
)

// identityFetcher adapts the remote auth client to the session holder's view
// of a user.
type identityFetcher struct {
	auth *remote.AuthClient
}

func (f identityFetcher) CurrentUser(ctx context.Context) (session.Identity, error) {
	user, err := f.auth.CurrentUser(ctx)
	if err != nil {
		return session.Identity{}, err
	}

	role := session.RoleUser
	if strings.EqualFold(user.Role.Name, "admin") {
		role = session.RoleAdmin
	}
	return session.Identity{
		ID:          strconv.FormatInt(user.ID, 10),
		DisplayName: user.Fullname,
		Role:        role,
	}, nil
}
