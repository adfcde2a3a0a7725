package api

import (
	"context"
	"fmt"
	"net/http"
)

// Me returns the authenticated user. An unauthenticated session yields a
// *ResultError with ResultCodeError.
func (c *Client) Me(ctx context.Context) (*Me, error) {
	me, err := doEnvelope[Me](ctx, c, http.MethodGet, "/auth/me", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &me, nil
}

// Login starts a session. The session cookie is kept in the client's jar.
func (c *Client) Login(ctx context.Context, req LoginRequest) (int, error) {
	data, err := doEnvelope[LoginData](ctx, c, http.MethodPost, "/auth/login", req)
	if err != nil {
		return 0, fmt.Errorf("failed to log in: %w", err)
	}
	return data.UserID, nil
}

// Logout ends the current session.
func (c *Client) Logout(ctx context.Context) error {
	if _, err := doEnvelope[struct{}](ctx, c, http.MethodDelete, "/auth/login", nil); err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	return nil
}
