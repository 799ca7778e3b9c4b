package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Kiriweb/carbontracker/internal/dto"
)

// Register creates a new pending account. The account stays disabled until
// an administrator approves it.
func (c *Client) Register(ctx context.Context, creds dto.Credentials) (dto.User, error) {
	var user dto.User
	err := c.doJSON(ctx, http.MethodPost, "/api/users/register", "/api/users/register", creds, &user)
	return user, err
}

// Login establishes a session. The backend sets the session cookie, which
// the jar captures and attaches to every later request.
func (c *Client) Login(ctx context.Context, creds dto.Credentials) (dto.User, error) {
	var user dto.User
	err := c.doJSON(ctx, http.MethodPost, "/api/users/login", "/api/users/login", creds, &user)
	return user, err
}

// Me resolves the current session's identity.
func (c *Client) Me(ctx context.Context) (dto.User, error) {
	var user dto.User
	err := c.doJSON(ctx, http.MethodGet, "/api/users/me", "/api/users/me", nil, &user)
	return user, err
}

// PendingUsers lists accounts awaiting approval. Admin only.
func (c *Client) PendingUsers(ctx context.Context) ([]dto.User, error) {
	var users []dto.User
	err := c.doJSON(ctx, http.MethodGet, "/api/users/pending", "/api/users/pending", nil, &users)
	return users, err
}

// AllUsers lists every account. Admin only.
func (c *Client) AllUsers(ctx context.Context) ([]dto.User, error) {
	var users []dto.User
	err := c.doJSON(ctx, http.MethodGet, "/api/users", "/api/users", nil, &users)
	return users, err
}

// ApproveUser enables a pending account.
func (c *Client) ApproveUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodPut, "/api/users/{id}/approve", fmt.Sprintf("/api/users/%d/approve", id), nil, nil)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/users/{id}", fmt.Sprintf("/api/users/%d", id), nil, nil)
}
