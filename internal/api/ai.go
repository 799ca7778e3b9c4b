package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Kiriweb/carbontracker/internal/dto"
)

// Suggestions fetches the AI-generated reduction suggestion for a log. The
// body is free text and returned as-is.
func (c *Client) Suggestions(ctx context.Context, logID int64) (string, error) {
	return c.doText(ctx, http.MethodGet, "/api/ai/suggestions/{logId}", fmt.Sprintf("/api/ai/suggestions/%d", logID))
}

// CredentialStatus reports whether the shared AI credential is set. Admin
// only.
func (c *Client) CredentialStatus(ctx context.Context) (dto.CredentialStatus, error) {
	var status dto.CredentialStatus
	err := c.doJSON(ctx, http.MethodGet, "/api/ai/key", "/api/ai/key", nil, &status)
	return status, err
}

// SetCredential stores a new shared AI credential. Admin only.
func (c *Client) SetCredential(ctx context.Context, apiKey string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/ai/key", "/api/ai/key", dto.CredentialUpdateRequest{APIKey: apiKey}, nil)
}

// ClearCredential removes the shared AI credential. Admin only.
func (c *Client) ClearCredential(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/ai/key", "/api/ai/key", nil, nil)
}
