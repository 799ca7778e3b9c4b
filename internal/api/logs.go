package api

import (
	"context"
	"net/http"

	"github.com/Kiriweb/carbontracker/internal/dto"
	"github.com/Kiriweb/carbontracker/internal/entry"
)

// Logs lists the current viewer's emission logs.
func (c *Client) Logs(ctx context.Context) ([]dto.EmissionLog, error) {
	var logs []dto.EmissionLog
	err := c.doJSON(ctx, http.MethodGet, "/api/logs", "/api/logs", nil, &logs)
	return logs, err
}

// SubmitQuickEntry creates an emission log from a validated payload. Exactly
// one request is sent per call; a new log is created on every success, so
// callers must not auto-retry without deduplication.
func (c *Client) SubmitQuickEntry(ctx context.Context, payload entry.Payload) (dto.EmissionLog, error) {
	var created dto.EmissionLog
	err := c.doJSON(ctx, http.MethodPost, "/api/emission-logs/quick", "/api/emission-logs/quick", payload.Request(), &created)
	return created, err
}
