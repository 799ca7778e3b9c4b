package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kiriweb/carbontracker/internal/api"
)

// storedCookie is the persisted shape of one session cookie. Only the
// fields the backend needs to recognize the session are kept.
type storedCookie struct {
	Name    string    `json:"name"`
	Value   string    `json:"value"`
	Expires time.Time `json:"expires,omitempty"`
}

// restoreSession seeds the client with the session saved by a previous run,
// if any.
func restoreSession(client *api.Client, path string, logger zerolog.Logger) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn().Err(err).Msg("could not read session file")
		}
		return
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		logger.Warn().Err(err).Msg("could not parse session file")
		return
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Expires: c.Expires})
	}
	client.RestoreSession(cookies)
}

// persistSession writes the current session cookies so later invocations
// stay signed in.
func persistSession(client *api.Client, path string, logger zerolog.Logger) {
	cookies := client.SessionCookies()
	stored := make([]storedCookie, 0, len(cookies))
	for _, c := range cookies {
		stored = append(stored, storedCookie{Name: c.Name, Value: c.Value, Expires: c.Expires})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		logger.Warn().Err(err).Msg("could not encode session")
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		logger.Warn().Err(err).Msg("could not create session directory")
		return
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		logger.Warn().Err(err).Msg("could not write session file")
	}
}
