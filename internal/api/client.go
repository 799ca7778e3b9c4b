package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Kiriweb/carbontracker/internal/observability"
)

const (
	defaultTimeout    = 30 * time.Second
	sessionCookieName = "jwt"
)

// APIError carries a non-2xx response back to the caller. Message is the
// best-effort text extracted from the body, which may be plain text or JSON.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Config defines the transport settings for the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Client talks to the carbon-tracker backend. The session credential is a
// cookie captured at login and attached implicitly to every request by the
// jar.
type Client struct {
	base   string
	http   *http.Client
	logger zerolog.Logger
	tracer trace.Tracer
}

// New constructs a backend client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("api base url is required")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		base: base,
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		logger: cfg.Logger.With().Str("component", "api_client").Logger(),
		tracer: otel.Tracer("github.com/Kiriweb/carbontracker/internal/api"),
	}, nil
}

// BaseURL returns the backend base URL the client was built with.
func (c *Client) BaseURL() string {
	return c.base
}

// SessionCookies returns the cookies currently held for the backend, so a
// caller can persist the session between invocations.
func (c *Client) SessionCookies() []*http.Cookie {
	u, err := url.Parse(c.base)
	if err != nil {
		return nil
	}
	return c.http.Jar.Cookies(u)
}

// RestoreSession seeds the jar with previously persisted cookies.
func (c *Client) RestoreSession(cookies []*http.Cookie) {
	u, err := url.Parse(c.base)
	if err != nil {
		return
	}
	c.http.Jar.SetCookies(u, cookies)
}

// SessionExpiry peeks at the session token's expiry claim without verifying
// the signature. Diagnostics only; authorization stays with the backend.
func (c *Client) SessionExpiry() (time.Time, bool) {
	for _, cookie := range c.SessionCookies() {
		if cookie.Name != sessionCookieName {
			continue
		}
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(cookie.Value, claims); err != nil {
			return time.Time{}, false
		}
		expiry, err := claims.GetExpirationTime()
		if err != nil || expiry == nil {
			return time.Time{}, false
		}
		return expiry.Time, true
	}
	return time.Time{}, false
}

// doJSON performs one request and decodes a JSON response into out. The
// route parameter is the stable path template used for metric labels.
func (c *Client) doJSON(ctx context.Context, method, route, path string, in, out any) error {
	body, err := c.roundTrip(ctx, method, route, path, in)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, route, err)
	}
	return nil
}

// doText performs one request and returns the raw body as text.
func (c *Client) doText(ctx context.Context, method, route, path string) (string, error) {
	body, err := c.roundTrip(ctx, method, route, path, nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) roundTrip(ctx context.Context, method, route, path string, in any) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "backend."+method, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	))
	defer span.End()

	var reader io.Reader
	if in != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, route, err)
		}
		reader = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.http.Do(req)
	observability.Latency().WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.Requests().WithLabelValues(method, route, "transport_error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("%s %s: %w", method, route, err)
	}
	defer resp.Body.Close()

	observability.Requests().WithLabelValues(method, route, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("read %s %s response: %w", method, route, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: messageFromBody(resp.StatusCode, body)}
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.Debug().Int("status", resp.StatusCode).Str("route", route).Msg("backend rejected request")
		return nil, apiErr
	}

	return body, nil
}

// messageFromBody extracts a human-readable message from an error body. The
// backend returns plain text for some failures and JSON for others.
func messageFromBody(status int, body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return http.StatusText(status)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err == nil {
		for _, key := range []string{"message", "error"} {
			if value, ok := decoded[key].(string); ok && value != "" {
				return value
			}
		}
	}
	return text
}
