// Package auth obtains and refreshes the bearer credential used for all
// outbound content API calls via a client-credentials exchange.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrExhausted is returned after the refresh retry budget for one failure
// episode is spent. The failure counter resets so the next call starts a
// fresh episode.
var ErrExhausted = errors.New("auth: token refresh attempts exhausted")

const (
	exchangeTimeout = 10 * time.Second
	expiryMargin    = 60 * time.Second
	maxFailures     = 3
	maxBackoff      = 30 * time.Second
)

// Manager owns the process-wide credential. A single in-flight refresh is
// shared by all concurrent callers.
type Manager struct {
	clientID     string
	clientSecret string
	tokenURL     string
	userAgent    string
	httpClient   *http.Client
	log          *slog.Logger

	mu       sync.Mutex
	token    string
	expiry   time.Time
	failures int

	group singleflight.Group

	// Injection points for tests.
	now   func() time.Time
	sleep func(context.Context, time.Duration) error
}

func NewManager(clientID, clientSecret, tokenURL, userAgent string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     tokenURL,
		userAgent:    userAgent,
		httpClient:   &http.Client{Timeout: exchangeTimeout},
		log:          log,
		now:          time.Now,
		sleep:        sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Token returns a valid bearer token, refreshing it if absent or expired.
// Transient refresh failures are retryable by calling Token again; after
// more than three consecutive failures the episode ends with ErrExhausted.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.token != "" && m.now().Before(m.expiry) {
		tok := m.token
		m.mu.Unlock()
		return tok, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("refresh", func() (interface{}, error) {
		return m.refresh(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Invalidate discards the stored token, forcing the next Token call to
// perform a fresh exchange. Used when the API answers 401.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.token = ""
	m.expiry = time.Time{}
	m.mu.Unlock()
}

func (m *Manager) refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	// Another waiter may have refreshed between the unlocked check and
	// the singleflight dedup window.
	if m.token != "" && m.now().Before(m.expiry) {
		tok := m.token
		m.mu.Unlock()
		return tok, nil
	}
	failures := m.failures
	m.mu.Unlock()

	// Backoff is applied at the start of a retry attempt, not after the
	// failing one: min(1000 * 2^failures, 30000) ms.
	if failures > 0 {
		backoff := time.Duration(1<<uint(failures)) * time.Second
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		if err := m.sleep(ctx, backoff); err != nil {
			return "", err
		}
	}

	token, expiresIn, err := m.exchange(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.failures++
		if m.failures > maxFailures {
			m.failures = 0
			m.log.Error("token refresh exhausted", "err", err)
			return "", fmt.Errorf("%w: %v", ErrExhausted, err)
		}
		m.log.Warn("token refresh failed", "attempt", m.failures, "err", err)
		return "", fmt.Errorf("token exchange: %w", err)
	}

	m.token = token
	m.expiry = m.now().Add(time.Duration(expiresIn)*time.Second - expiryMargin)
	m.failures = 0
	return token, nil
}

func (m *Manager) exchange(ctx context.Context) (token string, expiresIn int, err error) {
	ctx, cancel := context.WithTimeout(ctx, exchangeTimeout)
	defer cancel()

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, err
	}
	req.SetBasicAuth(m.clientID, m.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", m.userAgent)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", 0, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, string(b))
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, fmt.Errorf("decoding token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", 0, fmt.Errorf("token endpoint returned no access_token")
	}
	return body.AccessToken, body.ExpiresIn, nil
}
