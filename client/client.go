// Copyright (C) 2025 Mono Technologies Inc.
//
// This program is free software; you can redistribute it and/or
// modify it under the terms of the GNU General Public License
// as published by the Free Software Foundation; version 2.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.

// Package client is the client side of hashbridge: the transport that posts
// command vectors to a bridge, the connection manager, and profile persistence.
package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/we-are-mono/hashbridge/types"
)

// ErrNotConnected is returned by Send before a profile is active.
var ErrNotConnected = errors.New("Not connected")

// Sender issues one command through the bridge
type Sender interface {
	Send(ctx context.Context, command ...string) (Reply, error)
}

// NetworkError wraps a transport failure. Hint is set when the failure is
// likely a blocked insecure call from a secure origin.
type NetworkError struct {
	Err  error
	Hint string
}

func (e *NetworkError) Error() string {
	msg := "Network error: " + e.Err.Error() + "."
	if e.Hint != "" {
		msg += " " + e.Hint
	}
	return msg
}

func (e *NetworkError) Unwrap() error { return e.Err }

// MixedContentHint is appended to network errors for secure-origin callers
// talking to an http bridge.
const MixedContentHint = "If you are on HTTPS, HTTP endpoints will be blocked."

// BridgeError is a failure reported by the bridge itself
type BridgeError struct {
	Message    string
	StatusCode int
}

func (e *BridgeError) Error() string { return e.Message }

// Client posts commands to the bridge of the active profile. It is safe for
// concurrent use.
type Client struct {
	httpClient   *http.Client
	mu           sync.RWMutex
	profile      types.ConnectionProfile
	active       bool
	secureOrigin bool
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSecureOrigin marks the caller as running from a secure origin, which
// enables the mixed-content guard and hint.
func WithSecureOrigin(secure bool) Option {
	return func(c *Client) { c.secureOrigin = secure }
}

// New creates a client with no active profile.
func New(opts ...Option) *Client {
	c := &Client{httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SecureOrigin reports whether the mixed-content guard applies.
func (c *Client) SecureOrigin() bool {
	return c.secureOrigin
}

// Use activates a profile for subsequent Send calls.
func (c *Client) Use(p types.ConnectionProfile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = p
	c.active = true
}

// Reset drops the active profile.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profile = types.ConnectionProfile{}
	c.active = false
}

// Profile returns the active profile.
func (c *Client) Profile() (types.ConnectionProfile, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.profile, c.active
}

// Send posts command through the active profile.
func (c *Client) Send(ctx context.Context, command ...string) (Reply, error) {
	p, ok := c.Profile()
	if !ok || p.BaseURL == "" {
		return Reply{}, ErrNotConnected
	}
	return c.SendWith(ctx, p, command...)
}

// SendWith posts command through p without activating it.
func (c *Client) SendWith(ctx context.Context, p types.ConnectionProfile, command ...string) (Reply, error) {
	if p.BaseURL == "" {
		return Reply{}, ErrNotConnected
	}

	body, err := json.Marshal(struct {
		Command []string `json:"command"`
	}{Command: command})
	if err != nil {
		return Reply{}, fmt.Errorf("failed to marshal command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL, bytes.NewReader(body))
	if err != nil {
		return Reply{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.HasAuth() {
		token := base64.StdEncoding.EncodeToString([]byte(p.Username + ":" + p.Password))
		req.Header.Set("Authorization", "Basic "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		netErr := &NetworkError{Err: err}
		if c.secureOrigin && p.Protocol == "http" {
			netErr.Hint = MixedContentHint
		}
		return Reply{}, netErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Reply{}, &NetworkError{Err: err}
	}

	var payload struct {
		Result json.RawMessage `json:"result"`
		Error  string          `json:"error"`
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return Reply{}, &BridgeError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, &payload); err != nil {
		return Reply{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if payload.Error != "" {
		return Reply{}, &BridgeError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return ParseReply(payload.Result), nil
}

// Health is the bridge's view of itself and its store
type Health struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// OK reports whether the bridge can reach its store.
func (h Health) OK() bool {
	return h.Status == "ok"
}

// Health queries GET /health on the active profile's bridge. A degraded
// bridge answers 503 with a body, which is returned without error.
func (c *Client) Health(ctx context.Context) (Health, error) {
	p, ok := c.Profile()
	if !ok || p.BaseURL == "" {
		return Health{}, ErrNotConnected
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/health", nil)
	if err != nil {
		return Health{}, fmt.Errorf("failed to build request: %w", err)
	}
	if p.HasAuth() {
		req.SetBasicAuth(p.Username, p.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Health{}, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, &BridgeError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unexpected health response (%s)", resp.Status)}
	}
	return h, nil
}
