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

package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/we-are-mono/hashbridge/types"
)

var (
	ErrInvalidURL        = errors.New("Invalid URL")
	ErrMixedContent      = errors.New("HTTPS pages cannot call HTTP endpoints. Pick https or open the UI over http.")
	ErrConnectInProgress = errors.New("connect already in progress")
)

// State is the connection state of a Manager
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// PortPlaceholder is the port shown when none is entered for protocol.
func PortPlaceholder(protocol string) string {
	if protocol == "https" {
		return "443"
	}
	return "80"
}

// BuildBaseURL composes the bridge URL for a profile. A scheme prefix on host
// is dropped and a non-empty port overrides any port in host.
func BuildBaseURL(protocol, host, port string) (string, error) {
	host = strings.TrimSpace(host)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	if protocol != "http" && protocol != "https" {
		return "", fmt.Errorf("%w: unsupported protocol %q", ErrInvalidURL, protocol)
	}
	if host == "" {
		return "", fmt.Errorf("%w: host is required", ErrInvalidURL)
	}

	u, err := url.Parse(protocol + "://" + host)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidURL, host)
	}

	if port = strings.TrimSpace(port); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n < 0 || n > 65535 {
			return "", fmt.Errorf("%w: bad port %q", ErrInvalidURL, port)
		}
		hostname := u.Hostname()
		if strings.Contains(hostname, ":") {
			hostname = "[" + hostname + "]"
		}
		u.Host = hostname + ":" + port
	}

	return strings.TrimSuffix(u.String(), "/"), nil
}

// LoadFunc is run after a successful connect to fetch the initial view.
type LoadFunc func(ctx context.Context) types.Status

// Manager owns the active connection of a client.
type Manager struct {
	client *Client
	store  ProfileStore
	onLoad LoadFunc

	mu    sync.Mutex
	state State
}

// NewManager creates a disconnected manager. store may be nil, in which case
// profiles are not persisted.
func NewManager(c *Client, store ProfileStore) *Manager {
	return &Manager{client: c, store: store}
}

// OnConnected registers the initial load run after each successful connect.
func (m *Manager) OnConnected(fn LoadFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLoad = fn
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Client returns the transport the manager drives.
func (m *Manager) Client() *Client {
	return m.client
}

// Restore returns the persisted profile, if any.
func (m *Manager) Restore() (types.ConnectionProfile, bool, error) {
	if m.store == nil {
		return types.ConnectionProfile{}, false, nil
	}
	return m.store.Load()
}

// Connect checks liveness of the bridge described by p with a PING and, on
// success, persists p and makes it the active profile. On failure the
// manager is left disconnected and the persisted profile is untouched.
func (m *Manager) Connect(ctx context.Context, p types.ConnectionProfile) (types.Status, error) {
	m.mu.Lock()
	if m.state == Connecting {
		m.mu.Unlock()
		return types.Danger("Connection failed: " + ErrConnectInProgress.Error()), ErrConnectInProgress
	}
	m.state = Connecting
	onLoad := m.onLoad
	m.mu.Unlock()

	status, err := m.connect(ctx, p)

	m.mu.Lock()
	if err != nil {
		m.state = Disconnected
	} else {
		m.state = Connected
	}
	m.mu.Unlock()

	if err != nil {
		return status, err
	}
	if onLoad != nil {
		onLoad(ctx)
	}
	return status, nil
}

func (m *Manager) connect(ctx context.Context, p types.ConnectionProfile) (types.Status, error) {
	p.Host = strings.TrimSpace(p.Host)
	p.Port = strings.TrimSpace(p.Port)
	p.Username = strings.TrimSpace(p.Username)
	if p.Protocol == "" {
		p.Protocol = "http"
	}

	if m.client.SecureOrigin() && p.Protocol == "http" {
		m.client.Reset()
		return types.Danger(ErrMixedContent.Error()), ErrMixedContent
	}

	baseURL, err := BuildBaseURL(p.Protocol, p.Host, p.Port)
	if err != nil {
		m.client.Reset()
		return types.Danger(ErrInvalidURL.Error()), err
	}
	p.BaseURL = baseURL

	if _, err := m.client.SendWith(ctx, p, "PING"); err != nil {
		m.client.Reset()
		return types.Danger("Connection failed: " + err.Error()), fmt.Errorf("ping %s: %w", baseURL, err)
	}

	if m.store != nil {
		if err := m.store.Save(p); err != nil {
			m.client.Reset()
			return types.Danger("Connection failed: " + err.Error()), fmt.Errorf("failed to save profile: %w", err)
		}
	}

	m.client.Use(p)
	return types.Success("Connected to " + baseURL), nil
}
