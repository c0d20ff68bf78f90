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

package cmd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/we-are-mono/hashbridge/client"
	"github.com/we-are-mono/hashbridge/config"
	"github.com/we-are-mono/hashbridge/types"
)

// ErrNoProfile is returned when a command needs a saved connection.
var ErrNoProfile = errors.New(`no saved connection, run "hashbridge connect" first`)

// ClientInterface defines the bridge session the commands drive.
// This interface allows for easy testing by enabling mock implementations.
type ClientInterface interface {
	client.Sender
	Connect(ctx context.Context, p types.ConnectionProfile) (types.Status, error)
	OnConnected(fn client.LoadFunc)
	Restore() (types.ConnectionProfile, bool, error)
	Health(ctx context.Context) (client.Health, error)
}

// realClient opens the profile database on first use and wraps a
// connection manager.
type realClient struct {
	once    sync.Once
	manager *client.Manager
	err     error
}

func (r *realClient) init() (*client.Manager, error) {
	r.once.Do(func() {
		path := profileDBPath
		if path == "" {
			p, err := config.GetProfileDBPath()
			if err != nil {
				r.err = err
				return
			}
			path = p
		}

		store, err := client.OpenProfileStore(path)
		if err != nil {
			r.err = err
			return
		}
		r.manager = client.NewManager(client.New(client.WithSecureOrigin(secureOrigin)), store)
	})
	return r.manager, r.err
}

func (r *realClient) Send(ctx context.Context, command ...string) (client.Reply, error) {
	m, err := r.init()
	if err != nil {
		return client.Reply{}, err
	}
	return m.Client().Send(ctx, command...)
}

func (r *realClient) Connect(ctx context.Context, p types.ConnectionProfile) (types.Status, error) {
	m, err := r.init()
	if err != nil {
		return types.Danger("Connection failed: " + err.Error()), err
	}
	return m.Connect(ctx, p)
}

// OnConnected registers fn on the manager. An init failure is left for
// Connect to report.
func (r *realClient) OnConnected(fn client.LoadFunc) {
	if m, err := r.init(); err == nil {
		m.OnConnected(fn)
	}
}

func (r *realClient) Restore() (types.ConnectionProfile, bool, error) {
	m, err := r.init()
	if err != nil {
		return types.ConnectionProfile{}, false, err
	}
	return m.Restore()
}

func (r *realClient) Health(ctx context.Context) (client.Health, error) {
	m, err := r.init()
	if err != nil {
		return client.Health{}, err
	}
	return m.Client().Health(ctx)
}

// defaultClient is the default client used by CLI commands.
// Tests can replace this with a mock implementation.
var defaultClient ClientInterface = &realClient{}

// reconnect re-establishes the saved connection before a command runs.
func reconnect(ctx context.Context, c ClientInterface) error {
	p, ok, err := c.Restore()
	if err != nil {
		return fmt.Errorf("failed to read saved connection: %w", err)
	}
	if !ok {
		return ErrNoProfile
	}
	if _, err := c.Connect(ctx, p); err != nil {
		return err
	}
	return nil
}
