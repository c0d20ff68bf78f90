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

	"github.com/we-are-mono/hashbridge/client"
	"github.com/we-are-mono/hashbridge/types"
)

// mockClient is a ClientInterface with a saved profile and scripted replies
type mockClient struct {
	saved       *types.ConnectionProfile
	restoreErr  error
	connectFunc func(p types.ConnectionProfile) (types.Status, error)
	sendFunc    func(command []string) (client.Reply, error)
	health      client.Health
	healthErr   error
	onConnected client.LoadFunc

	connected []types.ConnectionProfile
	sent      [][]string
}

func (m *mockClient) Restore() (types.ConnectionProfile, bool, error) {
	if m.restoreErr != nil {
		return types.ConnectionProfile{}, false, m.restoreErr
	}
	if m.saved == nil {
		return types.ConnectionProfile{}, false, nil
	}
	return *m.saved, true, nil
}

func (m *mockClient) Connect(ctx context.Context, p types.ConnectionProfile) (types.Status, error) {
	m.connected = append(m.connected, p)
	status, err := types.Success("Connected to http://"+p.Host), error(nil)
	if m.connectFunc != nil {
		status, err = m.connectFunc(p)
	}
	if err == nil && m.onConnected != nil {
		m.onConnected(ctx)
	}
	return status, err
}

func (m *mockClient) OnConnected(fn client.LoadFunc) {
	m.onConnected = fn
}

func (m *mockClient) Send(ctx context.Context, command ...string) (client.Reply, error) {
	m.sent = append(m.sent, command)
	if m.sendFunc != nil {
		return m.sendFunc(command)
	}
	return client.ScalarReply("OK"), nil
}

func (m *mockClient) Health(ctx context.Context) (client.Health, error) {
	if m.healthErr != nil {
		return client.Health{}, m.healthErr
	}
	if m.health.Status == "" {
		return client.Health{Status: "ok", Store: "reachable"}, nil
	}
	return m.health, nil
}

// hashClient returns a connected mock whose HGETALL answers with pairs.
func hashClient(pairs ...string) *mockClient {
	return &mockClient{
		saved: &types.ConnectionProfile{Protocol: "http", Host: "localhost", Port: "8080", BaseURL: "http://localhost:8080"},
		sendFunc: func(command []string) (client.Reply, error) {
			if command[0] == "HGETALL" {
				return client.ListReply(pairs...), nil
			}
			return client.ScalarReply("1"), nil
		},
	}
}
