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
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/we-are-mono/hashbridge/client"
	"github.com/we-are-mono/hashbridge/types"
)

func TestMergeProfile(t *testing.T) {
	saved := types.ConnectionProfile{Protocol: "https", Host: "saved.example.com", Port: "8443", Username: "alice", Password: "pw"}

	tests := []struct {
		name     string
		given    types.ConnectionProfile
		expected types.ConnectionProfile
	}{
		{
			name:     "empty uses saved",
			expected: saved,
		},
		{
			name:     "new host drops saved port",
			given:    types.ConnectionProfile{Host: "other"},
			expected: types.ConnectionProfile{Protocol: "https", Host: "other", Username: "alice", Password: "pw"},
		},
		{
			name:     "explicit credentials win",
			given:    types.ConnectionProfile{Protocol: "http", Host: "h", Port: "80", Username: "bob"},
			expected: types.ConnectionProfile{Protocol: "http", Host: "h", Port: "80", Username: "bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mergeProfile(tt.given, saved))
		})
	}

	assert.Equal(t, "http", mergeProfile(types.ConnectionProfile{Host: "h"}, types.ConnectionProfile{}).Protocol)
}

func TestExecuteConnect(t *testing.T) {
	var buf bytes.Buffer
	mockCli := &mockClient{sendFunc: func(command []string) (client.Reply, error) {
		assert.Equal(t, []string{"HGETALL", "messages"}, command)
		return client.ListReply("intro", "hi"), nil
	}}

	err := executeConnect(context.Background(), &buf, mockCli, types.ConnectionProfile{Host: "localhost", Port: "8080"})
	require.NoError(t, err)

	require.Len(t, mockCli.connected, 1)
	assert.Equal(t, types.ConnectionProfile{Protocol: "http", Host: "localhost", Port: "8080"}, mockCli.connected[0])
	assert.Equal(t, "Connecting to http://localhost:8080...\nConnected to http://localhost\nLoaded 1 field(s)\n", buf.String())
}

func TestExecuteConnectLoadsThroughConnectHook(t *testing.T) {
	var buf bytes.Buffer
	var hooked bool
	mockCli := &mockClient{}
	mockCli.connectFunc = func(types.ConnectionProfile) (types.Status, error) {
		hooked = mockCli.onConnected != nil
		assert.Empty(t, mockCli.sent)
		return types.Success("Connected"), nil
	}

	require.NoError(t, executeConnect(context.Background(), &buf, mockCli, types.ConnectionProfile{Host: "localhost"}))
	assert.True(t, hooked)
	assert.Equal(t, [][]string{{"HGETALL", "messages"}}, mockCli.sent)
	assert.Nil(t, mockCli.onConnected)
}

func TestExecuteConnectLoadFailure(t *testing.T) {
	var buf bytes.Buffer
	mockCli := &mockClient{sendFunc: func([]string) (client.Reply, error) {
		return client.Reply{}, errors.New("bridge gone")
	}}

	err := executeConnect(context.Background(), &buf, mockCli, types.ConnectionProfile{Host: "localhost"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bridge gone")
	assert.Contains(t, buf.String(), "Connected to http://localhost\nFailed to load: bridge gone")
}

func TestExecuteConnectShowsDefaultPort(t *testing.T) {
	var buf bytes.Buffer
	mockCli := &mockClient{}
	require.NoError(t, executeConnect(context.Background(), &buf, mockCli, types.ConnectionProfile{Protocol: "https", Host: "bridge"}))
	assert.Contains(t, buf.String(), "Connecting to https://bridge:443...")
}

func TestExecuteConnectNeedsHost(t *testing.T) {
	var buf bytes.Buffer
	mockCli := &mockClient{}
	err := executeConnect(context.Background(), &buf, mockCli, types.ConnectionProfile{})
	assert.Error(t, err)
	assert.Empty(t, mockCli.connected)
}

func TestExecuteConnectFailure(t *testing.T) {
	var buf bytes.Buffer
	mockCli := &mockClient{connectFunc: func(types.ConnectionProfile) (types.Status, error) {
		return types.Danger(client.ErrMixedContent.Error()), client.ErrMixedContent
	}}

	err := executeConnect(context.Background(), &buf, mockCli, types.ConnectionProfile{Host: "localhost"})
	assert.ErrorIs(t, err, client.ErrMixedContent)
	assert.Contains(t, buf.String(), "HTTPS pages cannot call HTTP endpoints.")
	assert.Empty(t, mockCli.sent)
}

func TestExecuteConnectRestoreError(t *testing.T) {
	var buf bytes.Buffer
	err := executeConnect(context.Background(), &buf, &mockClient{restoreErr: errors.New("disk full")}, types.ConnectionProfile{Host: "h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestExecutePing(t *testing.T) {
	var buf bytes.Buffer
	mockCli := hashClient()
	require.NoError(t, executePing(context.Background(), &buf, mockCli))
	assert.Equal(t, "Connected to http://localhost\n", buf.String())
	assert.Len(t, mockCli.connected, 1)

	err := executePing(context.Background(), &buf, &mockClient{})
	assert.ErrorIs(t, err, ErrNoProfile)
}

func TestExecuteProfile(t *testing.T) {
	var buf bytes.Buffer
	mockCli := &mockClient{saved: &types.ConnectionProfile{
		Protocol: "https",
		Host:     "bridge.example.com",
		Username: "alice",
		Password: "secret",
		BaseURL:  "https://bridge.example.com",
	}}

	require.NoError(t, executeProfile(&buf, mockCli))
	out := buf.String()
	assert.Contains(t, out, "bridge.example.com")
	assert.Contains(t, out, "443 (default)")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "********")
	assert.NotContains(t, out, "secret")

	assert.ErrorIs(t, executeProfile(&buf, &mockClient{}), ErrNoProfile)
}
