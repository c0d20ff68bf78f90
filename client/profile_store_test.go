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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/we-are-mono/hashbridge/types"
)

func openTestStore(t *testing.T) (*SQLiteProfileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "profile.db")
	store, err := OpenProfileStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestSQLiteProfileStoreEmpty(t *testing.T) {
	store, _ := openTestStore(t)
	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteProfileStoreOverwrites(t *testing.T) {
	store, path := openTestStore(t)

	first := types.ConnectionProfile{Protocol: "https", Host: "a.example.com", Username: "alice", Password: "pw", BaseURL: "https://a.example.com"}
	second := types.ConnectionProfile{Protocol: "http", Host: "localhost", Port: "8080", BaseURL: "http://localhost:8080"}

	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))

	got, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, second, got)

	var rows int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&rows))
	assert.Equal(t, 1, rows)

	// survives reopen
	require.NoError(t, store.Close())
	reopened, err := OpenProfileStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err = reopened.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, second, got)
}

func TestSQLiteProfileStoreDefaultsProtocol(t *testing.T) {
	store, _ := openTestStore(t)
	_, err := store.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, ProfileKey, `{"host":"legacy"}`)
	require.NoError(t, err)

	got, ok, err := store.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http", got.Protocol)
	assert.Equal(t, "legacy", got.Host)
}

func TestSQLiteProfileStoreCorruptValue(t *testing.T) {
	store, _ := openTestStore(t)
	_, err := store.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)`, ProfileKey, `not json`)
	require.NoError(t, err)

	_, _, err = store.Load()
	assert.Error(t, err)
}
