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
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/we-are-mono/hashbridge/types"
)

// ProfileKey is the storage key of the connection profile.
const ProfileKey = "redis-web-connection"

// ProfileStore persists the single connection profile
type ProfileStore interface {
	Load() (types.ConnectionProfile, bool, error)
	Save(p types.ConnectionProfile) error
}

// SQLiteProfileStore keeps the profile as a JSON value in a key/value table.
type SQLiteProfileStore struct {
	db *sql.DB
}

// OpenProfileStore opens (and creates if needed) the database at path.
func OpenProfileStore(path string) (*SQLiteProfileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open profile database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create profile table: %w", err)
	}

	return &SQLiteProfileStore{db: db}, nil
}

// Load returns the stored profile. A missing record is not an error.
func (s *SQLiteProfileStore) Load() (types.ConnectionProfile, bool, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, ProfileKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ConnectionProfile{}, false, nil
	}
	if err != nil {
		return types.ConnectionProfile{}, false, fmt.Errorf("failed to read profile: %w", err)
	}

	var p types.ConnectionProfile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return types.ConnectionProfile{}, false, fmt.Errorf("failed to decode profile: %w", err)
	}
	if p.Protocol == "" {
		p.Protocol = "http"
	}
	return p, true, nil
}

// Save overwrites the stored profile in a single statement.
func (s *SQLiteProfileStore) Save(p types.ConnectionProfile) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, ProfileKey, string(data))
	if err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteProfileStore) Close() error {
	return s.db.Close()
}

// MemoryProfileStore is an in-process ProfileStore.
type MemoryProfileStore struct {
	mu      sync.Mutex
	profile types.ConnectionProfile
	saved   bool
}

func (s *MemoryProfileStore) Load() (types.ConnectionProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, s.saved, nil
}

func (s *MemoryProfileStore) Save(p types.ConnectionProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = p
	s.saved = true
	return nil
}
