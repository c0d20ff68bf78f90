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

// Package config resolves hashbridge settings from the environment and
// command-line flags. Settings are read once at start and never reloaded.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys understood by Load, together with the environment variable bound to each.
const (
	KeyStoreHost     = "store.host"
	KeyStorePort     = "store.port"
	KeyStoreUsername = "store.username"
	KeyStorePassword = "store.password"
	KeyStoreDB       = "store.db"
	KeyStoreProtocol = "store.protocol"
	KeyHTTPPort      = "http.port"
	KeyHTTPUsername  = "http.username"
	KeyHTTPPassword  = "http.password"
	KeyLogLevel      = "log.level"
	KeyLogFormat     = "log.format"
	KeyLogFile       = "log.file"
)

var envBindings = map[string]string{
	KeyStoreHost:     "REDIS_HOST",
	KeyStorePort:     "REDIS_PORT",
	KeyStoreUsername: "REDIS_USERNAME",
	KeyStorePassword: "REDIS_PASSWORD",
	KeyStoreDB:       "REDIS_DB",
	KeyStoreProtocol: "REDIS_PROTOCOL",
	KeyHTTPPort:      "PORT",
	KeyHTTPUsername:  "BRIDGE_USERNAME",
	KeyHTTPPassword:  "BRIDGE_PASSWORD",
	KeyLogLevel:      "HASHBRIDGE_LOG_LEVEL",
	KeyLogFormat:     "HASHBRIDGE_LOG_FORMAT",
	KeyLogFile:       "HASHBRIDGE_LOG_FILE",
}

// Defaults
const (
	DefaultStoreHost     = "redis"
	DefaultStorePort     = 6379
	DefaultStoreProtocol = 2
	DefaultHTTPPort      = 8080
)

// Config holds the bridge configuration
type Config struct {
	Store StoreConfig
	HTTP  HTTPConfig
	Log   LogConfig
}

// StoreConfig describes the backing store connection
type StoreConfig struct {
	Host     string
	Username string
	Password string
	Port     int
	DB       int
	Protocol int // RESP protocol version, 2 or 3
}

// Addr returns host:port.
func (s StoreConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// HTTPConfig describes the bridge HTTP listener. When Username or Password is
// set, POST / requires a matching basic-auth credential.
type HTTPConfig struct {
	Username string
	Password string
	Port     int
}

// AuthEnabled reports whether the bridge checks credentials.
func (h HTTPConfig) AuthEnabled() bool {
	return h.Username != "" || h.Password != ""
}

// ListenAddr returns the address for net/http.
func (h HTTPConfig) ListenAddr() string {
	return ":" + strconv.Itoa(h.Port)
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string
	Format string // text or json
	File   string // optional log file
}

// New returns a viper instance with defaults and environment bindings applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyStoreHost, DefaultStoreHost)
	v.SetDefault(KeyStorePort, DefaultStorePort)
	v.SetDefault(KeyStoreDB, 0)
	v.SetDefault(KeyStoreProtocol, DefaultStoreProtocol)
	v.SetDefault(KeyHTTPPort, DefaultHTTPPort)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")

	for key, env := range envBindings {
		// BindEnv only fails when called without a key
		_ = v.BindEnv(key, env)
	}
	return v
}

// BindFlags binds the named flags to their keys. Flags that were not set on
// the command line do not override the environment.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet, bindings map[string]string) error {
	for key, name := range bindings {
		f := flags.Lookup(name)
		if f == nil {
			return fmt.Errorf("unknown flag %q for %s", name, key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %q: %w", name, err)
		}
	}
	return nil
}

// Load resolves and validates the configuration.
func Load(v *viper.Viper) (*Config, error) {
	storePort, err := intSetting(v, KeyStorePort)
	if err != nil {
		return nil, err
	}
	storeDB, err := intSetting(v, KeyStoreDB)
	if err != nil {
		return nil, err
	}
	protocol, err := intSetting(v, KeyStoreProtocol)
	if err != nil {
		return nil, err
	}
	httpPort, err := intSetting(v, KeyHTTPPort)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Store: StoreConfig{
			Host:     strings.TrimSpace(v.GetString(KeyStoreHost)),
			Port:     storePort,
			Username: v.GetString(KeyStoreUsername),
			Password: v.GetString(KeyStorePassword),
			DB:       storeDB,
			Protocol: protocol,
		},
		HTTP: HTTPConfig{
			Port:     httpPort,
			Username: v.GetString(KeyHTTPUsername),
			Password: v.GetString(KeyHTTPPassword),
		},
		Log: LogConfig{
			Level:  strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
			Format: strings.ToLower(strings.TrimSpace(v.GetString(KeyLogFormat))),
			File:   strings.TrimSpace(v.GetString(KeyLogFile)),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Store.Host == "" {
		return fmt.Errorf("store host must not be empty (%s)", envBindings[KeyStoreHost])
	}
	if err := validatePort(c.Store.Port, KeyStorePort); err != nil {
		return err
	}
	if err := validatePort(c.HTTP.Port, KeyHTTPPort); err != nil {
		return err
	}
	if c.Store.DB < 0 {
		return fmt.Errorf("invalid %s %d: must not be negative", envBindings[KeyStoreDB], c.Store.DB)
	}
	if c.Store.Protocol != 2 && c.Store.Protocol != 3 {
		return fmt.Errorf("invalid %s %d: must be 2 or 3", envBindings[KeyStoreProtocol], c.Store.Protocol)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid %s %q: must be text or json", envBindings[KeyLogFormat], c.Log.Format)
	}
	return nil
}

func validatePort(port int, key string) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid %s %d: must be between 1 and 65535", envBindings[key], port)
	}
	return nil
}

func intSetting(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envBindings[key], raw, err)
	}
	return n, nil
}

// GetProfileDBPath returns the client profile database path, preferring
// HASHBRIDGE_PROFILE_DB and falling back to the user config directory.
func GetProfileDBPath() (string, error) {
	if path := os.Getenv("HASHBRIDGE_PROFILE_DB"); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(dir, "hashbridge", "profile.db"), nil
}
