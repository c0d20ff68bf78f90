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
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/we-are-mono/hashbridge/bridge"
	"github.com/we-are-mono/hashbridge/bridge/logger"
	"github.com/we-are-mono/hashbridge/config"
)

// shutdownTimeout bounds how long in-flight requests may finish on stop.
const shutdownTimeout = 10 * time.Second

// serveFlags maps config keys to the serve flags that override them.
var serveFlags = map[string]string{
	config.KeyStoreHost:     "redis-host",
	config.KeyStorePort:     "redis-port",
	config.KeyStoreUsername: "redis-username",
	config.KeyStorePassword: "redis-password",
	config.KeyStoreDB:       "redis-db",
	config.KeyStoreProtocol: "redis-protocol",
	config.KeyHTTPPort:      "port",
	config.KeyHTTPUsername:  "bridge-username",
	config.KeyHTTPPassword:  "bridge-password",
	config.KeyLogLevel:      "log-level",
	config.KeyLogFormat:     "log-format",
	config.KeyLogFile:       "log-file",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Redis REST bridge",
	Long: `Starts the HTTP bridge. POST / with {"command": ["PING"]} runs one Redis
command and answers {"result": ...} or {"error": "..."}.

Settings come from the environment (REDIS_HOST, REDIS_PORT, REDIS_PASSWORD,
PORT, ...) and can be overridden with flags.`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServeFlags(serveCmd.Flags())
}

func addServeFlags(f *pflag.FlagSet) {
	f.String("redis-host", config.DefaultStoreHost, "Redis host ($REDIS_HOST)")
	f.Int("redis-port", config.DefaultStorePort, "Redis port ($REDIS_PORT)")
	f.String("redis-username", "", "Redis ACL username ($REDIS_USERNAME)")
	f.String("redis-password", "", "Redis password ($REDIS_PASSWORD)")
	f.Int("redis-db", 0, "Redis database ($REDIS_DB)")
	f.Int("redis-protocol", config.DefaultStoreProtocol, "RESP protocol version, 2 or 3 ($REDIS_PROTOCOL)")
	f.Int("port", config.DefaultHTTPPort, "HTTP listen port ($PORT)")
	f.String("bridge-username", "", "Require this basic auth username ($BRIDGE_USERNAME)")
	f.String("bridge-password", "", "Require this basic auth password ($BRIDGE_PASSWORD)")
	f.String("log-level", "info", "Log level: debug, info, warn, error ($HASHBRIDGE_LOG_LEVEL)")
	f.String("log-format", "text", "Log format: text or json ($HASHBRIDGE_LOG_FORMAT)")
	f.String("log-file", "", "Also write logs to this file ($HASHBRIDGE_LOG_FILE)")
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	if err := initializeLogger(cfg.Log, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	server := newBridgeServer(cfg, logger.Default())

	// Handle shutdown gracefully
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-sigChan
		logger.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			logger.Error("Failed to stop server", logger.Err(err))
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server failed", logger.Err(err))
		logger.Close()
		os.Exit(1)
	}
	<-stopped
}

// loadServeConfig resolves the bridge configuration from the environment
// and the flags set on cmd.
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags(), serveFlags); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func newBridgeServer(cfg *config.Config, log logger.Logger) *bridge.Server {
	store := bridge.NewRedisStore(cfg.Store, log.With(logger.Field{Key: "component", Value: "store"}))
	return bridge.NewServer(cfg.HTTP, store, log)
}

// initializeLogger sets up the structured logger: console output through
// hclog, plus an optional log file.
func initializeLogger(cfg config.LogConfig, console io.Writer) error {
	lc := logger.Config{
		Level:     cfg.Level,
		Format:    cfg.Format,
		FilePath:  cfg.File,
		Component: "bridge",
	}

	backends := []logger.Backend{logger.NewHCLogBackend("hashbridge", console, cfg.Format)}

	if cfg.File != "" {
		fileBackend, err := logger.NewFileBackend(cfg.File, cfg.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize file backend: %w", err)
		}
		backends = append(backends, fileBackend)
	}

	logger.Init(lc, backends)

	fields := []logger.Field{{Key: "format", Value: cfg.Format}, {Key: "level", Value: cfg.Level}}
	if cfg.File != "" {
		fields = append(fields, logger.Field{Key: "file", Value: cfg.File})
	}
	logger.Info("Logging initialized", fields...)
	return nil
}
