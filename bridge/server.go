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

package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/we-are-mono/hashbridge/bridge/logger"
	"github.com/we-are-mono/hashbridge/config"
)

const healthTimeout = 2 * time.Second

// Server is the command bridge. It holds no per-client state; the only
// shared resource is the store.
type Server struct {
	store      Store
	log        logger.Logger
	router     *gin.Engine
	httpServer *http.Server
	addr       string
}

// NewServer wires routes and middleware around store.
func NewServer(cfg config.HTTPConfig, store Store, log logger.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	RegisterMetrics()

	s := &Server{
		store:  store,
		log:    log.With(logger.Field{Key: "component", Value: "bridge"}),
		router: gin.New(),
		addr:   cfg.ListenAddr(),
	}

	s.router.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(log.With(logger.Field{Key: "component", Value: "http"})),
		requestMetrics(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
			ExposeHeaders:   []string{RequestIDHeader},
			MaxAge:          12 * time.Hour,
		}),
	)

	command := []gin.HandlerFunc{s.handleCommand}
	if cfg.AuthEnabled() {
		command = append([]gin.HandlerFunc{requireCredential(Credential{
			Username: cfg.Username,
			Password: cfg.Password,
		})}, command...)
	}
	s.router.POST("/", command...)
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve accepts connections on l until Stop is called.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info("Redis REST bridge listening", logger.Field{Key: "addr", Value: l.Addr().String()})
	if err := s.httpServer.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("bridge server failed: %w", err)
	}
	return nil
}

// Start listens on the configured port and serves until Stop is called.
func (s *Server) Start() error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(l)
}

// Stop drains in-flight requests and closes the store.
func (s *Server) Stop(ctx context.Context) error {
	shutdownErr := s.httpServer.Shutdown(ctx)
	if err := s.store.Close(); err != nil {
		s.log.Warn("Failed to close store", logger.Err(err))
	}
	return shutdownErr
}

// handleCommand implements POST /.
func (s *Server) handleCommand(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	command, err := DecodeCommand(c.Request.Body)
	if err != nil {
		s.log.Warn("Rejected command request",
			logger.Err(err),
			logger.Field{Key: requestIDKey, Value: c.GetString(requestIDKey)})
		writeJSON(c, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	args := make([]interface{}, len(command))
	for i, arg := range command {
		args[i] = arg
	}

	// A started command runs to completion even if the caller goes away
	ctx := context.WithoutCancel(c.Request.Context())

	start := time.Now()
	result, err := s.store.Do(ctx, args...)
	recordStoreCommand(command[0], err, time.Since(start))
	if err != nil {
		s.log.Error("Store command failed",
			logger.Field{Key: "verb", Value: command[0]},
			logger.Field{Key: "args", Value: len(command) - 1},
			logger.Err(err),
			logger.Field{Key: requestIDKey, Value: c.GetString(requestIDKey)})
		writeJSON(c, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	s.log.Debug("Store command succeeded",
		logger.Field{Key: "verb", Value: command[0]},
		logger.Field{Key: "args", Value: len(command) - 1})
	writeJSON(c, http.StatusOK, ResultResponse{Result: NormalizeReply(result)})
}

// handleHealth implements GET /health.
func (s *Server) handleHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "store": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "store": "reachable"})
}

// writeJSON encodes before writing so an unencodable reply still produces
// an error body instead of a partial response.
func writeJSON(c *gin.Context, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorResponse{Error: fmt.Sprintf("failed to encode reply: %v", err)})
	}
	c.Data(status, "application/json; charset=utf-8", data)
}
