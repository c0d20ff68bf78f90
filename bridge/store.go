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
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/we-are-mono/hashbridge/bridge/logger"
	"github.com/we-are-mono/hashbridge/config"
)

// Store is the backing store as seen by the bridge. Implementations must be
// safe for concurrent use; the bridge adds no serialization of its own.
type Store interface {
	Do(ctx context.Context, args ...interface{}) (interface{}, error)
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore forwards commands over one long-lived go-redis client.
// Reconnection after a lost connection is left to go-redis.
type RedisStore struct {
	client *redis.Client
	addr   string
}

// NewRedisStore creates the store client. No connection is made until the
// first command.
func NewRedisStore(cfg config.StoreConfig, log logger.Logger) *RedisStore {
	redis.SetLogger(&redisLogger{log: log.With(logger.Field{Key: "component", Value: "redis"})})

	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr(),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
			Protocol: cfg.Protocol,
		}),
		addr: cfg.Addr(),
	}
}

// Addr returns the store address.
func (s *RedisStore) Addr() string {
	return s.addr
}

// Do submits one command. A nil reply is returned as (nil, nil) rather than
// an error, so that it reaches the client as a null result.
func (s *RedisStore) Do(ctx context.Context, args ...interface{}) (interface{}, error) {
	result, err := s.client.Do(ctx, args...).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Ping checks that the store answers.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// redisLogger routes go-redis internal messages into the structured logger.
type redisLogger struct {
	log logger.Logger
}

func (l *redisLogger) Printf(ctx context.Context, format string, v ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, v...))
}
