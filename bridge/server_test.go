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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/we-are-mono/hashbridge/bridge/logger"
	"github.com/we-are-mono/hashbridge/config"
)

// fakeStore records every command it receives
type fakeStore struct {
	mu      sync.Mutex
	calls   [][]interface{}
	doFunc  func(args ...interface{}) (interface{}, error)
	pingErr error
}

func (f *fakeStore) Do(ctx context.Context, args ...interface{}) (interface{}, error) {
	f.mu.Lock()
	f.calls = append(f.calls, args)
	f.mu.Unlock()
	if f.doFunc != nil {
		return f.doFunc(args...)
	}
	return "OK", nil
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }
func (f *fakeStore) Close() error                  { return nil }

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testLogger(buf *bytes.Buffer) logger.Logger {
	return logger.New(logger.Config{Level: "debug"}, []logger.Backend{logger.NewBufferBackend(buf, "text")})
}

func newTestServer(t *testing.T, cfg config.HTTPConfig, store Store) (*Server, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	return NewServer(cfg, store, testLogger(&buf)), &buf
}

func postCommand(t *testing.T, h http.Handler, body string, header http.Header) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var payload map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload), "body=%s", rr.Body.String())
	return rr, payload
}

func TestHandleCommandRejectsInvalidBodies(t *testing.T) {
	bodies := []string{
		`{"command":[]}`,
		`{}`,
		`{"command":"PING"}`,
		`not json`,
		``,
	}

	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			store := &fakeStore{}
			s, logs := newTestServer(t, config.HTTPConfig{}, store)

			rr, payload := postCommand(t, s.Handler(), body, nil)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, string(payload["error"]), "Body must include")
			assert.NotContains(t, payload, "result")
			assert.Zero(t, store.callCount(), "store must not be contacted")
			assert.Contains(t, logs.String(), "Rejected command request")
		})
	}
}

func TestHandleCommandRejectsOversizedBody(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestServer(t, config.HTTPConfig{}, store)

	big := `{"command":["SET","k","` + strings.Repeat("x", MaxBodyBytes) + `"]}`
	rr, payload := postCommand(t, s.Handler(), big, nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, string(payload["error"]), "exceeds")
	assert.Zero(t, store.callCount())
}

func TestHandleCommandForwardsArgumentsAsStrings(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestServer(t, config.HTTPConfig{}, store)

	rr, payload := postCommand(t, s.Handler(), `{"command":["HSET","messages","count",3,true]}`, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `"OK"`, string(payload["result"]))
	require.Equal(t, 1, store.callCount())
	assert.Equal(t, []interface{}{"HSET", "messages", "count", "3", "true"}, store.calls[0])
}

func TestHandleCommandStoreError(t *testing.T) {
	store := &fakeStore{doFunc: func(args ...interface{}) (interface{}, error) {
		return nil, errors.New("ERR wrong number of arguments for 'hset' command")
	}}
	s, logs := newTestServer(t, config.HTTPConfig{}, store)

	rr, payload := postCommand(t, s.Handler(), `{"command":["HSET","messages"]}`, nil)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `"ERR wrong number of arguments for 'hset' command"`, string(payload["error"]))
	assert.NotContains(t, payload, "result")
	assert.Contains(t, logs.String(), "Store command failed")
}

func TestHandleCommandNilReplyIsNullResult(t *testing.T) {
	store := &fakeStore{doFunc: func(args ...interface{}) (interface{}, error) { return nil, nil }}
	s, _ := newTestServer(t, config.HTTPConfig{}, store)

	rr, payload := postCommand(t, s.Handler(), `{"command":["HGET","messages","missing"]}`, nil)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, payload, "result")
	assert.Equal(t, "null", string(payload["result"]))
	assert.NotContains(t, payload, "error")
}

func TestHandleCommandRequestID(t *testing.T) {
	s, _ := newTestServer(t, config.HTTPConfig{}, &fakeStore{})

	rr, _ := postCommand(t, s.Handler(), `{"command":["PING"]}`, http.Header{RequestIDHeader: {"abc-123"}})
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))

	rr, _ = postCommand(t, s.Handler(), `{"command":["PING"]}`, nil)
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))
	assert.NotEqual(t, "abc-123", rr.Header().Get(RequestIDHeader))

	// header names are case-insensitive on the wire
	rr, _ = postCommand(t, s.Handler(), `{"command":["PING"]}`, http.Header{"x-request-id": {"lower-1"}})
	assert.Equal(t, "lower-1", rr.Header().Get(RequestIDHeader))
}

func TestBridgeCredential(t *testing.T) {
	cfg := config.HTTPConfig{Username: "editor", Password: "pw"}

	tests := []struct {
		name       string
		user, pass string
		setAuth    bool
		wantStatus int
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong password", user: "editor", pass: "nope", setAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "wrong user", user: "admin", pass: "pw", setAuth: true, wantStatus: http.StatusUnauthorized},
		{name: "matching credential", user: "editor", pass: "pw", setAuth: true, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			s, _ := newTestServer(t, cfg, store)

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"command":["PING"]}`))
			if tt.setAuth {
				req.SetBasicAuth(tt.user, tt.pass)
			}
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String())
				assert.Zero(t, store.callCount())
			}
		})
	}
}

func TestUnauthenticatedBridgeIgnoresAuthorizationHeader(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestServer(t, config.HTTPConfig{}, store)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"command":["PING"]}`))
	req.SetBasicAuth("anyone", "anything")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, store.callCount())
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t, config.HTTPConfig{}, &fakeStore{})

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://ui.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, Authorization")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	store := &fakeStore{}
	s, _ := newTestServer(t, config.HTTPConfig{}, store)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","store":"reachable"}`, rr.Body.String())

	store.pingErr = errors.New("dial tcp: connection refused")
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "degraded")
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, config.HTTPConfig{}, &fakeStore{})
	postCommand(t, s.Handler(), `{"command":["PING"]}`, nil)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "hashbridge_store_commands_total")
	assert.Contains(t, rr.Body.String(), "hashbridge_http_requests_total")
}

func newMiniredisStore(t *testing.T, protocol int) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	host, portStr, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	var buf bytes.Buffer
	store := NewRedisStore(config.StoreConfig{Host: host, Port: port, Protocol: protocol}, testLogger(&buf))
	t.Cleanup(func() { _ = store.Close() })
	return mr, store
}

func TestBridgeAgainstRedisRESP2(t *testing.T) {
	mr, store := newMiniredisStore(t, 2)
	mr.HSet("messages", "intro", "hi")
	mr.HSet("messages", "footer.v1", "bye")
	s, _ := newTestServer(t, config.HTTPConfig{}, store)

	rr, payload := postCommand(t, s.Handler(), `{"command":["PING"]}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `"PONG"`, string(payload["result"]))

	rr, payload = postCommand(t, s.Handler(), `{"command":["HGETALL","messages"]}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var flat []string
	require.NoError(t, json.Unmarshal(payload["result"], &flat))
	assert.Len(t, flat, 4)
	assert.ElementsMatch(t, []string{"intro", "hi", "footer.v1", "bye"}, flat)

	rr, payload = postCommand(t, s.Handler(), `{"command":["HDEL","messages","intro"]}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `1`, string(payload["result"]))
	assert.Equal(t, "", mr.HGet("messages", "intro"))
}

func TestBridgeAgainstRedisRESP3ReturnsMapping(t *testing.T) {
	mr, store := newMiniredisStore(t, 3)
	mr.HSet("messages", "intro", "hi")
	s, _ := newTestServer(t, config.HTTPConfig{}, store)

	rr, payload := postCommand(t, s.Handler(), `{"command":["HGETALL","messages"]}`, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"intro":"hi"}`, string(payload["result"]))
}

func TestBridgeAlwaysAnswersWithExactlyOneField(t *testing.T) {
	mr, store := newMiniredisStore(t, 2)
	require.NoError(t, mr.Set("plain", "value"))
	s, _ := newTestServer(t, config.HTTPConfig{}, store)

	commands := []string{
		`["PING"]`,
		`["NOSUCHVERB","x"]`,
		`["HSET","messages"]`,
		`["HGETALL","plain"]`,
		`["HGET","messages","missing"]`,
		`["HSET","messages","a.b",1]`,
		`["GET"]`,
		`[""]`,
	}

	for _, cmd := range commands {
		t.Run(cmd, func(t *testing.T) {
			rr, payload := postCommand(t, s.Handler(), `{"command":`+cmd+`}`, nil)

			_, hasResult := payload["result"]
			_, hasError := payload["error"]
			assert.True(t, hasResult != hasError, "exactly one of result/error, got %s", rr.Body.String())
			if hasError {
				assert.Equal(t, http.StatusInternalServerError, rr.Code)
			} else {
				assert.Equal(t, http.StatusOK, rr.Code)
			}
		})
	}
}

func TestBridgeConcurrentCommands(t *testing.T) {
	mr, store := newMiniredisStore(t, 2)
	s, _ := newTestServer(t, config.HTTPConfig{}, store)
	h := s.Handler()

	const workers = 200
	codes := make(chan int, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := fmt.Sprintf(`{"command":["HSET","messages","field.%d","%d"]}`, i, i)
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			codes <- rr.Code
		}(i)
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
	keys, err := mr.HKeys("messages")
	require.NoError(t, err)
	assert.Len(t, keys, workers)
	assert.Equal(t, "199", mr.HGet("messages", "field.199"))
}

func TestServeAndStop(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skip("skipping listener test in restricted environment")
	}

	s, _ := newTestServer(t, config.HTTPConfig{}, &fakeStore{})
	done := make(chan error, 1)
	go func() { done <- s.Serve(l) }()

	resp, err := http.Post("http://"+l.Addr().String()+"/", "application/json", strings.NewReader(`{"command":["PING"]}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, s.Stop(context.Background()))
	assert.NoError(t, <-done)
}
