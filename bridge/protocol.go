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

// Package bridge implements the hashbridge command bridge: an HTTP endpoint
// that forwards JSON command vectors to the backing store and relays replies.
package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"
)

// MaxBodyBytes is the largest request body the bridge accepts.
const MaxBodyBytes = 1 << 20

var (
	// ErrMissingCommand is returned when the body has no usable command array.
	ErrMissingCommand = errors.New(`Body must include { "command": ["PING"] }`)
	// ErrBodyTooLarge is returned when the body exceeds MaxBodyBytes.
	ErrBodyTooLarge = fmt.Errorf("request body exceeds %d bytes", MaxBodyBytes)
)

// Request is the body of POST /
type Request struct {
	Command json.RawMessage `json:"command"`
}

// ResultResponse is returned when the store accepted the command. Result
// keeps the reply's native shape and is null for a nil reply.
type ResultResponse struct {
	Result interface{} `json:"result"`
}

// ErrorResponse is returned for validation and store failures
type ErrorResponse struct {
	Error string `json:"error"`
}

// DecodeCommand reads a request body and returns the command as strings.
// Element 0 is the verb. Any body without a non-empty command array yields
// ErrMissingCommand.
func DecodeCommand(body io.Reader) ([]string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, ErrBodyTooLarge
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, ErrMissingCommand
	}

	dec := json.NewDecoder(bytes.NewReader(req.Command))
	dec.UseNumber()
	var elems []interface{}
	if len(req.Command) == 0 || dec.Decode(&elems) != nil || len(elems) == 0 {
		return nil, ErrMissingCommand
	}

	command := make([]string, len(elems))
	for i, elem := range elems {
		command[i] = coerceArg(elem)
	}
	return command, nil
}

// coerceArg renders one command element as text. Numbers use their shortest
// round-trip form, switching to exponent notation at or above 1e21 and below
// 1e-6 the way a browser's String(number) does. Booleans become true/false,
// null "null", and nested arrays or objects their compact JSON encoding.
func coerceArg(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return strconv.FormatInt(n, 10)
		}
		if f, err := x.Float64(); err == nil && !math.IsInf(f, 0) {
			return formatNumber(f)
		}
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return "null"
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}

func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
