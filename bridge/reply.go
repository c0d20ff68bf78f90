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
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// NormalizeReply converts a store reply into a value encoding/json can
// marshal while keeping its shape: maps with non-string keys become objects
// keyed by the key's text, byte slices become strings, nested errors become
// their message, and non-finite floats become their textual form.
func NormalizeReply(v interface{}) interface{} {
	switch x := v.(type) {
	case nil, string, bool, int64, int, uint64:
		return x
	case []byte:
		return string(x)
	case float64:
		if math.IsInf(x, 0) || math.IsNaN(x) {
			return strconv.FormatFloat(x, 'f', -1, 64)
		}
		return x
	case *big.Int:
		return x.String()
	case error:
		return x.Error()
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, elem := range x {
			out[i] = NormalizeReply(elem)
		}
		return out
	case []string:
		out := make([]interface{}, len(x))
		for i, elem := range x {
			out[i] = elem
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			out[keyString(k)] = NormalizeReply(val)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			out[k] = NormalizeReply(val)
		}
		return out
	case map[string]string:
		out := make(map[string]interface{}, len(x))
		for k, val := range x {
			out[k] = val
		}
		return out
	default:
		return fmt.Sprint(x)
	}
}

func keyString(k interface{}) string {
	switch x := k.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
