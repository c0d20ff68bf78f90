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
	"bytes"
	"encoding/json"
	"strconv"
)

// ReplyKind tags the shape of a bridge result
type ReplyKind int

const (
	ReplyNone ReplyKind = iota
	ReplyScalar
	ReplyList
	ReplyMapping
)

// String returns the kind name
func (k ReplyKind) String() string {
	switch k {
	case ReplyScalar:
		return "scalar"
	case ReplyList:
		return "list"
	case ReplyMapping:
		return "mapping"
	default:
		return "none"
	}
}

// Reply is the result of a bridge command. Exactly one of Scalar, List or
// Mapping is meaningful, as indicated by Kind.
type Reply struct {
	Mapping map[string]string
	Scalar  string
	List    []string
	Kind    ReplyKind
}

// ScalarReply builds a scalar reply.
func ScalarReply(s string) Reply {
	return Reply{Kind: ReplyScalar, Scalar: s}
}

// ListReply builds a list reply.
func ListReply(items ...string) Reply {
	return Reply{Kind: ReplyList, List: items}
}

// MappingReply builds a mapping reply.
func MappingReply(m map[string]string) Reply {
	return Reply{Kind: ReplyMapping, Mapping: m}
}

// ParseReply converts the raw "result" member of a bridge response.
// Numbers and booleans become scalars in their textual form; list and mapping
// members are rendered the same way, with null members as "".
func ParseReply(raw json.RawMessage) Reply {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Reply{Kind: ReplyNone}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return Reply{Kind: ReplyNone}
	}

	switch x := v.(type) {
	case []interface{}:
		items := make([]string, len(x))
		for i, elem := range x {
			items[i] = text(elem)
		}
		return ListReply(items...)
	case map[string]interface{}:
		m := make(map[string]string, len(x))
		for k, elem := range x {
			m[k] = text(elem)
		}
		return MappingReply(m)
	default:
		return ScalarReply(text(x))
	}
}

func text(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
