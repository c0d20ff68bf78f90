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

// Package entries keeps the local view of the messages hash in step with the
// bridge.
package entries

import (
	"sort"

	"github.com/we-are-mono/hashbridge/category"
	"github.com/we-are-mono/hashbridge/client"
	"github.com/we-are-mono/hashbridge/types"
)

// Normalize turns an HGETALL reply into entries ordered by field. A list is
// read as alternating field/value pairs, with a missing trailing value as "".
// Any other reply shape yields no entries.
func Normalize(reply client.Reply) []types.Entry {
	var out []types.Entry

	switch reply.Kind {
	case client.ReplyList:
		seen := make(map[string]int, len(reply.List)/2)
		for i := 0; i < len(reply.List); i += 2 {
			e := types.Entry{Field: reply.List[i]}
			if i+1 < len(reply.List) {
				e.Value = reply.List[i+1]
			}
			// a repeated field keeps its last value
			if at, ok := seen[e.Field]; ok {
				out[at] = e
				continue
			}
			seen[e.Field] = len(out)
			out = append(out, e)
		}
	case client.ReplyMapping:
		out = make([]types.Entry, 0, len(reply.Mapping))
		for field, value := range reply.Mapping {
			out = append(out, types.Entry{Field: field, Value: value})
		}
	default:
		return []types.Entry{}
	}

	Sort(out)
	return out
}

// Sort orders entries by field name using locale-aware collation.
func Sort(list []types.Entry) {
	c := category.NewCollator()
	sort.SliceStable(list, func(i, j int) bool {
		return category.Compare(c, list[i].Field, list[j].Field) < 0
	})
}
