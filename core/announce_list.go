// Copyright (c) 2024 the Remora authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package core

import "fmt"

// AnnounceList is an ordered list of tracker tiers. Each tier is an
// ordered list of tracker URLs; clients try tiers in order and shuffle
// within a tier.
type AnnounceList [][]string

// NewAnnounceList normalizes loosely typed tiers into an AnnounceList.
// A bare string tier is wrapped into a single-element tier.
func NewAnnounceList(tiers ...interface{}) (AnnounceList, error) {
	var l AnnounceList
	for _, t := range tiers {
		switch v := t.(type) {
		case string:
			l = append(l, []string{v})
		case []string:
			l = append(l, append([]string(nil), v...))
		default:
			return nil, fmt.Errorf("invalid announce tier type %T", t)
		}
	}
	return l, nil
}

// First returns the first URL of the first tier, the value clients expect
// under the top-level "announce" key.
func (l AnnounceList) First() (string, bool) {
	for _, tier := range l {
		for _, url := range tier {
			return url, true
		}
	}
	return "", false
}

// Merge appends the tiers of other onto l, dropping URLs already present
// anywhere in l. Order is preserved; l always comes first.
func (l AnnounceList) Merge(other AnnounceList) AnnounceList {
	seen := make(map[string]bool)
	var merged AnnounceList
	add := func(tier []string) {
		var t []string
		for _, url := range tier {
			if seen[url] {
				continue
			}
			seen[url] = true
			t = append(t, url)
		}
		if len(t) > 0 {
			merged = append(merged, t)
		}
	}
	for _, tier := range l {
		add(tier)
	}
	for _, tier := range other {
		add(tier)
	}
	return merged
}

// Copy returns a deep copy of l.
func (l AnnounceList) Copy() AnnounceList {
	var c AnnounceList
	for _, tier := range l {
		c = append(c, append([]string(nil), tier...))
	}
	return c
}
