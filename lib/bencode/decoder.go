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
package bencode

import (
	"fmt"
	"strconv"
)

// Unmarshal decodes a single bencode value from data. Integers decode as
// int64, byte strings as (byte-preserving) string, lists as List and
// dictionaries as Dict.
//
// The input must be canonical and fully consumed: non-minimal integers,
// truncated values, trailing bytes, non-string dictionary keys, and
// unsorted or duplicated dictionary keys all fail with ErrMalformedInput.
func Unmarshal(data []byte) (interface{}, error) {
	d := decoder{data: data}
	v, err := d.decode()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, malformedf("trailing data at offset %d", d.pos)
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

func malformedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}

func (d *decoder) peek() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, malformedf("unexpected end of input")
	}
	return d.data[d.pos], nil
}

func (d *decoder) decode() (interface{}, error) {
	c, err := d.peek()
	if err != nil {
		return nil, err
	}
	switch {
	case c == 'i':
		return d.decodeInt()
	case c == 'l':
		return d.decodeList()
	case c == 'd':
		return d.decodeDict()
	case c >= '0' && c <= '9':
		return d.decodeString()
	default:
		return nil, malformedf("invalid type prefix %q at offset %d", c, d.pos)
	}
}

func (d *decoder) decodeInt() (int64, error) {
	d.pos++ // 'i'
	start := d.pos
	for d.pos < len(d.data) && d.data[d.pos] != 'e' {
		d.pos++
	}
	if d.pos >= len(d.data) {
		return 0, malformedf("unterminated integer")
	}
	s := string(d.data[start:d.pos])
	d.pos++ // 'e'
	if !minimalInt(s) {
		return 0, malformedf("non-minimal integer %q", s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, malformedf("invalid integer %q", s)
	}
	return n, nil
}

// minimalInt reports whether s is the canonical decimal form: no empty
// body, no leading zeros ("03"), no negative zero, no signs besides a
// single leading minus.
func minimalInt(s string) bool {
	if s == "" {
		return false
	}
	body := s
	if s[0] == '-' {
		body = s[1:]
		if body == "" || body[0] == '0' {
			return false
		}
	}
	if len(body) > 1 && body[0] == '0' {
		return false
	}
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return false
		}
	}
	return true
}

func (d *decoder) decodeString() (string, error) {
	start := d.pos
	for d.pos < len(d.data) && d.data[d.pos] != ':' {
		d.pos++
	}
	if d.pos >= len(d.data) {
		return "", malformedf("unterminated string length")
	}
	ls := string(d.data[start:d.pos])
	d.pos++ // ':'
	if len(ls) > 1 && ls[0] == '0' {
		return "", malformedf("non-minimal string length %q", ls)
	}
	n, err := strconv.ParseInt(ls, 10, 64)
	if err != nil || n < 0 {
		return "", malformedf("invalid string length %q", ls)
	}
	if int64(len(d.data)-d.pos) < n {
		return "", malformedf("string truncated: want %d bytes, have %d", n, len(d.data)-d.pos)
	}
	s := string(d.data[d.pos : d.pos+int(n)])
	d.pos += int(n)
	return s, nil
}

func (d *decoder) decodeList() (List, error) {
	d.pos++ // 'l'
	l := List{}
	for {
		c, err := d.peek()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			d.pos++
			return l, nil
		}
		v, err := d.decode()
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
}

func (d *decoder) decodeDict() (Dict, error) {
	d.pos++ // 'd'
	dict := Dict{}
	var prev string
	first := true
	for {
		c, err := d.peek()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			d.pos++
			return dict, nil
		}
		if c < '0' || c > '9' {
			return nil, malformedf("dictionary key is not a string at offset %d", d.pos)
		}
		key, err := d.decodeString()
		if err != nil {
			return nil, err
		}
		if !first {
			if key == prev {
				return nil, malformedf("duplicate dictionary key %q", key)
			}
			if key < prev {
				return nil, malformedf("unsorted dictionary key %q after %q", key, prev)
			}
		}
		first = false
		prev = key
		v, err := d.decode()
		if err != nil {
			return nil, err
		}
		dict[key] = v
	}
}
