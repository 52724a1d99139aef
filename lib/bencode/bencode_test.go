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
	"bytes"
	"testing"

	refbencode "github.com/jackpal/bencode-go"
	"github.com/stretchr/testify/require"
)

func TestMarshal(t *testing.T) {
	tests := []struct {
		desc string
		in   interface{}
		out  string
	}{
		{"positive int", 42, "i42e"},
		{"negative int", -42, "i-42e"},
		{"zero", 0, "i0e"},
		{"uint64", uint64(18446744073709551615), "i18446744073709551615e"},
		{"string", "spam", "4:spam"},
		{"empty string", "", "0:"},
		{"bytes", []byte{0xc0, 0x00}, "2:\xc0\x00"},
		{"empty list", List{}, "le"},
		{"list", List{"spam", 42}, "l4:spami42ee"},
		{"string slice", []string{"a", "b"}, "l1:a1:be"},
		{"nested tiers", [][]string{{"x"}, {"y", "z"}}, "ll1:xel1:y1:zee"},
		{"dict", Dict{"cow": "moo", "spam": "eggs"}, "d3:cow3:moo4:spam4:eggse"},
		{"empty dict", Dict{}, "de"},
		{"nested dict", Dict{"a": Dict{"b": List{1}}}, "d1:ad1:bli1eeee"},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			require := require.New(t)

			b, err := Marshal(test.in)
			require.NoError(err)
			require.Equal(test.out, string(b))
		})
	}
}

func TestMarshalSortsKeysRegardlessOfInsertionOrder(t *testing.T) {
	require := require.New(t)

	d1 := Dict{}
	d2 := Dict{}
	keys := []string{"zz", "a", "m", "ab", "z"}
	for _, k := range keys {
		d1[k] = "v"
	}
	for i := len(keys) - 1; i >= 0; i-- {
		d2[keys[i]] = "v"
	}
	b1, err := Marshal(d1)
	require.NoError(err)
	b2, err := Marshal(d2)
	require.NoError(err)
	require.Equal(b1, b2)
	require.Equal("d1:a1:v2:ab1:v1:m1:v1:z1:v2:zz1:ve", string(b1))
}

func TestMarshalUnsupportedValue(t *testing.T) {
	require := require.New(t)

	_, err := Marshal(3.14)
	require.ErrorIs(err, ErrUnsupportedValue)

	_, err = Marshal(Dict{"ok": "yes", "bad": make(chan int)})
	require.ErrorIs(err, ErrUnsupportedValue)
}

func TestUnmarshal(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		out  interface{}
	}{
		{"int", "i42e", int64(42)},
		{"negative int", "i-42e", int64(-42)},
		{"zero", "i0e", int64(0)},
		{"string", "4:spam", "spam"},
		{"empty string", "0:", ""},
		{"list", "l4:spami42ee", List{"spam", int64(42)}},
		{"empty list", "le", List{}},
		{"dict", "d3:cow3:moo4:spam4:eggse", Dict{"cow": "moo", "spam": "eggs"}},
		{"empty dict", "de", Dict{}},
		{"nested", "d1:ad1:bli1eeee", Dict{"a": Dict{"b": List{int64(1)}}}},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			require := require.New(t)

			v, err := Unmarshal([]byte(test.in))
			require.NoError(err)
			require.Equal(test.out, v)
		})
	}
}

func TestUnmarshalMalformedInput(t *testing.T) {
	tests := []struct {
		desc string
		in   string
	}{
		{"empty input", ""},
		{"leading zero int", "i03e"},
		{"negative zero", "i-0e"},
		{"empty int", "ie"},
		{"bare minus", "i-e"},
		{"unterminated int", "i42"},
		{"truncated string", "10:short"},
		{"leading zero length", "03:abc"},
		{"unterminated list", "l4:spam"},
		{"unterminated dict", "d3:cow3:moo"},
		{"trailing garbage", "i42ei0e"},
		{"unsorted dict keys", "d2:bb1:x2:aa1:ye"},
		{"duplicate dict keys", "d1:a1:x1:a1:ye"},
		{"non-string dict key", "di1e4:spame"},
		{"invalid prefix", "x42e"},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			require := require.New(t)

			_, err := Unmarshal([]byte(test.in))
			require.ErrorIs(err, ErrMalformedInput)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	values := []interface{}{
		int64(-7),
		"raw \x00 bytes \xff ok",
		List{int64(1), "two", List{}, Dict{}},
		Dict{
			"announce": "http://tracker.example.com/announce",
			"info": Dict{
				"length":       int64(1048577),
				"name":         "blob",
				"piece length": int64(524288),
				"pieces":       string(bytes.Repeat([]byte{0xab}, 60)),
			},
		},
	}
	for _, v := range values {
		b, err := Marshal(v)
		require.NoError(t, err)
		got, err := Unmarshal(b)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

// The reference decoder should agree on everything our encoder emits.
func TestMarshalAgreesWithReferenceDecoder(t *testing.T) {
	require := require.New(t)

	b, err := Marshal(Dict{
		"complete":   int64(1),
		"incomplete": int64(2),
		"interval":   int64(60),
		"peers":      List{Dict{"ip": "192.0.2.5", "port": int64(6881)}},
	})
	require.NoError(err)

	v, err := refbencode.Decode(bytes.NewReader(b))
	require.NoError(err)
	m, ok := v.(map[string]interface{})
	require.True(ok)
	require.Equal(int64(1), m["complete"])
	require.Equal(int64(60), m["interval"])
	peers, ok := m["peers"].([]interface{})
	require.True(ok)
	require.Len(peers, 1)
}
