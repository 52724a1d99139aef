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
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"time"
)

// Marshal returns the canonical bencoding of v.
//
// Supported values: all signed and unsigned integer kinds, string, []byte,
// time.Duration (encoded as whole seconds), Dict and map[string]interface{}
// (keys sorted by unsigned byte comparison), List and any slice or array of
// supported values. Anything else fails with ErrUnsupportedValue.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshal(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshal(buf *bytes.Buffer, data interface{}) error {
	switch v := data.(type) {
	case []byte:
		marshalBytes(buf, v)
	case string:
		marshalBytes(buf, []byte(v))
	case int:
		marshalInt(buf, int64(v))
	case int8:
		marshalInt(buf, int64(v))
	case int16:
		marshalInt(buf, int64(v))
	case int32:
		marshalInt(buf, int64(v))
	case int64:
		marshalInt(buf, v)
	case uint:
		marshalUint(buf, uint64(v))
	case uint16:
		marshalUint(buf, uint64(v))
	case uint32:
		marshalUint(buf, uint64(v))
	case uint64:
		marshalUint(buf, v)
	case time.Duration:
		// Durations travel as whole seconds, e.g. the announce interval.
		marshalInt(buf, int64(v/time.Second))
	case Dict:
		return marshalDict(buf, v)
	case map[string]interface{}:
		return marshalDict(buf, v)
	case List:
		return marshalList(buf, v)
	case []interface{}:
		return marshalList(buf, v)
	default:
		return marshalReflect(buf, data)
	}
	return nil
}

// marshalReflect covers concrete slice types ([]string, [][]string,
// []Dict, ...) without enumerating them.
func marshalReflect(buf *bytes.Buffer, data interface{}) error {
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		buf.WriteByte('l')
		for i := 0; i < rv.Len(); i++ {
			if err := marshal(buf, rv.Index(i).Interface()); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, data)
	}
}

func marshalInt(buf *bytes.Buffer, n int64) {
	buf.WriteByte('i')
	buf.WriteString(strconv.FormatInt(n, 10))
	buf.WriteByte('e')
}

func marshalUint(buf *bytes.Buffer, n uint64) {
	buf.WriteByte('i')
	buf.WriteString(strconv.FormatUint(n, 10))
	buf.WriteByte('e')
}

func marshalBytes(buf *bytes.Buffer, b []byte) {
	buf.WriteString(strconv.Itoa(len(b)))
	buf.WriteByte(':')
	buf.Write(b)
}

func marshalDict(buf *bytes.Buffer, d map[string]interface{}) error {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	// Go string ordering is unsigned byte comparison, exactly the ordering
	// the metainfo format requires.
	sort.Strings(keys)

	buf.WriteByte('d')
	for _, k := range keys {
		marshalBytes(buf, []byte(k))
		if err := marshal(buf, d[k]); err != nil {
			return err
		}
	}
	buf.WriteByte('e')
	return nil
}

func marshalList(buf *bytes.Buffer, l []interface{}) error {
	buf.WriteByte('l')
	for _, v := range l {
		if err := marshal(buf, v); err != nil {
			return err
		}
	}
	buf.WriteByte('e')
	return nil
}
