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

// Package bencode implements a strict codec for the bencoding used by the
// BitTorrent metainfo format and the tracker protocol. Encoding is
// canonical: dictionary keys are always emitted in ascending byte order,
// which is what makes info hashes stable. Decoding rejects every
// non-canonical form it can detect.
package bencode

import "errors"

// ErrMalformedInput is returned when decoded input is not canonical
// bencode: truncated data, trailing garbage, non-minimal integers, or
// unsorted / duplicated dictionary keys.
var ErrMalformedInput = errors.New("malformed bencode input")

// ErrUnsupportedValue is returned when a value handed to Marshal has no
// bencode representation.
var ErrUnsupportedValue = errors.New("unsupported bencode value")

// Dict is a bencode dictionary. Insertion order is irrelevant; keys are
// sorted on encode.
type Dict map[string]interface{}

// List is an ordered sequence of bencode values.
type List []interface{}
