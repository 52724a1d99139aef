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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPeerIDStringRoundTrip(t *testing.T) {
	require := require.New(t)

	p := PeerIDFixture()
	parsed, err := NewPeerID(p.String())
	require.NoError(err)
	require.Equal(p, parsed)
}

func TestNewPeerIDFromRawLength(t *testing.T) {
	require := require.New(t)

	_, err := NewPeerIDFromRaw(make([]byte, 19))
	require.ErrorIs(err, ErrInvalidPeerIDLength)

	_, err = NewPeerIDFromRaw(make([]byte, 20))
	require.NoError(err)
}

func TestPeerIDLessThan(t *testing.T) {
	require := require.New(t)

	a, err := NewPeerIDFromRaw([]byte("aaaaaaaaaaaaaaaaaaaa"))
	require.NoError(err)
	b, err := NewPeerIDFromRaw([]byte("bbbbbbbbbbbbbbbbbbbb"))
	require.NoError(err)

	require.True(a.LessThan(b))
	require.False(b.LessThan(a))
	require.False(a.LessThan(a))
}

func TestRandomPeerIDsDiffer(t *testing.T) {
	require := require.New(t)

	p1, err := RandomPeerID()
	require.NoError(err)
	p2, err := RandomPeerID()
	require.NoError(err)
	require.NotEqual(p1, p2)
}
