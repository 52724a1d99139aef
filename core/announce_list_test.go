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

func TestNewAnnounceListWrapsBareStrings(t *testing.T) {
	require := require.New(t)

	l, err := NewAnnounceList("http://a", []string{"http://b", "http://c"}, "http://d")
	require.NoError(err)
	require.Equal(AnnounceList{
		{"http://a"},
		{"http://b", "http://c"},
		{"http://d"},
	}, l)

	_, err = NewAnnounceList(42)
	require.Error(err)
}

func TestAnnounceListFirst(t *testing.T) {
	require := require.New(t)

	l, err := NewAnnounceList([]string{"http://a", "http://b"}, "http://c")
	require.NoError(err)

	first, ok := l.First()
	require.True(ok)
	require.Equal("http://a", first)

	_, ok = AnnounceList{}.First()
	require.False(ok)

	_, ok = AnnounceList{{}}.First()
	require.False(ok)
}

func TestAnnounceListMergeDedupes(t *testing.T) {
	require := require.New(t)

	a, err := NewAnnounceList("http://a", "http://b")
	require.NoError(err)
	b, err := NewAnnounceList("http://b", "http://c")
	require.NoError(err)

	merged := a.Merge(b)
	require.Equal(AnnounceList{
		{"http://a"},
		{"http://b"},
		{"http://c"},
	}, merged)

	// Receiver tiers always come first.
	merged = b.Merge(a)
	require.Equal(AnnounceList{
		{"http://b"},
		{"http://c"},
		{"http://a"},
	}, merged)
}

func TestAnnounceListCopyIsIndependent(t *testing.T) {
	require := require.New(t)

	l, err := NewAnnounceList([]string{"http://a", "http://b"})
	require.NoError(err)

	c := l.Copy()
	c[0][0] = "http://mutated"
	require.Equal("http://a", l[0][0])
}
