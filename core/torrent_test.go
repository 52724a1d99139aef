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

func TestTorrentFixtureIsValid(t *testing.T) {
	require := require.New(t)

	torrent := TorrentFixture()
	require.NoError(torrent.Validate())
	require.Equal(TorrentActive, torrent.Status)
}

func TestSizedTorrentFixtureGeometry(t *testing.T) {
	require := require.New(t)

	torrent := SizedTorrentFixture(1000, 300)
	require.NoError(torrent.Validate())
	require.Equal(4, torrent.NumPieces())
}

func TestTorrentValidateErrors(t *testing.T) {
	tests := []struct {
		desc   string
		mutate func(t *Torrent)
	}{
		{"zero piece length", func(t *Torrent) { t.PieceLength = 0 }},
		{"ragged pieces", func(t *Torrent) { t.Pieces = t.Pieces[:len(t.Pieces)-1] }},
		{"missing piece hash", func(t *Torrent) { t.Pieces = t.Pieces[:len(t.Pieces)-20] }},
		{"surplus piece hash", func(t *Torrent) {
			t.Pieces = append(t.Pieces, make([]byte, 20)...)
		}},
	}
	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			torrent := TorrentFixture()
			test.mutate(torrent)
			require.Error(t, torrent.Validate())
		})
	}
}
