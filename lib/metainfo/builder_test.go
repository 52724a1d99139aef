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
package metainfo

import (
	"crypto/sha1"
	"os"
	"path/filepath"
	"testing"

	"github.com/remora-p2p/remora/core"
	"github.com/remora-p2p/remora/lib/bencode"
	"github.com/remora-p2p/remora/lib/fileslice"
	"github.com/remora-p2p/remora/utils/randutil"

	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestNewBuilderInvalidPieceSize(t *testing.T) {
	require := require.New(t)

	path := tempFile(t, "blob", randutil.Text(64))

	_, err := NewBuilder(path, 0)
	require.ErrorIs(err, fileslice.ErrInvalidPieceSize)

	_, err = NewBuilder(path, -512)
	require.ErrorIs(err, fileslice.ErrInvalidPieceSize)
}

func TestBuilderDerivesLazily(t *testing.T) {
	require := require.New(t)

	content := randutil.Text(2500)
	path := tempFile(t, "movie.avi", content)

	b, err := NewBuilder(path, 1024)
	require.NoError(err)
	require.Equal("movie.avi", b.Name())
	require.Equal(int64(2500), b.Length())
	require.Equal(int64(3), b.NumPieces())

	pieces, err := b.Pieces()
	require.NoError(err)
	require.Len(pieces, 60)

	last := sha1.Sum(content[2048:])
	require.Equal(last[:], pieces[40:])
}

func TestInfoHashMatchesEncodedInfoDict(t *testing.T) {
	require := require.New(t)

	path := tempFile(t, "blob", randutil.Text(1000))
	b, err := NewBuilder(path, 256)
	require.NoError(err)

	h, err := b.InfoHash()
	require.NoError(err)

	pieces, err := b.Pieces()
	require.NoError(err)
	encoded, err := bencode.Marshal(bencode.Dict{
		"length":       int64(1000),
		"name":         "blob",
		"piece length": int64(256),
		"pieces":       pieces,
	})
	require.NoError(err)
	require.Equal(core.NewInfoHashFromBytes(encoded), h)
}

func TestInfoHashIndependentOfAnnounceList(t *testing.T) {
	require := require.New(t)

	path := tempFile(t, "blob", randutil.Text(1000))

	b1, err := NewBuilder(path, 256)
	require.NoError(err)
	b2, err := NewBuilder(path, 256,
		WithAnnounceList(core.AnnounceList{{"http://tr.example.com/announce"}}))
	require.NoError(err)

	h1, err := b1.InfoHash()
	require.NoError(err)
	h2, err := b2.InfoHash()
	require.NoError(err)
	require.Equal(h1, h2)
}

func TestPrivateChangesInfoHash(t *testing.T) {
	require := require.New(t)

	path := tempFile(t, "blob", randutil.Text(1000))

	b1, err := NewBuilder(path, 256)
	require.NoError(err)
	b2, err := NewBuilder(path, 256, WithPrivate())
	require.NoError(err)

	h1, err := b1.InfoHash()
	require.NoError(err)
	h2, err := b2.InfoHash()
	require.NoError(err)
	require.NotEqual(h1, h2)
}

func TestTorrentBlob(t *testing.T) {
	require := require.New(t)

	path := tempFile(t, "blob", randutil.Text(512))
	b, err := NewBuilder(path, 256,
		WithAnnounceList(core.AnnounceList{{"http://a/announce"}}),
		WithURLList([]string{"http://seed/blob"}),
		WithCreatedBy("remora"))
	require.NoError(err)

	blob, err := b.TorrentBlob(core.AnnounceList{
		{"http://b/announce", "http://a/announce"},
		{"http://c/announce"},
	})
	require.NoError(err)

	v, err := bencode.Unmarshal(blob)
	require.NoError(err)
	d, ok := v.(bencode.Dict)
	require.True(ok)

	// Internal list first, duplicates dropped, order preserved.
	require.Equal("http://a/announce", d["announce"])
	require.Equal(bencode.List{
		bencode.List{"http://a/announce"},
		bencode.List{"http://b/announce"},
		bencode.List{"http://c/announce"},
	}, d["announce-list"])
	require.Equal(bencode.List{"http://seed/blob"}, d["url-list"])
	require.Equal("remora", d["created by"])

	info, ok := d["info"].(bencode.Dict)
	require.True(ok)
	require.Equal(int64(512), info["length"])
	require.Equal("blob", info["name"])
	require.Equal(int64(256), info["piece length"])
}

func TestTorrentBlobRequiresTracker(t *testing.T) {
	require := require.New(t)

	path := tempFile(t, "blob", randutil.Text(64))
	b, err := NewBuilder(path, 64)
	require.NoError(err)

	_, err = b.TorrentBlob(nil)
	require.ErrorIs(err, ErrNoTrackers)
}

func TestReadBlockGeometry(t *testing.T) {
	require := require.New(t)

	content := randutil.Text(700)
	path := tempFile(t, "blob", content)
	b, err := NewBuilder(path, 256)
	require.NoError(err)

	blk, err := b.ReadBlock(1, 16, 32)
	require.NoError(err)
	require.Equal(content[272:304], blk)

	_, err = b.ReadBlock(3, 0, 1)
	require.ErrorIs(err, fileslice.ErrBlockOutOfRange)

	_, err = b.ReadBlock(0, 200, 100)
	require.ErrorIs(err, fileslice.ErrBlockOutOfRange)

	// Within piece geometry but past end of file.
	_, err = b.ReadBlock(2, 188, 64)
	require.ErrorIs(err, fileslice.ErrBlockOutOfRange)
}

func TestRecord(t *testing.T) {
	require := require.New(t)

	path := tempFile(t, "blob", randutil.Text(1000))
	b, err := NewBuilder(path, 256,
		WithAnnounceList(core.AnnounceList{{"http://a/announce"}}),
		WithCreatedBy("remora"))
	require.NoError(err)

	rec, err := b.Record()
	require.NoError(err)
	require.NoError(rec.Validate())
	require.Equal(core.TorrentActive, rec.Status)
	require.Equal("blob", rec.Name)
	require.Equal(int64(1000), rec.Length)
	require.Equal(int64(256), rec.PieceLength)
	require.Equal(4, rec.NumPieces())
	require.True(filepath.IsAbs(rec.Path))

	h, err := b.InfoHash()
	require.NoError(err)
	require.Equal(h, rec.InfoHash)
}
