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
package trackerserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/remora-p2p/remora/core"
	"github.com/remora-p2p/remora/lib/bencode"
	"github.com/remora-p2p/remora/utils/testutil"

	"github.com/stretchr/testify/require"
)

func get(t *testing.T, url string) (int, []byte) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func announceURL(addr string, hash core.InfoHash, peerID core.PeerID) string {
	v := url.Values{}
	v.Set("info_hash", string(hash.Bytes()))
	v.Set("peer_id", string(peerID.Bytes()))
	v.Set("port", "6881")
	v.Set("uploaded", "0")
	v.Set("downloaded", "0")
	v.Set("left", "100")
	return fmt.Sprintf("http://%s/announce?%s", addr, v.Encode())
}

func TestHealth(t *testing.T) {
	require := require.New(t)

	server, _, cleanup := Fixture()
	defer cleanup()

	addr, stop := testutil.StartServer(server.Handler())
	defer stop()

	status, body := get(t, fmt.Sprintf("http://%s/health", addr))
	require.Equal(http.StatusOK, status)
	require.Equal("OK\n", string(body))
}

func TestAnnounceEndpoint(t *testing.T) {
	require := require.New(t)

	server, store, cleanup := Fixture()
	defer cleanup()

	addr, stop := testutil.StartServer(server.Handler())
	defer stop()

	torrent := core.TorrentFixture()
	require.NoError(store.SaveTorrent(torrent))

	status, body := get(t, announceURL(addr, torrent.InfoHash, core.PeerIDFixture()))
	require.Equal(http.StatusOK, status)

	v, err := bencode.Unmarshal(body)
	require.NoError(err)
	d := v.(bencode.Dict)
	require.Equal(int64(1), d["interval"])
	require.NotContains(d, "failure reason")
}

func TestAnnounceFailureIsStill200(t *testing.T) {
	require := require.New(t)

	server, _, cleanup := Fixture()
	defer cleanup()

	addr, stop := testutil.StartServer(server.Handler())
	defer stop()

	status, body := get(t, fmt.Sprintf("http://%s/announce", addr))
	require.Equal(http.StatusOK, status)

	v, err := bencode.Unmarshal(body)
	require.NoError(err)
	d := v.(bencode.Dict)
	require.Contains(d, "failure reason")
}

func TestScrapeEndpoint(t *testing.T) {
	require := require.New(t)

	server, store, cleanup := Fixture()
	defer cleanup()

	addr, stop := testutil.StartServer(server.Handler())
	defer stop()

	torrent := core.TorrentFixture()
	require.NoError(store.SaveTorrent(torrent))

	v := url.Values{}
	v.Set("info_hash", string(torrent.InfoHash.Bytes()))
	status, body := get(t, fmt.Sprintf("http://%s/scrape?%s", addr, v.Encode()))
	require.Equal(http.StatusOK, status)

	decoded, err := bencode.Unmarshal(body)
	require.NoError(err)
	files := decoded.(bencode.Dict)["files"].(bencode.Dict)
	require.Contains(files, string(torrent.InfoHash.Bytes()))
}

func TestListTorrents(t *testing.T) {
	require := require.New(t)

	server, store, cleanup := Fixture()
	defer cleanup()

	addr, stop := testutil.StartServer(server.Handler())
	defer stop()

	t1 := core.TorrentFixture()
	t2 := core.TorrentFixture()
	require.NoError(store.SaveTorrent(t1))
	require.NoError(store.SaveTorrent(t2))

	status, body := get(t, fmt.Sprintf("http://%s/torrents", addr))
	require.Equal(http.StatusOK, status)

	var entries []TorrentListEntry
	require.NoError(json.Unmarshal(body, &entries))
	require.Len(entries, 2)

	hashes := map[string]int64{}
	for _, e := range entries {
		hashes[e.InfoHash] = e.Length
	}
	require.Equal(t1.Length, hashes[t1.InfoHash.Hex()])
	require.Equal(t2.Length, hashes[t2.InfoHash.Hex()])
}

func TestGetTorrent(t *testing.T) {
	require := require.New(t)

	server, store, cleanup := Fixture()
	defer cleanup()

	addr, stop := testutil.StartServer(server.Handler())
	defer stop()

	torrent := core.TorrentFixture()
	require.NoError(store.SaveTorrent(torrent))

	status, body := get(t, fmt.Sprintf("http://%s/torrents/%s", addr, torrent.InfoHash.Hex()))
	require.Equal(http.StatusOK, status)

	var resp TorrentResponse
	require.NoError(json.Unmarshal(body, &resp))
	require.Equal(torrent.InfoHash.Hex(), resp.InfoHash)
	require.Equal(torrent.Name, resp.Name)
	require.Equal(torrent.NumPieces(), resp.NumPieces)

	status, _ = get(t, fmt.Sprintf("http://%s/torrents/%s", addr, core.InfoHashFixture().Hex()))
	require.Equal(http.StatusNotFound, status)

	status, _ = get(t, fmt.Sprintf("http://%s/torrents/nothex", addr))
	require.Equal(http.StatusBadRequest, status)
}
