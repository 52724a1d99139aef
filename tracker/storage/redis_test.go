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
package storage

import (
	"testing"
	"time"

	"github.com/remora-p2p/remora/core"

	"github.com/alicebob/miniredis"
	"github.com/andres-erbsen/clock"
	"github.com/stretchr/testify/require"
)

func redisPeerStoreFixture(t *testing.T) (*RedisPeerStore, *miniredis.Miniredis) {
	t.Helper()
	m, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	s, err := NewRedisPeerStore(RedisConfig{Addr: m.Addr()}, clock.NewMock())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s, m
}

func TestRedisSaveAnnounceAndGetPeers(t *testing.T) {
	require := require.New(t)

	s, _ := redisPeerStoreFixture(t)

	h := core.InfoHashFixture()
	a := announceFixture(h, 512)
	require.NoError(s.SaveAnnounce(a))

	peers, err := s.GetPeers(h, core.PeerIDFixture())
	require.NoError(err)
	require.Len(peers, 1)
	require.Equal(a.PeerID, peers[0].PeerID)
	require.Equal("192.0.2.5", peers[0].IP.String())
	require.Equal(6881, peers[0].Port)

	peers, err = s.GetPeers(h, a.PeerID)
	require.NoError(err)
	require.Empty(peers)
}

func TestRedisPeerExpiry(t *testing.T) {
	require := require.New(t)

	s, m := redisPeerStoreFixture(t)

	h := core.InfoHashFixture()
	a := announceFixture(h, 512)
	require.NoError(s.SaveAnnounce(a))

	m.FastForward(3 * time.Minute)

	peers, err := s.GetPeers(h, core.PeerIDFixture())
	require.NoError(err)
	require.Empty(peers)

	stats, err := s.GetPeerStats(h)
	require.NoError(err)
	require.Equal(core.PeerStats{}, stats)
}

func TestRedisZeroTTLExpiresImmediately(t *testing.T) {
	require := require.New(t)

	s, _ := redisPeerStoreFixture(t)

	h := core.InfoHashFixture()
	a := announceFixture(h, 512)
	a.TTL = ttlptr(0)
	require.NoError(s.SaveAnnounce(a))

	peers, err := s.GetPeers(h, core.PeerIDFixture())
	require.NoError(err)
	require.Empty(peers)
}

func TestRedisPeerStats(t *testing.T) {
	require := require.New(t)

	s, _ := redisPeerStoreFixture(t)

	h := core.InfoHashFixture()
	require.NoError(s.SaveAnnounce(announceFixture(h, 0)))
	require.NoError(s.SaveAnnounce(announceFixture(h, 2048)))
	require.NoError(s.SaveAnnounce(announceFixture(h, 2048)))

	stats, err := s.GetPeerStats(h)
	require.NoError(err)
	require.Equal(core.PeerStats{Complete: 1, Incomplete: 2}, stats)
}

func TestRedisStatusDoesNotRegress(t *testing.T) {
	require := require.New(t)

	s, _ := redisPeerStoreFixture(t)

	h := core.InfoHashFixture()
	a := announceFixture(h, 0)
	a.Status = strptr(PeerComplete)
	require.NoError(s.SaveAnnounce(a))

	a.Status = nil
	require.NoError(s.SaveAnnounce(a))

	n, err := s.GetDownloads(h)
	require.NoError(err)
	require.Equal(int64(1), n)
}

func TestRedisDownloadsSurviveExpiry(t *testing.T) {
	require := require.New(t)

	s, m := redisPeerStoreFixture(t)

	h := core.InfoHashFixture()
	a := announceFixture(h, 0)
	a.Status = strptr(PeerComplete)
	require.NoError(s.SaveAnnounce(a))

	m.FastForward(3 * time.Minute)

	stats, err := s.GetPeerStats(h)
	require.NoError(err)
	require.Equal(core.PeerStats{}, stats)

	n, err := s.GetDownloads(h)
	require.NoError(err)
	require.Equal(int64(1), n)
}
