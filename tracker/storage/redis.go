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
	"errors"
	"fmt"
	"time"

	"github.com/remora-p2p/remora/core"

	"github.com/andres-erbsen/clock"
	"github.com/gomodule/redigo/redis"
)

// RedisConfig defines RedisPeerStore configuration.
type RedisConfig struct {
	Addr            string        `yaml:"addr"`
	DialTimeout     time.Duration `yaml:"dial_timeout"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	MaxActiveConns  int           `yaml:"max_active_conns"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

func (c RedisConfig) applyDefaults() RedisConfig {
	if c.DialTimeout == 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = 10
	}
	if c.MaxActiveConns == 0 {
		c.MaxActiveConns = 500
	}
	if c.IdleConnTimeout == 0 {
		c.IdleConnTimeout = 60 * time.Second
	}
	return c
}

// RedisPeerStore implements PeerStore on Redis. Peer rows live in per-peer
// hashes whose key expiry carries the announce TTL; the swarm membership
// set and the lifetime completion set never expire and are compacted
// lazily on read.
type RedisPeerStore struct {
	config RedisConfig
	pool   *redis.Pool
	clk    clock.Clock
}

// NewRedisPeerStore creates a new RedisPeerStore.
func NewRedisPeerStore(config RedisConfig, clk clock.Clock) (*RedisPeerStore, error) {
	config = config.applyDefaults()
	if config.Addr == "" {
		return nil, errors.New("invalid config: missing addr")
	}
	s := &RedisPeerStore{
		config: config,
		pool:   newRedisPool(config),
		clk:    clk,
	}
	// Ensure we can connect.
	c, err := s.pool.Dial()
	if err != nil {
		return nil, fmt.Errorf("dial redis: %s", err)
	}
	c.Close()
	return s, nil
}

func newRedisPool(config RedisConfig) *redis.Pool {
	return &redis.Pool{
		Dial: func() (redis.Conn, error) {
			return redis.Dial(
				"tcp",
				config.Addr,
				redis.DialConnectTimeout(config.DialTimeout),
				redis.DialReadTimeout(config.ReadTimeout),
				redis.DialWriteTimeout(config.WriteTimeout))
		},
		MaxIdle:     config.MaxIdleConns,
		MaxActive:   config.MaxActiveConns,
		IdleTimeout: config.IdleConnTimeout,
		Wait:        true,
	}
}

// Close releases the connection pool.
func (s *RedisPeerStore) Close() error {
	return s.pool.Close()
}

// ResetAfterFork implements PeerStore. The inherited pool shares sockets
// with the parent process and must not be reused.
func (s *RedisPeerStore) ResetAfterFork() error {
	old := s.pool
	s.pool = newRedisPool(s.config)
	return old.Close()
}

func peerKey(h core.InfoHash, p core.PeerID) string {
	return fmt.Sprintf("peer:%s:%s", h, p)
}

func swarmKey(h core.InfoHash) string {
	return fmt.Sprintf("swarm:%s", h)
}

func completionsKey(h core.InfoHash) string {
	return fmt.Sprintf("completions:%s", h)
}

// SaveAnnounce implements PeerStore.
func (s *RedisPeerStore) SaveAnnounce(a *Announce) error {
	c := s.pool.Get()
	defer c.Close()

	key := peerKey(a.InfoHash, a.PeerID)

	c.Send("MULTI")
	c.Send("HMSET", key,
		"ip", string(core.PackIP(a.IP)),
		"port", a.Port,
		"bytes_uploaded", a.BytesUploaded,
		"bytes_downloaded", a.BytesDownloaded,
		"bytes_left", a.BytesLeft)
	// Initialize status for new rows only; an explicit status overwrites.
	c.Send("HSETNX", key, "status", PeerIncomplete)
	if a.Status != nil {
		c.Send("HSET", key, "status", *a.Status)
		if *a.Status == PeerComplete {
			c.Send("SADD", completionsKey(a.InfoHash), a.PeerID.String())
		}
	}
	ttl := DefaultAnnounceTTL
	if a.TTL != nil {
		ttl = *a.TTL
	}
	if ttl <= 0 {
		c.Send("DEL", key)
	} else {
		c.Send("PEXPIRE", key, int64(ttl/time.Millisecond))
	}
	c.Send("SADD", swarmKey(a.InfoHash), a.PeerID.String())
	if _, err := c.Do("EXEC"); err != nil {
		return fmt.Errorf("exec announce: %s", err)
	}
	return nil
}

type redisPeerRow struct {
	id       core.PeerID
	info     *core.PeerInfo
	complete bool
}

// livePeers loads all live peer rows of h, removing stale membership
// entries as it goes.
func (s *RedisPeerStore) livePeers(c redis.Conn, h core.InfoHash) ([]*redisPeerRow, error) {
	ids, err := redis.Strings(c.Do("SMEMBERS", swarmKey(h)))
	if err != nil {
		return nil, fmt.Errorf("swarm members: %s", err)
	}
	var rows []*redisPeerRow
	for _, id := range ids {
		peerID, err := core.NewPeerID(id)
		if err != nil {
			return nil, fmt.Errorf("corrupt peer id %q: %s", id, err)
		}
		m, err := redis.StringMap(c.Do("HGETALL", peerKey(h, peerID)))
		if err != nil {
			return nil, fmt.Errorf("peer row: %s", err)
		}
		if len(m) == 0 {
			// Row expired; drop the membership entry.
			c.Do("SREM", swarmKey(h), id)
			continue
		}
		ip, err := core.UnpackIP([]byte(m["ip"]))
		if err != nil {
			return nil, fmt.Errorf("corrupt peer ip: %s", err)
		}
		var port int
		fmt.Sscanf(m["port"], "%d", &port)
		rows = append(rows, &redisPeerRow{
			id:       peerID,
			info:     core.NewPeerInfo(peerID, ip, port),
			complete: m["bytes_left"] == "0",
		})
	}
	return rows, nil
}

// GetPeers implements PeerStore.
func (s *RedisPeerStore) GetPeers(h core.InfoHash, exclude core.PeerID) ([]*core.PeerInfo, error) {
	c := s.pool.Get()
	defer c.Close()

	rows, err := s.livePeers(c, h)
	if err != nil {
		return nil, err
	}
	var peers []*core.PeerInfo
	for _, r := range rows {
		if r.id == exclude {
			continue
		}
		peers = append(peers, r.info)
	}
	return peers, nil
}

// GetPeerStats implements PeerStore.
func (s *RedisPeerStore) GetPeerStats(h core.InfoHash) (core.PeerStats, error) {
	c := s.pool.Get()
	defer c.Close()

	rows, err := s.livePeers(c, h)
	if err != nil {
		return core.PeerStats{}, err
	}
	var stats core.PeerStats
	for _, r := range rows {
		if r.complete {
			stats.Complete++
		} else {
			stats.Incomplete++
		}
	}
	return stats, nil
}

// GetDownloads implements PeerStore. The completion set has no expiry, so
// this is a lifetime counter.
func (s *RedisPeerStore) GetDownloads(h core.InfoHash) (int64, error) {
	c := s.pool.Get()
	defer c.Close()

	n, err := redis.Int64(c.Do("SCARD", completionsKey(h)))
	if err != nil {
		return 0, fmt.Errorf("completions: %s", err)
	}
	return n, nil
}
