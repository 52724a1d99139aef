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
	"fmt"

	"github.com/andres-erbsen/clock"
)

// Config defines storage configuration. Torrent records always live in
// SQLite; peer rows may be offloaded to Redis, which fits their churn and
// TTL semantics better under heavy swarms.
type Config struct {
	PeerBackend string       `yaml:"peer_backend"`
	SQLite      SQLiteConfig `yaml:"sqlite"`
	Redis       RedisConfig  `yaml:"redis"`
}

type composedStore struct {
	TorrentStore
	PeerStore
}

// New creates the configured Store.
func New(config Config, clk clock.Clock) (Store, error) {
	sqlite, err := NewSQLiteStore(config.SQLite, clk)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: %s", err)
	}
	switch config.PeerBackend {
	case "", "sqlite":
		return sqlite, nil
	case "redis":
		peers, err := NewRedisPeerStore(config.Redis, clk)
		if err != nil {
			return nil, fmt.Errorf("redis peer storage: %s", err)
		}
		return &composedStore{sqlite, peers}, nil
	default:
		return nil, fmt.Errorf("invalid peer backend: %q", config.PeerBackend)
	}
}
