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
package protocol

import "time"

// Config defines protocol handler configuration.
type Config struct {
	// AnnounceInterval is the polling interval handed to clients. Peer
	// rows live for twice this long.
	AnnounceInterval time.Duration `yaml:"announce_interval"`

	// DefaultIP, when set, overrides the transport remote address for
	// peers that do not send an ip parameter.
	DefaultIP string `yaml:"default_ip"`

	// CompactDefault selects the compact peer list encoding for requests
	// that do not send a compact parameter.
	CompactDefault bool `yaml:"compact_default"`
}

func (c Config) applyDefaults() Config {
	if c.AnnounceInterval == 0 {
		c.AnnounceInterval = time.Minute
	}
	return c
}
