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

// Package storage owns torrent and peer records. Everything else in the
// tracker reads them through the Store interface.
package storage

import (
	"errors"
	"net"
	"time"

	"github.com/remora-p2p/remora/core"
)

// ErrNotFound is returned when a torrent does not exist.
var ErrNotFound = errors.New("torrent not found")

// Peer status column values.
const (
	PeerComplete   = "complete"
	PeerIncomplete = "incomplete"
)

// DefaultAnnounceTTL is applied when an announce carries no TTL.
const DefaultAnnounceTTL = 365 * 24 * time.Hour

// Announce is one peer's upsert row, keyed by (InfoHash, PeerID).
type Announce struct {
	InfoHash        core.InfoHash
	PeerID          core.PeerID
	IP              net.IP
	Port            int
	BytesUploaded   int64
	BytesDownloaded int64
	BytesLeft       int64

	// Status is nil-preserving: nil keeps whatever status the row already
	// has, falling back to incomplete for a new row.
	Status *string

	// TTL bounds the peer's liveness. nil applies DefaultAnnounceTTL;
	// zero expires the peer immediately.
	TTL *time.Duration
}

// TorrentEntry is a row of the active-torrent listing.
type TorrentEntry struct {
	InfoHash core.InfoHash
	Length   int64
}

// TorrentStore provides storage for torrent records.
type TorrentStore interface {

	// SaveTorrent inserts or replaces t, keyed by info hash.
	SaveTorrent(t *core.Torrent) error

	// GetTorrent returns the record for h regardless of status, or
	// ErrNotFound.
	GetTorrent(h core.InfoHash) (*core.Torrent, error)

	// HasTorrent returns whether h identifies an active torrent.
	HasTorrent(h core.InfoHash) (bool, error)

	// ListTorrents lists all active torrents.
	ListTorrents() ([]*TorrentEntry, error)
}

// PeerStore provides storage for announcing peers.
type PeerStore interface {

	// SaveAnnounce upserts a peer row.
	SaveAnnounce(a *Announce) error

	// GetPeers returns the live peers of h, excluding the caller.
	GetPeers(h core.InfoHash, exclude core.PeerID) ([]*core.PeerInfo, error)

	// GetPeerStats counts the live peers of h by completeness.
	GetPeerStats(h core.InfoHash) (core.PeerStats, error)

	// GetDownloads returns the lifetime count of peers of h that reached
	// complete status. Expired peers still count.
	GetDownloads(h core.InfoHash) (int64, error)

	// ResetAfterFork drops and re-establishes any per-process driver
	// connection. Pre-fork deployments must call it in the child before
	// the first query.
	ResetAfterFork() error
}

// Store provides a combined interface for all stores.
type Store interface {
	TorrentStore
	PeerStore
}
