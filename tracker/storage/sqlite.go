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
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"

	"github.com/remora-p2p/remora/core"
	"github.com/remora-p2p/remora/lib/bencode"
	_ "github.com/remora-p2p/remora/tracker/storage/migrations" // Registers migrations.
	"github.com/remora-p2p/remora/utils/log"
	"github.com/remora-p2p/remora/utils/osutil"

	"github.com/andres-erbsen/clock"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // SQL driver.
	"github.com/pressly/goose"
)

// SQLiteConfig defines SQLiteStore configuration.
type SQLiteConfig struct {
	Source string `yaml:"source"`
}

func (c SQLiteConfig) applyDefaults() SQLiteConfig {
	if c.Source == "" {
		c.Source = "remora.db"
	}
	return c
}

// SQLiteStore implements Store on a locally embedded SQLite database.
type SQLiteStore struct {
	config SQLiteConfig
	clk    clock.Clock

	mu sync.Mutex
	db *sqlx.DB
}

// NewSQLiteStore creates a new SQLiteStore, running any pending schema
// migrations.
func NewSQLiteStore(config SQLiteConfig, clk clock.Clock) (*SQLiteStore, error) {
	config = config.applyDefaults()
	if err := osutil.EnsureFilePresent(config.Source); err != nil {
		return nil, fmt.Errorf("ensure db source present: %s", err)
	}
	db, err := openSQLite(config.Source)
	if err != nil {
		return nil, err
	}
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("set dialect as sqlite3: %s", err)
	}
	if err := goose.Up(db.DB, "."); err != nil {
		return nil, fmt.Errorf("perform db migration: %s", err)
	}
	return &SQLiteStore{config: config, clk: clk, db: db}, nil
}

func openSQLite(source string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite3", source)
	if err != nil {
		return nil, fmt.Errorf("open sqlite3: %s", err)
	}
	// SQLite has concurrency issues where queries result in error if more
	// than one connection is accessing a table.
	db.SetMaxOpenConns(1)
	return db, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// ResetAfterFork drops the inherited driver connection and dials a fresh
// one. Required in the child of a pre-fork deployment; a fork shares the
// parent's socket state otherwise.
func (s *SQLiteStore) ResetAfterFork() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		log.Warnf("Error closing inherited db handle: %s", err)
	}
	db, err := openSQLite(s.config.Source)
	if err != nil {
		return err
	}
	s.db = db
	return nil
}

func (s *SQLiteStore) handle() *sqlx.DB {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db
}

// withRetry runs f and, on a lost driver connection, reconnects and
// retries exactly once. Any second failure propagates.
func (s *SQLiteStore) withRetry(f func(db *sqlx.DB) error) error {
	err := f(s.handle())
	if err == nil || !errors.Is(err, driver.ErrBadConn) {
		return err
	}
	log.Warnf("Lost db connection, reconnecting: %s", err)
	if err := s.ResetAfterFork(); err != nil {
		return fmt.Errorf("reconnect: %s", err)
	}
	return f(s.handle())
}

type torrentRow struct {
	InfoHash     []byte `db:"info_hash"`
	Name         string `db:"name"`
	Path         string `db:"path"`
	Length       int64  `db:"length"`
	PieceLength  int64  `db:"piece_length"`
	Pieces       []byte `db:"pieces"`
	AnnounceList []byte `db:"announce_list"`
	URLList      []byte `db:"url_list"`
	Nodes        []byte `db:"nodes"`
	CreatedBy    string `db:"created_by"`
	Private      bool   `db:"private"`
	Status       string `db:"status"`
}

// SaveTorrent implements TorrentStore.
func (s *SQLiteStore) SaveTorrent(t *core.Torrent) error {
	row, err := newTorrentRow(t)
	if err != nil {
		return err
	}
	return s.withRetry(func(db *sqlx.DB) error {
		_, err := db.NamedExec(`
			INSERT INTO torrents (
				info_hash, name, path, length, piece_length, pieces,
				announce_list, url_list, nodes, created_by, private, status
			) VALUES (
				:info_hash, :name, :path, :length, :piece_length, :pieces,
				:announce_list, :url_list, :nodes, :created_by, :private, :status
			) ON CONFLICT (info_hash) DO UPDATE SET
				name = excluded.name,
				path = excluded.path,
				length = excluded.length,
				piece_length = excluded.piece_length,
				pieces = excluded.pieces,
				announce_list = excluded.announce_list,
				url_list = excluded.url_list,
				nodes = excluded.nodes,
				created_by = excluded.created_by,
				private = excluded.private,
				status = excluded.status
		`, row)
		return err
	})
}

// GetTorrent implements TorrentStore.
func (s *SQLiteStore) GetTorrent(h core.InfoHash) (*core.Torrent, error) {
	var row torrentRow
	err := s.withRetry(func(db *sqlx.DB) error {
		return db.Get(&row, `
			SELECT info_hash, name, path, length, piece_length, pieces,
				announce_list, url_list, nodes, created_by, private, status
			FROM torrents WHERE info_hash = ?
		`, h.Bytes())
	})
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toTorrent()
}

// HasTorrent implements TorrentStore. Only active torrents count.
func (s *SQLiteStore) HasTorrent(h core.InfoHash) (bool, error) {
	var n int
	err := s.withRetry(func(db *sqlx.DB) error {
		return db.Get(&n, `
			SELECT COUNT(*) FROM torrents WHERE info_hash = ? AND status = ?
		`, h.Bytes(), string(core.TorrentActive))
	})
	return n > 0, err
}

// ListTorrents implements TorrentStore.
func (s *SQLiteStore) ListTorrents() ([]*TorrentEntry, error) {
	var rows []struct {
		InfoHash []byte `db:"info_hash"`
		Length   int64  `db:"length"`
	}
	err := s.withRetry(func(db *sqlx.DB) error {
		return db.Select(&rows, `
			SELECT info_hash, length FROM torrents WHERE status = ?
			ORDER BY name
		`, string(core.TorrentActive))
	})
	if err != nil {
		return nil, err
	}
	var entries []*TorrentEntry
	for _, r := range rows {
		h, err := core.NewInfoHashFromRaw(r.InfoHash)
		if err != nil {
			return nil, fmt.Errorf("corrupt info hash: %s", err)
		}
		entries = append(entries, &TorrentEntry{InfoHash: h, Length: r.Length})
	}
	return entries, nil
}

// SaveAnnounce implements PeerStore. The peer's expiry is computed from
// the announce TTL against the store clock; a nil status preserves any
// existing status so a completed peer never regresses.
func (s *SQLiteStore) SaveAnnounce(a *Announce) error {
	ttl := DefaultAnnounceTTL
	if a.TTL != nil {
		ttl = *a.TTL
	}
	expires := s.clk.Now().Add(ttl).Unix()

	var status sql.NullString
	if a.Status != nil {
		status = sql.NullString{String: *a.Status, Valid: true}
	}
	args := map[string]interface{}{
		"info_hash":        a.InfoHash.Bytes(),
		"peer_id":          a.PeerID.Bytes(),
		"ip":               core.PackIP(a.IP),
		"port":             a.Port,
		"bytes_uploaded":   a.BytesUploaded,
		"bytes_downloaded": a.BytesDownloaded,
		"bytes_left":       a.BytesLeft,
		"status":           status,
		"expires":          expires,
	}
	return s.withRetry(func(db *sqlx.DB) error {
		_, err := db.NamedExec(`
			INSERT INTO peers (
				info_hash, peer_id, ip, port,
				bytes_uploaded, bytes_downloaded, bytes_left, status, expires
			) VALUES (
				:info_hash, :peer_id, :ip, :port,
				:bytes_uploaded, :bytes_downloaded, :bytes_left,
				COALESCE(:status, 'incomplete'), :expires
			) ON CONFLICT (info_hash, peer_id) DO UPDATE SET
				ip = excluded.ip,
				port = excluded.port,
				bytes_uploaded = excluded.bytes_uploaded,
				bytes_downloaded = excluded.bytes_downloaded,
				bytes_left = excluded.bytes_left,
				status = COALESCE(:status, peers.status),
				expires = excluded.expires
		`, args)
		return err
	})
}

// GetPeers implements PeerStore. Eviction is lazy: expired rows are
// filtered here rather than deleted by a sweeper.
func (s *SQLiteStore) GetPeers(h core.InfoHash, exclude core.PeerID) ([]*core.PeerInfo, error) {
	var rows []struct {
		PeerID []byte `db:"peer_id"`
		IP     []byte `db:"ip"`
		Port   int    `db:"port"`
	}
	err := s.withRetry(func(db *sqlx.DB) error {
		return db.Select(&rows, `
			SELECT peer_id, ip, port FROM peers
			WHERE info_hash = ?
				AND peer_id != ?
				AND (expires IS NULL OR expires > ?)
		`, h.Bytes(), exclude.Bytes(), s.clk.Now().Unix())
	})
	if err != nil {
		return nil, err
	}
	var peers []*core.PeerInfo
	for _, r := range rows {
		peerID, err := core.NewPeerIDFromRaw(r.PeerID)
		if err != nil {
			return nil, fmt.Errorf("corrupt peer id: %s", err)
		}
		ip, err := core.UnpackIP(r.IP)
		if err != nil {
			return nil, fmt.Errorf("corrupt peer ip: %s", err)
		}
		peers = append(peers, core.NewPeerInfo(peerID, ip, r.Port))
	}
	return peers, nil
}

// GetPeerStats implements PeerStore. Completeness is judged by remaining
// bytes, not the status column.
func (s *SQLiteStore) GetPeerStats(h core.InfoHash) (core.PeerStats, error) {
	var row struct {
		Complete   int64 `db:"complete"`
		Incomplete int64 `db:"incomplete"`
	}
	err := s.withRetry(func(db *sqlx.DB) error {
		return db.Get(&row, `
			SELECT
				COALESCE(SUM(CASE WHEN bytes_left = 0 THEN 1 ELSE 0 END), 0) AS complete,
				COALESCE(SUM(CASE WHEN bytes_left != 0 THEN 1 ELSE 0 END), 0) AS incomplete
			FROM peers
			WHERE info_hash = ? AND (expires IS NULL OR expires > ?)
		`, h.Bytes(), s.clk.Now().Unix())
	})
	if err != nil {
		return core.PeerStats{}, err
	}
	return core.PeerStats{Complete: row.Complete, Incomplete: row.Incomplete}, nil
}

// GetDownloads implements PeerStore. Deliberately does not filter on
// expiry: this is a lifetime download counter.
func (s *SQLiteStore) GetDownloads(h core.InfoHash) (int64, error) {
	var n int64
	err := s.withRetry(func(db *sqlx.DB) error {
		return db.Get(&n, `
			SELECT COUNT(*) FROM peers WHERE info_hash = ? AND status = ?
		`, h.Bytes(), PeerComplete)
	})
	return n, err
}

func newTorrentRow(t *core.Torrent) (*torrentRow, error) {
	announceList, err := marshalBlob([][]string(t.AnnounceList))
	if err != nil {
		return nil, fmt.Errorf("serialize announce list: %s", err)
	}
	urlList, err := marshalBlob(t.URLList)
	if err != nil {
		return nil, fmt.Errorf("serialize url list: %s", err)
	}
	var nodes []byte
	if len(t.Nodes) > 0 {
		l := bencode.List{}
		for _, n := range t.Nodes {
			l = append(l, bencode.List{n.Host, n.Port})
		}
		nodes, err = bencode.Marshal(l)
		if err != nil {
			return nil, fmt.Errorf("serialize nodes: %s", err)
		}
	}
	status := t.Status
	if status == "" {
		status = core.TorrentActive
	}
	return &torrentRow{
		InfoHash:     t.InfoHash.Bytes(),
		Name:         t.Name,
		Path:         t.Path,
		Length:       t.Length,
		PieceLength:  t.PieceLength,
		Pieces:       t.Pieces,
		AnnounceList: announceList,
		URLList:      urlList,
		Nodes:        nodes,
		CreatedBy:    t.CreatedBy,
		Private:      t.Private,
		Status:       string(status),
	}, nil
}

func (r *torrentRow) toTorrent() (*core.Torrent, error) {
	h, err := core.NewInfoHashFromRaw(r.InfoHash)
	if err != nil {
		return nil, fmt.Errorf("corrupt info hash: %s", err)
	}
	announceList, err := unmarshalAnnounceList(r.AnnounceList)
	if err != nil {
		return nil, fmt.Errorf("deserialize announce list: %s", err)
	}
	urlList, err := unmarshalStringList(r.URLList)
	if err != nil {
		return nil, fmt.Errorf("deserialize url list: %s", err)
	}
	nodes, err := unmarshalNodes(r.Nodes)
	if err != nil {
		return nil, fmt.Errorf("deserialize nodes: %s", err)
	}
	return &core.Torrent{
		InfoHash:     h,
		Name:         r.Name,
		Path:         r.Path,
		Length:       r.Length,
		PieceLength:  r.PieceLength,
		Pieces:       r.Pieces,
		AnnounceList: announceList,
		URLList:      urlList,
		Nodes:        nodes,
		CreatedBy:    r.CreatedBy,
		Private:      r.Private,
		Status:       core.TorrentStatus(r.Status),
	}, nil
}

// marshalBlob bencodes v, mapping empty values to NULL.
func marshalBlob(v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case [][]string:
		if len(t) == 0 {
			return nil, nil
		}
	case []string:
		if len(t) == 0 {
			return nil, nil
		}
	}
	return bencode.Marshal(v)
}

func unmarshalAnnounceList(b []byte) (core.AnnounceList, error) {
	if len(b) == 0 {
		return nil, nil
	}
	v, err := bencode.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	tiers, ok := v.(bencode.List)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	var l core.AnnounceList
	for _, t := range tiers {
		urls, ok := t.(bencode.List)
		if !ok {
			return nil, fmt.Errorf("expected tier list, got %T", t)
		}
		var tier []string
		for _, u := range urls {
			s, ok := u.(string)
			if !ok {
				return nil, fmt.Errorf("expected url string, got %T", u)
			}
			tier = append(tier, s)
		}
		l = append(l, tier)
	}
	return l, nil
}

func unmarshalStringList(b []byte) ([]string, error) {
	if len(b) == 0 {
		return nil, nil
	}
	v, err := bencode.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	items, ok := v.(bencode.List)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	var l []string
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", item)
		}
		l = append(l, s)
	}
	return l, nil
}

func unmarshalNodes(b []byte) ([]core.Node, error) {
	if len(b) == 0 {
		return nil, nil
	}
	v, err := bencode.Unmarshal(b)
	if err != nil {
		return nil, err
	}
	items, ok := v.(bencode.List)
	if !ok {
		return nil, fmt.Errorf("expected list, got %T", v)
	}
	var nodes []core.Node
	for _, item := range items {
		pair, ok := item.(bencode.List)
		if !ok || len(pair) != 2 {
			return nil, fmt.Errorf("expected [host, port] pair, got %v", item)
		}
		host, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("expected host string, got %T", pair[0])
		}
		port, ok := pair[1].(int64)
		if !ok {
			return nil, fmt.Errorf("expected port integer, got %T", pair[1])
		}
		nodes = append(nodes, core.Node{Host: host, Port: int(port)})
	}
	return nodes, nil
}
