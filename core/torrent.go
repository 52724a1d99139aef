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

import "fmt"

// TorrentStatus determines whether a torrent participates in discovery.
// Inactive torrents are retained in storage but filtered out of announce,
// scrape and listing responses.
type TorrentStatus string

// TorrentStatus values.
const (
	TorrentActive   TorrentStatus = "active"
	TorrentInactive TorrentStatus = "inactive"
)

// Node is a DHT bootstrap node advertised in a .torrent file.
type Node struct {
	Host string
	Port int
}

// Torrent is the stored representation of a published torrent. Identity is
// the InfoHash; everything else is metadata the tracker hands to clients.
type Torrent struct {
	InfoHash     InfoHash
	Name         string
	Path         string
	Length       int64
	PieceLength  int64
	Pieces       []byte
	AnnounceList AnnounceList
	URLList      []string
	Nodes        []Node
	CreatedBy    string
	Private      bool
	Status       TorrentStatus
}

// NumPieces returns the number of pieces the underlying file divides into.
func (t *Torrent) NumPieces() int {
	return len(t.Pieces) / 20
}

// Validate checks the structural invariants of the record.
func (t *Torrent) Validate() error {
	if t.PieceLength <= 0 {
		return fmt.Errorf("piece length must be positive, got %d", t.PieceLength)
	}
	if len(t.Pieces)%20 != 0 {
		return fmt.Errorf("pieces length %d is not a multiple of 20", len(t.Pieces))
	}
	want := (t.Length + t.PieceLength - 1) / t.PieceLength
	if int64(t.NumPieces()) != want {
		return fmt.Errorf("expected %d piece hashes, got %d", want, t.NumPieces())
	}
	return nil
}

func (t *Torrent) String() string {
	return fmt.Sprintf("Torrent(%s, name=%s)", t.InfoHash, t.Name)
}
