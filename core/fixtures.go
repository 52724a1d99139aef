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
	"crypto/sha1"

	"github.com/remora-p2p/remora/utils/randutil"
)

// InfoHashFixture returns a randomly generated InfoHash.
func InfoHashFixture() InfoHash {
	h, err := NewInfoHashFromRaw(randutil.Bytes(20))
	if err != nil {
		panic(err)
	}
	return h
}

// PeerIDFixture returns a randomly generated PeerID.
func PeerIDFixture() PeerID {
	p, err := RandomPeerID()
	if err != nil {
		panic(err)
	}
	return p
}

// PeerInfoFixture returns a randomly generated PeerInfo.
func PeerInfoFixture() *PeerInfo {
	return NewPeerInfo(PeerIDFixture(), randutil.IP(), randutil.Port())
}

// TorrentFixture returns an active single-piece Torrent record with
// consistent geometry.
func TorrentFixture() *Torrent {
	return SizedTorrentFixture(256, 256)
}

// SizedTorrentFixture returns an active Torrent record for a random file
// of the given size and piece length.
func SizedTorrentFixture(size, pieceLength int64) *Torrent {
	content := randutil.Text(int(size))
	var pieces []byte
	for off := int64(0); off < size; off += pieceLength {
		end := off + pieceLength
		if end > size {
			end = size
		}
		sum := sha1.Sum(content[off:end])
		pieces = append(pieces, sum[:]...)
	}
	name := string(randutil.Text(8))
	return &Torrent{
		InfoHash:     InfoHashFixture(),
		Name:         name,
		Path:         "/tmp/" + name,
		Length:       size,
		PieceLength:  pieceLength,
		Pieces:       pieces,
		AnnounceList: AnnounceList{{"http://tracker.example.com/announce"}},
		Status:       TorrentActive,
	}
}
