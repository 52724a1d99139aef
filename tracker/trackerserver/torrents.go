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
	"errors"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/remora-p2p/remora/core"
	"github.com/remora-p2p/remora/tracker/storage"
	"github.com/remora-p2p/remora/utils/handler"
)

// TorrentListEntry is one element of the torrent listing.
type TorrentListEntry struct {
	InfoHash string `json:"info_hash"`
	Length   int64  `json:"length"`
}

// TorrentResponse describes a single registered torrent.
type TorrentResponse struct {
	InfoHash    string `json:"info_hash"`
	Name        string `json:"name"`
	Length      int64  `json:"length"`
	PieceLength int64  `json:"piece_length"`
	NumPieces   int    `json:"num_pieces"`
	Private     bool   `json:"private"`
	Status      string `json:"status"`
}

func (s *Server) listTorrentsHandler(w http.ResponseWriter, r *http.Request) error {
	entries, err := s.torrents.ListTorrents()
	if err != nil {
		return handler.Errorf("list torrents: %s", err)
	}
	resp := make([]TorrentListEntry, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, TorrentListEntry{e.InfoHash.Hex(), e.Length})
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return handler.Errorf("json encode response: %s", err)
	}
	return nil
}

func (s *Server) getTorrentHandler(w http.ResponseWriter, r *http.Request) error {
	hash, err := core.NewInfoHashFromHex(chi.URLParam(r, "hash"))
	if err != nil {
		return handler.Errorf("parse info hash: %s", err).Status(http.StatusBadRequest)
	}
	t, err := s.torrents.GetTorrent(hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return handler.ErrorStatus(http.StatusNotFound)
		}
		return handler.Errorf("torrent lookup: %s", err)
	}
	resp := TorrentResponse{
		InfoHash:    t.InfoHash.Hex(),
		Name:        t.Name,
		Length:      t.Length,
		PieceLength: t.PieceLength,
		NumPieces:   t.NumPieces(),
		Private:     t.Private,
		Status:      string(t.Status),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		return handler.Errorf("json encode response: %s", err)
	}
	return nil
}
