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

// Package trackerserver exposes the tracker over HTTP. Announce and
// scrape follow the BitTorrent convention of answering 200 with a
// bencoded body even on failure; the remaining endpoints are plain
// JSON.
package trackerserver

import (
	"net/http"
	_ "net/http/pprof" // Registers /debug/pprof endpoints in http.DefaultServeMux.

	"github.com/go-chi/chi"
	"github.com/uber-go/tally"

	"github.com/remora-p2p/remora/lib/middleware"
	"github.com/remora-p2p/remora/tracker/protocol"
	"github.com/remora-p2p/remora/tracker/storage"
	"github.com/remora-p2p/remora/utils/handler"
	"github.com/remora-p2p/remora/utils/listener"
	"github.com/remora-p2p/remora/utils/log"
)

// Server serves the tracker endpoints.
type Server struct {
	config   Config
	stats    tally.Scope
	announce *protocol.Handler
	torrents storage.TorrentStore
}

// New creates a new Server.
func New(
	config Config,
	stats tally.Scope,
	announce *protocol.Handler,
	torrents storage.TorrentStore) *Server {

	stats = stats.Tagged(map[string]string{
		"module": "trackerserver",
	})

	return &Server{config, stats, announce, torrents}
}

// Handler returns the HTTP handler of s.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.HitCounter(s.stats))
	r.Use(middleware.LatencyTimer(s.stats))

	r.Get("/announce", s.announceHandler)
	r.Get("/scrape", s.scrapeHandler)
	r.Get("/health", s.healthHandler)
	r.Get("/torrents", handler.Wrap(s.listTorrentsHandler))
	r.Get("/torrents/{hash}", handler.Wrap(s.getTorrentHandler))

	// Serves /debug/pprof endpoints.
	r.Mount("/", http.DefaultServeMux)

	return r
}

// ListenAndServe is a blocking call which runs s.
func (s *Server) ListenAndServe() error {
	log.Infof("Starting tracker server on %s", s.config.Listener)
	return listener.Serve(s.config.Listener, s.Handler())
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("OK\n"))
}
