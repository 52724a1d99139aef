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

// Package protocol implements the HTTP tracker announce and scrape
// semantics on top of a storage.Store. It is transport-agnostic: the
// handler consumes parsed query values and produces bencoded response
// bodies, leaving routing and status codes to the server layer.
package protocol

import (
	"encoding/binary"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/remora-p2p/remora/core"
	"github.com/remora-p2p/remora/lib/bencode"
	"github.com/remora-p2p/remora/tracker/storage"
	"github.com/remora-p2p/remora/utils/log"

	"github.com/andres-erbsen/clock"
)

// Failure reasons returned to clients. Every tracker-level error is
// reported as a bencoded dict with a single "failure reason" key, per
// BEP 3.
const (
	failureInfoHashLength = "Invalid length of info_hash."
	failurePeerIDLength   = "Invalid length of peer_id."
	failureIP             = "Invalid ip address."
	failureTorrentUnknown = "Torrent not found on this tracker."
	failureAnnounceFault  = "Failed to announce because of internal server error."
	failureScrapeFault    = "Failed to scrape because of internal server error."
)

// requiredParams lists announce parameters in the order they are named
// in failure messages.
var requiredParams = []string{
	"info_hash", "peer_id", "port", "uploaded", "downloaded", "left",
}

// Handler translates announce and scrape requests into store operations.
type Handler struct {
	config Config
	store  storage.Store
	clk    clock.Clock
}

// New creates a new Handler.
func New(config Config, store storage.Store, clk clock.Clock) *Handler {
	return &Handler{config.applyDefaults(), store, clk}
}

// Announce processes a single announce request. remoteAddr is the
// transport-level address of the client, used when no ip parameter is
// given. The returned bytes are always a complete bencoded response
// body, including failures.
func (h *Handler) Announce(v url.Values, remoteAddr string) []byte {
	req, failure := h.parseAnnounce(v, remoteAddr)
	if failure != "" {
		return failureResponse(failure)
	}

	ok, err := h.store.HasTorrent(req.hash)
	if err != nil {
		log.With("info_hash", req.hash.Hex()).Warnf("Announce torrent lookup: %s", err)
		return failureResponse(failureAnnounceFault)
	}
	if !ok {
		return failureResponse(failureTorrentUnknown)
	}

	if err := h.store.SaveAnnounce(h.buildAnnounce(req)); err != nil {
		log.With("info_hash", req.hash.Hex()).Warnf("Announce save: %s", err)
		return failureResponse(failureAnnounceFault)
	}

	peers, err := h.store.GetPeers(req.hash, req.peerID)
	if err != nil {
		log.With("info_hash", req.hash.Hex()).Warnf("Announce peer listing: %s", err)
		return failureResponse(failureAnnounceFault)
	}
	stats, err := h.store.GetPeerStats(req.hash)
	if err != nil {
		log.With("info_hash", req.hash.Hex()).Warnf("Announce swarm stats: %s", err)
		return failureResponse(failureAnnounceFault)
	}

	resp := bencode.Dict{
		"interval":   int64(h.config.AnnounceInterval / time.Second),
		"complete":   stats.Complete,
		"incomplete": stats.Incomplete,
	}
	if req.compact {
		resp["peers"] = compactPeers(peers)
	} else {
		resp["peers"] = dictPeers(peers, req.noPeerID)
	}
	return mustMarshal(resp)
}

// Scrape reports swarm statistics for a single torrent.
func (h *Handler) Scrape(v url.Values) []byte {
	raw, ok := getParam(v, "info_hash")
	if !ok {
		return failureResponse("Invalid get parameters; Missing: info_hash")
	}
	if len(raw) != 20 {
		return failureResponse(failureInfoHashLength)
	}
	hash, err := core.NewInfoHashFromRaw([]byte(raw))
	if err != nil {
		return failureResponse(failureInfoHashLength)
	}

	found, err := h.store.HasTorrent(hash)
	if err != nil {
		log.With("info_hash", hash.Hex()).Warnf("Scrape torrent lookup: %s", err)
		return failureResponse(failureScrapeFault)
	}
	if !found {
		return failureResponse(failureTorrentUnknown)
	}

	stats, err := h.store.GetPeerStats(hash)
	if err != nil {
		log.With("info_hash", hash.Hex()).Warnf("Scrape swarm stats: %s", err)
		return failureResponse(failureScrapeFault)
	}
	downloads, err := h.store.GetDownloads(hash)
	if err != nil {
		log.With("info_hash", hash.Hex()).Warnf("Scrape download count: %s", err)
		return failureResponse(failureScrapeFault)
	}

	return mustMarshal(bencode.Dict{
		"files": bencode.Dict{
			string(hash.Bytes()): bencode.Dict{
				"complete":   stats.Complete,
				"downloaded": downloads,
				"incomplete": stats.Incomplete,
			},
		},
	})
}

// announceRequest holds a fully validated announce.
type announceRequest struct {
	hash       core.InfoHash
	peerID     core.PeerID
	ip         net.IP
	port       int
	uploaded   int64
	downloaded int64
	left       int64
	event      string
	compact    bool
	noPeerID   bool
}

func (h *Handler) parseAnnounce(v url.Values, remoteAddr string) (req announceRequest, failure string) {
	if msg := missingParams(v); msg != "" {
		return req, msg
	}

	rawHash, _ := getParam(v, "info_hash")
	if len(rawHash) != 20 {
		return req, failureInfoHashLength
	}
	hash, err := core.NewInfoHashFromRaw([]byte(rawHash))
	if err != nil {
		return req, failureInfoHashLength
	}
	req.hash = hash

	rawPeerID, _ := getParam(v, "peer_id")
	if len(rawPeerID) != 20 {
		return req, failurePeerIDLength
	}
	peerID, err := core.NewPeerIDFromRaw([]byte(rawPeerID))
	if err != nil {
		return req, failurePeerIDLength
	}
	req.peerID = peerID

	port, ok := parseUint(v.Get("port"))
	if !ok || port > 65535 {
		return req, "Invalid port value."
	}
	req.port = int(port)

	if req.uploaded, ok = parseUint(v.Get("uploaded")); !ok {
		return req, "Invalid uploaded value."
	}
	if req.downloaded, ok = parseUint(v.Get("downloaded")); !ok {
		return req, "Invalid downloaded value."
	}
	if req.left, ok = parseUint(v.Get("left")); !ok {
		return req, "Invalid left value."
	}

	ip, ok := h.resolveIP(v.Get("ip"), remoteAddr)
	if !ok {
		return req, failureIP
	}
	req.ip = ip

	req.event = v.Get("event")
	req.compact = h.config.CompactDefault
	if c := v.Get("compact"); c != "" {
		req.compact = c == "1"
	}
	req.noPeerID = v.Get("no_peer_id") == "1"
	return req, ""
}

// buildAnnounce maps the client event onto storage semantics: a stopped
// peer expires immediately, a completed peer is marked complete, and
// every other event leaves the recorded status untouched.
func (h *Handler) buildAnnounce(req announceRequest) *storage.Announce {
	a := &storage.Announce{
		InfoHash:        req.hash,
		PeerID:          req.peerID,
		IP:              req.ip,
		Port:            req.port,
		BytesUploaded:   req.uploaded,
		BytesDownloaded: req.downloaded,
		BytesLeft:       req.left,
	}
	ttl := 2 * h.config.AnnounceInterval
	if req.event == "stopped" {
		ttl = 0
	}
	a.TTL = &ttl
	if req.event == "completed" {
		status := storage.PeerComplete
		a.Status = &status
	}
	return a
}

// resolveIP determines the peer address to record, preferring the
// explicit ip parameter, then the configured default, then the
// transport remote address.
func (h *Handler) resolveIP(param, remoteAddr string) (net.IP, bool) {
	s := param
	if s == "" {
		s = h.config.DefaultIP
	}
	if s == "" {
		host, _, err := net.SplitHostPort(remoteAddr)
		if err != nil {
			host = remoteAddr
		}
		s = host
	}
	ip := net.ParseIP(s)
	return ip, ip != nil
}

// getParam distinguishes an absent parameter from an empty one.
func getParam(v url.Values, key string) (string, bool) {
	vals, ok := v[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func missingParams(v url.Values) string {
	var missing []string
	for _, p := range requiredParams {
		if _, ok := getParam(v, p); !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return "Invalid get parameters; Missing: " + strings.Join(missing, ", ")
}

// parseUint accepts only plain decimal digit strings. Signs, blanks and
// other base64-ish client garbage are rejected.
func parseUint(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// compactPeers packs IPv4 peers into 6-byte wire entries. Peers without
// an IPv4 address cannot be represented and are skipped.
func compactPeers(peers []*core.PeerInfo) string {
	var b []byte
	for _, p := range peers {
		ip4 := p.IP.To4()
		if ip4 == nil {
			continue
		}
		b = append(b, ip4...)
		b = binary.BigEndian.AppendUint16(b, uint16(p.Port))
	}
	return string(b)
}

func dictPeers(peers []*core.PeerInfo, noPeerID bool) bencode.List {
	l := make(bencode.List, 0, len(peers))
	for _, p := range peers {
		d := bencode.Dict{
			"ip":   p.IP.String(),
			"port": p.Port,
		}
		if !noPeerID {
			d["peer id"] = string(p.PeerID.Bytes())
		}
		l = append(l, d)
	}
	return l
}

func failureResponse(reason string) []byte {
	return mustMarshal(bencode.Dict{"failure reason": reason})
}

func mustMarshal(v interface{}) []byte {
	b, err := bencode.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("marshal tracker response: %s", err))
	}
	return b
}
