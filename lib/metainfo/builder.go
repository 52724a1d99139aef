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

// Package metainfo builds torrent metadata from a local file: the piece
// hashes, the info hash, the .torrent blob clients download, and the
// record the tracker stores.
package metainfo

import (
	"errors"
	"fmt"

	"github.com/remora-p2p/remora/core"
	"github.com/remora-p2p/remora/lib/bencode"
	"github.com/remora-p2p/remora/lib/fileslice"
)

// ErrNoTrackers is returned when a .torrent blob is requested but no
// tracker URL is known.
var ErrNoTrackers = errors.New("no tracker urls")

// Builder derives torrent metadata from a file. Attributes may be supplied
// up front via options; anything not supplied is derived lazily on first
// read and memoized. A Builder is not safe for concurrent use.
type Builder struct {
	slicer    *fileslice.Slicer
	pieceSize int64

	name      string
	length    int64
	lengthSet bool
	pieces    []byte
	infoHash  *core.InfoHash

	announceList core.AnnounceList
	urlList      []string
	nodes        []core.Node
	createdBy    string
	private      bool
}

// Option pre-supplies a derived attribute or optional metadata.
type Option func(*Builder)

// WithName overrides the name derived from the file's base name.
func WithName(name string) Option {
	return func(b *Builder) { b.name = name }
}

// WithLength pre-supplies the file length.
func WithLength(length int64) Option {
	return func(b *Builder) { b.length = length; b.lengthSet = true }
}

// WithPieces pre-supplies the concatenated piece hashes.
func WithPieces(pieces []byte) Option {
	return func(b *Builder) { b.pieces = pieces }
}

// WithInfoHash pre-supplies the info hash.
func WithInfoHash(h core.InfoHash) Option {
	return func(b *Builder) { b.infoHash = &h }
}

// WithAnnounceList sets the builder's internal tracker tiers.
func WithAnnounceList(l core.AnnounceList) Option {
	return func(b *Builder) { b.announceList = l.Copy() }
}

// WithURLList sets webseed URLs.
func WithURLList(urls []string) Option {
	return func(b *Builder) { b.urlList = append([]string(nil), urls...) }
}

// WithNodes sets DHT bootstrap nodes.
func WithNodes(nodes []core.Node) Option {
	return func(b *Builder) { b.nodes = append([]core.Node(nil), nodes...) }
}

// WithCreatedBy sets the created by string.
func WithCreatedBy(s string) Option {
	return func(b *Builder) { b.createdBy = s }
}

// WithPrivate marks the torrent private, suppressing DHT and PEX in
// compliant clients.
func WithPrivate() Option {
	return func(b *Builder) { b.private = true }
}

// NewBuilder creates a Builder for the file at path.
func NewBuilder(path string, pieceSize int64, opts ...Option) (*Builder, error) {
	if pieceSize <= 0 {
		return nil, fmt.Errorf("%w: %d", fileslice.ErrInvalidPieceSize, pieceSize)
	}
	s, err := fileslice.New(path)
	if err != nil {
		return nil, err
	}
	b := &Builder{slicer: s, pieceSize: pieceSize}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Path returns the absolute file path.
func (b *Builder) Path() string {
	return b.slicer.Path()
}

// Name returns the torrent name.
func (b *Builder) Name() string {
	if b.name == "" {
		b.name = b.slicer.Basename()
	}
	return b.name
}

// Length returns the total length of the file.
func (b *Builder) Length() int64 {
	if !b.lengthSet {
		b.length = b.slicer.Size()
		b.lengthSet = true
	}
	return b.length
}

// PieceSize returns the configured piece size.
func (b *Builder) PieceSize() int64 {
	return b.pieceSize
}

// NumPieces returns the number of pieces.
func (b *Builder) NumPieces() int64 {
	return (b.Length() + b.pieceSize - 1) / b.pieceSize
}

// Pieces returns the concatenated per-piece SHA1 digests, hashing the file
// on first call.
func (b *Builder) Pieces() ([]byte, error) {
	if b.pieces == nil {
		pieces, err := b.slicer.HashPieces(b.pieceSize)
		if err != nil {
			return nil, fmt.Errorf("hash pieces: %s", err)
		}
		b.pieces = pieces
	}
	return b.pieces, nil
}

// AnnounceList returns the builder's internal tracker tiers.
func (b *Builder) AnnounceList() core.AnnounceList {
	return b.announceList.Copy()
}

// infoDict assembles the info sub-dictionary. Its bencoding is the input
// of the info hash, so the exact key set matters.
func (b *Builder) infoDict() (bencode.Dict, error) {
	pieces, err := b.Pieces()
	if err != nil {
		return nil, err
	}
	d := bencode.Dict{
		"length":       b.Length(),
		"name":         b.Name(),
		"piece length": b.pieceSize,
		"pieces":       pieces,
	}
	if b.private {
		d["private"] = 1
	}
	return d, nil
}

// InfoHash returns the torrent's info hash, deriving and memoizing it on
// first call.
func (b *Builder) InfoHash() (core.InfoHash, error) {
	if b.infoHash == nil {
		d, err := b.infoDict()
		if err != nil {
			return core.InfoHash{}, err
		}
		encoded, err := bencode.Marshal(d)
		if err != nil {
			return core.InfoHash{}, fmt.Errorf("bencode info: %s", err)
		}
		h := core.NewInfoHashFromBytes(encoded)
		b.infoHash = &h
	}
	return *b.infoHash, nil
}

// TorrentBlob emits the .torrent file contents. The given trackers are
// merged after the builder's internal announce list, dropping duplicate
// URLs while preserving order. At least one tracker URL must result.
func (b *Builder) TorrentBlob(trackers core.AnnounceList) ([]byte, error) {
	merged := b.announceList.Merge(trackers)
	first, ok := merged.First()
	if !ok {
		return nil, ErrNoTrackers
	}
	info, err := b.infoDict()
	if err != nil {
		return nil, err
	}
	d := bencode.Dict{
		"announce":      first,
		"announce-list": [][]string(merged),
		"info":          info,
	}
	if len(b.urlList) > 0 {
		d["url-list"] = b.urlList
	}
	if len(b.nodes) > 0 {
		nodes := bencode.List{}
		for _, n := range b.nodes {
			nodes = append(nodes, bencode.List{n.Host, n.Port})
		}
		d["nodes"] = nodes
	}
	if b.createdBy != "" {
		d["created by"] = b.createdBy
	}
	return bencode.Marshal(d)
}

// ReadBlock reads length bytes at offset blockBegin within pieceIndex,
// validating the request against the torrent geometry.
func (b *Builder) ReadBlock(pieceIndex, blockBegin, length int64) ([]byte, error) {
	if pieceIndex < 0 || pieceIndex >= b.NumPieces() {
		return nil, fmt.Errorf(
			"%w: piece %d of %d", fileslice.ErrBlockOutOfRange, pieceIndex, b.NumPieces())
	}
	if blockBegin < 0 || length < 0 || blockBegin+length > b.pieceSize {
		return nil, fmt.Errorf(
			"%w: block [%d, %d) exceeds piece size %d",
			fileslice.ErrBlockOutOfRange, blockBegin, blockBegin+length, b.pieceSize)
	}
	return b.slicer.ReadBlock(pieceIndex*b.pieceSize+blockBegin, length)
}

// Record materializes every attribute and returns the stored
// representation of the torrent, marked active.
func (b *Builder) Record() (*core.Torrent, error) {
	pieces, err := b.Pieces()
	if err != nil {
		return nil, err
	}
	h, err := b.InfoHash()
	if err != nil {
		return nil, err
	}
	return &core.Torrent{
		InfoHash:     h,
		Name:         b.Name(),
		Path:         b.Path(),
		Length:       b.Length(),
		PieceLength:  b.pieceSize,
		Pieces:       pieces,
		AnnounceList: b.announceList.Copy(),
		URLList:      append([]string(nil), b.urlList...),
		Nodes:        append([]core.Node(nil), b.nodes...),
		CreatedBy:    b.createdBy,
		Private:      b.private,
		Status:       core.TorrentActive,
	}, nil
}
