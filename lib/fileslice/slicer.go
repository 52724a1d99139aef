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

// Package fileslice exposes a file as a sequence of fixed-size pieces for
// hashing, plus random access to arbitrary sub-blocks.
package fileslice

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrInvalidPieceSize is returned when a piece size is zero or negative.
var ErrInvalidPieceSize = errors.New("piece size must be positive")

// ErrBlockOutOfRange is returned when a requested block falls outside the
// file or its torrent geometry.
var ErrBlockOutOfRange = errors.New("block out of range")

// Slicer provides piece-wise access to a single file. The file is opened
// per operation; a Slicer holds no file handle and is safe for concurrent
// use.
type Slicer struct {
	path string
	name string
	size int64
}

// New creates a Slicer for the file at path.
func New(path string) (*Slicer, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %s", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat file: %s", err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory, expected a file", abs)
	}
	return &Slicer{
		path: abs,
		name: filepath.Base(abs),
		size: fi.Size(),
	}, nil
}

// Path returns the absolute path of the underlying file.
func (s *Slicer) Path() string {
	return s.path
}

// Size returns the byte length of the underlying file.
func (s *Slicer) Size() int64 {
	return s.size
}

// Basename returns the base name of the underlying file.
func (s *Slicer) Basename() string {
	return s.name
}

// ReadBlock returns exactly length bytes starting at offset. Requests
// crossing the end of the file fail with ErrBlockOutOfRange.
func (s *Slicer) ReadBlock(offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > s.size {
		return nil, fmt.Errorf(
			"%w: [%d, %d) exceeds file of %d bytes", ErrBlockOutOfRange, offset, offset+length, s.size)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open file: %s", err)
	}
	defer f.Close()

	b := make([]byte, length)
	if _, err := f.ReadAt(b, offset); err != nil {
		return nil, fmt.Errorf("read block: %s", err)
	}
	return b, nil
}

// NumPieces returns the number of pieces the file divides into for the
// given piece size.
func (s *Slicer) NumPieces(pieceSize int64) (int64, error) {
	if pieceSize <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPieceSize, pieceSize)
	}
	return (s.size + pieceSize - 1) / pieceSize, nil
}

// HashPieces hashes the file in pieceSize chunks and returns the
// concatenated 20-byte SHA1 digests, one per piece. The final piece may be
// shorter than pieceSize; its digest covers the short range. The file is
// read sequentially and peak memory is a single piece buffer.
func (s *Slicer) HashPieces(pieceSize int64) ([]byte, error) {
	if pieceSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPieceSize, pieceSize)
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open file: %s", err)
	}
	defer f.Close()

	var pieces []byte
	for {
		h := sha1.New()
		n, err := io.CopyN(h, f, pieceSize)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read file: %s", err)
		}
		if n == 0 {
			break
		}
		pieces = h.Sum(pieces)
		if n < pieceSize {
			break
		}
	}
	return pieces, nil
}
