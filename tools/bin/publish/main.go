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

// publish registers a single-file torrent with the tracker database and
// writes its metainfo blob.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/remora-p2p/remora/core"
	"github.com/remora-p2p/remora/lib/metainfo"
	"github.com/remora-p2p/remora/tracker/storage"

	"github.com/alecthomas/kingpin"
	"github.com/andres-erbsen/clock"
	"github.com/c2h5oh/datasize"
)

func main() {
	app := kingpin.New("publish", "Remora torrent publishing tool")

	file := app.Flag("file", "File to publish").Required().String()
	pieceSizeRaw := app.Flag("piece-size", "Piece size (e.g. 256KB)").Default("256KB").String()
	trackers := app.Flag("tracker", "Tracker announce URL, repeatable").Required().Strings()
	webseeds := app.Flag("webseed", "Webseed URL, repeatable").Strings()
	private := app.Flag("private", "Restrict the torrent to its trackers").Bool()
	createdBy := app.Flag("created-by", "Creator tag").String()
	db := app.Flag("db", "Tracker sqlite database path").Default("remora.db").String()
	out := app.Flag("out", "Metainfo blob output path, defaults to <file>.torrent").String()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	var pieceSize datasize.ByteSize
	if err := pieceSize.UnmarshalText([]byte(*pieceSizeRaw)); err != nil {
		log.Fatalf("Error parsing piece size: %s", err)
	}

	tiers := make([]interface{}, len(*trackers))
	for i, t := range *trackers {
		tiers[i] = t
	}
	announce, err := core.NewAnnounceList(tiers...)
	if err != nil {
		log.Fatalf("Error building announce list: %s", err)
	}

	opts := []metainfo.Option{
		metainfo.WithAnnounceList(announce),
		metainfo.WithURLList(*webseeds),
	}
	if *private {
		opts = append(opts, metainfo.WithPrivate())
	}
	if *createdBy != "" {
		opts = append(opts, metainfo.WithCreatedBy(*createdBy))
	}
	builder, err := metainfo.NewBuilder(*file, int64(pieceSize.Bytes()), opts...)
	if err != nil {
		log.Fatalf("Error creating metainfo builder: %s", err)
	}

	blob, err := builder.TorrentBlob(nil)
	if err != nil {
		log.Fatalf("Error building torrent: %s", err)
	}

	record, err := builder.Record()
	if err != nil {
		log.Fatalf("Error building torrent record: %s", err)
	}

	store, err := storage.NewSQLiteStore(storage.SQLiteConfig{Source: *db}, clock.New())
	if err != nil {
		log.Fatalf("Error opening tracker database: %s", err)
	}
	defer store.Close()

	if err := store.SaveTorrent(record); err != nil {
		log.Fatalf("Error registering torrent: %s", err)
	}

	path := *out
	if path == "" {
		path = *file + ".torrent"
	}
	if err := os.WriteFile(path, blob, 0644); err != nil {
		log.Fatalf("Error writing metainfo blob: %s", err)
	}

	hash, err := builder.InfoHash()
	if err != nil {
		log.Fatalf("Error computing info hash: %s", err)
	}
	fmt.Printf("Published %s\n", hash.Hex())
}
