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
package migrations

import (
	"database/sql"

	"github.com/pressly/goose"
)

func init() {
	goose.AddMigration(up00001, down00001)
}

func up00001(tx *sql.Tx) error {
	if _, err := tx.Exec(
		`CREATE TABLE IF NOT EXISTS torrents (
		info_hash     blob    NOT NULL,
		name          text    NOT NULL,
		path          text    NOT NULL,
		length        integer NOT NULL,
		piece_length  integer NOT NULL,
		pieces        blob    NOT NULL,
		announce_list blob,
		url_list      blob,
		nodes         blob,
		created_by    text    NOT NULL DEFAULT '',
		private       integer NOT NULL DEFAULT 0,
		status        text    NOT NULL DEFAULT 'active',
		PRIMARY KEY(info_hash)
	);`); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`CREATE TABLE IF NOT EXISTS peers (
		info_hash        blob    NOT NULL,
		peer_id          blob    NOT NULL,
		ip               blob    NOT NULL,
		port             integer NOT NULL,
		bytes_uploaded   integer NOT NULL,
		bytes_downloaded integer NOT NULL,
		bytes_left       integer NOT NULL,
		status           text    NOT NULL DEFAULT 'incomplete',
		expires          integer,
		PRIMARY KEY(info_hash, peer_id)
	);`); err != nil {
		return err
	}
	_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS peers_expires ON peers (info_hash, expires);`)
	return err
}

func down00001(tx *sql.Tx) error {
	if _, err := tx.Exec(`DROP TABLE peers;`); err != nil {
		return err
	}
	_, err := tx.Exec(`DROP TABLE torrents;`)
	return err
}
