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
	"os"
	"path/filepath"

	"github.com/remora-p2p/remora/utils/testutil"

	"github.com/andres-erbsen/clock"
)

// SQLiteStoreFixture returns a SQLiteStore on a temporary database, driven
// by a mock clock.
func SQLiteStoreFixture() (*SQLiteStore, *clock.Mock, func()) {
	var cleanup testutil.Cleanup
	defer cleanup.Recover()

	tmpdir, err := os.MkdirTemp("", "remora-test-db-")
	if err != nil {
		panic(err)
	}
	cleanup.Add(func() { os.RemoveAll(tmpdir) })

	clk := clock.NewMock()
	s, err := NewSQLiteStore(SQLiteConfig{Source: filepath.Join(tmpdir, "test.db")}, clk)
	if err != nil {
		panic(err)
	}
	cleanup.Add(func() { s.Close() })

	return s, clk, cleanup.Run
}
