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
	"time"

	"github.com/andres-erbsen/clock"
	"github.com/uber-go/tally"

	"github.com/remora-p2p/remora/tracker/protocol"
	"github.com/remora-p2p/remora/tracker/storage"
)

// Fixture is a test utility which returns a tracker server backed by a
// temporary sqlite store, plus the store for seeding state.
func Fixture() (*Server, storage.Store, func()) {
	store, _, cleanup := storage.SQLiteStoreFixture()
	announce := protocol.New(
		protocol.Config{AnnounceInterval: time.Second}, store, clock.New())
	server := New(Config{}, tally.NoopScope, announce, store)
	return server, store, cleanup
}
