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
package cmd

import (
	"go.uber.org/zap"

	"github.com/remora-p2p/remora/metrics"
	"github.com/remora-p2p/remora/tracker/protocol"
	"github.com/remora-p2p/remora/tracker/storage"
	"github.com/remora-p2p/remora/tracker/trackerserver"
)

// Config defines tracker configuration.
type Config struct {
	ZapLogging    zap.Config           `yaml:"zap"`
	Storage       storage.Config       `yaml:"storage"`
	Announce      protocol.Config      `yaml:"announce"`
	TrackerServer trackerserver.Config `yaml:"trackerserver"`
	Metrics       metrics.Config       `yaml:"metrics"`
}
