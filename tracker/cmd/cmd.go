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
	"fmt"

	"github.com/andres-erbsen/clock"
	"github.com/spf13/cobra"

	"github.com/remora-p2p/remora/metrics"
	"github.com/remora-p2p/remora/tracker/protocol"
	"github.com/remora-p2p/remora/tracker/storage"
	"github.com/remora-p2p/remora/tracker/trackerserver"
	"github.com/remora-p2p/remora/utils/configutil"
	"github.com/remora-p2p/remora/utils/log"
)

var (
	port       int
	configFile string
	cluster    string

	rootCmd = &cobra.Command{
		Short: "remora-tracker coordinates peer discovery for the p2p network.",
		Run: func(rootCmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().IntVarP(
		&port, "port", "", 0, "port to listen on")
	rootCmd.PersistentFlags().StringVarP(
		&configFile, "config", "", "", "configuration file path")
	rootCmd.PersistentFlags().StringVarP(
		&cluster, "cluster", "", "", "cluster name (e.g. prod01-zone1)")
}

// Execute runs the tracker command.
func Execute() {
	rootCmd.Execute()
}

func run() {
	var config Config
	if err := configutil.Load(configFile, &config); err != nil {
		panic(err)
	}
	log.ConfigureLogger(config.ZapLogging)

	stats, closer, err := metrics.New(config.Metrics, cluster)
	if err != nil {
		log.Fatalf("Failed to init metrics: %s", err)
	}
	defer closer.Close()

	go metrics.EmitVersion(stats)

	store, err := storage.New(config.Storage, clock.New())
	if err != nil {
		log.Fatalf("Could not create storage: %s", err)
	}

	announce := protocol.New(config.Announce, store, clock.New())

	if port != 0 {
		config.TrackerServer.Listener.Net = "tcp"
		config.TrackerServer.Listener.Addr = fmt.Sprintf(":%d", port)
	}

	server := trackerserver.New(config.TrackerServer, stats, announce, store)
	log.Fatal(server.ListenAndServe())
}
