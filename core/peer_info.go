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
package core

import (
	"fmt"
	"net"
)

// PeerInfo is the discovery view of a live peer: just enough for another
// client to open a connection to it.
type PeerInfo struct {
	PeerID PeerID
	IP     net.IP
	Port   int
}

// NewPeerInfo creates a new PeerInfo.
func NewPeerInfo(peerID PeerID, ip net.IP, port int) *PeerInfo {
	return &PeerInfo{peerID, ip, port}
}

func (p *PeerInfo) String() string {
	return fmt.Sprintf("PeerInfo(%s@%s:%d)", p.PeerID, p.IP, p.Port)
}

// PeerStats counts the live peers of a swarm, split by whether they hold
// the complete file.
type PeerStats struct {
	Complete   int64
	Incomplete int64
}

// PackIP converts ip into its packed network form: 4 bytes for IPv4,
// 16 bytes for IPv6. Returns nil for a nil ip.
func PackIP(ip net.IP) []byte {
	if ip == nil {
		return nil
	}
	if ip4 := ip.To4(); ip4 != nil {
		return ip4
	}
	return ip.To16()
}

// UnpackIP converts a packed 4 or 16-byte address back into a net.IP.
func UnpackIP(b []byte) (net.IP, error) {
	if len(b) != net.IPv4len && len(b) != net.IPv6len {
		return nil, fmt.Errorf("invalid packed ip: expected 4 or 16 bytes, got %d", len(b))
	}
	return net.IP(b), nil
}
