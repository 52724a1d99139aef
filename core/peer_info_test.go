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
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackIPWidths(t *testing.T) {
	require := require.New(t)

	require.Len(PackIP(net.ParseIP("192.0.2.5")), 4)
	require.Len(PackIP(net.ParseIP("2001:db8::68")), 16)
}

func TestUnpackIPRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, s := range []string{"192.0.2.5", "2001:db8::68"} {
		ip := net.ParseIP(s)
		unpacked, err := UnpackIP(PackIP(ip))
		require.NoError(err)
		require.True(ip.Equal(unpacked))
	}
}

func TestUnpackIPRejectsBadWidths(t *testing.T) {
	require := require.New(t)

	for _, n := range []int{0, 3, 5, 17} {
		_, err := UnpackIP(make([]byte, n))
		require.Error(err, "width %d", n)
	}
}
