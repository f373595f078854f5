// Copyright 2026 LiveKit, Inc.
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

package mcast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJoinRejectsNonMulticastGroup(t *testing.T) {
	_, err := Join("10.0.0.1", "lo")
	require.Error(t, err)
}

func TestJoinRejectsUnknownInterface(t *testing.T) {
	_, err := Join("239.10.10.10", "does-not-exist0")
	require.Error(t, err)
}

func TestCloseOnNilMembership(t *testing.T) {
	var m *Membership
	m.Close()
}
