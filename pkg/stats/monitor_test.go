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

package stats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMonitorCounters(t *testing.T) {
	m := NewMonitor()

	m.FrameRetrieved()
	m.FrameRetrieved()
	m.FrameTimedOut()
	m.FrameSaved()
	m.SaveFailed()

	require.Equal(t, float64(2), testutil.ToFloat64(m.promFramesRetrieved))
	require.Equal(t, float64(1), testutil.ToFloat64(m.promFrameTimeouts))
	require.Equal(t, float64(1), testutil.ToFloat64(m.promFramesSaved))
	require.Equal(t, float64(1), testutil.ToFloat64(m.promSaveFailures))

	// a second monitor registers cleanly thanks to the private registry
	require.NotPanics(t, func() { NewMonitor() })
}

func TestNilMonitorIsSafe(t *testing.T) {
	var m *Monitor
	m.FrameRetrieved()
	m.FrameTimedOut()
	m.FrameSaved()
	m.SaveFailed()
	m.Stop()
}
