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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	conf, err := NewConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultMulticastGroup, conf.MulticastGroup)
	require.Equal(t, DefaultFrameTimeout, conf.FrameTimeout)
	require.False(t, conf.Simulate)
}

func TestConfigParse(t *testing.T) {
	conf, err := NewConfig(`
interface: eno1
frame_timeout: 500ms
simulate: true
simulate_listener: true
logging:
  level: debug
`)
	require.NoError(t, err)
	require.Equal(t, "eno1", conf.Interface)
	require.Equal(t, 500*time.Millisecond, conf.FrameTimeout)
	require.True(t, conf.Simulate)
	require.True(t, conf.SimulateListener)
	require.Equal(t, "debug", conf.Logging.Level)
}

func TestConfigRejectsNonMulticastGroup(t *testing.T) {
	_, err := NewConfig("multicast_group: 10.0.0.1")
	require.Error(t, err)

	_, err = NewConfig("multicast_group: not-an-ip")
	require.Error(t, err)
}

func TestRunContextIdempotent(t *testing.T) {
	conf, err := NewConfig("")
	require.NoError(t, err)
	conf.OutputBase = filepath.Join(t.TempDir(), "imgs")

	startedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	first, err := NewRunContext(conf, startedAt)
	require.NoError(t, err)

	// repeating the step for the same run timestamp must not error and must
	// resolve to the same path
	second, err := NewRunContext(conf, startedAt)
	require.NoError(t, err)
	require.Equal(t, first.OutputDir, second.OutputDir)

	info, err := os.Stat(first.OutputDir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestFilePath(t *testing.T) {
	conf, err := NewConfig("")
	require.NoError(t, err)
	conf.OutputBase = t.TempDir()

	rc, err := NewRunContext(conf, time.Now())
	require.NoError(t, err)

	path := rc.FilePath(123456789, 42)
	require.Equal(t, filepath.Join(rc.OutputDir, fmt.Sprintf("%d-%d.png", 123456789, 42)), path)
}
