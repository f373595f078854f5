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
	"time"

	"github.com/livekit/framegrab/pkg/errors"
)

// RunContext holds per-run state that does not change once streaming starts.
// The output directory is created before the first frame is requested so that
// directory failures abort the run instead of failing saves one by one.
type RunContext struct {
	OutputDir string
	StartedAt time.Time
}

// NewRunContext resolves and creates the output directory for a run,
// {outputBase}/{startedAt}. Creation is idempotent: calling it twice with the
// same start time yields the same directory without error.
func NewRunContext(conf *Config, startedAt time.Time) (*RunContext, error) {
	base := conf.OutputBase
	if base == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(filepath.Dir(exe), "imgs")
	}

	outputDir := filepath.Join(base, startedAt.Format("20060102_150405"))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, errors.ErrDirectoryCreateFailed(outputDir, err)
	}

	return &RunContext{
		OutputDir: outputDir,
		StartedAt: startedAt,
	}, nil
}

// FilePath builds the destination for one saved frame. The timestamp/frame ID
// pair is monotonically distinct per device stream, so names are unique
// within a run by construction.
func (rc *RunContext) FilePath(timestampNs, frameID uint64) string {
	return filepath.Join(rc.OutputDir, fmt.Sprintf("%d-%d.png", timestampNs, frameID))
}
