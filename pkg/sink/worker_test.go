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

package sink

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/livekit/framegrab/pkg/device"
	"github.com/livekit/framegrab/pkg/errors"
)

type seqRecorder struct {
	mu   sync.Mutex
	seqs []uint64
}

func (r *seqRecorder) record(seq uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seqs = append(r.seqs, seq)
}

func (r *seqRecorder) recorded() []uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint64(nil), r.seqs...)
}

func TestWorkerProcessesInOrder(t *testing.T) {
	rec := &seqRecorder{}
	w := NewWorker(nil)
	w.handle = func(job SaveJob) error {
		time.Sleep(time.Millisecond)
		rec.record(job.Seq)
		return nil
	}

	const jobCount = 25
	for i := 1; i <= jobCount; i++ {
		w.Enqueue(SaveJob{Seq: uint64(i)})
	}
	w.Drain()

	seqs := rec.recorded()
	require.Len(t, seqs, jobCount)
	for i, seq := range seqs {
		require.Equal(t, uint64(i+1), seq)
	}
	require.Equal(t, 0, w.Pending())

	// Drain is idempotent
	w.Drain()
}

func TestDrainFlushesQueue(t *testing.T) {
	rec := &seqRecorder{}
	w := NewWorker(nil)
	w.handle = func(job SaveJob) error {
		time.Sleep(5 * time.Millisecond)
		rec.record(job.Seq)
		return nil
	}

	for i := 1; i <= 20; i++ {
		w.Enqueue(SaveJob{Seq: uint64(i)})
	}

	// stop is signaled while most jobs are still queued; none may be dropped
	w.Drain()
	require.Len(t, rec.recorded(), 20)
}

func TestJobFailureDoesNotStopWorker(t *testing.T) {
	rec := &seqRecorder{}
	w := NewWorker(nil)
	w.handle = func(job SaveJob) error {
		rec.record(job.Seq)
		if job.Seq == 2 {
			return errors.New("disk full")
		}
		return nil
	}

	for i := 1; i <= 5; i++ {
		w.Enqueue(SaveJob{Seq: uint64(i)})
	}
	w.Drain()

	require.Equal(t, []uint64{1, 2, 3, 4, 5}, rec.recorded())
}

func TestSaveWritesDecodableImages(t *testing.T) {
	dir := t.TempDir()
	w := NewWorker(nil)

	frames := device.SimFrames(3, 8, 6)
	for i, f := range frames {
		w.Enqueue(SaveJob{
			Frame: f.Clone(),
			Path:  filepath.Join(dir, fmt.Sprintf("%d-%d.png", f.TimestampNs, f.ID)),
			Seq:   uint64(i + 1),
		})
	}
	w.Drain()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for _, f := range frames {
		file, err := os.Open(filepath.Join(dir, fmt.Sprintf("%d-%d.png", f.TimestampNs, f.ID)))
		require.NoError(t, err)
		img, err := png.Decode(file)
		require.NoError(t, file.Close())
		require.NoError(t, err)
		require.Equal(t, 8, img.Bounds().Dx())
		require.Equal(t, 6, img.Bounds().Dy())
	}
}

func TestSaveRejectsInvalidFrames(t *testing.T) {
	w := &Worker{}

	err := w.save(SaveJob{Frame: &device.Frame{Width: 4, Height: 4, Data: []byte{0}}, Path: "unused"})
	require.Error(t, err)

	err = w.save(SaveJob{Frame: nil, Path: "unused"})
	require.Error(t, err)
}
