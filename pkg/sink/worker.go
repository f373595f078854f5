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
	"sync"

	"github.com/frostbyte73/core"
	"github.com/gammazero/deque"

	"github.com/livekit/framegrab/pkg/device"
	"github.com/livekit/framegrab/pkg/logger"
	"github.com/livekit/framegrab/pkg/stats"
)

// SaveJob is one frame queued for persistence. The frame is an exclusively
// owned copy; the worker releases it after the write completes, success or
// not.
type SaveJob struct {
	Frame *device.Frame
	Path  string
	Seq   uint64 // submission order, for diagnostics
}

// Worker drains save jobs on a background goroutine so disk latency never
// reaches the acquisition loop. Jobs are processed strictly in submission
// order, always outside the queue lock. A per-job failure is logged and
// discarded; it never stops the worker.
type Worker struct {
	mu      sync.Mutex
	cond    *sync.Cond
	jobs    deque.Deque[SaveJob]
	stopped bool

	handle  func(SaveJob) error
	monitor *stats.Monitor
	done    core.Fuse
	drain   sync.Once
}

func NewWorker(monitor *stats.Monitor) *Worker {
	w := &Worker{
		monitor: monitor,
	}
	w.cond = sync.NewCond(&w.mu)
	w.handle = w.save
	go w.run()
	return w
}

// Enqueue hands a job to the worker. Ownership of job.Frame transfers here;
// the caller must not touch it afterwards.
func (w *Worker) Enqueue(job SaveJob) {
	w.mu.Lock()
	w.jobs.PushBack(job)
	w.mu.Unlock()
	w.cond.Signal()
}

func (w *Worker) run() {
	defer w.done.Break()

	for {
		w.mu.Lock()
		for !w.stopped && w.jobs.Len() == 0 {
			w.cond.Wait()
		}
		if w.jobs.Len() == 0 {
			// stop signaled and nothing left to write
			w.mu.Unlock()
			return
		}
		job := w.jobs.PopFront()
		w.mu.Unlock()

		if err := w.handle(job); err != nil {
			w.monitor.SaveFailed()
			logger.Errorw("image save failed", err, "path", job.Path, "seq", job.Seq)
		} else {
			w.monitor.FrameSaved()
			logger.Debugw("image saved", "path", job.Path, "seq", job.Seq)
		}
		job.Frame = nil
	}
}

// Drain signals that no further jobs will be enqueued and blocks until every
// queued job has been processed. A stop signal alone never discards queued
// work. Safe to call more than once.
func (w *Worker) Drain() {
	w.drain.Do(func() {
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()
		w.cond.Broadcast()
	})
	<-w.done.Watch()
}

// Pending returns the number of queued jobs not yet picked up.
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.jobs.Len()
}
