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
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/livekit/framegrab/pkg/logger"
)

// Monitor tracks run metrics. Counters are registered on a private registry
// so multiple monitors can coexist within one process.
type Monitor struct {
	registry *prometheus.Registry

	promFramesRetrieved prometheus.Counter
	promFrameTimeouts   prometheus.Counter
	promFramesSaved     prometheus.Counter
	promSaveFailures    prometheus.Counter

	server *http.Server
}

func NewMonitor() *Monitor {
	m := &Monitor{
		registry: prometheus.NewRegistry(),
		promFramesRetrieved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "livekit",
			Subsystem: "framegrab",
			Name:      "frames_retrieved",
		}),
		promFrameTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "livekit",
			Subsystem: "framegrab",
			Name:      "frame_timeouts",
		}),
		promFramesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "livekit",
			Subsystem: "framegrab",
			Name:      "frames_saved",
		}),
		promSaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "livekit",
			Subsystem: "framegrab",
			Name:      "save_failures",
		}),
	}

	m.registry.MustRegister(
		m.promFramesRetrieved,
		m.promFrameTimeouts,
		m.promFramesSaved,
		m.promSaveFailures,
	)
	return m
}

// Serve exposes /metrics on the given port until Stop is called.
func (m *Monitor) Serve(port int) error {
	if port == 0 {
		return nil
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	m.server = &http.Server{Handler: mux}

	go func() {
		if err := m.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Errorw("metrics server failed", err)
		}
	}()
	return nil
}

func (m *Monitor) Stop() {
	if m != nil && m.server != nil {
		_ = m.server.Close()
	}
}

func (m *Monitor) FrameRetrieved() {
	if m != nil {
		m.promFramesRetrieved.Inc()
	}
}

func (m *Monitor) FrameTimedOut() {
	if m != nil {
		m.promFrameTimeouts.Inc()
	}
}

func (m *Monitor) FrameSaved() {
	if m != nil {
		m.promFramesSaved.Inc()
	}
}

func (m *Monitor) SaveFailed() {
	if m != nil {
		m.promSaveFailures.Inc()
	}
}
