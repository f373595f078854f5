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

package capture

import (
	"time"

	"go.uber.org/atomic"

	"github.com/livekit/framegrab/pkg/config"
	"github.com/livekit/framegrab/pkg/device"
	"github.com/livekit/framegrab/pkg/errors"
	"github.com/livekit/framegrab/pkg/logger"
	"github.com/livekit/framegrab/pkg/sink"
	"github.com/livekit/framegrab/pkg/stats"
)

// SaveLimit caps the number of frames handed to persistence per run.
const SaveLimit = 10

type Role int

const (
	RoleListener Role = iota
	RoleMaster
)

func (r Role) String() string {
	if r == RoleMaster {
		return "master"
	}
	return "listener"
}

// CancelPoller reports an operator cancel request. Poll must never block.
type CancelPoller interface {
	Poll() bool
}

// FrameSink receives owned frame copies for asynchronous persistence.
type FrameSink interface {
	Enqueue(sink.SaveJob)
}

// Counters are owned by the controller; everything else reads them.
type Counters struct {
	Attempts atomic.Uint64 // frame requests issued
	Timeouts atomic.Uint64 // requests that returned no frame
	Saved    atomic.Uint64 // frames handed to the save pipeline
}

// Controller drives the capture/persist/cancel loop.
//
// The loop body maintains one invariant above all others: a frame borrowed
// from the device is either requeued or cloned within the same iteration,
// on every path, before any stop condition is evaluated.
type Controller struct {
	dev     device.Device
	sink    FrameSink
	cancel  CancelPoller
	run     *config.RunContext
	monitor *stats.Monitor
	timeout time.Duration

	role     Role
	counters Counters
}

func New(
	dev device.Device,
	frameSink FrameSink,
	cancel CancelPoller,
	run *config.RunContext,
	monitor *stats.Monitor,
	timeout time.Duration,
) *Controller {
	return &Controller{
		dev:     dev,
		sink:    frameSink,
		cancel:  cancel,
		run:     run,
		monitor: monitor,
		timeout: timeout,
	}
}

func (c *Controller) Role() Role {
	return c.role
}

func (c *Controller) Counters() *Counters {
	return &c.counters
}

// Run streams until the role's stop condition is met: a listener stops after
// SaveLimit saves or cancellation, a master only on cancellation. The device
// stream is stopped and, for a master, the original acquisition mode restored
// on every exit path.
func (c *Controller) Run() error {
	if c.dev.AccessMode() == device.AccessReadWrite {
		c.role = RoleMaster
	} else {
		c.role = RoleListener
	}
	logger.Infow("host streaming", "role", c.role)

	if c.role == RoleMaster {
		initialMode, err := c.dev.GetNode(device.NodeAcquisitionMode)
		if err != nil {
			return err
		}
		// restore runs whether configuration or streaming fails, and only once
		defer func() {
			if err := c.dev.SetNode(device.NodeAcquisitionMode, initialMode); err != nil {
				logger.Errorw("failed to restore acquisition mode", err)
			}
		}()
		if err = c.configure(); err != nil {
			return err
		}
	}

	if err := c.dev.StartStream(); err != nil {
		return err
	}
	defer func() {
		logger.Infow("stopping stream")
		if err := c.dev.StopStream(); err != nil {
			logger.Errorw("failed to stop stream", err)
		}
	}()

	err := c.acquire()

	if attempts := c.counters.Attempts.Load(); attempts > 0 && c.counters.Timeouts.Load() == attempts {
		logger.Warnw("no frames were received", nil,
			"hint", "firewall or VPN settings may be blocking the stream")
	}
	return err
}

// configure prepares the device for multicast streaming. Only a master may
// call this; the listener's read-only handle would reject every write.
func (c *Controller) configure() error {
	if err := c.dev.SetNode(device.NodeAcquisitionMode, device.AcquisitionModeContinuous); err != nil {
		return err
	}
	if err := c.dev.SetStreamNode(device.StreamNodeMulticastEnable, true); err != nil {
		return err
	}
	if err := c.dev.SetStreamNode(device.StreamNodeAutoNegotiatePacketSize, true); err != nil {
		return err
	}
	return c.dev.SetStreamNode(device.StreamNodePacketResendEnable, true)
}

// acquire runs the loop until a stop condition or a device failure. A
// returned error still flows through Run's teardown defers before it
// surfaces.
func (c *Controller) acquire() error {
	for {
		c.counters.Attempts.Inc()

		frame, err := c.dev.GetFrame(c.timeout)
		if err != nil {
			if !errors.Is(err, errors.ErrFrameTimeout) {
				logger.Errorw("frame request failed", err)
				return err
			}
			c.counters.Timeouts.Inc()
			c.monitor.FrameTimedOut()
			logger.Debugw("no frame received")
			if c.cancel.Poll() {
				logger.Infow("cancellation requested")
				return nil
			}
			continue
		}
		c.monitor.FrameRetrieved()

		frameID := frame.ID
		timestampNs := frame.TimestampNs

		saved := false
		if c.counters.Saved.Load() < SaveLimit {
			// copy so the borrowed buffer can be requeued immediately instead
			// of waiting on the disk write
			c.sink.Enqueue(sink.SaveJob{
				Frame: frame.Clone(),
				Path:  c.run.FilePath(timestampNs, frameID),
				Seq:   c.counters.Saved.Inc(),
			})
			saved = true
		}

		// the borrow window closes here, before any stop decision
		c.dev.Requeue(frame)

		logger.Infow("frame retrieved",
			"frameID", frameID,
			"timestampNs", timestampNs,
			"saved", saved,
		)

		if c.cancel.Poll() {
			logger.Infow("cancellation requested")
			return nil
		}
		if c.role == RoleListener && c.counters.Saved.Load() >= SaveLimit {
			logger.Infow("save limit reached")
			return nil
		}
	}
}
