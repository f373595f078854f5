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

package device

import (
	"sync"
	"time"

	"github.com/livekit/framegrab/pkg/errors"
)

// NodeWrite records one configuration call against a SimDevice.
type NodeWrite struct {
	Name  string
	Value string
}

// SimDevice is an in-memory Device fed by a fixed frame script. Once the
// script is exhausted, GetFrame times out. It enforces the borrow contract:
// requesting a frame while another is still checked out is an error.
type SimDevice struct {
	mu sync.Mutex

	access      AccessMode
	nodes       map[string]string
	streamNodes map[string]bool
	writes      []NodeWrite

	script      []*Frame
	consumed    int
	requeued    int
	outstanding *Frame

	streaming  bool
	stopCalls  int
	startCalls int
}

func NewSimDevice(access AccessMode, script []*Frame) *SimDevice {
	return &SimDevice{
		access: access,
		nodes: map[string]string{
			NodeAcquisitionMode: "SingleFrame",
		},
		streamNodes: map[string]bool{},
		script:      script,
	}
}

// SimFrames builds a frame script with sequential IDs starting at 1 and
// timestamps 33ms apart.
func SimFrames(count, width, height int) []*Frame {
	frames := make([]*Frame, 0, count)
	base := uint64(time.Now().UnixNano())
	for i := 0; i < count; i++ {
		data := make([]byte, width*height*3)
		for j := range data {
			data[j] = byte(i + j)
		}
		frames = append(frames, &Frame{
			ID:          uint64(i + 1),
			TimestampNs: base + uint64(i)*33_000_000,
			Width:       width,
			Height:      height,
			Data:        data,
		})
	}
	return frames
}

func (d *SimDevice) AccessMode() AccessMode {
	return d.access
}

func (d *SimDevice) StartStream() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.streaming = true
	d.startCalls++
	return nil
}

func (d *SimDevice) StopStream() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.streaming = false
	d.stopCalls++
	return nil
}

func (d *SimDevice) GetFrame(timeout time.Duration) (*Frame, error) {
	d.mu.Lock()

	if !d.streaming {
		d.mu.Unlock()
		return nil, errors.ErrStreamStopped
	}
	if d.outstanding != nil {
		d.mu.Unlock()
		return nil, errors.New("previous frame buffer was not requeued")
	}
	if d.consumed >= len(d.script) {
		d.mu.Unlock()
		time.Sleep(timeout)
		return nil, errors.ErrFrameTimeout
	}

	frame := d.script[d.consumed]
	d.consumed++
	d.outstanding = frame
	d.mu.Unlock()
	return frame, nil
}

func (d *SimDevice) Requeue(f *Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.outstanding == f {
		d.outstanding = nil
		d.requeued++
	}
}

func (d *SimDevice) GetNode(name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	v, ok := d.nodes[name]
	if !ok {
		return "", errors.ErrNodeNotFound(name)
	}
	return v, nil
}

func (d *SimDevice) SetNode(name, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.access != AccessReadWrite {
		return errors.New("node is not writable with read-only access")
	}
	d.nodes[name] = value
	d.writes = append(d.writes, NodeWrite{Name: name, Value: value})
	return nil
}

func (d *SimDevice) SetStreamNode(name string, enabled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.access != AccessReadWrite {
		return errors.New("stream node is not writable with read-only access")
	}
	d.streamNodes[name] = enabled
	v := "false"
	if enabled {
		v = "true"
	}
	d.writes = append(d.writes, NodeWrite{Name: name, Value: v})
	return nil
}

// test accessors

func (d *SimDevice) Consumed() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.consumed
}

func (d *SimDevice) Requeued() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requeued
}

func (d *SimDevice) Outstanding() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.outstanding != nil
}

func (d *SimDevice) NodeWrites() []NodeWrite {
	d.mu.Lock()
	defer d.mu.Unlock()
	writes := make([]NodeWrite, len(d.writes))
	copy(writes, d.writes)
	return writes
}

func (d *SimDevice) StopCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopCalls
}
