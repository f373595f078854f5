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
	"time"
)

type AccessMode int

const (
	AccessReadWrite AccessMode = iota // exclusive control, may configure the device
	AccessReadOnly                    // shared stream access, configuration calls fail
)

func (m AccessMode) String() string {
	switch m {
	case AccessReadWrite:
		return "ReadWrite"
	case AccessReadOnly:
		return "ReadOnly"
	default:
		return "Unknown"
	}
}

// Device node names used by the acquisition controller.
const (
	NodeAcquisitionMode = "AcquisitionMode"

	StreamNodeMulticastEnable         = "StreamMulticastEnable"
	StreamNodeAutoNegotiatePacketSize = "StreamAutoNegotiatePacketSize"
	StreamNodePacketResendEnable      = "StreamPacketResendEnable"

	AcquisitionModeContinuous = "Continuous"
)

// Frame is one captured image. The buffer is owned by the device: the caller
// borrows it from GetFrame and must either Requeue it or Clone it before the
// next GetFrame call. A frame held across iterations starves the device of
// buffers.
type Frame struct {
	ID          uint64 // monotonically increasing, assigned by the device
	TimestampNs uint64 // device clock, nanoseconds
	Width       int
	Height      int
	Data        []byte // BGR8, Width*Height*3 bytes
}

// Clone returns an independently owned copy of the frame, safe to hold after
// the original has been requeued.
func (f *Frame) Clone() *Frame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return &Frame{
		ID:          f.ID,
		TimestampNs: f.TimestampNs,
		Width:       f.Width,
		Height:      f.Height,
		Data:        data,
	}
}

// Device is the capture collaborator contract. Discovery, connection setup,
// and the node negotiation protocol live behind whichever implementation is
// plugged in; the acquisition controller only depends on this surface.
type Device interface {
	// AccessMode reports whether this handle has exclusive read-write access
	// (master) or shared read-only access (listener).
	AccessMode() AccessMode

	StartStream() error
	StopStream() error

	// GetFrame blocks up to timeout for the next frame. Returns
	// errors.ErrFrameTimeout if none arrived. The returned frame is borrowed
	// and must be requeued.
	GetFrame(timeout time.Duration) (*Frame, error)

	// Requeue hands a borrowed frame buffer back to the device.
	Requeue(*Frame)

	GetNode(name string) (string, error)
	SetNode(name, value string) error

	// SetStreamNode sets a transport-layer boolean feature.
	SetStreamNode(name string, enabled bool) error
}
