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

package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNoConfig      = errors.New("missing config")
	ErrNoDevice      = errors.New("no capture device available")
	ErrFrameTimeout  = errors.New("frame request timed out")
	ErrStreamStopped = errors.New("stream has been stopped")
)

func New(err string) error {
	return errors.New(err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func ErrCouldNotParseConfig(err error) error {
	return fmt.Errorf("could not parse config: %v", err)
}

func ErrDirectoryCreateFailed(dir string, err error) error {
	return fmt.Errorf("could not create output directory %s: %v", dir, err)
}

func ErrInvalidInterface(name string, err error) error {
	return fmt.Errorf("invalid network interface %s: %v", name, err)
}

func ErrInvalidGroup(group string) error {
	return fmt.Errorf("invalid multicast group address: %s", group)
}

func ErrJoinFailed(group, ifName string, err error) error {
	return fmt.Errorf("failed to join %s on %s: %v", group, ifName, err)
}

func ErrNodeNotFound(name string) error {
	return fmt.Errorf("device node %s not found", name)
}

func ErrInvalidFrame(field string) error {
	return fmt.Errorf("frame has missing or invalid %s", field)
}
