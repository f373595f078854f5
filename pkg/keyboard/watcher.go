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

// Package keyboard detects an operator cancel request (ESC) without ever
// blocking the caller. Stdin is switched to raw non-blocking mode so a single
// keypress is visible on the next poll, with no line buffering or echo.
package keyboard

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

// CancelKey is the designated cancel byte.
const CancelKey = 0x1b // ESC

type Watcher struct {
	fd     int
	active bool

	savedTermios *unix.Termios
	savedFlags   int

	restore sync.Once
}

// NewWatcher switches stdin into raw non-blocking mode. If stdin is not a
// terminal the watcher is inert: Poll always reports false and Restore is a
// no-op. That is the expected mode for non-interactive runs, not an error.
func NewWatcher() *Watcher {
	return newWatcher(int(os.Stdin.Fd()))
}

func newWatcher(fd int) *Watcher {
	w := &Watcher{
		fd:         fd,
		savedFlags: -1,
	}

	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		// not a terminal
		return w
	}

	saved := *termios
	raw := *termios
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 0
	raw.Cc[unix.VTIME] = 0
	if err = unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return w
	}
	w.savedTermios = &saved

	if flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0); err == nil {
		w.savedFlags = flags
		_, _ = unix.FcntlInt(uintptr(fd), unix.F_SETFL, flags|unix.O_NONBLOCK)
	}

	w.active = true
	return w
}

// Poll drains all currently pending input and reports whether any drained
// byte was the cancel key. Draining fully prevents stale buffered input from
// triggering a late cancellation on a later call. Never blocks.
func (w *Watcher) Poll() bool {
	if !w.active {
		return false
	}

	cancel := false
	buf := make([]byte, 64)
	for {
		n, err := unix.Read(w.fd, buf)
		if n <= 0 || err != nil {
			break
		}
		for _, b := range buf[:n] {
			if b == CancelKey {
				cancel = true
			}
		}
	}
	return cancel
}

// Restore puts the terminal back into its original mode. Runs at most once
// regardless of how many exit paths reach it.
func (w *Watcher) Restore() {
	w.restore.Do(func() {
		if w.savedTermios != nil {
			_ = unix.IoctlSetTermios(w.fd, unix.TCSETS, w.savedTermios)
		}
		if w.savedFlags != -1 {
			_, _ = unix.FcntlInt(uintptr(w.fd), unix.F_SETFL, w.savedFlags)
		}
	})
}
