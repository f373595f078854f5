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

// Package mcast manages IGMP group membership for the capture stream. The
// host must be a member of the device's multicast group on the receiving
// interface or the stream's packets are never delivered to it.
package mcast

import (
	"net"
	"sync"

	"golang.org/x/net/ipv4"

	"github.com/livekit/framegrab/pkg/errors"
	"github.com/livekit/framegrab/pkg/logger"
)

type Membership struct {
	group  *net.UDPAddr
	ifName string
	conn   net.PacketConn
	pc     *ipv4.PacketConn
	close  sync.Once
}

// Join joins the multicast group on the named interface. The membership must
// be held for the duration of the run and released with Close.
func Join(group, ifName string) (*Membership, error) {
	ip := net.ParseIP(group)
	if ip == nil || !ip.IsMulticast() {
		return nil, errors.ErrInvalidGroup(group)
	}

	iface, err := net.InterfaceByName(ifName)
	if err != nil {
		return nil, errors.ErrInvalidInterface(ifName, err)
	}

	conn, err := net.ListenPacket("udp4", "0.0.0.0:0")
	if err != nil {
		return nil, err
	}

	m := &Membership{
		group:  &net.UDPAddr{IP: ip},
		ifName: ifName,
		conn:   conn,
		pc:     ipv4.NewPacketConn(conn),
	}
	if err = m.pc.JoinGroup(iface, m.group); err != nil {
		_ = conn.Close()
		return nil, errors.ErrJoinFailed(group, ifName, err)
	}

	logger.Infow("joined multicast group", "group", group, "interface", ifName)
	return m, nil
}

// Close leaves the group and releases the socket. Runs at most once; safe on
// every exit path.
func (m *Membership) Close() {
	if m == nil {
		return
	}
	m.close.Do(func() {
		iface, err := net.InterfaceByName(m.ifName)
		if err == nil {
			_ = m.pc.LeaveGroup(iface, m.group)
		}
		_ = m.conn.Close()
	})
}
