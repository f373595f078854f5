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
	"net"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/livekit/framegrab/pkg/errors"
	"github.com/livekit/framegrab/pkg/logger"
)

const (
	DefaultMulticastGroup = "239.10.10.10"
	DefaultFrameTimeout   = 2 * time.Second
)

type Config struct {
	// required
	Interface string `yaml:"interface"` // network interface receiving the multicast stream

	// optional
	MulticastGroup   string        `yaml:"multicast_group"`   // multicast group IP, must match the device's stream destination
	FrameTimeout     time.Duration `yaml:"frame_timeout"`     // per-frame request timeout
	OutputBase       string        `yaml:"output_base"`       // base directory for saved images, defaults to {executable dir}/imgs
	PrometheusPort   int           `yaml:"prometheus_port"`   // metrics port, 0 to disable
	Simulate         bool          `yaml:"simulate"`          // use the simulated device backend
	SimulateListener bool          `yaml:"simulate_listener"` // simulated device reports read-only access

	Logging logger.Config `yaml:"logging"`
}

// NewConfig parses a yaml config body and applies defaults.
func NewConfig(body string) (*Config, error) {
	conf := &Config{
		MulticastGroup: DefaultMulticastGroup,
		FrameTimeout:   DefaultFrameTimeout,
	}
	if body != "" {
		if err := yaml.Unmarshal([]byte(body), conf); err != nil {
			return nil, errors.ErrCouldNotParseConfig(err)
		}
	}

	if conf.FrameTimeout <= 0 {
		conf.FrameTimeout = DefaultFrameTimeout
	}
	ip := net.ParseIP(conf.MulticastGroup)
	if ip == nil || !ip.IsMulticast() {
		return nil, errors.ErrInvalidGroup(conf.MulticastGroup)
	}

	return conf, nil
}
