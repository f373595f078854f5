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

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/livekit/framegrab/pkg/capture"
	"github.com/livekit/framegrab/pkg/config"
	"github.com/livekit/framegrab/pkg/device"
	"github.com/livekit/framegrab/pkg/errors"
	"github.com/livekit/framegrab/pkg/keyboard"
	"github.com/livekit/framegrab/pkg/logger"
	"github.com/livekit/framegrab/pkg/mcast"
	"github.com/livekit/framegrab/pkg/sink"
	"github.com/livekit/framegrab/pkg/stats"
)

func main() {
	cmd := &cli.Command{
		Name:        "framegrab",
		Usage:       "multicast frame capture",
		Description: "saves a bounded prefix of a shared camera stream to disk, press ESC to stop",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "framegrab yaml config file",
				Sources: cli.EnvVars("FRAMEGRAB_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config-body",
				Usage:   "framegrab yaml config body",
				Sources: cli.EnvVars("FRAMEGRAB_CONFIG_BODY"),
			},
			&cli.StringFlag{
				Name:  "interface",
				Usage: "network interface receiving the multicast stream",
			},
			&cli.BoolFlag{
				Name:  "simulate",
				Usage: "use the simulated device backend",
			},
		},
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(_ context.Context, c *cli.Command) error {
	configBody := c.String("config-body")
	if configBody == "" {
		if configFile := c.String("config"); configFile != "" {
			content, err := os.ReadFile(configFile)
			if err != nil {
				return err
			}
			configBody = string(content)
		}
	}

	conf, err := config.NewConfig(configBody)
	if err != nil {
		return err
	}
	if c.IsSet("interface") {
		conf.Interface = c.String("interface")
	}
	if c.IsSet("simulate") {
		conf.Simulate = c.Bool("simulate")
	}

	if err = logger.Init(conf.Logging); err != nil {
		return err
	}

	runCtx, err := config.NewRunContext(conf, time.Now())
	if err != nil {
		return err
	}
	logger.Infow("output directory created", "dir", runCtx.OutputDir)

	monitor := stats.NewMonitor()
	if err = monitor.Serve(conf.PrometheusPort); err != nil {
		return err
	}
	defer monitor.Stop()

	if !conf.Simulate {
		membership, err := mcast.Join(conf.MulticastGroup, conf.Interface)
		if err != nil {
			return err
		}
		defer membership.Close()
	}

	var dev device.Device
	if conf.Simulate {
		access := device.AccessReadWrite
		if conf.SimulateListener {
			access = device.AccessReadOnly
		}
		dev = device.NewSimDevice(access, device.SimFrames(100, 320, 240))
	} else {
		// device discovery and SDK binding are supplied externally
		return errors.ErrNoDevice
	}

	worker := sink.NewWorker(monitor)
	defer worker.Drain()

	watcher := keyboard.NewWatcher()
	defer watcher.Restore()

	ctrl := capture.New(dev, worker, watcher, runCtx, monitor, conf.FrameTimeout)
	if err = ctrl.Run(); err != nil {
		return err
	}

	counters := ctrl.Counters()
	logger.Infow("run complete",
		"role", ctrl.Role(),
		"attempts", counters.Attempts.Load(),
		"timeouts", counters.Timeouts.Load(),
		"saved", counters.Saved.Load(),
	)
	return nil
}
