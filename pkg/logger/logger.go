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

package logger

import (
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var defaultLogger = logr.Discard()

type Config struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`  // json output instead of console
	File  string `yaml:"file"`  // write to a rotated file instead of stdout
}

// Note: only pass in logr.Logger with default depth
func SetLogger(l logr.Logger) {
	defaultLogger = l.WithName("framegrab").WithCallDepth(1)
}

// Init builds the global logger from config. Safe to call with zero-value
// config, which logs at info level to stdout.
func Init(conf Config) error {
	lvl := zapcore.InfoLevel
	if conf.Level != "" {
		if err := lvl.UnmarshalText([]byte(conf.Level)); err != nil {
			return err
		}
	}

	encConfig := zap.NewProductionEncoderConfig()
	encConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if conf.JSON {
		enc = zapcore.NewJSONEncoder(encConfig)
	} else {
		encConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encConfig)
	}

	var ws zapcore.WriteSyncer
	if conf.File != "" {
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    100, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		})
	} else {
		ws = zapcore.AddSync(os.Stdout)
	}

	l := zap.New(zapcore.NewCore(enc, ws, lvl))
	SetLogger(zapr.NewLogger(l))
	return nil
}

func Debugw(msg string, keysAndValues ...interface{}) {
	defaultLogger.V(1).Info(msg, keysAndValues...)
}

func Infow(msg string, keysAndValues ...interface{}) {
	defaultLogger.Info(msg, keysAndValues...)
}

func Warnw(msg string, err error, keysAndValues ...interface{}) {
	if err != nil {
		keysAndValues = append([]interface{}{"error", err}, keysAndValues...)
	}
	defaultLogger.Info(msg, keysAndValues...)
}

func Errorw(msg string, err error, keysAndValues ...interface{}) {
	defaultLogger.Error(err, msg, keysAndValues...)
}
