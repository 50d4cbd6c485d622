// Copyright 2026 The gVisor Authors.
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

package log

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// LogrusEmitter routes messages through a github.com/sirupsen/logrus
// *logrus.Logger, for deployments that want structured fields and the
// standard field-based log aggregation pipelines logrus supports. This is
// the default emitter the command-line entrypoint installs.
type LogrusEmitter struct {
	*logrus.Logger
}

// NewLogrusEmitter constructs a LogrusEmitter writing text-formatted
// entries with full timestamps.
func NewLogrusEmitter() LogrusEmitter {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return LogrusEmitter{l}
}

// Emit implements Emitter.Emit.
func (e LogrusEmitter) Emit(depth int, level Level, timestamp time.Time, format string, v ...any) {
	entry := e.Logger.WithTime(timestamp)
	if _, file, line, ok := runtime.Caller(depth + 1); ok {
		if slash := strings.LastIndexByte(file, '/'); slash >= 0 {
			file = file[slash+1:]
		}
		entry = entry.WithField("source", fmt.Sprintf("%s:%d", file, line))
	}
	msg := fmt.Sprintf(format, v...)
	switch level {
	case Debug:
		entry.Debug(msg)
	case Info:
		entry.Info(msg)
	case Warning:
		entry.Warning(msg)
	}
}
