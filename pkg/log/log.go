// Copyright 2018 Google LLC
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

// Package log implements a simple logging framework for this core. Every
// subsystem logs through the package-level Debugf/Infof/Warningf functions
// (or a captured Logger), and the actual destination and format are
// swapped out by installing a different Emitter at process start.
package log

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Level is the log level used for the corresponding message.
type Level int32

const (
	// Warning indicates that the message is a warning.
	Warning Level = iota

	// Info indicates that the message is informational.
	Info

	// Debug indicates that the message is a debug message.
	Debug
)

// String returns a human-readable representation of the Level.
func (l Level) String() string {
	switch l {
	case Warning:
		return "Warning"
	case Info:
		return "Info"
	case Debug:
		return "Debug"
	default:
		return "Unknown"
	}
}

// Emitter is the final step in message logging. It formats the message and
// writes it to some form of output, subject to the given log level.
type Emitter interface {
	// Emit emits the given message, in the format given by format and
	// args, to the log. depth is the number of stack frames to skip when
	// adding file/line information to the message, if the Emitter
	// supports that; 0 means "the immediate caller of Emit".
	Emit(depth int, level Level, timestamp time.Time, format string, args ...any)
}

// EmitterFunc is a function-backed Emitter.
type EmitterFunc func(depth int, level Level, timestamp time.Time, format string, args ...any)

// Emit implements Emitter.Emit.
func (f EmitterFunc) Emit(depth int, level Level, timestamp time.Time, format string, args ...any) {
	f(depth+1, level, timestamp, format, args...)
}

// MultiEmitter is a list of Emitters that routes messages to all of them.
type MultiEmitter []Emitter

// Emit implements Emitter.Emit.
func (m MultiEmitter) Emit(depth int, level Level, timestamp time.Time, format string, v ...any) {
	for _, e := range m {
		e.Emit(depth+1, level, timestamp, format, v...)
	}
}

// Logger is the standard logging interface used by every subsystem of this
// core. Components that need to log take a Logger rather than calling the
// package-level functions directly, so tests can substitute a capturing
// implementation.
type Logger interface {
	// Debugf logs a debug-level message.
	Debugf(format string, v ...any)

	// Infof logs an info-level message.
	Infof(format string, v ...any)

	// Warningf logs a warning-level message.
	Warningf(format string, v ...any)

	// IsLogging returns whether the given level is currently being logged.
	// Callers that construct the message at non-trivial cost should check
	// this first.
	IsLogging(level Level) bool
}

// BasicLogger is the simplest Logger: it holds a Level and routes
// everything through an Emitter.
type BasicLogger struct {
	Level
	Emitter
}

// Debugf implements Logger.Debugf.
func (l *BasicLogger) Debugf(format string, v ...any) {
	l.DebugfAtDepth(1, format, v...)
}

// Infof implements Logger.Infof.
func (l *BasicLogger) Infof(format string, v ...any) {
	l.InfofAtDepth(1, format, v...)
}

// Warningf implements Logger.Warningf.
func (l *BasicLogger) Warningf(format string, v ...any) {
	l.WarningfAtDepth(1, format, v...)
}

// DebugfAtDepth logs a debug message, skipping an additional depth stack
// frames when locating the caller for file/line annotation.
func (l *BasicLogger) DebugfAtDepth(depth int, format string, v ...any) {
	if l.IsLogging(Debug) {
		l.Emit(1+depth, Debug, time.Now(), format, v...)
	}
}

// InfofAtDepth logs an info message, skipping an additional depth stack
// frames when locating the caller for file/line annotation.
func (l *BasicLogger) InfofAtDepth(depth int, format string, v ...any) {
	if l.IsLogging(Info) {
		l.Emit(1+depth, Info, time.Now(), format, v...)
	}
}

// WarningfAtDepth logs a warning message, skipping an additional depth
// stack frames when locating the caller for file/line annotation.
func (l *BasicLogger) WarningfAtDepth(depth int, format string, v ...any) {
	if l.IsLogging(Warning) {
		l.Emit(1+depth, Warning, time.Now(), format, v...)
	}
}

// IsLogging implements Logger.IsLogging.
func (l *BasicLogger) IsLogging(level Level) bool {
	return atomic.LoadInt32((*int32)(&l.Level)) >= int32(level)
}

// SetLevel atomically updates the logger's level.
func (l *BasicLogger) SetLevel(level Level) {
	atomic.StoreInt32((*int32)(&l.Level), int32(level))
}

// log is the current global logger.
var log atomic.Pointer[BasicLogger]

func init() {
	log.Store(&BasicLogger{Level: Warning, Emitter: GoogleEmitter{&Writer{Next: fmtWriter{}}}})
}

// fmtWriter writes to standard output via fmt.Print, avoiding an import cycle with
// os in the common case where a file isn't configured yet.
type fmtWriter struct{}

func (fmtWriter) Write(b []byte) (int, error) {
	return fmt.Print(string(b))
}

// Log returns the current global logger.
func Log() *BasicLogger {
	return log.Load()
}

// SetTarget sets the current logging target.
func SetTarget(target Emitter) {
	Log().Emitter = target
}

// Debugf logs a debug message using the global logger.
func Debugf(format string, v ...any) {
	Log().DebugfAtDepth(1, format, v...)
}

// Infof logs an info message using the global logger.
func Infof(format string, v ...any) {
	Log().InfofAtDepth(1, format, v...)
}

// Warningf logs a warning message using the global logger.
func Warningf(format string, v ...any) {
	Log().WarningfAtDepth(1, format, v...)
}

// IsLogging returns whether the given level is currently being logged.
func IsLogging(level Level) bool {
	return Log().IsLogging(level)
}

// Writer writes log messages to Next, dropping (rather than blocking on, or
// growing without bound) messages that fail to write so that a stalled log
// sink can never back up and wedge the process issuing the log call.
type Writer struct {
	// Next receives log messages.
	Next io.Writer

	mu      sync.Mutex
	omitted int
}

// Write implements io.Writer.Write.
func (l *Writer) Write(data []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.omitted > 0 {
		fmt.Fprintf(l.Next, "\n*** Dropped %d log messages ***\n", l.omitted)
		l.omitted = 0
	}
	n, err := l.Next.Write(data)
	if err != nil {
		l.omitted++
	}
	return n, err
}
