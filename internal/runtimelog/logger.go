// Copyright 2025 Google LLC
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

// Package runtimelog provides the one structured logger every long-running
// RefPerSys process shares, matching the teacher's internal/logger
// severity vocabulary (TRACE/DEBUG/INFO/WARNING/ERROR) on top of
// log/slog, with output optionally rotated through
// gopkg.in/natefinch/lumberjack.v2 when a log file path is configured
// instead of stderr.
package runtimelog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity mirrors the five levels the teacher's logger_test.go exercises
// (TRACE is finer than slog's built-in LevelDebug, so it gets its own
// negative offset).
type Severity int

const (
	Trace Severity = iota - 2
	Debug
	Info
	Warning
	Error
)

func (s Severity) slogLevel() slog.Level {
	switch s {
	case Trace:
		return slog.Level(-8)
	case Debug:
		return slog.LevelDebug
	case Warning:
		return slog.Level(2)
	case Error:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (s Severity) String() string {
	switch s {
	case Trace:
		return "TRACE"
	case Debug:
		return "DEBUG"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	default:
		return "INFO"
	}
}

// Logger wraps an *slog.Logger plus the rotation sink backing it, when
// one was configured. Every RefPerSys component that logs takes a
// *Logger rather than calling the global slog default, matching
// spec.md's Design Notes preference for explicit handles over ambient
// globals.
type Logger struct {
	sl   *slog.Logger
	file *lumberjack.Logger // nil when logging to stderr
}

// Options configures New. A zero Options logs text-formatted lines to
// stderr at Info and above.
type Options struct {
	// FilePath, if non-empty, routes output through a lumberjack-backed
	// rotating file instead of stderr.
	FilePath string
	// MaxSizeMB, MaxBackups, MaxAgeDays follow lumberjack.Logger's own
	// fields; zero values fall back to lumberjack's defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// JSON selects the structured JSON handler instead of the default
	// text handler; both emit the same severity vocabulary.
	JSON bool

	// MinLevel is the lowest Severity that is emitted; Debug-level
	// messages with a MinLevel of Info are dropped before formatting.
	MinLevel Severity
}

// New builds a Logger per opts.
func New(opts Options) *Logger {
	var w io.Writer = os.Stderr
	var file *lumberjack.Logger
	if opts.FilePath != "" {
		file = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		w = file
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.MinLevel.slogLevel()}
	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return &Logger{sl: slog.New(handler), file: file}
}

// Close flushes and closes the rotating file sink, if any.
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

func (l *Logger) log(sev Severity, msg string) {
	l.sl.Log(context.Background(), sev.slogLevel(), msg, "severity", sev.String(), "time", time.Now().Format(time.RFC3339Nano))
}

func (l *Logger) Tracef(format string, args ...any)   { l.log(Trace, fmt.Sprintf(format, args...)) }
func (l *Logger) Debugf(format string, args ...any)   { l.log(Debug, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)    { l.log(Info, fmt.Sprintf(format, args...)) }
func (l *Logger) Warningf(format string, args ...any) { l.log(Warning, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any)   { l.log(Error, fmt.Sprintf(format, args...)) }
