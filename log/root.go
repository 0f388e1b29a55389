// Copyright 2022-2026 The N42 Authors
// This file is part of the N42 library.
//
// The N42 library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The N42 library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the N42 library. If not, see <http://www.gnu.org/licenses/>.

// Package log implements the structured key/value logger used throughout
// evmflow: a small log15-style Logger interface backed by logrus, with a
// prefixed terminal formatter and a single environment-variable-controlled
// verbosity level.
//
// evmflow keeps no persisted state and opens no files or sockets of its
// own, so this logger writes diagnostics to stderr only — there is no file
// rotation or on-disk log management here.
package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
)

// Lvl is a log verbosity level, ordered from most to least severe.
type Lvl int

const skipLevel = 3

const (
	LvlCrit Lvl = iota
	LvlError
	LvlWarn
	LvlInfo
	LvlDebug
	LvlTrace
)

// EnvVar is the environment variable consulted for log verbosity, read
// once during Init.
const EnvVar = "LOG_LEVEL"

func (l Lvl) logrusLevel() logrus.Level {
	switch l {
	case LvlCrit:
		return logrus.FatalLevel
	case LvlError:
		return logrus.ErrorLevel
	case LvlWarn:
		return logrus.WarnLevel
	case LvlInfo:
		return logrus.InfoLevel
	case LvlDebug:
		return logrus.DebugLevel
	case LvlTrace:
		return logrus.TraceLevel
	default:
		return logrus.InfoLevel
	}
}

func lvlFromString(s string) Lvl {
	switch s {
	case "crit", "fatal":
		return LvlCrit
	case "error":
		return LvlError
	case "warn", "warning":
		return LvlWarn
	case "debug":
		return LvlDebug
	case "trace":
		return LvlTrace
	default:
		return LvlInfo
	}
}

var (
	terminal = logrus.New()

	root = &logger{ctx: nil}

	initOnce sync.Once
)

// Init configures the root logger from the LOG_LEVEL environment variable.
// It is idempotent: only the first call takes effect, since process-wide
// configuration should only ever be set up once.
func Init() {
	initOnce.Do(func() {
		formatter := new(prefixed.TextFormatter)
		formatter.TimestampFormat = "2006-01-02 15:04:05"
		formatter.FullTimestamp = true
		formatter.DisableColors = false

		terminal.SetFormatter(formatter)
		terminal.SetOutput(colorable.NewColorableStderr())
		terminal.SetLevel(lvlFromString(os.Getenv(EnvVar)).logrusLevel())
	})
}

// logger is the concrete Logger implementation: an immutable key/value
// context plus a shared logrus backend.
type logger struct {
	ctx []interface{}
}

// New returns a new logger with the given context appended to this
// logger's context. New is a convenient alias for Root().New.
func New(ctx ...interface{}) Logger {
	return root.New(ctx...)
}

func (l *logger) New(ctx ...interface{}) Logger {
	merged := make([]interface{}, 0, len(l.ctx)+len(ctx))
	merged = append(merged, l.ctx...)
	merged = append(merged, ctx...)
	return &logger{ctx: merged}
}

func (l *logger) write(msg string, lvl Lvl, ctx []interface{}) {
	Init()
	fields := make(logrus.Fields, (len(l.ctx)+len(ctx))/2)
	addFields(fields, l.ctx)
	addFields(fields, ctx)

	entry := terminal.WithFields(fields)
	switch lvl {
	case LvlCrit:
		entry.Error(msg) // Fatal/Exit handled by the package-level Crit func
	case LvlError:
		entry.Error(msg)
	case LvlWarn:
		entry.Warn(msg)
	case LvlInfo:
		entry.Info(msg)
	case LvlDebug:
		entry.Debug(msg)
	case LvlTrace:
		entry.Trace(msg)
	}
}

func addFields(fields logrus.Fields, ctx []interface{}) {
	for i := 0; i+1 < len(ctx); i += 2 {
		key, ok := ctx[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", ctx[i])
		}
		fields[key] = ctx[i+1]
	}
}

func (l *logger) Trace(msg string, ctx ...interface{}) { l.write(msg, LvlTrace, ctx) }
func (l *logger) Debug(msg string, ctx ...interface{}) { l.write(msg, LvlDebug, ctx) }
func (l *logger) Info(msg string, ctx ...interface{})  { l.write(msg, LvlInfo, ctx) }
func (l *logger) Warn(msg string, ctx ...interface{})  { l.write(msg, LvlWarn, ctx) }
func (l *logger) Error(msg string, ctx ...interface{}) { l.write(msg, LvlError, ctx) }
func (l *logger) Crit(msg string, ctx ...interface{}) {
	l.write(msg, LvlCrit, ctx)
	os.Exit(1)
}

// Root returns the root logger.
func Root() Logger { return root }

// Trace is a convenient alias for Root().Trace.
func Trace(msg string, ctx ...interface{}) { root.Trace(msg, ctx...) }

// Debug is a convenient alias for Root().Debug.
func Debug(msg string, ctx ...interface{}) { root.Debug(msg, ctx...) }

// Info is a convenient alias for Root().Info.
func Info(msg string, ctx ...interface{}) { root.Info(msg, ctx...) }

// Warn is a convenient alias for Root().Warn.
func Warn(msg string, ctx ...interface{}) { root.Warn(msg, ctx...) }

// Error is a convenient alias for Root().Error.
func Error(msg string, ctx ...interface{}) { root.Error(msg, ctx...) }

// Crit is a convenient alias for Root().Crit. It terminates the process.
func Crit(msg string, ctx ...interface{}) { root.Crit(msg, ctx...) }

// A Logger writes key/value pairs to the shared handler.
type Logger interface {
	// New returns a new Logger that has this logger's context plus the
	// given context.
	New(ctx ...interface{}) Logger

	Trace(msg string, ctx ...interface{})
	Debug(msg string, ctx ...interface{})
	Info(msg string, ctx ...interface{})
	Warn(msg string, ctx ...interface{})
	Error(msg string, ctx ...interface{})
	Crit(msg string, ctx ...interface{})
}
