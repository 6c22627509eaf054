// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package console

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/kestrelemu/gba/environment"
	"github.com/kestrelemu/gba/logger"
)

// LogLevel is one of the fault sink's levels. They combine into a mask
// selecting which are emitted; Fatal is always emitted regardless of the
// mask and terminates the process.
type LogLevel uint8

// Levels.
const (
	Debug LogLevel = 1 << iota
	Stub
	Info
	Warn
	Error
	Fatal
)

func (l LogLevel) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Stub:
		return "STUB"
	case Info:
		return "INFO"
	case Warn:
		return "WARN"
	case Error:
		return "ERROR"
	case Fatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// DefaultLogMask is emitted by a Console that hasn't been given an
// explicit mask: Info, Warn, Error and Fatal.
const DefaultLogMask = Info | Warn | Error | Fatal

// Handler receives every emitted log line when a Console has one
// installed, bypassing the mask entirely (the handler decides what to do
// with every level).
type Handler func(level LogLevel, msg string)

// LogPermission adapts a Console's environment to logger.Permission, so
// the shared ring-buffer logger is gated the same way the console's own
// mask/handler path is: only the main emulation instance is allowed to
// write, secondary or headless instances are muted.
type LogPermission struct {
	env *environment.Environment
}

// AllowLogging implements logger.Permission.
func (p LogPermission) AllowLogging() bool {
	if p.env == nil {
		return true
	}
	return p.env.AllowLogging()
}

var current atomic.Pointer[Console]
var currentMu sync.Mutex

// setCurrent installs c as the ambient "current console" consulted by Log
// when called with a nil Console. Only one console may be current at a
// time; a clean redesign would pass the console explicitly everywhere
// instead of relying on this fallback (see DESIGN.md).
func setCurrent(c *Console) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current.Store(c)
}

// clearCurrent removes c as the ambient console if it is still current.
func clearCurrent(c *Console) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current.CompareAndSwap(c, nil)
}

// Log routes a formatted message through c's handler if one is set,
// otherwise writes to stdout when level is in c's mask or is Fatal. If c
// is nil the ambient current console is consulted instead. Every call
// also appends to the shared ring-buffer logger, gated by the console's
// environment via LogPermission, regardless of mask or handler — the
// ring buffer is a separate, always-on retention log, independent of
// what the mask lets through to stdout. Fatal terminates the process
// after writing.
func Log(c *Console, level LogLevel, format string, args ...any) {
	if c == nil {
		c = current.Load()
	}

	msg := fmt.Sprintf(format, args...)

	var env *environment.Environment
	if c != nil {
		env = c.env
	}
	logger.Logf(LogPermission{env}, level.String(), "%s", msg)

	if c != nil && c.logHandler != nil {
		c.logHandler(level, msg)
		if level == Fatal {
			os.Exit(1)
		}
		return
	}

	mask := DefaultLogMask
	if c != nil {
		mask = c.logMask
	}

	if level&mask != 0 || level == Fatal {
		fmt.Printf("%s: %s\n", level, msg)
	}

	if level == Fatal {
		os.Exit(1)
	}
}

// SetLogHandler installs h as c's log handler, routing every emitted
// message there instead of stdout. Passing nil restores the mask-based
// stdout behaviour.
func (c *Console) SetLogHandler(h Handler) {
	c.logHandler = h
}

// SetLogMask replaces c's level mask.
func (c *Console) SetLogMask(mask LogLevel) {
	c.logMask = mask
}
