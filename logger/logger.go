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

// Package logger implements a small capped-ring logger shared by every
// package in this module. Entries are gated by a Permission so that a
// secondary or headless instance of the emulation can be muted without
// touching call sites.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Permission is consulted before an entry is appended. Only the instance(s)
// that should be allowed to pollute the shared log return true.
type Permission interface {
	AllowLogging() bool
}

// Allow is a Permission that always allows logging. Useful at call sites
// that have no narrower permission to hand.
var Allow Permission = allowPermission{}

type allowPermission struct{}

func (allowPermission) AllowLogging() bool { return true }

// Logger is a capped ring of "tag: detail" entries.
type Logger struct {
	mu       sync.Mutex
	capacity int
	entries  []string
}

// NewLogger is the preferred method of initialisation for the Logger type.
func NewLogger(capacity int) *Logger {
	return &Logger{capacity: capacity}
}

func formatDetail(detail any) string {
	switch detail := detail.(type) {
	case error:
		return detail.Error()
	case fmt.Stringer:
		return detail.String()
	default:
		return fmt.Sprintf("%v", detail)
	}
}

// Log appends a "tag: detail" entry if perm allows it.
func (l *Logger) Log(perm Permission, tag string, detail any) {
	if perm == nil || !perm.AllowLogging() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, fmt.Sprintf("%s: %s", tag, formatDetail(detail)))
	if l.capacity > 0 && len(l.entries) > l.capacity {
		l.entries = l.entries[len(l.entries)-l.capacity:]
	}
}

// Logf is Log with a format string.
func (l *Logger) Logf(perm Permission, tag string, format string, args ...any) {
	l.Log(perm, tag, fmt.Sprintf(format, args...))
}

// Write writes every retained entry to w, one per line.
func (l *Logger) Write(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, e := range l.entries {
		fmt.Fprintf(w, "%s\n", e)
	}
}

// Tail writes the last n entries to w, one per line. Asking for more
// entries than are retained is not an error; Tail writes however many
// exist.
func (l *Logger) Tail(w io.Writer, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 {
		return
	}

	start := len(l.entries) - n
	if start < 0 {
		start = 0
	}

	for _, e := range l.entries[start:] {
		fmt.Fprintf(w, "%s\n", e)
	}
}

// Clear empties the logger.
func (l *Logger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// String renders every retained entry, mainly for debugging.
func (l *Logger) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var b strings.Builder
	for _, e := range l.entries {
		b.WriteString(e)
		b.WriteString("\n")
	}
	return b.String()
}

// defaultCapacity is generous enough that normal runs never trim; it exists
// so the ambient logger doesn't grow without bound in long debugging
// sessions.
const defaultCapacity = 2048

// central is the ambient, package-level logger used by call sites that have
// no narrower Logger instance to hand (the "current console" fallback
// described by the fault sink design).
var central = NewLogger(defaultCapacity)

// Log appends to the ambient logger.
func Log(perm Permission, tag string, detail any) {
	central.Log(perm, tag, detail)
}

// Logf appends to the ambient logger using a format string.
func Logf(perm Permission, tag string, format string, args ...any) {
	central.Logf(perm, tag, format, args...)
}

// Write writes the ambient logger's retained entries to w.
func Write(w io.Writer) {
	central.Write(w)
}

// Tail writes the ambient logger's last n entries to w.
func Tail(w io.Writer, n int) {
	central.Tail(w, n)
}

// Clear empties the ambient logger.
func Clear() {
	central.Clear()
}
