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

// Package video is the console's video peripheral contract. The tile and
// sprite pixel pipeline is out of scope; this package models only the
// scan timing the scheduler needs: when the next HBlank/VBlank boundary
// falls, and raising the corresponding IRQs when enabled.
package video

import (
	"github.com/kestrelemu/gba/console/interrupt"
)

const (
	cyclesPerScanline = 1232
	scanlinesPerFrame = 228
	visibleScanlines  = 160
)

// IRQHost is the back-reference a Unit borrows to raise IRQs.
type IRQHost interface {
	RaiseIRQ(irq interrupt.IRQ)
}

// Unit tracks scan position and the HBlank/VBlank IRQ enable bits. It
// does not render anything.
type Unit struct {
	host IRQHost

	HBlankIRQ bool
	VBlankIRQ bool
	VCountIRQ bool

	// VCountSetting is the scanline DISPSTAT's VCount-match bits name;
	// VCountIRQ fires when the current line reaches it.
	VCountSetting int

	cycleInLine int32
	line        int
}

// NewUnit is the preferred method of initialisation for the Unit type.
func NewUnit(host IRQHost) *Unit {
	return &Unit{host: host}
}

// Advance runs the scanline counter forward by cycles, raising HBlank,
// VBlank and VCount-match IRQs as their boundaries are crossed, and
// returns the cycle count remaining until the next boundary.
func (u *Unit) Advance(cycles int32) int32 {
	u.cycleInLine += cycles

	for u.cycleInLine >= cyclesPerScanline {
		u.cycleInLine -= cyclesPerScanline
		if u.HBlankIRQ {
			u.host.RaiseIRQ(interrupt.HBlank)
		}

		u.line = (u.line + 1) % scanlinesPerFrame
		if u.line == visibleScanlines && u.VBlankIRQ {
			u.host.RaiseIRQ(interrupt.VBlank)
		}
		if u.VCountIRQ && u.line == u.VCountSetting {
			u.host.RaiseIRQ(interrupt.VCount)
		}
	}

	return cyclesPerScanline - u.cycleInLine
}
