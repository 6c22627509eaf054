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

// Package interrupt implements the console's three interrupt registers
// (IME, IE, IF) and the deferred "spring IRQ" mechanism used to raise
// interrupts detected mid-instruction without corrupting CPU state.
package interrupt

import (
	"github.com/kestrelemu/gba/logger"
)

// IRQ identifies one of the interrupt sources the controller understands.
// Bit position in IE/IF matches the value.
type IRQ int

// Interrupt sources, in IE/IF bit order.
const (
	VBlank IRQ = iota
	HBlank
	VCount
	Timer0
	Timer1
	Timer2
	Timer3
	Serial
	DMA0
	DMA1
	DMA2
	DMA3
	Keypad
	Gamepak
)

// CPU is the back-reference the controller uses to pulse the IRQ line
// and clear halt. The controller holds it, without owning it, from
// NewController onwards.
type CPU interface {
	PulseIRQ()
	ClearHalt()
	SetNextEvent(cycles int32)
}

// Controller holds the three interrupt registers and the spring-IRQ flag.
type Controller struct {
	cpu CPU

	IME uint16
	IE  uint16
	IF  uint16

	springIRQ bool
}

// NewController is the preferred method of initialisation for the
// Controller type.
func NewController(cpu CPU) *Controller {
	return &Controller{cpu: cpu}
}

// RaiseIRQ sets the pending bit for irq, clears CPU halt, and pulses the
// IRQ line immediately if the interrupt is currently enabled and unmasked.
func (c *Controller) RaiseIRQ(irq IRQ) {
	c.IF |= 1 << uint(irq)
	c.cpu.ClearHalt()

	if c.IME != 0 && c.IE&(1<<uint(irq)) != 0 {
		c.cpu.PulseIRQ()
	}
}

// WriteIE updates the interrupt enable mask. A pending interrupt that
// becomes newly unmasked fires immediately. Keypad and Game Pak interrupts
// are logged as unimplemented stubs; this core never raises them.
func (c *Controller) WriteIE(value uint16) {
	if value&(1<<uint(Keypad)) != 0 {
		logger.Log(logger.Allow, "interrupt", "keypad interrupts not implemented")
	}
	if value&(1<<uint(Gamepak)) != 0 {
		logger.Log(logger.Allow, "interrupt", "gamepak interrupts not implemented")
	}

	c.IE = value

	if c.IME != 0 && value&c.IF != 0 {
		c.cpu.PulseIRQ()
	}
}

// WriteIME updates the master enable bit. Symmetric with WriteIE: if the
// new value unmasks an already-pending, already-enabled interrupt, it
// fires immediately.
func (c *Controller) WriteIME(value uint16) {
	c.IME = value

	if value != 0 && c.IE&c.IF != 0 {
		c.cpu.PulseIRQ()
	}
}

// Acknowledge clears the pending bits set in value, implementing the IF
// register's write-1-to-clear semantics on behalf of the memory-mapped
// register file.
func (c *Controller) Acknowledge(value uint16) {
	c.IF &^= value
}

// TestIRQ is invoked by the CPU's CPSR-read hook. If an enabled, unmasked
// interrupt is pending it defers the raise to the next scheduler entry
// rather than pulsing the IRQ line mid-instruction.
func (c *Controller) TestIRQ() {
	if c.IME != 0 && c.IE&c.IF != 0 {
		c.springIRQ = true
		c.cpu.SetNextEvent(0)
	}
}

// DrainSpring pulses the IRQ line if TestIRQ deferred a raise, and clears
// the flag. It must be the first action of every scheduler entry.
func (c *Controller) DrainSpring() {
	if c.springIRQ {
		c.cpu.PulseIRQ()
		c.springIRQ = false
	}
}
