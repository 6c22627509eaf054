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

// Package timer implements the console's four cascading hardware timers:
// prescaled counters that overflow on a schedule, optionally chaining off
// the preceding timer's overflow (count-up mode) instead of the CPU clock.
package timer

import (
	"math"

	"github.com/kestrelemu/gba/console/interrupt"
)

// Count is the number of timers in an Array.
const Count = 4

// MaxEvent marks a timer that will not independently produce the next
// wake cycle (disabled, or running in count-up mode awaiting its
// predecessor).
const MaxEvent = math.MaxInt32

// prescaleShift maps the two control bits (0-3) to the cycle shift amount.
var prescaleShift = [4]uint8{0, 6, 8, 10}

// Host is the back-reference an Array holds to the console, without
// owning it, from NewArray onwards.
type Host interface {
	// SetCount writes the materialised count register for timer index.
	SetCount(index int, v uint16)

	// IncrementCount adds one to the count register of a count-up timer
	// and returns the new, wrapped value. Called only for timers in
	// count-up mode, whose register is otherwise untouched by Advance.
	IncrementCount(index int) uint16

	// RaiseIRQ raises the IRQ associated with timer index overflowing.
	RaiseIRQ(irq interrupt.IRQ)

	// SampleFIFO is invoked unconditionally on overflow of timer index 0
	// or 1. The implementation is responsible for checking whether the
	// audio unit is enabled and has a FIFO channel routed to this timer
	// before sampling. fractional is the elapsed-cycle offset
	// (Timer.LastEvent) at the moment of overflow.
	SampleFIFO(index int, fractional int32)
}

var timerIRQ = [Count]interrupt.IRQ{interrupt.Timer0, interrupt.Timer1, interrupt.Timer2, interrupt.Timer3}

// Timer is one of the four cascading counters.
type Timer struct {
	Enable       bool
	CountUp      bool
	DoIRQ        bool
	PrescaleBits uint8
	Reload       uint16
	OldReload    uint16

	OverflowInterval int32
	NextEvent        int32
	LastEvent        int32
}

// Array is the complete set of four timers plus the global enabled mask
// used to skip the array entirely when nothing is running.
type Array struct {
	host Host

	timers      [Count]Timer
	enabledMask uint8
}

// NewArray is the preferred method of initialisation for the Array type.
func NewArray(host Host) *Array {
	return &Array{host: host}
}

// Timer returns a copy of timer index's current state, mainly for tests
// and debugging views.
func (a *Array) Timer(index int) Timer {
	return a.timers[index]
}

// count materialises the visible count register for timer index at the
// given CPU cycle, per the "polling a count register" rule. It does not
// touch count-up timers, whose count register is maintained directly by
// the cascading overflow of the preceding timer.
func (a *Array) count(index int, cpuCycles int32) uint16 {
	t := &a.timers[index]
	return t.OldReload + uint16((cpuCycles-t.LastEvent)>>t.PrescaleBits)
}

// UpdateRegister materialises timer index's count register into the host,
// if the timer is enabled and not in count-up mode. Used both by register
// reads and as the first step of a control write.
func (a *Array) UpdateRegister(index int, cpuCycles int32) {
	t := &a.timers[index]
	if t.Enable && !t.CountUp {
		a.host.SetCount(index, a.count(index, cpuCycles))
	}
}

// WriteReload stores the reload value. It takes effect only at the next
// overflow; the running count and overflow interval are untouched.
func (a *Array) WriteReload(index int, reload uint16) {
	a.timers[index].Reload = reload
}

// WriteControl decodes a write to the timer's control register (the low
// byte of TMxCNT_HI) and updates the timer's schedule accordingly. cpuNextEvent
// is the CPU's current next-wake cycle; WriteControl returns the value it
// should become (the smaller of the two).
func (a *Array) WriteControl(index int, cpuCycles int32, cpuNextEvent int32, control uint16) int32 {
	t := &a.timers[index]

	a.UpdateRegister(index, cpuCycles)

	oldPrescale := t.PrescaleBits
	t.PrescaleBits = prescaleShift[control&0x0003]
	t.CountUp = control&0x0004 != 0
	t.DoIRQ = control&0x0040 != 0
	t.OverflowInterval = (0x10000 - int32(t.Reload)) << t.PrescaleBits

	wasEnabled := t.Enable
	t.Enable = control&0x0080 != 0

	switch {
	case !wasEnabled && t.Enable:
		if !t.CountUp {
			t.NextEvent = cpuCycles + t.OverflowInterval
		} else {
			t.NextEvent = MaxEvent
		}
		a.host.SetCount(index, t.Reload)
		t.OldReload = t.Reload
		t.LastEvent = 0
		a.enabledMask |= 1 << uint(index)

	case wasEnabled && !t.Enable:
		if !t.CountUp {
			a.host.SetCount(index, t.OldReload+uint16((cpuCycles-t.LastEvent)>>oldPrescale))
		}
		a.enabledMask &^= 1 << uint(index)

	case t.PrescaleBits != oldPrescale && !t.CountUp:
		// may land at or before cpuCycles, in which case the next
		// scheduler entry fires immediately
		t.NextEvent = t.LastEvent + t.OverflowInterval
	}

	if t.NextEvent < cpuNextEvent {
		return t.NextEvent
	}
	return cpuNextEvent
}

// Advance runs every enabled timer forward by cycles, in index order,
// raising IRQs, materialising overflowed count registers, sampling the
// audio FIFO, and cascading count-up chains. It returns the minimum next
// wake cycle across all enabled timers, or MaxEvent if none are enabled.
func (a *Array) Advance(cycles int32) int32 {
	nextEvent := int32(MaxEvent)
	if a.enabledMask == 0 {
		return nextEvent
	}

	for i := 0; i < Count; i++ {
		t := &a.timers[i]
		if !t.Enable {
			continue
		}

		t.NextEvent -= cycles
		t.LastEvent -= cycles

		if t.NextEvent <= 0 {
			t.LastEvent = t.NextEvent
			t.NextEvent += t.OverflowInterval
			a.host.SetCount(i, t.Reload)
			t.OldReload = t.Reload

			if t.DoIRQ {
				a.host.RaiseIRQ(timerIRQ[i])
			}

			if i == 0 || i == 1 {
				a.host.SampleFIFO(i, t.LastEvent)
			}

			if t.CountUp {
				t.NextEvent = MaxEvent
			}

			if i+1 < Count {
				next := &a.timers[i+1]
				if next.CountUp {
					count := a.host.IncrementCount(i + 1)
					if count == 0 {
						next.NextEvent = 0
					}
				}
			}
		}

		if t.NextEvent < nextEvent {
			nextEvent = t.NextEvent
		}
	}

	return nextEvent
}
