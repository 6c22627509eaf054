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

// Package memory implements the memory-mapped I/O register file the
// console kernel consumes: the timer reload/control registers, and the
// three interrupt registers. Registers with side effects dispatch through
// the Bus interface to whichever peripheral owns the behaviour; everything
// else is backed by the raw register file, so peripherals outside this
// kernel's scope can still store and recall their register state through
// the same page.
//
// The full waitstate table and the cartridge/EWRAM/IWRAM address decoding
// belong to a larger memory implementation; this package covers the I/O
// page only.
package memory

// Register offsets into the I/O page. Timer registers follow a fixed
// stride: TM1CNT_LO is TM0CNT_LO+4, and so on.
const (
	TM0CNT_LO uint32 = 0x100
	TM0CNT_HI uint32 = 0x102
	TM1CNT_LO uint32 = 0x104
	TM1CNT_HI uint32 = 0x106
	TM2CNT_LO uint32 = 0x108
	TM2CNT_HI uint32 = 0x10a
	TM3CNT_LO uint32 = 0x10c
	TM3CNT_HI uint32 = 0x10e
	KEYINPUT  uint32 = 0x130
	IE        uint32 = 0x200
	IF        uint32 = 0x202
	IME       uint32 = 0x208
)

// pageSize is the extent of the I/O page in bytes.
const pageSize = 0x400

// timerStride is the distance in bytes between consecutive timers'
// register pairs.
const timerStride = 4

// Bus is implemented by the console, dispatching register accesses with
// side effects to the peripheral that owns them. IO holds it, without
// owning it, from NewIO onwards.
type Bus interface {
	// TimerWriteReload stores the reload value for timer index. It takes
	// effect at the timer's next overflow.
	TimerWriteReload(index int, value uint16)

	// TimerWriteControl decodes a control write for timer index,
	// rescheduling it as needed.
	TimerWriteControl(index int, value uint16)

	// TimerReadCount materialises and returns the current count for timer
	// index.
	TimerReadCount(index int) uint16

	// WriteIE updates the interrupt enable mask.
	WriteIE(value uint16)

	// WriteIME updates the interrupt master enable.
	WriteIME(value uint16)

	// AcknowledgeIRQ clears the pending interrupt bits set in value
	// (write-1-to-clear).
	AcknowledgeIRQ(value uint16)

	// ReadKeys returns the current KEYINPUT state (active low).
	ReadKeys() uint16

	// InterruptRegisters returns the current IE, IF and IME values.
	InterruptRegisters() (ie uint16, pending uint16, ime uint16)
}

// IO is the memory-mapped I/O register file.
type IO struct {
	bus Bus

	regs [pageSize / 2]uint16
}

// NewIO is the preferred method of initialisation for the IO type.
func NewIO(bus Bus) *IO {
	return &IO{bus: bus}
}

// timerIndex returns the timer index for a register address within the
// timer block, and whether the address is the count/reload (low) register.
func timerIndex(address uint32) (int, bool) {
	return int((address - TM0CNT_LO) / timerStride), address&0x2 == 0
}

// Read16 reads the 16-bit register at address. Reading a timer's count
// register materialises the current count first; reading IE/IF/IME
// consults the interrupt controller; reading KEYINPUT consults the
// attached key source. Every other register reads back whatever was last
// stored.
func (io *IO) Read16(address uint32) uint16 {
	address &= pageSize - 1

	switch {
	case address >= TM0CNT_LO && address <= TM3CNT_HI:
		index, lo := timerIndex(address)
		if lo {
			return io.bus.TimerReadCount(index)
		}
	case address == KEYINPUT:
		return io.bus.ReadKeys()
	case address == IE:
		ie, _, _ := io.bus.InterruptRegisters()
		return ie
	case address == IF:
		_, pending, _ := io.bus.InterruptRegisters()
		return pending
	case address == IME:
		_, _, ime := io.bus.InterruptRegisters()
		return ime
	}

	return io.regs[address>>1]
}

// Write16 writes the 16-bit register at address, dispatching registers
// with side effects through the Bus.
func (io *IO) Write16(address uint32, value uint16) {
	address &= pageSize - 1

	switch {
	case address >= TM0CNT_LO && address <= TM3CNT_HI:
		index, lo := timerIndex(address)
		if lo {
			// the reload value shares an address with the count register
			// but is a separate piece of state; the count register slot in
			// regs is only ever touched by materialisation.
			io.bus.TimerWriteReload(index, value)
			return
		}
		io.regs[address>>1] = value
		io.bus.TimerWriteControl(index, value)
		return
	case address == IE:
		io.bus.WriteIE(value)
		return
	case address == IF:
		io.bus.AcknowledgeIRQ(value)
		return
	case address == IME:
		io.bus.WriteIME(value)
		return
	}

	io.regs[address>>1] = value
}

// SetTimerCount stores the materialised count register for timer index.
// It is the timer array's write path into the register file; guest reads
// of the same register go through Read16/TimerReadCount.
func (io *IO) SetTimerCount(index int, value uint16) {
	io.regs[(TM0CNT_LO+uint32(index)*timerStride)>>1] = value
}

// TimerCount returns the stored count register for timer index without
// materialising it. Callers wanting the live count use Read16.
func (io *IO) TimerCount(index int) uint16 {
	return io.regs[(TM0CNT_LO+uint32(index)*timerStride)>>1]
}

// IncrementTimerCount adds one to the stored count register for timer
// index and returns the new, wrapped value. Used by the count-up cascade,
// which advances the register directly rather than on a schedule.
func (io *IO) IncrementTimerCount(index int) uint16 {
	i := (TM0CNT_LO + uint32(index)*timerStride) >> 1
	io.regs[i]++
	return io.regs[i]
}
