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

// Package console is the aggregate root: it wires the CPU core, interrupt
// controller, timer array and the video/audio/DMA/SIO peripheral
// contracts together, drives the scheduler, and owns the BIOS/cartridge
// lifecycle (load, patch, reset, eject).
package console

import (
	"crypto/sha1"
	"fmt"

	"io"

	"github.com/kestrelemu/gba/cartridgeloader"
	"github.com/kestrelemu/gba/console/audio"
	"github.com/kestrelemu/gba/console/cartridge"
	"github.com/kestrelemu/gba/console/cpu"
	"github.com/kestrelemu/gba/console/diagnostics"
	"github.com/kestrelemu/gba/console/dma"
	"github.com/kestrelemu/gba/console/gpio"
	"github.com/kestrelemu/gba/console/interrupt"
	"github.com/kestrelemu/gba/console/memory"
	"github.com/kestrelemu/gba/console/sio"
	"github.com/kestrelemu/gba/console/timer"
	"github.com/kestrelemu/gba/console/video"
	"github.com/kestrelemu/gba/environment"
	"github.com/kestrelemu/gba/notifications"
	"github.com/kestrelemu/gba/patch"
)

// BIOSSize is the fixed size of the GBA BIOS ROM.
const BIOSSize = 16 * 1024

// the Console is the host side of every peripheral contract in the tree
var _ cpu.InterruptHandler = (*Console)(nil)
var _ timer.Host = (*Console)(nil)
var _ memory.Bus = (*Console)(nil)
var _ video.IRQHost = (*Console)(nil)

// Console is a complete, running GBA kernel: the scheduler, the register
// state the peripheral contracts need a host for, and the lifecycle
// operations that attach and detach a BIOS and cartridge.
type Console struct {
	env *environment.Environment

	CPU       *cpu.Core
	Interrupt *interrupt.Controller
	Timers    *timer.Array
	Video     *video.Unit
	Audio     *audio.Unit
	DMA       *dma.Controller
	SIO       *sio.Unit

	// Mem is the memory-mapped I/O register file. It is the single source
	// of truth for register state shared between the CPU and peripherals;
	// the timer array's materialised count registers live here.
	Mem *memory.IO

	biosLoader cartridgeloader.Loader
	BIOS       []byte
	biosLoaded bool

	Cart *cartridge.Cartridge

	// non-owning references to host-side input and output devices,
	// forwarded to the matching GPIO device when a cartridge that carries
	// one is attached.
	keys     gpio.KeySource
	rotation gpio.RotationSource
	rumble   gpio.RumbleSink

	logMask    LogLevel
	logHandler Handler

	profiler *diagnostics.Profiler
}

// NewConsole is the preferred method of initialisation for the Console
// type. env supplies the host's preferences and notification sink and
// should be provided from construction.
func NewConsole(env *environment.Environment) *Console {
	c := &Console{
		env:     env,
		CPU:     &cpu.Core{},
		logMask: DefaultLogMask,
	}

	if env != nil && env.Prefs != nil {
		c.logMask = LogLevel(env.Prefs.LogMask.Get())
	}

	c.Interrupt = interrupt.NewController(c.CPU)
	c.Timers = timer.NewArray(c)
	c.Video = video.NewUnit(c)
	c.Audio = audio.NewUnit()
	c.DMA = dma.NewController()
	c.SIO = sio.NewUnit()
	c.Mem = memory.NewIO(c)

	return c
}

// RaiseIRQ satisfies both timer.Host and video.IRQHost.
func (c *Console) RaiseIRQ(irq interrupt.IRQ) {
	c.Interrupt.RaiseIRQ(irq)
}

// SetCount satisfies timer.Host.
func (c *Console) SetCount(index int, v uint16) {
	c.Mem.SetTimerCount(index, v)
}

// IncrementCount satisfies timer.Host.
func (c *Console) IncrementCount(index int) uint16 {
	return c.Mem.IncrementTimerCount(index)
}

// TimerWriteReload satisfies memory.Bus.
func (c *Console) TimerWriteReload(index int, value uint16) {
	c.Timers.WriteReload(index, value)
}

// TimerWriteControl satisfies memory.Bus, lowering the CPU's next-wake
// cycle if the rescheduled timer now fires sooner.
func (c *Console) TimerWriteControl(index int, value uint16) {
	c.CPU.NextEvent = c.Timers.WriteControl(index, c.CPU.Cycles, c.CPU.NextEvent, value)
}

// TimerReadCount satisfies memory.Bus: it materialises the current count
// into the register file before returning it.
func (c *Console) TimerReadCount(index int) uint16 {
	c.Timers.UpdateRegister(index, c.CPU.Cycles)
	return c.Mem.TimerCount(index)
}

// WriteIE satisfies memory.Bus.
func (c *Console) WriteIE(value uint16) {
	c.Interrupt.WriteIE(value)
}

// WriteIME satisfies memory.Bus.
func (c *Console) WriteIME(value uint16) {
	c.Interrupt.WriteIME(value)
}

// AcknowledgeIRQ satisfies memory.Bus.
func (c *Console) AcknowledgeIRQ(value uint16) {
	c.Interrupt.Acknowledge(value)
}

// InterruptRegisters satisfies memory.Bus.
func (c *Console) InterruptRegisters() (uint16, uint16, uint16) {
	return c.Interrupt.IE, c.Interrupt.IF, c.Interrupt.IME
}

// allKeysReleased is the KEYINPUT value when no key source is attached:
// every key bit high (active low).
const allKeysReleased = 0x03FF

// ReadKeys satisfies memory.Bus, consulting the attached key source.
func (c *Console) ReadKeys() uint16 {
	if c.keys == nil {
		return allKeysReleased
	}
	return c.keys.Keys()
}

// AttachKeySource installs the host's keypad state supplier. Passing nil
// detaches it; KEYINPUT then reads as all keys released.
func (c *Console) AttachKeySource(keys gpio.KeySource) {
	c.keys = keys
}

// AttachRotationSource installs the host's tilt/gyro sampler, forwarding
// it to the active cartridge's gyro device if it has one.
func (c *Console) AttachRotationSource(rotation gpio.RotationSource) {
	c.rotation = rotation
	if c.Cart != nil && c.Cart.Gyro != nil {
		c.Cart.Gyro.Source = rotation
	}
}

// AttachRumbleSink installs the host's rumble motor output, forwarding it
// to the active cartridge's rumble device if it has one.
func (c *Console) AttachRumbleSink(rumble gpio.RumbleSink) {
	c.rumble = rumble
	if c.Cart != nil && c.Cart.Rumble != nil {
		c.Cart.Rumble.Sink = rumble
	}
}

// SampleFIFO satisfies timer.Host, forwarding the overflow to the audio
// unit's FIFO sampling entry.
func (c *Console) SampleFIFO(index int, fractional int32) {
	c.Audio.SampleFIFO(index, fractional)
}

// Init prepares a freshly constructed Console for use: it logs a checksum
// of the (as yet unloaded, all-zero) BIOS region at Debug, matching the
// source's pre-load checksum log, and installs c as the ambient current
// console. It does not touch the CPU's state; Reset seeds that.
func (c *Console) Init() {
	setCurrent(c)

	zero := make([]byte, BIOSSize)
	Log(c, Debug, "bios checksum (pre-load): %x", sha1.Sum(zero))
}

// Reset seeds the CPU's stack pointers and privilege mode, matching the
// source's three fixed SP assignments, and clears the halt flag.
func (c *Console) Reset() {
	c.CPU.Reset()
	c.CPU.Halted = false
	c.CPU.NextEvent = 0
}

// Halt stops the CPU advancing until the next IRQ clears it, collapsing
// the cycle budget to the scheduler's next scheduled event.
func (c *Console) Halt() {
	c.CPU.Halt()
}

// LoadBIOS maps filename read-only, validates its size, and logs its
// identity: Info when the checksum matches a recognised BIOS build, Warn
// otherwise. If the host's StrictChecksums preference is set, an
// unrecognised checksum is returned as an error instead of merely
// warned about, and the mapping is released without being bound. A
// post-load Debug log records the checksum of the data actually mapped
// in, mirroring Init's pre-load log.
func (c *Console) LoadBIOS(filename string) error {
	ld, err := cartridgeloader.NewLoaderFromFilename(filename)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}

	if err := ld.Open(); err != nil {
		return fmt.Errorf("console: %w", err)
	}

	data := *ld.Data
	if len(data) != BIOSSize {
		ld.Close()
		return fmt.Errorf("console: BIOS image is %d bytes, expected %d", len(data), BIOSSize)
	}

	sum := sha1.Sum(data)
	known, recognised := knownBIOS[sum]

	if !recognised && c.env != nil && c.env.Prefs != nil && c.env.Prefs.StrictChecksums.Get() {
		ld.Close()
		return fmt.Errorf("console: BIOS checksum not recognised: %x", sum)
	}

	c.biosLoader = ld
	c.BIOS = data
	c.biosLoaded = true

	if recognised {
		Log(c, Info, "BIOS identified: %s", known)
	} else {
		Log(c, Warn, "BIOS checksum not recognised: %x", sum)
	}
	Log(c, Debug, "bios checksum (post-load): %x", sum)

	if c.env != nil {
		c.env.Notifications.Notify(notifications.NotifyBIOSLoaded)
	}

	return nil
}

// knownBIOS maps the SHA1 of a recognised BIOS build to a human-readable
// label. Empty: no reference BIOS dump is bundled with this kernel, so
// every load logs as unrecognised until a host populates this table
// itself (there is deliberately no mechanism here to do so; it exists to
// document the identification step the source performs).
var knownBIOS = map[[sha1.Size]byte]string{}

// LoadROM maps filename read-only, binds it as the active cartridge, and
// runs the savedata/GPIO auto-detection sequence: bind a cartridge,
// consult the override table, and notify the host of whatever was
// detected.
func (c *Console) LoadROM(filename string) error {
	ld, err := cartridgeloader.NewLoaderFromFilename(filename)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}

	cart, err := cartridge.Load(ld)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}

	if c.env == nil || c.env.Prefs == nil || c.env.Prefs.AutoDetectGPIO.Get() {
		cart.ApplyOverride()
	}

	if cart.Gyro != nil {
		cart.Gyro.Source = c.rotation
	}
	if cart.Rumble != nil {
		cart.Rumble.Sink = c.rumble
	}

	c.Cart = cart

	Log(c, Info, "cartridge loaded: %s (id %s)", ld.Name, string(cart.ID[:]))

	if c.env != nil {
		c.env.Notifications.Notify(notifications.NotifyCartridgeLoaded)
		if cart.Savedata != nil {
			c.env.Notifications.Notify(notifications.NotifySaveDataDetected)
		}
		if cart.GPIO != 0 {
			c.env.Notifications.Notify(notifications.NotifyGPIODetected)
		}
	}

	return nil
}

// EjectROM releases the active cartridge's mapping and clears it.
func (c *Console) EjectROM() error {
	if c.Cart == nil {
		return nil
	}

	if err := c.Cart.Close(); err != nil {
		return fmt.Errorf("console: %w", err)
	}
	c.Cart = nil

	if c.env != nil {
		c.env.Notifications.Notify(notifications.NotifyCartridgeEjected)
	}

	return nil
}

// ApplyPatch delegates to the active cartridge. It is an error to call
// this with no cartridge loaded.
func (c *Console) ApplyPatch(p patch.Patch) error {
	if c.Cart == nil {
		return fmt.Errorf("console: no cartridge loaded")
	}
	return c.Cart.ApplyPatch(p)
}

// ProcessEvents is the scheduler. Each pass captures the CPU's full
// accumulated cycle count, drains any deferred spring IRQ, advances every
// peripheral in fixed order — Video, Audio, Timers, DMA, SIO — by that
// count, folding each one's reported next-wake cycle into a running
// minimum, then rebases the CPU's cycle count to zero against it. A
// halted CPU fast-forwards straight to the next event instead of sitting
// at zero. The pass repeats while the (possibly fast-forwarded) cycle
// count has caught up to or passed the new next-event threshold. It is
// the CPU driver's InterruptHandler.ProcessEvents hook.
func (c *Console) ProcessEvents() {
	for {
		cycles := c.CPU.Cycles

		c.Interrupt.DrainSpring()

		next := c.Video.Advance(cycles)
		if n := c.Audio.Advance(cycles); n < next {
			next = n
		}
		if n := c.Timers.Advance(cycles); n < next {
			next = n
		}
		if n := c.DMA.RunChannels(cycles); n < next {
			next = n
		}
		if n := c.SIO.Advance(cycles); n < next {
			next = n
		}

		c.CPU.Cycles -= cycles
		c.CPU.NextEvent = next

		if c.CPU.Halted {
			c.CPU.Cycles = c.CPU.NextEvent
		}

		if c.CPU.Cycles < c.CPU.NextEvent {
			break
		}
	}
}

// SWI16 satisfies cpu.InterruptHandler. Software interrupt decoding is
// out of scope; this only records that one occurred.
func (c *Console) SWI16(comment uint8) {
	Log(c, Stub, "SWI16 comment=%#02x not implemented", comment)
}

// SWI32 satisfies cpu.InterruptHandler.
func (c *Console) SWI32(comment uint32) {
	Log(c, Stub, "SWI32 comment=%#08x not implemented", comment)
}

// HitIllegal satisfies cpu.InterruptHandler. An illegal opcode is warned
// about but does not halt the scheduler; the CPU attempts its defined
// illegal-op behaviour and the emulation continues.
func (c *Console) HitIllegal(opcode uint32) {
	Log(c, Warn, "illegal opcode %#08x", opcode)
}

// HitStub satisfies cpu.InterruptHandler. A stub opcode is a well-known
// no-op/unused encoding the CPU recognises but this kernel cannot
// execute; with no debugger to hand control to, continuing would corrupt
// emulator state, so this is fatal.
func (c *Console) HitStub(opcode uint32) {
	Log(c, Fatal, "hit stub opcode %#08x", opcode)
}

// ReadCPSR satisfies cpu.InterruptHandler, forwarding to the interrupt
// controller's spring-IRQ test.
func (c *Console) ReadCPSR() {
	c.Interrupt.TestIRQ()
}

// EnableProfiling starts a statsview dashboard showing the process's Go
// runtime statistics; no scheduler or per-peripheral timing is fed into
// it. Calling it twice replaces the previous profiler after stopping it.
func (c *Console) EnableProfiling() {
	if c.profiler != nil {
		c.profiler.Stop()
	}
	c.profiler = diagnostics.NewProfiler()
	c.profiler.Start()
}

// DisableProfiling stops a dashboard started by EnableProfiling. It is a
// no-op if profiling was never enabled.
func (c *Console) DisableProfiling() {
	if c.profiler == nil {
		return
	}
	c.profiler.Stop()
	c.profiler = nil
}

// DumpGraph writes a Graphviz dot representation of the console's object
// graph to w, for debugging reference cycles and aggregate shape.
func (c *Console) DumpGraph(w io.Writer) {
	diagnostics.DumpGraph(w, c)
}

// Close releases the BIOS and cartridge mappings. It is safe to call more
// than once; a Console with nothing loaded does nothing.
func (c *Console) Close() error {
	clearCurrent(c)
	c.DisableProfiling()

	if err := c.EjectROM(); err != nil {
		return err
	}

	if c.biosLoaded {
		if err := c.biosLoader.Close(); err != nil {
			return fmt.Errorf("console: %w", err)
		}
		c.biosLoaded = false
		c.BIOS = nil
	}

	return nil
}
