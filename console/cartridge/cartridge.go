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

// Package cartridge models the cartridge binding: the pristine ROM
// mapping, an optional patched overlay, the four-byte game ID, and the
// savedata/GPIO features the lifecycle manager auto-detects from it.
package cartridge

import (
	"fmt"

	"github.com/kestrelemu/gba/cartridgeloader"
	"github.com/kestrelemu/gba/console/gpio"
	"github.com/kestrelemu/gba/console/savedata"
	"github.com/kestrelemu/gba/patch"
)

// IDOffset is the ROM offset of the four-byte ASCII game ID.
const IDOffset = 0xAC

// GPIODataOffset is the ROM offset that mirrors the GPIO data register.
const GPIODataOffset = 0xC4

// Cartridge is the bound cartridge: its pristine and (possibly) patched
// ROM image, identity, and auto-detected peripherals.
type Cartridge struct {
	loader cartridgeloader.Loader

	// Pristine is the original, read-only, file-backed ROM image. It is
	// preserved even when Rom points at a patched overlay, for reset and
	// savestate.
	Pristine []byte

	// Rom is the currently active ROM image: Pristine, or a patched
	// overlay after a successful ApplyPatch.
	Rom []byte

	// RomSize is len(Rom); tracked separately because overlays can be a
	// different size than the pristine image.
	RomSize int

	ID [4]byte

	Savedata *savedata.Binding
	GPIO     gpio.Feature

	RTC    *gpio.RTCDevice
	Rumble *gpio.RumbleDevice
	Gyro   *gpio.GyroDevice

	patched bool
}

// Load maps ld's data read-only and binds it as the pristine ROM image.
// It records the game ID but does not yet apply the override table; call
// ApplyOverride separately once the ROM is loaded (this mirrors the
// lifecycle manager's own sequencing: load, then bind savedata, then bind
// GPIO, then override).
func Load(ld cartridgeloader.Loader) (*Cartridge, error) {
	if err := ld.Open(); err != nil {
		return nil, fmt.Errorf("cartridge: %w", err)
	}

	data := *ld.Data
	if len(data) < IDOffset+4 {
		return nil, fmt.Errorf("cartridge: image too small to contain a game ID")
	}

	c := &Cartridge{
		loader:   ld,
		Pristine: data,
		Rom:      data,
		RomSize:  len(data),
	}
	copy(c.ID[:], data[IDOffset:IDOffset+4])

	return c, nil
}

// Close releases the underlying mapping. A patch overlay, if active, is
// an ordinary Go allocation rather than a second mapping, so there is
// nothing here equivalent to the double-free-avoidance check the
// lifecycle manager's destroy path needs when the pristine and active
// images are both real mappings: only the pristine mapping ever needs
// releasing, whether or not a patch overlay is active.
func (c *Cartridge) Close() error {
	return c.loader.Close()
}

// ApplyPatch asks p for its output size. A size of zero is a no-op.
// Otherwise a writable buffer of that size is allocated, seeded with
// min(old, new) bytes from the pristine ROM, and p.Apply is invoked; on
// failure the pristine ROM remains active.
func (c *Cartridge) ApplyPatch(p patch.Patch) error {
	patchedSize := p.OutputSize(c.RomSize)
	if patchedSize == 0 {
		return nil
	}

	overlay := make([]byte, patchedSize)
	n := len(c.Pristine)
	if patchedSize < n {
		n = patchedSize
	}
	copy(overlay, c.Pristine[:n])

	if !p.Apply(overlay) {
		return fmt.Errorf("cartridge: patch failed to apply")
	}

	c.Rom = overlay
	c.RomSize = patchedSize
	c.patched = true

	return nil
}

// Patched reports whether a patch overlay is currently active.
func (c *Cartridge) Patched() bool {
	return c.patched
}

// GPIOData returns the in-ROM word that mirrors the GPIO data port. GPIO
// devices write through this mirror; a ROM too small to contain it reads
// as zero.
func (c *Cartridge) GPIOData() uint16 {
	if len(c.Rom) < GPIODataOffset+2 {
		return 0
	}
	return uint16(c.Rom[GPIODataOffset]) | uint16(c.Rom[GPIODataOffset+1])<<8
}
