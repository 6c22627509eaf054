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

package cartridge_test

import (
	"testing"

	"github.com/kestrelemu/gba/cartridgeloader"
	"github.com/kestrelemu/gba/console/cartridge"
	"github.com/kestrelemu/gba/console/gpio"
	"github.com/kestrelemu/gba/console/savedata"
	"github.com/kestrelemu/gba/test"
)

func fixtureROM(id string) []byte {
	data := make([]byte, cartridge.GPIODataOffset+16)
	copy(data[cartridge.IDOffset:cartridge.IDOffset+4], id)
	return data
}

func TestLoadRecordsGameID(t *testing.T) {
	ld, err := cartridgeloader.NewLoaderFromData("test.gba", fixtureROM("BPEE"))
	test.ExpectSuccess(t, err)

	c, err := cartridge.Load(ld)
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, c.ID, [4]byte{'B', 'P', 'E', 'E'})
	test.ExpectEquality(t, c.Patched(), false)
	test.ExpectEquality(t, c.GPIOData(), uint16(0))
}

func TestApplyOverridePokemonEmerald(t *testing.T) {
	ld, err := cartridgeloader.NewLoaderFromData("test.gba", fixtureROM("BPEE"))
	test.ExpectSuccess(t, err)

	c, err := cartridge.Load(ld)
	test.ExpectSuccess(t, err)

	c.ApplyOverride()

	test.ExpectEquality(t, c.Savedata.Kind, savedata.Flash1M)
	test.ExpectEquality(t, c.GPIO.Has(gpio.RTC), true)
	test.ExpectEquality(t, c.GPIO.Has(gpio.Rumble), false)
	test.ExpectEquality(t, c.GPIO.Has(gpio.Gyro), false)
}

func TestApplyOverrideWarioWareTwisted(t *testing.T) {
	ld, err := cartridgeloader.NewLoaderFromData("test.gba", fixtureROM("RWZE"))
	test.ExpectSuccess(t, err)

	c, err := cartridge.Load(ld)
	test.ExpectSuccess(t, err)

	c.ApplyOverride()

	test.ExpectEquality(t, c.Savedata.Kind, savedata.SRAM)
	test.ExpectEquality(t, c.GPIO.Has(gpio.Rumble), true)
	test.ExpectEquality(t, c.GPIO.Has(gpio.Gyro), true)
	test.ExpectEquality(t, c.GPIO.Has(gpio.RTC), false)
}

func TestApplyOverrideNoMatchLeavesCartridgeUnbound(t *testing.T) {
	ld, err := cartridgeloader.NewLoaderFromData("test.gba", fixtureROM("ZZZZ"))
	test.ExpectSuccess(t, err)

	c, err := cartridge.Load(ld)
	test.ExpectSuccess(t, err)

	c.ApplyOverride()

	test.Equate(t, c.Savedata, (*savedata.Binding)(nil))
	test.ExpectEquality(t, c.GPIO, gpio.Feature(0))
}

type fixedPatch struct {
	size  int
	value byte
}

func (p fixedPatch) OutputSize(currentSize int) int { return p.size }

func (p fixedPatch) Apply(dst []byte) bool {
	for i := range dst {
		dst[i] = p.value
	}
	return true
}

func TestApplyPatchReplacesROM(t *testing.T) {
	ld, err := cartridgeloader.NewLoaderFromData("test.gba", fixtureROM("AAAA"))
	test.ExpectSuccess(t, err)

	c, err := cartridge.Load(ld)
	test.ExpectSuccess(t, err)

	err = c.ApplyPatch(fixedPatch{size: 32, value: 0xEE})
	test.ExpectSuccess(t, err)

	test.ExpectEquality(t, c.Patched(), true)
	test.ExpectEquality(t, len(c.Rom), 32)
	test.ExpectEquality(t, c.Rom[0], byte(0xEE))
	test.ExpectEquality(t, len(c.Pristine) != 32, true)
}

func TestApplyPatchZeroSizeIsNoop(t *testing.T) {
	ld, err := cartridgeloader.NewLoaderFromData("test.gba", fixtureROM("AAAA"))
	test.ExpectSuccess(t, err)

	c, err := cartridge.Load(ld)
	test.ExpectSuccess(t, err)

	originalSize := c.RomSize
	test.ExpectSuccess(t, c.ApplyPatch(fixedPatch{size: 0, value: 0xEE}))
	test.ExpectEquality(t, c.Patched(), false)
	test.ExpectEquality(t, c.RomSize, originalSize)
	test.ExpectEquality(t, &c.Rom[0] == &c.Pristine[0], true)
}

type failingPatch struct{}

func (failingPatch) OutputSize(currentSize int) int { return 16 }
func (failingPatch) Apply(dst []byte) bool          { return false }

func TestApplyPatchFailureLeavesPristineActive(t *testing.T) {
	ld, err := cartridgeloader.NewLoaderFromData("test.gba", fixtureROM("AAAA"))
	test.ExpectSuccess(t, err)

	c, err := cartridge.Load(ld)
	test.ExpectSuccess(t, err)

	originalSize := len(c.Rom)
	err = c.ApplyPatch(failingPatch{})
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, c.Patched(), false)
	test.ExpectEquality(t, len(c.Rom), originalSize)
}
