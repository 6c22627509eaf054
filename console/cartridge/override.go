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

package cartridge

import (
	"github.com/kestrelemu/gba/console/gpio"
	"github.com/kestrelemu/gba/console/savedata"
)

type override struct {
	id   [4]byte
	kind savedata.Kind
	gpio gpio.Feature
}

// overrideTable is the fixed set of known cartridges whose savedata type
// and GPIO peripherals aren't declared anywhere in the ROM header and
// must be auto-detected by game ID.
var overrideTable = []override{
	// Boktai: The Sun is in Your Hand
	{[4]byte{'U', '3', 'I', 'E'}, savedata.EEPROM, gpio.RTC | gpio.LightSensor},
	{[4]byte{'U', '3', 'I', 'P'}, savedata.EEPROM, gpio.RTC | gpio.LightSensor},

	// Boktai 2: Solar Boy Django
	{[4]byte{'U', '3', '2', 'E'}, savedata.EEPROM, gpio.RTC | gpio.LightSensor},
	{[4]byte{'U', '3', '2', 'P'}, savedata.EEPROM, gpio.RTC | gpio.LightSensor},

	// Drill Dozer
	{[4]byte{'V', '4', '9', 'J'}, savedata.SRAM, gpio.Rumble},
	{[4]byte{'V', '4', '9', 'E'}, savedata.SRAM, gpio.Rumble},

	// Pokemon Ruby
	{[4]byte{'A', 'X', 'V', 'J'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'V', 'E'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'V', 'P'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'V', 'I'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'V', 'S'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'V', 'D'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'V', 'F'}, savedata.Flash1M, gpio.RTC},

	// Pokemon Sapphire
	{[4]byte{'A', 'X', 'P', 'J'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'P', 'E'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'P', 'P'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'P', 'I'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'P', 'S'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'P', 'D'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'A', 'X', 'P', 'F'}, savedata.Flash1M, gpio.RTC},

	// Pokemon Emerald
	{[4]byte{'B', 'P', 'E', 'J'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'B', 'P', 'E', 'E'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'B', 'P', 'E', 'P'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'B', 'P', 'E', 'I'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'B', 'P', 'E', 'S'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'B', 'P', 'E', 'D'}, savedata.Flash1M, gpio.RTC},
	{[4]byte{'B', 'P', 'E', 'F'}, savedata.Flash1M, gpio.RTC},

	// Pokemon FireRed
	{[4]byte{'B', 'P', 'R', 'J'}, savedata.Flash1M, 0},
	{[4]byte{'B', 'P', 'R', 'E'}, savedata.Flash1M, 0},
	{[4]byte{'B', 'P', 'R', 'P'}, savedata.Flash1M, 0},

	// Pokemon LeafGreen
	{[4]byte{'B', 'P', 'G', 'J'}, savedata.Flash1M, 0},
	{[4]byte{'B', 'P', 'G', 'E'}, savedata.Flash1M, 0},
	{[4]byte{'B', 'P', 'G', 'P'}, savedata.Flash1M, 0},

	// RockMan EXE 4.5 - Real Operation
	{[4]byte{'B', 'R', '4', 'J'}, savedata.Flash512K, gpio.RTC},

	// Super Mario Advance 4
	{[4]byte{'A', 'X', '4', 'J'}, savedata.Flash1M, 0},
	{[4]byte{'A', 'X', '4', 'E'}, savedata.Flash1M, 0},
	{[4]byte{'A', 'X', '4', 'P'}, savedata.Flash1M, 0},

	// Wario Ware Twisted
	{[4]byte{'R', 'W', 'Z', 'J'}, savedata.SRAM, gpio.Rumble | gpio.Gyro},
	{[4]byte{'R', 'W', 'Z', 'E'}, savedata.SRAM, gpio.Rumble | gpio.Gyro},
	{[4]byte{'R', 'W', 'Z', 'P'}, savedata.SRAM, gpio.Rumble | gpio.Gyro},
}

// ApplyOverride scans the override table for c's game ID and, on a
// match, forces the savedata type and attaches each GPIO device the
// matched entry's feature mask names. A cartridge with no match is left
// exactly as it was (no savedata bound, no GPIO attached) — the header
// itself carries no such declaration on the GBA, which is why this table
// exists.
func (c *Cartridge) ApplyOverride() {
	for _, o := range overrideTable {
		if o.id != c.ID {
			continue
		}

		switch o.kind {
		case savedata.Flash512K, savedata.Flash1M:
			c.Savedata = savedata.InitFlash(o.kind)
		case savedata.EEPROM:
			c.Savedata = savedata.InitEEPROM()
		case savedata.SRAM:
			c.Savedata = savedata.InitSRAM()
		case savedata.None:
		}

		c.GPIO = o.gpio

		if o.gpio.Has(gpio.RTC) {
			c.RTC = &gpio.RTCDevice{}
		}
		if o.gpio.Has(gpio.Rumble) {
			c.Rumble = &gpio.RumbleDevice{}
		}
		if o.gpio.Has(gpio.Gyro) {
			c.Gyro = &gpio.GyroDevice{}
		}
		// light sensor bit is decoded but has no initializer; see
		// gpio.LightSensor.

		return
	}
}
