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

// Package preferences collects the host-tunable knobs for a kernel
// instance and binds them to disk through the prefs package.
package preferences

import (
	"os"
	"path/filepath"

	"github.com/kestrelemu/gba/prefs"
)

// Preferences holds every value a host might want to persist between runs.
type Preferences struct {
	dsk *prefs.Disk

	// LogMask is the default level mask applied to the fault sink (see the
	// console package's LogLevel). Stored as an int bitmask.
	LogMask prefs.Int

	// StrictChecksums makes an unrecognised BIOS checksum a load error
	// rather than a warning. Cartridge images are not checksummed.
	StrictChecksums prefs.Bool

	// AutoDetectGPIO controls whether the lifecycle manager consults the
	// cartridge override table to attach GPIO peripherals (RTC, rumble,
	// gyro, light sensor) based on the cartridge's game code.
	AutoDetectGPIO prefs.Bool
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. The values are saved to and loaded from the user's
// configuration directory.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	pth, err := defaultPath()
	if err != nil {
		return nil, err
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, err
	}

	if err := p.dsk.Add("log.mask", &p.LogMask); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("checksums.strict", &p.StrictChecksums); err != nil {
		return nil, err
	}
	if err := p.dsk.Add("gpio.autodetect", &p.AutoDetectGPIO); err != nil {
		return nil, err
	}

	if err := p.dsk.Load(); err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults resets every preference to its default value.
func (p *Preferences) SetDefaults() {
	p.LogMask.Set(defaultLogMask)
	p.StrictChecksums.Set(false)
	p.AutoDetectGPIO.Set(true)
}

// Save writes the current preference values to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// Load re-reads the preference values from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load()
}

// defaultLogMask allows Info/Warn/Error/Fatal through by default, the same
// posture the fault sink falls back to when a host supplies no mask of its
// own.
const defaultLogMask = 0b111100

func defaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir = filepath.Join(dir, "gba")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "preferences"), nil
}
