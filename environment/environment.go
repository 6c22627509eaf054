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

package environment

import (
	"github.com/kestrelemu/gba/notifications"
	"github.com/kestrelemu/gba/preferences"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the main emulation. Only the main
// emulation instance is allowed to write to the shared, package-level
// logger; secondary or headless instances (regression runners, thumbnail
// generators) are muted.
const MainEmulation = Label("main")

// Environment is used to provide context for an emulation. Particularly
// useful when running multiple emulations (a headless regression instance
// alongside an interactive one).
type Environment struct {
	// Label distinguishes between different types of emulation.
	Label Label

	// Notifications is used to inform the host of events the kernel cannot
	// otherwise be polled for (cartridge attached, BIOS identified, GPIO
	// auto-detected).
	Notifications notifications.Notify

	// Prefs is the instance's preferences.
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type.
//
// notify and prefs can be nil. If prefs is nil a new instance of the
// default preferences will be created.
func NewEnvironment(label Label, notify notifications.Notify, prefs *preferences.Preferences) (*Environment, error) {
	env := &Environment{
		Label:         label,
		Notifications: notify,
		Prefs:         prefs,
	}

	if notify == nil {
		env.Notifications = notifications.Stub{}
	}

	if prefs == nil {
		var err error
		env.Prefs, err = preferences.NewPreferences()
		if err != nil {
			return nil, err
		}
	}

	return env, nil
}

// Normalise ensures the environment is in a known default state. Useful
// for regression testing where the initial state must be the same for
// every run of the test.
func (env *Environment) Normalise() {
	env.Prefs.SetDefaults()
}

// IsEmulation checks the emulation label and returns true if it matches.
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}

// AllowLogging returns true if the environment is permitted to create new
// log entries. It satisfies logger.Permission.
func (env *Environment) AllowLogging() bool {
	return env.IsEmulation(MainEmulation)
}
