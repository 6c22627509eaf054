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

package prefs

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// WarningBoilerPlate is written as the first line of every prefs file.
const WarningBoilerPlate = "// this file is machine generated - editing by hand is not recommended"

// Disk binds named preference values to a file on disk. Saving writes every
// bound value plus any entry already in the file that isn't bound by this
// Disk instance (so that two Disk instances pointed at the same file, each
// managing a different subset of keys, don't clobber each other).
type Disk struct {
	filename string
	entries  map[string]entry
	unknown  map[string]string
}

// NewDisk is the preferred method of initialisation for the Disk type. If
// filename already exists its contents are loaded into the unknown set
// immediately.
func NewDisk(filename string) (*Disk, error) {
	d := &Disk{
		filename: filename,
		entries:  make(map[string]entry),
		unknown:  make(map[string]string),
	}

	raw, err := readPrefsFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return d, nil
		}
		return nil, fmt.Errorf("prefs: %w", err)
	}

	d.unknown = raw

	return d, nil
}

// Add binds a named entry to the Disk. It is an error to add the same name
// twice.
func (d *Disk) Add(name string, e entry) error {
	if _, ok := d.entries[name]; ok {
		return fmt.Errorf("prefs: %s already added to disk", name)
	}
	d.entries[name] = e
	delete(d.unknown, name)
	return nil
}

// Save writes every bound entry, plus any preserved unrecognised entries, to
// disk.
func (d *Disk) Save() error {
	combined := make(map[string]string, len(d.entries)+len(d.unknown))
	for k, v := range d.unknown {
		combined[k] = v
	}
	for k, e := range d.entries {
		combined[k] = e.String()
	}

	keys := make([]string, 0, len(combined))
	for k := range combined {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(WarningBoilerPlate)
	b.WriteString("\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s :: %s\n", k, combined[k])
	}

	if err := os.WriteFile(d.filename, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}

	return nil
}

// Load re-reads the file and applies it to every bound entry; entries not
// present in the file are left untouched. Keys present in the file but not
// bound to this Disk are preserved for the next Save. A file that doesn't
// exist yet is not an error; every entry simply keeps its current value.
func (d *Disk) Load() error {
	raw, err := readPrefsFile(d.filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("prefs: %w", err)
	}

	for k, v := range raw {
		if e, ok := d.entries[k]; ok {
			if err := e.Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
			continue
		}
		d.unknown[k] = v
	}

	return nil
}

func readPrefsFile(filename string) (map[string]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]string)
	for i, line := range strings.Split(string(data), "\n") {
		if i == 0 {
			// boilerplate warning line
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		kv := strings.SplitN(line, " :: ", 2)
		if len(kv) != 2 {
			continue
		}
		raw[kv[0]] = kv[1]
	}

	return raw, nil
}
