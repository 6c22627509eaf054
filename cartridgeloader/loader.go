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

package cartridgeloader

import (
	"crypto/md5"
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/kestrelemu/gba/logger"
)

// Loader abstracts the ways BIOS and cartridge data can be loaded into the
// emulation: from a file, memory-mapped read-only, or from an
// already-in-memory byte slice (useful for embedded test fixtures).
type Loader struct {
	// Name is used to refer to the cartridge represented by Loader, derived
	// from Filename unless the Loader was created from embedded data.
	Name string

	// Filename of the file being loaded. In the case of embedded data this
	// field contains the name supplied to NewLoaderFromData.
	Filename string

	// HashSHA1 is the expected hash of the loaded data. An empty string
	// indicates the hash is unknown and need not be validated; after Open
	// succeeds the field holds the hash of the loaded data.
	HashSHA1 string

	// HashMD5 is an alternative hash, validated and filled in the same way
	// as HashSHA1.
	HashMD5 string

	// Data is the loaded content. For file-backed loaders this is a
	// read-only memory mapping; for embedded loaders it is the slice
	// supplied to NewLoaderFromData.
	//
	// The pointer-to-slice construct allows the cartridge to be
	// loaded/changed by a Loader instance that has been passed by value.
	Data *[]byte

	// mapped is true if Data refers to a mapping created by unix.Mmap, in
	// which case Close must unmap it rather than simply drop the
	// reference.
	mapped bool

	// embedded is true if the Loader was created by NewLoaderFromData.
	embedded bool
}

// NoFilename is the sentinel error returned when attempting to create a
// loader with no filename.
var NoFilename = errors.New("no filename")

// NewLoaderFromFilename is the preferred method of initialisation for the
// Loader type when loading data from a filename.
//
// Filenames can contain whitespace, including leading and trailing
// whitespace, but cannot consist only of whitespace.
func NewLoaderFromFilename(filename string) (Loader, error) {
	if strings.TrimSpace(filename) == "" {
		return Loader{}, fmt.Errorf("cartridgeloader: %w", NoFilename)
	}

	filename, err := filepath.Abs(filename)
	if err != nil {
		return Loader{}, fmt.Errorf("cartridgeloader: %w", err)
	}

	data := make([]byte, 0)
	ld := Loader{
		Filename: filename,
		Data:     &data,
	}
	ld.Name = decideOnName(ld)

	return ld, nil
}

// NewLoaderFromData is the preferred method of initialisation for the
// Loader type when loading data from a byte array. It's a good way of
// loading embedded data (using go:embed) into the emulator, or of supplying
// a fixture in tests.
func NewLoaderFromData(name string, data []byte) (Loader, error) {
	if len(data) == 0 {
		return Loader{}, fmt.Errorf("cartridgeloader: embedded data is empty")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Loader{}, fmt.Errorf("cartridgeloader: no name for embedded data")
	}

	ld := Loader{
		Filename: name,
		Data:     &data,
		embedded: true,
		HashSHA1: fmt.Sprintf("%x", sha1.Sum(data)),
		HashMD5:  fmt.Sprintf("%x", md5.Sum(data)),
	}
	ld.Name = decideOnName(ld)

	return ld, nil
}

// Close releases any mapping held by the Loader. It should be called
// before disposing of a Loader instance created by NewLoaderFromFilename.
func (ld *Loader) Close() error {
	if !ld.mapped || ld.Data == nil || *ld.Data == nil {
		return nil
	}

	data := *ld.Data
	*ld.Data = nil
	ld.mapped = false

	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	logger.Logf(logger.Allow, "loader", "mapping released (%s)", ld.Filename)

	return nil
}

// Open maps the cartridge data read-only. Data already present (embedded
// data, or a Loader that has already been opened) is left untouched.
func (ld *Loader) Open() error {
	if ld.embedded {
		return nil
	}

	if ld.Data != nil && len(*ld.Data) > 0 {
		return nil
	}

	f, err := os.Open(ld.Filename)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}
	size := int(info.Size())
	if size == 0 {
		return fmt.Errorf("loader: %s is empty", ld.Filename)
	}

	mapped, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return fmt.Errorf("loader: %w", err)
	}

	*ld.Data = mapped
	ld.mapped = true
	logger.Logf(logger.Allow, "loader", "mapped read-only (%s, %d bytes)", ld.Filename, size)

	hash := fmt.Sprintf("%x", sha1.Sum(mapped))
	if ld.HashSHA1 != "" && ld.HashSHA1 != hash {
		return fmt.Errorf("loader: unexpected SHA1 hash value")
	}
	ld.HashSHA1 = hash

	hash = fmt.Sprintf("%x", md5.Sum(mapped))
	if ld.HashMD5 != "" && ld.HashMD5 != hash {
		return fmt.Errorf("loader: unexpected MD5 hash value")
	}
	ld.HashMD5 = hash

	return nil
}
