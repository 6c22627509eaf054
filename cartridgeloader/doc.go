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

// Package cartridgeloader is used to load BIOS and cartridge images so that
// they can be bound into the console package.
//
// # File Extensions
//
// The following file extensions are recognised:
//
//	GBA ROM   ".gba", ".agb", ".bin"
//	GBA BIOS  ".bios"
//
// File extensions are case insensitive.
//
// # Memory mapping
//
// Data loaded from a filename is memory-mapped into the process read-only
// rather than copied into a heap-allocated slice. This mirrors the
// allocation discipline of the console package: ROM and BIOS images are
// file-backed read-only mappings for the lifetime of the Loader, released
// explicitly by Close.
//
// # Hashes
//
// Opening a loader created by NewLoaderFromFilename, or constructing one
// with NewLoaderFromData directly, computes a SHA1 and MD5 hash of the
// data. Callers can use either to validate a known-good dump.
package cartridgeloader
