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

// Package patch defines the contract a ROM patch (an IPS/UPS-style
// overlay, or a translation patch) must satisfy to be applied by the
// lifecycle manager. Patch format parsing itself is out of scope; this
// package only describes the apply-time hooks the lifecycle manager
// calls.
package patch

// Patch is implemented by anything that can be applied over a cartridge
// ROM image.
type Patch interface {
	// OutputSize returns the size the patched ROM will occupy, given the
	// current ROM size (the active image's size, which is the overlay's
	// size once a patch has been applied). Returning 0 means the patch
	// has nothing to do.
	OutputSize(currentSize int) int

	// Apply writes the patched image into dst, which has already been
	// seeded with min(len(pristine ROM), len(dst)) bytes copied from the
	// pristine ROM. It returns false on failure, in which case the
	// caller discards dst and keeps the pristine ROM active.
	Apply(dst []byte) bool
}
