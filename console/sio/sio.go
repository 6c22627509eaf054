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

// Package sio is the console's serial I/O peripheral contract. The link
// cable transfer protocols (normal, multiplayer, UART, JOY bus) are out
// of scope; this package exposes only the scheduler entry point.
package sio

import "math"

// Unit is the serial I/O peripheral. No transfer mode is implemented.
type Unit struct{}

// NewUnit is the preferred method of initialisation for the Unit type.
func NewUnit() *Unit {
	return &Unit{}
}

// Advance runs the link transfer schedule forward by cycles. With no
// transfer in progress this always reports that SIO never independently
// requests an earlier wake cycle.
func (u *Unit) Advance(cycles int32) int32 {
	return math.MaxInt32
}
