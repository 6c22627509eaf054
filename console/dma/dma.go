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

// Package dma is the console's DMA peripheral contract. The four channels'
// transfer engines are out of scope; this package exposes only the
// scheduler entry point (RunChannels, the Go-side analogue of
// GBAMemoryRunDMAs) so the scheduler has somewhere to advance to and a
// next-wake value to fold into its minimum.
package dma

import "math"

// Channel count.
const Count = 4

// Controller tracks whether each of the four channels is active. A real
// implementation would run the transfer engine here; this one only
// reports that it has nothing pending.
type Controller struct {
	Active [Count]bool
}

// NewController is the preferred method of initialisation for the
// Controller type.
func NewController() *Controller {
	return &Controller{}
}

// RunChannels advances any active channel by cycles. No channel is ever
// marked active by this kernel (the transfer engine is out of scope), so
// this always reports that DMA never independently requests an earlier
// wake cycle.
func (c *Controller) RunChannels(cycles int32) int32 {
	return math.MaxInt32
}
