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

// Package audio is the console's audio peripheral contract. The PSG and
// FIFO mixer internals are out of scope; this package exposes only the
// surface the scheduler and timer array need: Advance for the PSG
// channels' own event schedule, and SampleFIFO as the sink the timer
// overflow sampling hook feeds into.
//
// RenderSample accumulates into a go-audio IntBuffer rather than a live
// output device, since this kernel has no audio device to drive (an
// explicit Non-goal). DumpWAV renders the accumulated buffer to a RIFF
// WAVE file for offline inspection.
package audio

import (
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// sampleRate is the fixed output rate samples are accumulated at. The
// GBA's FIFO channels are driven by arbitrary timer overflow rates in
// hardware; RenderSample records at whatever rate its caller invokes it,
// and this is only the rate DumpWAV claims in the RIFF header.
const sampleRate = 32768

// Unit is the FIFO-plus-PSG audio peripheral.
type Unit struct {
	Enable bool

	ChALeft, ChARight bool
	ChBLeft, ChBRight bool
	ChATimer          int
	ChBTimer          int

	buf *audio.IntBuffer
}

// NewUnit is the preferred method of initialisation for the Unit type.
func NewUnit() *Unit {
	return &Unit{
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}
}

// Advance runs the PSG channels' own schedule forward by cycles. The PSG
// waveform generators are out of scope; this always reports MaxEvent,
// meaning audio never independently shortens the scheduler's wake cycle.
func (u *Unit) Advance(cycles int32) int32 {
	return math.MaxInt32
}

// RoutedToTimer reports whether FIFO channel (0=A, 1=B) is routed to
// timer index and has at least one active output side. The timer array
// consults this before calling RenderSample.
func (u *Unit) RoutedToTimer(channel, timerIndex int) bool {
	if !u.Enable {
		return false
	}
	switch channel {
	case 0:
		return (u.ChALeft || u.ChARight) && u.ChATimer == timerIndex
	case 1:
		return (u.ChBLeft || u.ChBRight) && u.ChBTimer == timerIndex
	default:
		return false
	}
}

// SampleFIFO is the timer-overflow sampling hook. It renders a sample
// pair if either FIFO channel is routed to the overflowing timer.
// fractional is the elapsed-cycle offset at the moment of overflow; it
// isn't used to shape the sample since the FIFO's actual PCM byte stream
// is out of scope.
func (u *Unit) SampleFIFO(timerIndex int, fractional int32) {
	if u.RoutedToTimer(0, timerIndex) || u.RoutedToTimer(1, timerIndex) {
		u.RenderSample(0, 0)
	}
}

// RenderSample accumulates one stereo sample pair into the output buffer.
func (u *Unit) RenderSample(left, right int) {
	u.buf.Data = append(u.buf.Data, left, right)
}

// SampleCount returns the number of stereo sample pairs accumulated so
// far.
func (u *Unit) SampleCount() int {
	return len(u.buf.Data) / 2
}

// DumpWAV encodes the samples accumulated so far as a RIFF WAVE stream.
func (u *Unit) DumpWAV(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 2, 1)
	if err := enc.Write(u.buf); err != nil {
		return err
	}
	return enc.Close()
}
