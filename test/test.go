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

// Package test collects small helpers shared by every other package's test
// suite in this module. It deliberately avoids a dependency on any assertion
// library so that tests stay trivial to read.
package test

import (
	"reflect"
	"testing"
)

// Equate fails the test if got and want are not deeply equal.
func Equate(t *testing.T, got, want any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, wanted %#v", got, want)
	}
}

// ExpectEquality is an alias of Equate, kept for readability at call sites
// that are explicitly comparing two values rather than asserting a result.
func ExpectEquality(t *testing.T, got, want any) {
	t.Helper()
	Equate(t, got, want)
}

// ExpectInequality fails the test if got and want are deeply equal.
func ExpectInequality(t *testing.T, got, want any) {
	t.Helper()
	if reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, did not want it to equal %#v", got, want)
	}
}

// ExpectApproximate fails the test if got is outside want plus-or-minus
// the fractional tolerance (0.1 allows a 10% deviation in either
// direction).
func ExpectApproximate(t *testing.T, got, want, tolerance float64) {
	t.Helper()
	top := want * (1 + tolerance)
	bot := want * (1 - tolerance)
	if top < bot {
		top, bot = bot, top
	}
	if got < bot || got > top {
		t.Errorf("got %v, wanted approximately %v (tolerance %v)", got, want, tolerance)
	}
}

// ExpectSuccess fails the test if v is a non-nil error or false.
func ExpectSuccess(t *testing.T, v any) {
	t.Helper()
	switch v := v.(type) {
	case nil:
		return
	case bool:
		if !v {
			t.Errorf("expected success, got false")
		}
	case error:
		t.Errorf("expected success, got error: %v", v)
	default:
		t.Errorf("ExpectSuccess: unsupported type %T", v)
	}
}

// ExpectFailure fails the test if v is nil or true. A non-nil error or
// false passes.
func ExpectFailure(t *testing.T, v any) {
	t.Helper()
	switch v := v.(type) {
	case nil:
		t.Errorf("expected failure, got nil")
	case bool:
		if v {
			t.Errorf("expected failure, got true")
		}
	case error:
		return
	default:
		t.Errorf("ExpectFailure: unsupported type %T", v)
	}
}
