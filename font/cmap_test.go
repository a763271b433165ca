// github.com/seehuhn-go/docengine - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package font

import (
	"testing"

	"github.com/seehuhn-go/docengine"
	"github.com/seehuhn-go/docengine/font/charcode"
)

func TestIdentityCMap(t *testing.T) {
	if got := Identity.Lookup(0x0041); got != 0x0041 {
		t.Errorf("Identity.Lookup(0x0041) = %d, want 0x0041", got)
	}
	if got := Identity.Lookup(0x1234); got != 0x1234 {
		t.Errorf("Identity.Lookup(0x1234) = %d, want 0x1234", got)
	}
}

func TestCMapSingleAndRange(t *testing.T) {
	c := &CMap{
		CS:     charcode.UCS2,
		single: map[charcode.CharCode]int32{0x0041: 100},
		ranges: []cidRange{{first: 0x0061, last: 0x007A, value: 200}},
	}

	tests := []struct {
		code charcode.CharCode
		want int32
	}{
		{0x0041, 100},  // hits single
		{0x0061, 200},  // start of range
		{0x006D, 212},  // middle of range ('m' is 12 past 'a')
		{0x007A, 225},  // end of range ('z' is 25 past 'a')
		{0x007B, 0},    // just past the range: unmapped
		{0x9999, 0},    // unrelated code: unmapped
	}
	for _, tt := range tests {
		if got := c.Lookup(tt.code); got != tt.want {
			t.Errorf("Lookup(%#x) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestCMapSingleTakesPrecedenceOverRange(t *testing.T) {
	c := &CMap{
		single: map[charcode.CharCode]int32{0x0061: 999},
		ranges: []cidRange{{first: 0x0061, last: 0x007A, value: 200}},
	}
	if got := c.Lookup(0x0061); got != 999 {
		t.Errorf("Lookup(0x61) = %d, want 999 (single-code entry must win)", got)
	}
}

func TestExtractCMapPredefinedNames(t *testing.T) {
	for _, name := range []pdf.Name{"Identity-H", "Identity-V", "", "UniGB-UCS2-H"} {
		got, err := ExtractCMap(nil, name)
		if err != nil {
			t.Fatalf("ExtractCMap(%q) error: %v", name, err)
		}
		if got != Identity {
			t.Errorf("ExtractCMap(%q) = %v, want the shared Identity CMap", name, got)
		}
	}
}
