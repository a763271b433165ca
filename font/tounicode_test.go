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

	"github.com/seehuhn-go/docengine/font/charcode"
	"seehuhn.de/go/postscript"
)

func TestToUnicodeLookupSingle(t *testing.T) {
	m := &ToUnicodeMap{single: map[charcode.CharCode]string{0x0041: "A"}}
	if got, ok := m.Lookup(0x0041); !ok || got != "A" {
		t.Errorf("Lookup(0x41) = (%q, %v), want (\"A\", true)", got, ok)
	}
	if _, ok := m.Lookup(0x0042); ok {
		t.Errorf("Lookup(0x42) found a mapping, want none")
	}
}

func TestToUnicodeLookupRangeExpansion(t *testing.T) {
	// <0041> <0043> maps to a range starting at "A"; bfrange with a string
	// destination increments only the last rune per the PDF spec.
	m := &ToUnicodeMap{
		ranges: []tuRange{
			{first: 0x0041, last: 0x0043, values: [][]rune{{'A'}, {'B'}, {'C'}}},
		},
	}
	tests := []struct {
		code charcode.CharCode
		want string
		ok   bool
	}{
		{0x0041, "A", true},
		{0x0042, "B", true},
		{0x0043, "C", true},
		{0x0044, "", false},
	}
	for _, tt := range tests {
		got, ok := m.Lookup(tt.code)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Lookup(%#x) = (%q, %v), want (%q, %v)", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToUnicodeNilMap(t *testing.T) {
	var m *ToUnicodeMap
	if _, ok := m.Lookup(0x0041); ok {
		t.Errorf("Lookup on a nil *ToUnicodeMap reported a match, want false")
	}
}

func TestTuRunes(t *testing.T) {
	tests := []struct {
		name string
		in   postscript.String
		want string
		ok   bool
	}{
		{"single BMP char", postscript.String{0x00, 0x41}, "A", true},
		{"two chars", postscript.String{0x00, 0x41, 0x00, 0x42}, "AB", true},
		{"odd length is invalid", postscript.String{0x00}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, err := tuRunes(tt.in)
			if tt.ok && err != nil {
				t.Fatalf("tuRunes(%v) error: %v", tt.in, err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatalf("tuRunes(%v) = %v, want error", tt.in, rr)
				}
				return
			}
			if string(rr) != tt.want {
				t.Errorf("tuRunes(%v) = %q, want %q", tt.in, string(rr), tt.want)
			}
		})
	}
}
