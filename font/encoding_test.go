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
)

func TestNewEncodingWinAnsi(t *testing.T) {
	e := NewEncoding("WinAnsiEncoding", false)
	if got := e.GlyphName('A'); got != "A" {
		t.Errorf("GlyphName('A') = %q, want %q", got, "A")
	}
	if got := e.ToUnicode('A'); got != "A" {
		t.Errorf("ToUnicode('A') = %q, want %q", got, "A")
	}
}

func TestNewEncodingDefaultNonSymbolic(t *testing.T) {
	e := NewEncoding("", false)
	if got := e.GlyphName('a'); got != "a" {
		t.Errorf("GlyphName('a') = %q, want %q", got, "a")
	}
}

func TestApplyDifferences(t *testing.T) {
	e := NewEncoding("WinAnsiEncoding", false)
	diff := pdf.Array{pdf.Integer(65), pdf.Name("bullet"), pdf.Name("space")}
	ApplyDifferences(e, diff)

	if got := e.GlyphName(65); got != "bullet" {
		t.Errorf("GlyphName(65) = %q, want %q", got, "bullet")
	}
	if got := e.GlyphName(66); got != "space" {
		t.Errorf("GlyphName(66) = %q, want %q", got, "space")
	}
	// the code after the differences range is untouched
	if got := e.GlyphName(67); got != "C" {
		t.Errorf("GlyphName(67) = %q, want %q", got, "C")
	}
}

func TestEncodingOutOfRange(t *testing.T) {
	e := NewEncoding("WinAnsiEncoding", false)
	if got := e.GlyphName(-1); got != "" {
		t.Errorf("GlyphName(-1) = %q, want empty", got)
	}
	if got := e.GlyphName(256); got != "" {
		t.Errorf("GlyphName(256) = %q, want empty", got)
	}
}
