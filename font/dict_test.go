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

func TestSimpleFontDecode(t *testing.T) {
	f := &SimpleFont{
		FirstChar:    'A',
		Widths:       []float64{600, 600, 0}, // 'C' (idx 2) has a zero width, falls back
		MissingWidth: 250,
		Encoding:     NewEncoding("WinAnsiEncoding", false),
		ToUnicode:    &ToUnicodeMap{single: map[charcode.CharCode]string{'A': "alpha"}},
	}

	glyphs := f.Decode(pdf.String("AB C"))
	if len(glyphs) != 4 {
		t.Fatalf("Decode returned %d glyphs, want 4", len(glyphs))
	}

	if glyphs[0].Width != 600 || glyphs[0].Text != "alpha" || glyphs[0].IsSpace {
		t.Errorf("glyph 'A' = %+v, want Width=600 Text=alpha IsSpace=false", glyphs[0])
	}
	if glyphs[1].Width != 600 || glyphs[1].Text != "B" {
		t.Errorf("glyph 'B' = %+v, want Width=600 Text=B (via encoding fallback)", glyphs[1])
	}
	if !glyphs[2].IsSpace || glyphs[2].Text != " " {
		t.Errorf("glyph ' ' = %+v, want IsSpace=true Text=\" \"", glyphs[2])
	}
	if glyphs[3].Width != 250 {
		t.Errorf("glyph 'C' width = %v, want 250 (MissingWidth fallback for zero entry)", glyphs[3].Width)
	}
}

func TestSimpleFontMetrics(t *testing.T) {
	f := &SimpleFont{Ascent: 700, Descent: -150}
	a, d := f.Metrics()
	if a != 700 || d != -150 {
		t.Errorf("Metrics() = (%v,%v), want (700,-150)", a, d)
	}
}

func TestCIDWidthsLookup(t *testing.T) {
	w := &CIDWidths{
		Default: 1000,
		single:  map[int32]float64{5: 300},
		ranges:  []cidWidthRange{{first: 10, last: 20, width: 500}},
	}
	tests := []struct {
		cid  int32
		want float64
	}{
		{5, 300},
		{10, 500},
		{15, 500},
		{20, 500},
		{21, 1000},
		{0, 1000},
	}
	for _, tt := range tests {
		if got := w.Width(tt.cid); got != tt.want {
			t.Errorf("Width(%d) = %v, want %v", tt.cid, got, tt.want)
		}
	}

	var nilWidths *CIDWidths
	if got := nilWidths.Width(5); got != 1000 {
		t.Errorf("nil *CIDWidths.Width(5) = %v, want 1000", got)
	}
}

func TestExtractCIDWidthsArrayAndRangeForms(t *testing.T) {
	// [ 1 [100 200 300] 10 12 500 ]
	arr := pdf.Array{
		pdf.Integer(1),
		pdf.Array{pdf.Integer(100), pdf.Integer(200), pdf.Integer(300)},
		pdf.Integer(10), pdf.Integer(12), pdf.Integer(500),
	}

	w, err := ExtractCIDWidths(nullGetter{}, arr, 1000)
	if err != nil {
		t.Fatalf("ExtractCIDWidths error: %v", err)
	}
	tests := []struct {
		cid  int32
		want float64
	}{
		{1, 100}, {2, 200}, {3, 300},
		{10, 500}, {11, 500}, {12, 500},
		{13, 1000},
	}
	for _, tt := range tests {
		if got := w.Width(tt.cid); got != tt.want {
			t.Errorf("Width(%d) = %v, want %v", tt.cid, got, tt.want)
		}
	}
}

func TestExtractSimpleFontEndToEnd(t *testing.T) {
	descriptor := pdf.NewDict(
		pdf.DictEntry{Key: "Type", Value: pdf.Name("FontDescriptor")},
		pdf.DictEntry{Key: "Flags", Value: pdf.Integer(0)},
		pdf.DictEntry{Key: "MissingWidth", Value: pdf.Integer(300)},
		pdf.DictEntry{Key: "Ascent", Value: pdf.Real(700)},
		pdf.DictEntry{Key: "Descent", Value: pdf.Real(-180)},
	)
	encoding := pdf.NewDict(
		pdf.DictEntry{Key: "BaseEncoding", Value: pdf.Name("WinAnsiEncoding")},
		pdf.DictEntry{Key: "Differences", Value: pdf.Array{pdf.Integer(65), pdf.Name("bullet")}},
	)
	fontDict := pdf.NewDict(
		pdf.DictEntry{Key: "Type", Value: pdf.Name("Font")},
		pdf.DictEntry{Key: "Subtype", Value: pdf.Name("Type1")},
		pdf.DictEntry{Key: "BaseFont", Value: pdf.Name("TestFont")},
		pdf.DictEntry{Key: "FirstChar", Value: pdf.Integer(65)},
		pdf.DictEntry{Key: "Widths", Value: pdf.Array{pdf.Integer(400)}},
		pdf.DictEntry{Key: "Encoding", Value: encoding},
		pdf.DictEntry{Key: "FontDescriptor", Value: descriptor},
	)

	f, err := Extract(nullGetter{}, fontDict)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	sf, ok := f.(*SimpleFont)
	if !ok {
		t.Fatalf("Extract returned %T, want *SimpleFont", f)
	}
	if sf.BaseFont != "TestFont" || sf.FirstChar != 65 || sf.MissingWidth != 300 {
		t.Errorf("sf = %+v", sf)
	}
	if a, d := sf.Metrics(); a != 700 || d != -180 {
		t.Errorf("Metrics() = (%v,%v), want (700,-180)", a, d)
	}
	if got := sf.Encoding.GlyphName(65); got != "bullet" {
		t.Errorf("GlyphName(65) = %q, want bullet (Differences applied)", got)
	}
}

func TestExtractCompositeFontEndToEnd(t *testing.T) {
	descriptor := pdf.NewDict(
		pdf.DictEntry{Key: "Type", Value: pdf.Name("FontDescriptor")},
		pdf.DictEntry{Key: "Flags", Value: pdf.Integer(0)},
		pdf.DictEntry{Key: "Ascent", Value: pdf.Real(880)},
		pdf.DictEntry{Key: "Descent", Value: pdf.Real(-120)},
	)
	cidFont := pdf.NewDict(
		pdf.DictEntry{Key: "Type", Value: pdf.Name("Font")},
		pdf.DictEntry{Key: "Subtype", Value: pdf.Name("CIDFontType2")},
		pdf.DictEntry{Key: "DW", Value: pdf.Integer(1000)},
		pdf.DictEntry{Key: "W", Value: pdf.Array{pdf.Integer(3), pdf.Array{pdf.Integer(600)}}},
		pdf.DictEntry{Key: "FontDescriptor", Value: descriptor},
	)
	fontDict := pdf.NewDict(
		pdf.DictEntry{Key: "Type", Value: pdf.Name("Font")},
		pdf.DictEntry{Key: "Subtype", Value: pdf.Name("Type0")},
		pdf.DictEntry{Key: "Encoding", Value: pdf.Name("Identity-H")},
		pdf.DictEntry{Key: "DescendantFonts", Value: pdf.Array{cidFont}},
	)

	f, err := Extract(nullGetter{}, fontDict)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	cf, ok := f.(*CompositeFont)
	if !ok {
		t.Fatalf("Extract returned %T, want *CompositeFont", f)
	}
	if a, d := cf.Metrics(); a != 880 || d != -120 {
		t.Errorf("Metrics() = (%v,%v), want (880,-120)", a, d)
	}

	glyphs := cf.Decode(pdf.String{0x00, 0x03})
	if len(glyphs) != 1 || glyphs[0].Width != 600 {
		t.Errorf("Decode(<0003>) = %+v, want one glyph with width 600", glyphs)
	}
}
