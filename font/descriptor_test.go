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

// nullGetter resolves no references; it is only valid against dicts built
// directly from literal values, never indirect references.
type nullGetter struct{}

func (nullGetter) Get(ref pdf.Reference) (pdf.Object, error) {
	return nil, nil
}

func TestExtractDescriptorAbsent(t *testing.T) {
	d, err := ExtractDescriptor(nullGetter{}, nil)
	if err != nil {
		t.Fatalf("ExtractDescriptor(nil) error: %v", err)
	}
	if d != nil {
		t.Fatalf("ExtractDescriptor(nil) = %v, want nil", d)
	}
}

func TestExtractDescriptorFields(t *testing.T) {
	fd := pdf.NewDict(
		pdf.DictEntry{Key: "Type", Value: pdf.Name("FontDescriptor")},
		pdf.DictEntry{Key: "FontName", Value: pdf.Name("Helvetica-Bold")},
		pdf.DictEntry{Key: "Flags", Value: pdf.Integer(1<<1 | 1<<6)}, // Serif | Italic
		pdf.DictEntry{Key: "FontBBox", Value: pdf.Array{pdf.Integer(-10), pdf.Integer(-20), pdf.Integer(100), pdf.Integer(90)}},
		pdf.DictEntry{Key: "Ascent", Value: pdf.Real(718)},
		pdf.DictEntry{Key: "Descent", Value: pdf.Real(-207)},
		pdf.DictEntry{Key: "MissingWidth", Value: pdf.Integer(278)},
	)

	d, err := ExtractDescriptor(nullGetter{}, fd)
	if err != nil {
		t.Fatalf("ExtractDescriptor error: %v", err)
	}
	if d == nil {
		t.Fatal("ExtractDescriptor returned nil for a populated dict")
	}
	if d.FontName != "Helvetica-Bold" {
		t.Errorf("FontName = %q, want Helvetica-Bold", d.FontName)
	}
	if !d.IsSerif || !d.IsItalic {
		t.Errorf("IsSerif=%v IsItalic=%v, want both true", d.IsSerif, d.IsItalic)
	}
	if d.IsFixedPitch || d.IsSymbolic {
		t.Errorf("IsFixedPitch=%v IsSymbolic=%v, want both false", d.IsFixedPitch, d.IsSymbolic)
	}
	wantBBox := [4]float64{-10, -20, 100, 90}
	if d.FontBBox != wantBBox {
		t.Errorf("FontBBox = %v, want %v", d.FontBBox, wantBBox)
	}
	if d.Ascent != 718 || d.Descent != -207 {
		t.Errorf("Ascent/Descent = %v/%v, want 718/-207", d.Ascent, d.Descent)
	}
	if d.MissingWidth != 278 {
		t.Errorf("MissingWidth = %v, want 278", d.MissingWidth)
	}
}
