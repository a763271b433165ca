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
	"github.com/seehuhn-go/docengine"
	"github.com/seehuhn-go/docengine/font/pdfenc"

	"seehuhn.de/go/postscript/type1/names"
)

// Encoding maps single-byte character codes to glyph names, as used by
// simple fonts. It is a base encoding table optionally overridden by a
// /Differences array.
type Encoding struct {
	names [256]string
}

// NewEncoding builds an Encoding from a base table: "WinAnsiEncoding",
// "MacRomanEncoding" and "MacExpertEncoding" select those tables; any other
// base name, including an empty one, selects the Standard table, or the
// Symbol table when symbolic is true. The ZapfDingbats table is never
// selected.
func NewEncoding(base string, symbolic bool) *Encoding {
	var table *pdfenc.Encoding
	switch base {
	case "WinAnsiEncoding":
		table = &pdfenc.WinAnsi
	case "MacRomanEncoding":
		table = &pdfenc.MacRoman
	case "MacExpertEncoding":
		table = &pdfenc.MacExpert
	default:
		if symbolic {
			table = &pdfenc.Symbol
		} else {
			table = &pdfenc.Standard
		}
	}
	e := &Encoding{}
	e.names = table.Encoding
	return e
}

// ApplyDifferences overlays a /Differences array (as read from a font's
// /Encoding dict: a sequence of code-integers and glyph-names) onto e.
func ApplyDifferences(e *Encoding, diff pdf.Array) {
	code := -1
	for _, obj := range diff {
		switch x := obj.(type) {
		case pdf.Integer:
			code = int(x)
		case pdf.Real:
			code = int(x)
		case pdf.Name:
			if code >= 0 && code < 256 {
				e.names[code] = string(x)
			}
			code++
		}
	}
}

// GlyphName returns the glyph name assigned to code, or "" if none.
func (e *Encoding) GlyphName(code int) string {
	if code < 0 || code > 255 {
		return ""
	}
	return e.names[code]
}

// ToUnicode returns the best-effort Unicode text for code, via the Adobe
// Glyph List. An empty string means no mapping is known.
func (e *Encoding) ToUnicode(code int) string {
	name := e.GlyphName(code)
	if name == "" || name == ".notdef" {
		return ""
	}
	return string(names.ToUnicode(name, false))
}
