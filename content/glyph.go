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

package content

// Rect is an axis-aligned bounding rectangle in PDF user-space units.
type Rect struct {
	LLx, LLy, URx, URy float64
}

// Extend enlarges r to also cover other. An all-zero r counts as empty and
// is replaced by other.
func (r *Rect) Extend(other Rect) {
	if r.LLx == 0 && r.LLy == 0 && r.URx == 0 && r.URy == 0 {
		*r = other
		return
	}
	if other.LLx < r.LLx {
		r.LLx = other.LLx
	}
	if other.LLy < r.LLy {
		r.LLy = other.LLy
	}
	if other.URx > r.URx {
		r.URx = other.URx
	}
	if other.URy > r.URy {
		r.URy = other.URy
	}
}

// Glyph is one positioned, decoded glyph emitted while replaying a content
// stream's text-showing operators.
type Glyph struct {
	Text     string
	BBox     Rect
	FontSize float64
	FontName string
	Baseline float64 // y of the CTM-transformed text origin
}
