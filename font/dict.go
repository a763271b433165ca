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
	"fmt"

	"github.com/seehuhn-go/docengine"
	"github.com/seehuhn-go/docengine/font/charcode"
	"github.com/seehuhn-go/docengine/font/standard14"
)

// Glyph is one decoded character-code from a content-stream string, as
// produced by [Font.Decode].
type Glyph struct {
	Code    charcode.CharCode
	Width   float64 // glyph-space units, 1000 per em
	Text    string  // "" if no mapping is known
	IsSpace bool
}

// Font resolves character codes from a content-stream string to widths and
// Unicode text.
type Font interface {
	Decode(s pdf.String) []Glyph

	// Metrics returns the font's ascent and descent, in 1000-unit glyph
	// space, used to build a glyph's bounding box.
	Metrics() (ascent, descent float64)
}

// defaultAscent and defaultDescent are used when a font has no
// FontDescriptor (e.g. a non-embedded standard-14 font with no overrides),
// matching common values for a roman text font.
const (
	defaultAscent  = 718.0
	defaultDescent = -207.0
)

// SimpleFont implements [Font] for Type1/TrueType/MMType1/Type3 fonts: one
// byte per character code.
type SimpleFont struct {
	FirstChar    int
	Widths       []float64 // Widths[code-FirstChar]
	MissingWidth float64
	BaseFont     string
	Encoding     *Encoding
	ToUnicode    *ToUnicodeMap
	Ascent       float64
	Descent      float64
}

// Metrics implements [Font].
func (f *SimpleFont) Metrics() (float64, float64) { return f.Ascent, f.Descent }

// Decode implements [Font].
func (f *SimpleFont) Decode(s pdf.String) []Glyph {
	out := make([]Glyph, len(s))
	for i, b := range s {
		code := charcode.CharCode(b)
		out[i] = Glyph{
			Code:    code,
			Width:   f.width(int(b)),
			Text:    f.text(int(b), code),
			IsSpace: b == ' ',
		}
	}
	return out
}

func (f *SimpleFont) width(code int) float64 {
	idx := code - f.FirstChar
	if idx >= 0 && idx < len(f.Widths) && f.Widths[idx] != 0 {
		return f.Widths[idx]
	}
	if canon, ok := standard14.IsStandard14(f.BaseFont); ok && f.Encoding != nil {
		if w, ok := standard14.Width(canon, f.Encoding.GlyphName(code)); ok {
			return w
		}
	}
	return f.MissingWidth
}

func (f *SimpleFont) text(code int, raw charcode.CharCode) string {
	if f.ToUnicode != nil {
		if s, ok := f.ToUnicode.Lookup(raw); ok {
			return s
		}
	}
	if f.Encoding != nil {
		return f.Encoding.ToUnicode(code)
	}
	return ""
}

// CIDWidths holds a CIDFont's /W array, decoded into individual and range
// entries, plus the /DW default.
type CIDWidths struct {
	Default float64
	single  map[int32]float64
	ranges  []cidWidthRange
}

type cidWidthRange struct {
	first, last int32
	width       float64
}

// Width returns the advance width (1000 units/em) for the given CID.
func (w *CIDWidths) Width(cid int32) float64 {
	if w == nil {
		return 1000
	}
	if v, ok := w.single[cid]; ok {
		return v
	}
	for _, r := range w.ranges {
		if cid >= r.first && cid <= r.last {
			return r.width
		}
	}
	return w.Default
}

// ExtractCIDWidths parses a CIDFont's /W array. def is the /DW default
// width (1000 if /DW is absent, per the PDF spec).
func ExtractCIDWidths(r pdf.Getter, obj pdf.Object, def float64) (*CIDWidths, error) {
	arr, err := pdf.GetArray(r, obj)
	if err != nil {
		return nil, err
	}
	res := &CIDWidths{Default: def, single: make(map[int32]float64)}
	i := 0
	for i < len(arr) {
		first, err := pdf.GetInteger(r, arr[i])
		if err != nil {
			return nil, err
		}
		i++
		if i >= len(arr) {
			break
		}
		next, err := pdf.Resolve(r, arr[i])
		if err != nil {
			return nil, err
		}
		switch x := next.(type) {
		case pdf.Array:
			for j, wObj := range x {
				w, err := pdf.GetNumber(r, wObj)
				if err != nil {
					return nil, err
				}
				res.single[int32(first)+int32(j)] = float64(w)
			}
			i++
		default:
			last, err := pdf.GetInteger(r, next)
			if err != nil {
				return nil, err
			}
			i++
			if i >= len(arr) {
				return nil, fmt.Errorf("pdf: truncated /W array")
			}
			w, err := pdf.GetNumber(r, arr[i])
			if err != nil {
				return nil, err
			}
			i++
			res.ranges = append(res.ranges, cidWidthRange{first: int32(first), last: int32(last), width: float64(w)})
		}
	}
	return res, nil
}

// CompositeFont implements [Font] for Type 0 (composite) fonts.
type CompositeFont struct {
	CMap      *CMap
	Widths    *CIDWidths
	ToUnicode *ToUnicodeMap
	Ascent    float64
	Descent   float64
}

// Metrics implements [Font].
func (f *CompositeFont) Metrics() (float64, float64) { return f.Ascent, f.Descent }

// Decode implements [Font].
func (f *CompositeFont) Decode(s pdf.String) []Glyph {
	var out []Glyph
	for len(s) > 0 {
		code, n := f.CMap.CS.Decode(s)
		if n == 0 {
			break
		}
		if code < 0 {
			s = s[1:]
			continue
		}
		cid := f.CMap.Lookup(code)
		text := ""
		if f.ToUnicode != nil {
			text, _ = f.ToUnicode.Lookup(code)
		}
		out = append(out, Glyph{
			Code:    code,
			Width:   f.Widths.Width(cid),
			Text:    text,
			IsSpace: n == 1 && code == ' ',
		})
		s = s[n:]
	}
	return out
}

// Extract reads a font resource dict (as found under Resources/Font) and
// builds the [Font] implementation appropriate to its /Subtype.
func Extract(r pdf.Getter, obj pdf.Object) (Font, error) {
	dict, err := pdf.GetDictTyped(r, obj, "Font")
	if err != nil {
		return nil, err
	}
	subtype, err := pdf.GetName(r, dict.Get("Subtype"))
	if err != nil {
		return nil, err
	}

	if subtype == "Type0" {
		return extractComposite(r, dict)
	}
	return extractSimple(r, dict)
}

func extractSimple(r pdf.Getter, dict pdf.Dict) (*SimpleFont, error) {
	baseFont, _ := pdf.GetName(r, dict.Get("BaseFont"))

	descriptor, err := ExtractDescriptor(r, dict.Get("FontDescriptor"))
	if err != nil {
		return nil, err
	}
	symbolic := descriptor != nil && descriptor.IsSymbolic

	encName := ""
	var diff pdf.Array
	encObj, err := pdf.Resolve(r, dict.Get("Encoding"))
	if err != nil {
		return nil, err
	}
	switch e := encObj.(type) {
	case pdf.Name:
		encName = string(e)
	case pdf.Dict:
		if base, err := pdf.GetName(r, e.Get("BaseEncoding")); err == nil {
			encName = string(base)
		}
		diff, _ = pdf.GetArray(r, e.Get("Differences"))
	}
	encoding := NewEncoding(encName, symbolic)
	if len(diff) > 0 {
		ApplyDifferences(encoding, diff)
	}

	firstChar := 0
	if fc, err := pdf.GetInteger(r, dict.Get("FirstChar")); err == nil {
		firstChar = int(fc)
	}
	widthsArr, err := pdf.GetFloatArray(r, dict.Get("Widths"))
	if err != nil {
		return nil, err
	}

	missingWidth := 0.0
	if descriptor != nil {
		missingWidth = descriptor.MissingWidth
	}

	toUnicode, err := ExtractToUnicode(r, dict.Get("ToUnicode"), charcode.Simple)
	if err != nil {
		return nil, err
	}

	ascent, descent := defaultAscent, defaultDescent
	if descriptor != nil {
		if descriptor.Ascent != 0 {
			ascent = descriptor.Ascent
		}
		if descriptor.Descent != 0 {
			descent = descriptor.Descent
		}
	}

	return &SimpleFont{
		FirstChar:    firstChar,
		Widths:       widthsArr,
		MissingWidth: missingWidth,
		BaseFont:     string(baseFont),
		Encoding:     encoding,
		ToUnicode:    toUnicode,
		Ascent:       ascent,
		Descent:      descent,
	}, nil
}

func extractComposite(r pdf.Getter, dict pdf.Dict) (*CompositeFont, error) {
	cmap, err := ExtractCMap(r, dict.Get("Encoding"))
	if err != nil {
		return nil, err
	}

	descendants, err := pdf.GetArray(r, dict.Get("DescendantFonts"))
	if err != nil {
		return nil, err
	}
	if len(descendants) == 0 {
		return nil, fmt.Errorf("pdf: Type0 font has no descendant font")
	}
	cidFont, err := pdf.GetDict(r, descendants[0])
	if err != nil {
		return nil, err
	}

	def := 1000.0
	if dw, err := pdf.GetNumber(r, cidFont.Get("DW")); err == nil && dw != 0 {
		def = float64(dw)
	}
	widths, err := ExtractCIDWidths(r, cidFont.Get("W"), def)
	if err != nil {
		return nil, err
	}

	toUnicode, err := ExtractToUnicode(r, dict.Get("ToUnicode"), cmap.CS)
	if err != nil {
		return nil, err
	}

	descriptor, err := ExtractDescriptor(r, cidFont.Get("FontDescriptor"))
	if err != nil {
		return nil, err
	}
	ascent, descent := defaultAscent, defaultDescent
	if descriptor != nil {
		if descriptor.Ascent != 0 {
			ascent = descriptor.Ascent
		}
		if descriptor.Descent != 0 {
			descent = descriptor.Descent
		}
	}

	return &CompositeFont{CMap: cmap, Widths: widths, ToUnicode: toUnicode, Ascent: ascent, Descent: descent}, nil
}
