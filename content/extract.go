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

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/seehuhn-go/docengine"
	"github.com/seehuhn-go/docengine/font"
	"github.com/seehuhn-go/docengine/matrix"
)

// textState is the subset of the graphics state that q/Q saves and
// restores, plus CTM. Tm and Tlm are text-object-local and are NOT part of
// this stack: they are reset by BT and never touched by q/Q.
type textState struct {
	ctm matrix.Matrix

	charSpace  float64
	wordSpace  float64
	hScale     float64 // percent, 100 = normal
	leading    float64
	fontName   pdf.Name
	fontSize   float64
	textRise   float64
	renderMode int64

	ascent, descent float64 // 1000-unit glyph space, of the current font
}

// interp replays one content stream (recursing into Form XObjects) and
// emits a [Glyph] for every shown character.
type interp struct {
	r pdf.Getter

	gs    textState
	stack []textState

	tm, tlm matrix.Matrix
	inText  bool

	resources []pdf.Dict // stack of Resources dicts, innermost last
	fontCache map[pdf.Name]font.Font

	depth int
	out   []Glyph
}

// maxFormDepth bounds recursion into nested Form XObjects, guarding against
// a Form whose content stream invokes itself (directly or indirectly).
const maxFormDepth = 16

// ExtractText replays a page's (or XObject's) content stream and returns
// every glyph it shows, across the given initial CTM. resources is the
// Resources dict in effect for the outermost content stream (typically a
// page's own /Resources).
func ExtractText(r pdf.Getter, contentStream []byte, resources pdf.Dict, ctm matrix.Matrix) ([]Glyph, error) {
	ip := &interp{
		r:         r,
		resources: []pdf.Dict{resources},
		fontCache: make(map[pdf.Name]font.Font),
	}
	ip.gs.ctm = ctm
	ip.gs.hScale = 100

	if err := ip.run(contentStream); err != nil {
		return nil, err
	}
	return ip.out, nil
}

func (ip *interp) run(data []byte) error {
	sc := newScanner(bytes.NewReader(stripInlineImages(data)))

	var operands []pdf.Object
	for {
		obj, err := sc.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if _, ok := err.(*scannerError); ok {
				// malformed trailing garbage: stop, keep what was extracted
				return nil
			}
			return err
		}

		op, isOp := obj.(pdf.Operator)
		if !isOp {
			operands = append(operands, obj)
			continue
		}

		if err := ip.do(string(op), operands); err != nil {
			return err
		}
		operands = operands[:0]
	}
}

func (ip *interp) do(op string, args []pdf.Object) error {
	switch op {
	case "q":
		ip.stack = append(ip.stack, ip.gs)
	case "Q":
		if n := len(ip.stack); n > 0 {
			ip.gs = ip.stack[n-1]
			ip.stack = ip.stack[:n-1]
		}
	case "cm":
		if m, ok := matrixArg(args); ok {
			ip.gs.ctm = m.Mul(ip.gs.ctm)
		}
	case "BT":
		ip.inText = true
		ip.tm = matrix.Identity
		ip.tlm = matrix.Identity
	case "ET":
		ip.inText = false
	case "Tc":
		if v, ok := num(args, 0); ok {
			ip.gs.charSpace = v
		}
	case "Tw":
		if v, ok := num(args, 0); ok {
			ip.gs.wordSpace = v
		}
	case "Tz":
		if v, ok := num(args, 0); ok {
			ip.gs.hScale = v
		}
	case "TL":
		if v, ok := num(args, 0); ok {
			ip.gs.leading = v
		}
	case "Ts":
		if v, ok := num(args, 0); ok {
			ip.gs.textRise = v
		}
	case "Tr":
		if v, ok := num(args, 0); ok {
			ip.gs.renderMode = int64(v)
		}
	case "Tf":
		if len(args) >= 2 {
			if name, ok := args[0].(pdf.Name); ok {
				ip.gs.fontName = name
			}
			if v, ok := num(args, 1); ok {
				ip.gs.fontSize = v
			}
		}
	case "Td":
		if dx, ok1 := num(args, 0); ok1 {
			if dy, ok2 := num(args, 1); ok2 {
				ip.tlm = matrix.Translate(dx, dy).Mul(ip.tlm)
				ip.tm = ip.tlm
			}
		}
	case "TD":
		if dx, ok1 := num(args, 0); ok1 {
			if dy, ok2 := num(args, 1); ok2 {
				ip.gs.leading = -dy
				ip.tlm = matrix.Translate(dx, dy).Mul(ip.tlm)
				ip.tm = ip.tlm
			}
		}
	case "Tm":
		if m, ok := matrixArg(args); ok {
			ip.tlm = m
			ip.tm = m
		}
	case "T*":
		ip.tlm = matrix.Translate(0, -ip.gs.leading).Mul(ip.tlm)
		ip.tm = ip.tlm
	case "Tj":
		if len(args) >= 1 {
			if s, ok := args[0].(pdf.String); ok {
				ip.showText(s)
			}
		}
	case "'":
		ip.tlm = matrix.Translate(0, -ip.gs.leading).Mul(ip.tlm)
		ip.tm = ip.tlm
		if len(args) >= 1 {
			if s, ok := args[0].(pdf.String); ok {
				ip.showText(s)
			}
		}
	case "\"":
		if len(args) >= 3 {
			if aw, ok := num(args, 0); ok {
				ip.gs.wordSpace = aw
			}
			if ac, ok := num(args, 1); ok {
				ip.gs.charSpace = ac
			}
			ip.tlm = matrix.Translate(0, -ip.gs.leading).Mul(ip.tlm)
			ip.tm = ip.tlm
			if s, ok := args[2].(pdf.String); ok {
				ip.showText(s)
			}
		}
	case "TJ":
		if len(args) >= 1 {
			if arr, ok := args[0].(pdf.Array); ok {
				ip.showTextArray(arr)
			}
		}
	case "Do":
		if len(args) >= 1 {
			if name, ok := args[0].(pdf.Name); ok {
				return ip.doXObject(name)
			}
		}
	}
	return nil
}

func num(args []pdf.Object, i int) (float64, bool) {
	if i < 0 || i >= len(args) {
		return 0, false
	}
	switch x := args[i].(type) {
	case pdf.Integer:
		return float64(x), true
	case pdf.Real:
		return float64(x), true
	default:
		return 0, false
	}
}

func matrixArg(args []pdf.Object) (matrix.Matrix, bool) {
	if len(args) < 6 {
		return matrix.Identity, false
	}
	var m matrix.Matrix
	for i := 0; i < 6; i++ {
		v, ok := num(args, i)
		if !ok {
			return matrix.Identity, false
		}
		m[i] = v
	}
	return m, true
}

// currentFont resolves and caches the font named by the current Tf
// operand, looked up in the innermost Resources dict on the stack (falling
// back to outer ones, per the PDF inheritance rule for Form XObjects that
// omit their own /Resources).
func (ip *interp) currentFont() font.Font {
	if ip.gs.fontName == "" {
		return nil
	}
	if f, ok := ip.fontCache[ip.gs.fontName]; ok {
		return f
	}
	for i := len(ip.resources) - 1; i >= 0; i-- {
		fontsDict, err := pdf.GetDict(ip.r, ip.resources[i].Get("Font"))
		if err != nil || fontsDict.Len() == 0 {
			continue
		}
		obj := fontsDict.Get(ip.gs.fontName)
		if obj == nil {
			continue
		}
		f, err := font.Extract(ip.r, obj)
		if err != nil {
			continue
		}
		ip.fontCache[ip.gs.fontName] = f
		return f
	}
	return nil
}

func (ip *interp) showText(s pdf.String) {
	f := ip.currentFont()
	if f == nil || !ip.inText {
		return
	}
	ip.gs.ascent, ip.gs.descent = f.Metrics()
	for _, g := range f.Decode(s) {
		ip.emitGlyph(g)
		ip.advance(g)
	}
}

func (ip *interp) showTextArray(arr pdf.Array) {
	f := ip.currentFont()
	if f != nil {
		ip.gs.ascent, ip.gs.descent = f.Metrics()
	}
	for _, elem := range arr {
		switch x := elem.(type) {
		case pdf.String:
			if f == nil || !ip.inText {
				continue
			}
			for _, g := range f.Decode(x) {
				ip.emitGlyph(g)
				ip.advance(g)
			}
		default:
			var adj float64
			switch v := x.(type) {
			case pdf.Integer:
				adj = float64(v)
			case pdf.Real:
				adj = float64(v)
			default:
				continue
			}
			dx := -adj / 1000 * ip.gs.fontSize * (ip.gs.hScale / 100)
			ip.tm = matrix.Translate(dx, 0).Mul(ip.tm)
		}
	}
}

// emitGlyph records the given decoded character at the text object's
// current position. Text is extracted regardless of render mode, including
// invisible text (mode 3), since the purpose here is reading text, not
// rendering it.
func (ip *interp) emitGlyph(g font.Glyph) {
	if g.Text == "" {
		return
	}

	trm := ip.tm.Mul(ip.gs.ctm)

	baseX, baseY := trm.Apply(0, 0)

	w := g.Width / 1000 * ip.gs.fontSize
	desc := ip.gs.descent / 1000 * ip.gs.fontSize
	asc := ip.gs.ascent / 1000 * ip.gs.fontSize
	corners := [4][2]float64{{0, desc}, {w, desc}, {w, asc}, {0, asc}}
	var bbox Rect
	first := true
	for _, c := range corners {
		dx, dy := trm.ApplyDirection(c[0], c[1])
		px, py := baseX+dx, baseY+dy
		r := Rect{LLx: px, LLy: py, URx: px, URy: py}
		if first {
			bbox = r
			first = false
		} else {
			bbox.Extend(r)
		}
	}

	ip.out = append(ip.out, Glyph{
		Text:     g.Text,
		BBox:     bbox,
		FontSize: ip.gs.fontSize,
		FontName: string(ip.gs.fontName),
		Baseline: baseY,
	})
}

func (ip *interp) advance(g font.Glyph) {
	ws := 0.0
	if g.IsSpace {
		ws = ip.gs.wordSpace
	}
	tx := (g.Width/1000*ip.gs.fontSize + ip.gs.charSpace + ws) * (ip.gs.hScale / 100)
	ip.tm = matrix.Translate(tx, 0).Mul(ip.tm)
}

func (ip *interp) doXObject(name pdf.Name) error {
	if ip.depth >= maxFormDepth {
		return nil
	}
	if len(ip.resources) == 0 {
		return nil
	}

	xobjects, err := pdf.GetDict(ip.r, ip.resources[len(ip.resources)-1].Get("XObject"))
	if err != nil || xobjects.Len() == 0 {
		return nil
	}
	stm, err := pdf.GetStream(ip.r, xobjects.Get(name))
	if err != nil || stm == nil {
		return nil
	}
	subtype, _ := pdf.GetName(ip.r, stm.Dict.Get("Subtype"))
	if subtype != "Form" {
		return nil
	}

	data, err := pdf.ReadAll(ip.r, stm)
	if err != nil {
		return fmt.Errorf("pdf: reading Form XObject %q: %w", name, err)
	}

	savedCTM := ip.gs.ctm
	if m, err := pdf.GetFloatArray(ip.r, stm.Dict.Get("Matrix")); err == nil && len(m) == 6 {
		fm := matrix.Matrix{m[0], m[1], m[2], m[3], m[4], m[5]}
		ip.gs.ctm = fm.Mul(ip.gs.ctm)
	}

	formRes, err := pdf.GetDict(ip.r, stm.Dict.Get("Resources"))
	if err == nil && formRes.Len() > 0 {
		ip.resources = append(ip.resources, formRes)
		defer func() { ip.resources = ip.resources[:len(ip.resources)-1] }()
	}

	savedFontCache := ip.fontCache
	ip.fontCache = make(map[pdf.Name]font.Font)
	ip.depth++
	err = ip.run(data)
	ip.depth--
	ip.fontCache = savedFontCache
	ip.gs.ctm = savedCTM
	return err
}
