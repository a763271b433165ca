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

// Package search groups a page's extracted glyphs into lines of text and
// supports substring and regular-expression search over the result, with
// each match mapped back to the glyphs (and hence the bounding rectangles)
// that produced it.
package search

import (
	"sort"

	"github.com/seehuhn-go/docengine/content"
)

// baselineTolerance is the maximum baseline-y difference, in user-space
// units, for two glyphs to be considered part of the same line.
const baselineTolerance = 2.0

// fontSizeTolerance is the maximum font-size difference for two adjacent
// glyphs to stay within the same span.
const fontSizeTolerance = 0.5

// spanGapFactor scales a span's average font size to decide when a
// horizontal gap between glyphs is wide enough to synthesize a space.
const spanGapFactor = 0.3

// Span is a run of glyphs sharing one font name and (approximately) one
// font size.
type Span struct {
	FontName string
	FontSize float64
	Glyphs   []content.Glyph // includes synthesized space glyphs
}

// Line is a group of glyphs that share (approximately) one baseline.
type Line struct {
	Baseline float64
	Spans    []Span
	Text     string

	// glyphs[i] is the glyph that produced Text's i-th rune (a synthesized
	// space is its own glyph).
	glyphs []*content.Glyph
}

// Page groups a page's glyphs into top-down-ordered lines and builds the
// page's plain-text representation.
type Page struct {
	Lines []Line
	Text  string

	// index[i] gives the (line, glyph) pair that produced Text's i-th rune,
	// or (-1,-1) for a line-joining '\n'.
	index []glyphRef
}

type glyphRef struct {
	line, glyph int
}

// GroupLines groups an unordered set of extracted glyphs into a [Page].
func GroupLines(glyphs []content.Glyph) *Page {
	byLine := groupByBaseline(glyphs)

	lines := make([]Line, 0, len(byLine))
	for _, g := range byLine {
		lines = append(lines, buildLine(g))
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Baseline > lines[j].Baseline })

	p := &Page{Lines: lines}
	p.buildText()
	return p
}

func groupByBaseline(glyphs []content.Glyph) [][]content.Glyph {
	sorted := make([]content.Glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Baseline > sorted[j].Baseline })

	var groups [][]content.Glyph
	for _, g := range sorted {
		placed := false
		for i := range groups {
			if abs(groups[i][0].Baseline-g.Baseline) <= baselineTolerance {
				groups[i] = append(groups[i], g)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, []content.Glyph{g})
		}
	}
	return groups
}

func buildLine(glyphs []content.Glyph) Line {
	sort.Slice(glyphs, func(i, j int) bool { return glyphs[i].BBox.LLx < glyphs[j].BBox.LLx })

	var baseline float64
	for _, g := range glyphs {
		baseline += g.Baseline
	}
	baseline /= float64(len(glyphs))

	var spans []Span
	for _, g := range glyphs {
		if n := len(spans); n > 0 {
			last := &spans[n-1]
			sameFont := last.FontName == g.FontName && abs(last.FontSize-g.FontSize) <= fontSizeTolerance
			if sameFont {
				insertSyntheticSpace(last, g)
				last.Glyphs = append(last.Glyphs, g)
				continue
			}
		}
		spans = append(spans, Span{FontName: g.FontName, FontSize: g.FontSize, Glyphs: []content.Glyph{g}})
	}

	line := Line{Baseline: baseline, Spans: spans}
	line.buildText()
	return line
}

// insertSyntheticSpace appends a synthetic space glyph to span if the gap
// between its last glyph and next is wide enough.
func insertSyntheticSpace(span *Span, next content.Glyph) {
	if len(span.Glyphs) == 0 {
		return
	}
	prev := span.Glyphs[len(span.Glyphs)-1]
	gap := next.BBox.LLx - prev.BBox.URx
	if gap <= 0 {
		return
	}
	avgSize := (prev.FontSize + next.FontSize) / 2
	if gap > spanGapFactor*avgSize {
		span.Glyphs = append(span.Glyphs, content.Glyph{
			Text:     " ",
			BBox:     content.Rect{LLx: prev.BBox.URx, LLy: prev.BBox.LLy, URx: next.BBox.LLx, URy: prev.BBox.URy},
			FontSize: avgSize,
			FontName: span.FontName,
			Baseline: prev.Baseline,
		})
	}
}

func (l *Line) buildText() {
	var text []byte
	var refs []*content.Glyph
	for si := range l.Spans {
		for gi := range l.Spans[si].Glyphs {
			g := &l.Spans[si].Glyphs[gi]
			text = append(text, g.Text...)
			for range []rune(g.Text) {
				refs = append(refs, g)
			}
		}
	}
	l.Text = string(text)
	l.glyphs = refs
}

func (p *Page) buildText() {
	var text []byte
	var index []glyphRef
	for li := range p.Lines {
		line := &p.Lines[li]
		for gi := range line.glyphs {
			index = append(index, glyphRef{line: li, glyph: gi})
		}
		text = append(text, line.Text...)
		if li != len(p.Lines)-1 {
			text = append(text, '\n')
			index = append(index, glyphRef{line: -1, glyph: -1})
		}
	}
	p.Text = string(text)
	p.index = index
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
