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

package search

import (
	"testing"

	"github.com/seehuhn-go/docengine/content"
)

func glyphAt(text string, x float64, fontSize float64, baseline float64) content.Glyph {
	w := fontSize * 0.6
	return content.Glyph{
		Text:     text,
		BBox:     content.Rect{LLx: x, LLy: baseline, URx: x + w, URy: baseline + fontSize},
		FontSize: fontSize,
		FontName: "F1",
		Baseline: baseline,
	}
}

func TestGroupLinesOrdersTopDown(t *testing.T) {
	glyphs := []content.Glyph{
		glyphAt("b", 0, 10, 100), // second line (lower baseline -> further down the page)
		glyphAt("a", 0, 10, 200), // first line
	}
	p := GroupLines(glyphs)
	if len(p.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(p.Lines))
	}
	if p.Lines[0].Text != "a" || p.Lines[1].Text != "b" {
		t.Errorf("line order = [%q, %q], want [a, b] (top-down, highest baseline first)", p.Lines[0].Text, p.Lines[1].Text)
	}
	if p.Text != "a\nb" {
		t.Errorf("p.Text = %q, want %q", p.Text, "a\nb")
	}
}

func TestGroupLinesSameBaselineOneLine(t *testing.T) {
	glyphs := []content.Glyph{
		glyphAt("H", 0, 10, 100),
		glyphAt("i", 6, 10, 100.5), // within baselineTolerance
	}
	p := GroupLines(glyphs)
	if len(p.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(p.Lines))
	}
	if p.Lines[0].Text != "Hi" {
		t.Errorf("line text = %q, want Hi", p.Lines[0].Text)
	}
}

func TestGroupLinesSyntheticSpaceOnWideGap(t *testing.T) {
	a := glyphAt("A", 0, 10, 100)
	// a's URx is 0 + 10*0.6 = 6; a gap of 10 units is far beyond
	// spanGapFactor*fontSize (0.3*10 = 3), so a space must be synthesized.
	b := glyphAt("B", 16, 10, 100)

	p := GroupLines([]content.Glyph{a, b})
	if len(p.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(p.Lines))
	}
	if got := p.Lines[0].Text; got != "A B" {
		t.Errorf("line text = %q, want %q (synthetic space inserted)", got, "A B")
	}
}

func TestGroupLinesNoSyntheticSpaceOnNarrowGap(t *testing.T) {
	a := glyphAt("A", 0, 10, 100)
	b := glyphAt("B", 6.5, 10, 100) // gap of 0.5, well under 0.3*10=3
	p := GroupLines([]content.Glyph{a, b})
	if got := p.Lines[0].Text; got != "AB" {
		t.Errorf("line text = %q, want AB (no synthetic space for a tight kerning gap)", got)
	}
}

func TestGroupLinesSpanBreaksOnFontChange(t *testing.T) {
	a := glyphAt("A", 0, 10, 100)
	a.FontName = "F1"
	b := glyphAt("B", 6, 12, 100)
	b.FontName = "F2"
	p := GroupLines([]content.Glyph{a, b})
	if len(p.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(p.Lines))
	}
	if len(p.Lines[0].Spans) != 2 {
		t.Errorf("got %d spans, want 2 (font name changed)", len(p.Lines[0].Spans))
	}
}

func TestGroupLinesEmpty(t *testing.T) {
	p := GroupLines(nil)
	if len(p.Lines) != 0 || p.Text != "" {
		t.Errorf("GroupLines(nil) = %+v, want empty", p)
	}
}
