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
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"github.com/seehuhn-go/docengine/content"
)

// boundaryChars is the set of runes that count as word boundaries for
// whole-word matching, in addition to Unicode whitespace.
const boundaryChars = `.,;:!?'"()[]{}<>/\|@#$%^&*+=~` + "`" + `-`

// Options controls a search.
type Options struct {
	CaseSensitive bool
	WholeWord     bool
	Regex         bool
}

// Match is one search hit: its text, the page rectangles that cover it
// (one per line the match touches; synthetic spaces and span breaks within
// a line do not start a new rectangle), and the single rectangle enclosing
// all of them.
type Match struct {
	Text    string
	Rects   []content.Rect
	Enclose content.Rect
}

// FindAll searches p's plain text for query and returns every match, in
// document order. If opts.Regex is false, query is matched literally
// (respecting opts.CaseSensitive); if true, query is compiled as a regular
// expression (its own "(?i)" flags, if any, take precedence over
// opts.CaseSensitive).
func FindAll(p *Page, query string, opts Options) ([]Match, error) {
	if query == "" {
		return nil, nil
	}

	boundary := clusterBoundaries(p.Text)

	var ranges [][2]int // byte [start,end) pairs
	if opts.Regex {
		pattern := query
		if !opts.CaseSensitive && !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		ranges = findAllRegex(re, p.Text)
	} else {
		ranges = findAllLiteral(p.Text, query, opts.CaseSensitive)
	}

	var out []Match
	for _, rng := range ranges {
		start, end := rng[0], rng[1]
		if !boundary[start] || !boundary[end] {
			continue // match does not align to whole grapheme clusters
		}
		if opts.WholeWord && !isWholeWord(p.Text, start, end) {
			continue
		}
		m := buildMatch(p, start, end)
		out = append(out, m)
	}
	return out, nil
}

// findAllRegex finds every non-overlapping match of re in s, including
// zero-length ones, advancing the cursor by one rune past a zero-length
// match to avoid looping forever.
func findAllRegex(re *regexp.Regexp, s string) [][2]int {
	var out [][2]int
	pos := 0
	for pos <= len(s) {
		loc := re.FindStringIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		out = append(out, [2]int{start, end})
		if end == start {
			_, size := utf8.DecodeRuneInString(s[end:])
			if size == 0 {
				break
			}
			pos = end + size
		} else {
			pos = end
		}
	}
	return out
}

func findAllLiteral(s, query string, caseSensitive bool) [][2]int {
	hay, needle := s, query
	if !caseSensitive {
		hay = strings.ToLower(s)
		needle = strings.ToLower(query)
	}
	var out [][2]int
	pos := 0
	for {
		i := strings.Index(hay[pos:], needle)
		if i < 0 {
			break
		}
		start := pos + i
		end := start + len(needle)
		out = append(out, [2]int{start, end})
		pos = end
	}
	return out
}

// clusterBoundaries returns the set of byte offsets in s (including 0 and
// len(s)) that start a new extended grapheme cluster. A match is only
// reported if both its start and end fall on such a boundary, so that
// (e.g.) a base letter is never split from a combining mark that follows
// it.
func clusterBoundaries(s string) map[int]bool {
	b := make(map[int]bool)
	pos := 0
	b[pos] = true
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		pos += len(g.Str())
		b[pos] = true
	}
	return b
}

func isWholeWord(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if !isBoundaryRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if !isBoundaryRune(r) {
			return false
		}
	}
	return true
}

func isBoundaryRune(r rune) bool {
	if r == utf8.RuneError {
		return true
	}
	if isUnicodeSpace(r) {
		return true
	}
	return strings.ContainsRune(boundaryChars, r)
}

func isUnicodeSpace(r rune) bool {
	return unicode.IsSpace(r)
}

// buildMatch maps a [start,end) byte range of p.Text back to the glyphs
// that produced it, merging consecutive glyphs on the same line into one
// rectangle per run, plus an overall enclosing rectangle.
func buildMatch(p *Page, start, end int) Match {
	m := Match{Text: p.Text[start:end]}

	startIdx := runeIndex(p.Text, start)
	endIdx := runeIndex(p.Text, end)

	var cur *content.Rect
	curLine := -1
	first := true
	for i := startIdx; i < endIdx; i++ {
		ref := p.index[i]
		if ref.line < 0 {
			cur = nil
			continue
		}
		g := p.Lines[ref.line].glyphs[ref.glyph]
		if cur == nil || ref.line != curLine {
			m.Rects = append(m.Rects, g.BBox)
			cur = &m.Rects[len(m.Rects)-1]
			curLine = ref.line
		} else {
			cur.Extend(g.BBox)
		}
		if first {
			m.Enclose = g.BBox
			first = false
		} else {
			m.Enclose.Extend(g.BBox)
		}
	}
	return m
}

// runeIndex converts a byte offset into s into the corresponding rune
// (character) index.
func runeIndex(s string, byteOffset int) int {
	return utf8.RuneCountInString(s[:byteOffset])
}
