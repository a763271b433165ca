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

import "bytes"

// stripInlineImages excises the raw binary payload of every inline image
// (BI ... ID <data> EI) from a content stream, replacing it with a bare
// "EI" marker. The BI/ID operators and the image parameter dict between
// them are valid PDF syntax and tokenize normally; only the bytes between
// ID and EI are opaque binary data that the object scanner cannot parse.
func stripInlineImages(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for {
		idx := indexKeyword(data, "ID")
		if idx < 0 {
			out = append(out, data...)
			break
		}
		out = append(out, data[:idx+2]...)
		rest := data[idx+2:]

		// a single whitespace byte separates "ID" from the image data
		skip := 0
		if len(rest) > 0 && isContentSpace(rest[0]) {
			skip = 1
		}
		rest = rest[skip:]

		end := indexKeyword(rest, "EI")
		if end < 0 {
			out = append(out, rest...)
			break
		}
		out = append(out, ' ')
		out = append(out, rest[end:end+2]...)
		data = rest[end+2:]
	}
	return out
}

func isContentSpace(b byte) bool {
	switch b {
	case 0, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

// indexKeyword finds the first occurrence of kw that is preceded by
// whitespace (or the start of input) and followed by whitespace, a '/', or
// the end of input, as a crude proxy for "this is a token, not a byte inside
// binary data".
func indexKeyword(data []byte, kw string) int {
	start := 0
	for {
		i := bytes.Index(data[start:], []byte(kw))
		if i < 0 {
			return -1
		}
		pos := start + i
		before := pos == 0 || isContentSpace(data[pos-1])
		afterIdx := pos + len(kw)
		after := afterIdx >= len(data) || isContentSpace(data[afterIdx]) || data[afterIdx] == '/'
		if before && after {
			return pos
		}
		start = pos + 1
	}
}
