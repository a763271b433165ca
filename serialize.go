// github.com/seehuhn-go/docengine - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
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

package pdf

import (
	"fmt"
	"io"

	"github.com/seehuhn-go/docengine/internal/float"
)

// formatReal renders a real number the way the serializer requires:
// integers get no decimal point, reals are trimmed to at most 5 fractional
// digits with trailing zeros and the trailing point stripped.
func formatReal(x float64) string {
	if i := int64(x); float64(i) == x {
		return fmt.Sprintf("%d", i)
	}
	return float.Format(x, 5)
}

// isRegularNameByte reports whether b can appear in a Name's serialized
// form without a "#HH" escape.
func isRegularNameByte(b byte) bool {
	if b < 33 || b > 126 {
		return false
	}
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%', '#':
		return false
	}
	return true
}

func writeName(w io.Writer, s string) error {
	buf := make([]byte, 0, len(s)+1)
	buf = append(buf, '/')
	for i := 0; i < len(s); i++ {
		b := s[i]
		if isRegularNameByte(b) {
			buf = append(buf, b)
		} else {
			buf = append(buf, '#')
			buf = append(buf, hexDigit(b>>4), hexDigit(b&0xF))
		}
	}
	_, err := w.Write(buf)
	return err
}

func hexDigit(v byte) byte {
	if v < 10 {
		return '0' + v
	}
	return 'A' + v - 10
}

// writeLiteralString always escapes "(", ")" and "\\" (the safe policy
// from the serializer rules) and escapes "\r" so that it cannot be
// silently normalized away by another tool's line-ending handling; a bare
// "\n" next to a "\r" is escaped too, so the pair can never be
// re-interpreted as a single line break on read-back.
func writeLiteralString(w io.Writer, s []byte) error {
	buf := make([]byte, 0, len(s)+2)
	buf = append(buf, '(')
	for i, b := range s {
		switch b {
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\n':
			prevCR := i > 0 && s[i-1] == '\r'
			nextCR := i+1 < len(s) && s[i+1] == '\r'
			if prevCR || nextCR {
				buf = append(buf, '\\', 'n')
			} else {
				buf = append(buf, '\n')
			}
		case '(', ')', '\\':
			buf = append(buf, '\\', b)
		default:
			buf = append(buf, b)
		}
	}
	buf = append(buf, ')')
	_, err := w.Write(buf)
	return err
}
