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
	"bytes"
	"fmt"
	"unicode/utf16"

	"github.com/seehuhn-go/docengine"
	"github.com/seehuhn-go/docengine/font/charcode"

	"seehuhn.de/go/postscript"
)

// ToUnicodeMap holds a code -> Unicode-string mapping parsed from a
// /ToUnicode CMap stream.
type ToUnicodeMap struct {
	single map[charcode.CharCode]string
	ranges []tuRange
}

type tuRange struct {
	first, last charcode.CharCode
	values      [][]rune
}

// ExtractToUnicode reads the /ToUnicode entry of a font dict, if present.
// cs, if non-nil, overrides the code-space range declared inside the CMap
// (used when the font's own encoding already fixes the code length).
func ExtractToUnicode(r pdf.Getter, obj pdf.Object, cs charcode.CodeSpaceRange) (*ToUnicodeMap, error) {
	stm, err := pdf.GetStream(r, obj)
	if err != nil || stm == nil {
		return nil, err
	}
	data, err := pdf.ReadAll(r, stm)
	if err != nil {
		return nil, err
	}
	return parseToUnicode(data, cs)
}

func parseToUnicode(data []byte, cs charcode.CodeSpaceRange) (*ToUnicodeMap, error) {
	raw, err := postscript.ReadCMap(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	info, ok := raw["CodeMap"].(*postscript.CMapInfo)
	if !ok {
		return nil, fmt.Errorf("pdf: unsupported ToUnicode CMap format")
	}

	if cs == nil {
		for _, rng := range info.CodeSpaceRanges {
			cs = append(cs, charcode.Range{Low: []byte(rng.Low), High: []byte(rng.High)})
		}
		if len(cs) == 0 {
			cs = charcode.UCS2
		}
	}

	res := &ToUnicodeMap{single: make(map[charcode.CharCode]string)}
	for _, c := range info.BfChars {
		src := pdf.String(c.Src)
		code, k := cs.Decode(src)
		if code < 0 || k != len(src) {
			continue
		}
		rr, err := tuRunes(c.Dst)
		if err != nil {
			continue
		}
		res.single[code] = string(rr)
	}
	for _, rng := range info.BfRanges {
		lo, hi := pdf.String(rng.Low), pdf.String(rng.High)
		first, k1 := cs.Decode(lo)
		last, k2 := cs.Decode(hi)
		if first < 0 || last < 0 || k1 != len(lo) || k2 != len(hi) {
			continue
		}
		switch dst := rng.Dst.(type) {
		case postscript.String:
			base, err := tuRunes(dst)
			if err != nil || len(base) == 0 {
				continue
			}
			n := int(last-first) + 1
			values := make([][]rune, n)
			for i := 0; i < n; i++ {
				rr := make([]rune, len(base))
				copy(rr, base)
				rr[len(rr)-1] += rune(i)
				values[i] = rr
			}
			res.ranges = append(res.ranges, tuRange{first: first, last: last, values: values})
		case postscript.Array:
			if int64(len(dst)) != int64(last-first)+1 {
				continue
			}
			values := make([][]rune, len(dst))
			for i, elem := range dst {
				rr, err := tuRunes(elem)
				if err != nil {
					continue
				}
				values[i] = rr
			}
			res.ranges = append(res.ranges, tuRange{first: first, last: last, values: values})
		}
	}
	return res, nil
}

func tuRunes(obj postscript.Object) ([]rune, error) {
	s, ok := obj.(postscript.String)
	if !ok || len(s)%2 != 0 {
		return nil, fmt.Errorf("pdf: invalid ToUnicode destination")
	}
	buf := make([]uint16, len(s)/2)
	for i := range buf {
		buf[i] = uint16(s[2*i])<<8 | uint16(s[2*i+1])
	}
	return utf16.Decode(buf), nil
}

// Lookup returns the Unicode text for code, and whether a mapping exists.
func (m *ToUnicodeMap) Lookup(code charcode.CharCode) (string, bool) {
	if m == nil {
		return "", false
	}
	if s, ok := m.single[code]; ok {
		return s, true
	}
	for _, rng := range m.ranges {
		if code >= rng.first && code <= rng.last {
			idx := int(code - rng.first)
			if idx < len(rng.values) {
				return string(rng.values[idx]), true
			}
		}
	}
	return "", false
}
