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

	"github.com/seehuhn-go/docengine"
	"github.com/seehuhn-go/docengine/font/charcode"

	"seehuhn.de/go/postscript"
	pscmap "seehuhn.de/go/postscript/cmap"
)

// CMap maps character codes (as read from a content-stream string) to CIDs,
// for composite (Type 0) fonts.
type CMap struct {
	CS      charcode.CodeSpaceRange
	single  map[charcode.CharCode]int32
	ranges  []cidRange
	isIdent bool
}

type cidRange struct {
	first, last charcode.CharCode
	value       int32
}

// Identity is the built-in Identity-H/V CMap: code == CID, two bytes per
// code.
var Identity = &CMap{CS: charcode.UCS2, isIdent: true}

// Lookup returns the CID for a character code.
func (c *CMap) Lookup(code charcode.CharCode) int32 {
	if c.isIdent {
		return int32(code)
	}
	if v, ok := c.single[code]; ok {
		return v
	}
	for _, r := range c.ranges {
		if code >= r.first && code <= r.last {
			return r.value + int32(code-r.first)
		}
	}
	return 0
}

// ExtractCMap reads the /Encoding entry of a composite font dict: either
// one of the predefined names Identity-H/Identity-V, or an embedded CMap
// stream.
func ExtractCMap(r pdf.Getter, obj pdf.Object) (*CMap, error) {
	resolved, err := pdf.Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	switch x := resolved.(type) {
	case pdf.Name:
		switch x {
		case "Identity-H", "Identity-V", "":
			return Identity, nil
		default:
			// Other predefined CMaps (e.g. UniGB-UCS2-H) are not bundled;
			// fall back to identity so that extraction still produces
			// codes, even though the CID values will be wrong.
			return Identity, nil
		}
	case *pdf.Stream:
		data, err := pdf.ReadAll(r, x)
		if err != nil {
			return nil, err
		}
		return parseCMap(data)
	default:
		return nil, &pdf.MalformedFileError{Err: fmt.Errorf("invalid /Encoding entry %T", resolved)}
	}
}

func parseCMap(data []byte) (*CMap, error) {
	raw, err := pscmap.Read(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	info, ok := raw["CodeMap"].(*postscript.CMapInfo)
	if !ok {
		return nil, fmt.Errorf("pdf: unsupported CMap format")
	}

	var cs charcode.CodeSpaceRange
	for _, rng := range info.CodeSpaceRanges {
		cs = append(cs, charcode.Range{Low: []byte(rng.Low), High: []byte(rng.High)})
	}
	if len(cs) == 0 {
		cs = charcode.UCS2
	}

	res := &CMap{CS: cs, single: make(map[charcode.CharCode]int32)}
	for _, m := range info.Chars {
		src := pdf.String(m.Src)
		code, k := cs.Decode(src)
		if code < 0 || k != len(src) {
			continue
		}
		if cid, ok := m.Dst.(postscript.Integer); ok {
			res.single[code] = int32(cid)
		}
	}
	for _, m := range info.Ranges {
		lo, hi := pdf.String(m.Low), pdf.String(m.High)
		first, k1 := cs.Decode(lo)
		last, k2 := cs.Decode(hi)
		if first < 0 || last < 0 || k1 != len(lo) || k2 != len(hi) {
			continue
		}
		if cid, ok := m.Dst.(postscript.Integer); ok {
			res.ranges = append(res.ranges, cidRange{first: first, last: last, value: int32(cid)})
		}
	}
	return res, nil
}
