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
	"regexp"
)

// xrefEntry locates one object, either directly in the file or inside a
// compressed object stream.
type xrefEntry struct {
	free       bool
	compressed bool

	offset int64
	gen    uint16

	inStream uint32
	strmIdx  int
}

// noRefGetter rejects every indirect reference. Xref stream dictionaries are
// read before any xref table is available to resolve references against, so
// their /DecodeParms values are required to be direct objects; this is true
// of every producer this engine has been asked to read.
type noRefGetter struct{}

func (noRefGetter) Get(ref Reference) (Object, error) {
	return nil, &MalformedFileError{Err: fmt.Errorf("indirect reference %s in xref stream dict", ref)}
}

// parseXRefSection reads one xref section (classic table or cross-reference
// stream) starting at offset, returning its entries, its trailer dict, and
// the byte offset of the /Prev section (-1 if none).
func parseXRefSection(data []byte, offset int64, warn func(WarningKind, string, int64)) (map[uint32]xrefEntry, Dict, int64, error) {
	p := newParser(data, offset)
	p.warn = warn
	p.skipWhiteSpace()
	if p.atKeyword("xref") {
		return parseClassicXRef(p, warn)
	}
	return parseXRefStream(data, offset, warn)
}

func parseClassicXRef(p *parser, warn func(WarningKind, string, int64)) (map[uint32]xrefEntry, Dict, int64, error) {
	p.consumeKeyword("xref")
	entries := make(map[uint32]xrefEntry)
	for {
		p.skipWhiteSpace()
		if p.atKeyword("trailer") {
			break
		}
		b, ok := p.peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		start, _, err := p.readNumberLiteral()
		if err != nil {
			return nil, Dict{}, 0, err
		}
		p.skipWhiteSpace()
		count, _, err := p.readNumberLiteral()
		if err != nil {
			return nil, Dict{}, 0, err
		}
		for i := int64(0); i < count; i++ {
			p.skipWhiteSpace()
			if int64(len(p.data)) < p.pos+20 {
				return nil, Dict{}, 0, p.errorf("truncated xref entry")
			}
			line := p.data[p.pos : p.pos+20]
			offsetVal, err := parseUintBytes(trimDigits(line[:10]))
			if err != nil {
				return nil, Dict{}, 0, p.errorf("malformed xref offset: %w", err)
			}
			genVal, err := parseUintBytes(trimDigits(line[11:16]))
			if err != nil {
				return nil, Dict{}, 0, p.errorf("malformed xref generation: %w", err)
			}
			kind := line[17]
			num := uint32(start + i)
			if _, seen := entries[num]; !seen {
				entries[num] = xrefEntry{
					free:   kind == 'f',
					offset: offsetVal,
					gen:    uint16(genVal),
				}
			} else if warn != nil {
				warn(WarningXRef, fmt.Sprintf("duplicate xref entry for object %d", num), p.pos)
			}
			p.pos += 20
		}
	}
	if !p.consumeKeyword("trailer") {
		return nil, Dict{}, 0, p.errorf("expected trailer")
	}
	p.skipWhiteSpace()
	obj, err := p.readObject(nil)
	if err != nil {
		return nil, Dict{}, 0, err
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, Dict{}, 0, p.errorf("trailer is not a dict")
	}

	prev := int64(-1)
	if n, ok := trailer.Get("Prev").(Integer); ok {
		prev = int64(n)
	}
	if n, ok := trailer.Get("XRefStm").(Integer); ok {
		// hybrid-reference file: the classic table's entries win, but any
		// object numbers the stream covers and the table doesn't must still
		// be merged in.
		hybrid, hybridTrailer, _, err := parseXRefSection(p.data, int64(n), warn)
		if err == nil {
			_ = hybridTrailer
			for num, e := range hybrid {
				if _, seen := entries[num]; !seen {
					entries[num] = e
				}
			}
		}
	}
	return entries, trailer, prev, nil
}

func parseXRefStream(data []byte, offset int64, warn func(WarningKind, string, int64)) (map[uint32]xrefEntry, Dict, int64, error) {
	p := newParser(data, offset)
	p.warn = warn
	_, obj, err := p.readIndirectObject(nil)
	if err != nil {
		return nil, Dict{}, 0, err
	}
	stm, ok := obj.(*Stream)
	if !ok {
		return nil, Dict{}, 0, &MalformedFileError{Err: fmt.Errorf("xref section at %d is not a stream", offset), Pos: offset}
	}
	if err := CheckDictType(noRefGetter{}, stm.Dict, "XRef"); err != nil {
		return nil, Dict{}, 0, err
	}

	decoded, err := DecodeStream(noRefGetter{}, stm, 0)
	if err != nil {
		return nil, Dict{}, 0, err
	}

	wArr, err := GetArray(noRefGetter{}, stm.Dict.Get("W"))
	if err != nil || len(wArr) != 3 {
		return nil, Dict{}, 0, &MalformedFileError{Err: fmt.Errorf("xref stream missing /W")}
	}
	widths := make([]int, 3)
	for i, wv := range wArr {
		n, err := GetInteger(noRefGetter{}, wv)
		if err != nil {
			return nil, Dict{}, 0, err
		}
		widths[i] = int(n)
	}

	size, err := GetInteger(noRefGetter{}, stm.Dict.Get("Size"))
	if err != nil {
		return nil, Dict{}, 0, err
	}

	type span struct{ start, count int64 }
	var spans []span
	if idxArr, err := GetArray(noRefGetter{}, stm.Dict.Get("Index")); err == nil && len(idxArr) > 0 {
		for i := 0; i+1 < len(idxArr); i += 2 {
			s, err1 := GetInteger(noRefGetter{}, idxArr[i])
			c, err2 := GetInteger(noRefGetter{}, idxArr[i+1])
			if err1 != nil || err2 != nil {
				return nil, Dict{}, 0, fmt.Errorf("malformed /Index entry")
			}
			spans = append(spans, span{int64(s), int64(c)})
		}
	} else {
		spans = []span{{0, int64(size)}}
	}

	rowWidth := widths[0] + widths[1] + widths[2]
	entries := make(map[uint32]xrefEntry)
	pos := 0
	readField := func(w int) int64 {
		var v int64
		for i := 0; i < w; i++ {
			if pos >= len(decoded) {
				return v
			}
			v = v<<8 | int64(decoded[pos])
			pos++
		}
		return v
	}
	for _, sp := range spans {
		for i := int64(0); i < sp.count; i++ {
			if pos+rowWidth > len(decoded) {
				break
			}
			num := uint32(sp.start + i)
			typ := int64(1)
			if widths[0] > 0 {
				typ = readField(widths[0])
			} else {
				pos += widths[0]
			}
			f2 := readField(widths[1])
			f3 := readField(widths[2])
			if _, seen := entries[num]; seen {
				if warn != nil {
					warn(WarningXRef, fmt.Sprintf("duplicate xref entry for object %d", num), 0)
				}
				continue
			}
			switch typ {
			case 0:
				entries[num] = xrefEntry{free: true, offset: f2, gen: uint16(f3)}
			case 1:
				entries[num] = xrefEntry{offset: f2, gen: uint16(f3)}
			case 2:
				entries[num] = xrefEntry{compressed: true, inStream: uint32(f2), strmIdx: int(f3)}
			}
		}
	}

	prev := int64(-1)
	if n, ok := stm.Dict.Get("Prev").(Integer); ok {
		prev = int64(n)
	}
	return entries, stm.Dict, prev, nil
}

// objRefPattern matches a classic indirect-object header, used by the
// brute-force recovery scanner.
var objRefPattern = regexp.MustCompile(`(?:^|[^0-9])([0-9]+)[ \t]+([0-9]+)[ \t]+obj\b`)

// recoverByBruteForce scans the whole file for "N G obj" headers and builds
// an xref table from their positions, ignoring whatever (if anything) the
// file's own xref table said. This is the fallback used when a file's xref
// chain cannot be parsed or does not resolve to a usable /Root.
func recoverByBruteForce(data []byte) (map[uint32]xrefEntry, Dict, error) {
	entries := make(map[uint32]xrefEntry)
	for _, loc := range objRefPattern.FindAllSubmatchIndex(data, -1) {
		numStart, numEnd := loc[2], loc[3]
		genStart, genEnd := loc[4], loc[5]
		num, err := parseUintBytes(data[numStart:numEnd])
		if err != nil {
			continue
		}
		gen, err := parseUintBytes(data[genStart:genEnd])
		if err != nil {
			continue
		}
		// later occurrences win: incremental updates and rewritten sections
		// append newer object bodies later in the file.
		entries[uint32(num)] = xrefEntry{offset: int64(numStart), gen: uint16(gen)}
	}

	trailer, err := recoverTrailer(data, entries)
	if err != nil {
		return nil, Dict{}, err
	}
	return entries, trailer, nil
}

// trimDigits strips leading spaces a lenient xref writer may have used in
// place of leading zeros in a fixed-width field.
func trimDigits(b []byte) []byte {
	for len(b) > 0 && b[0] == ' ' {
		b = b[1:]
	}
	return b
}

func parseUintBytes(b []byte) (int64, error) {
	var v int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("not a digit: %q", c)
		}
		v = v*10 + int64(c-'0')
	}
	return v, nil
}

// recoverTrailer looks for an explicit "trailer" dict first (present on
// many otherwise-broken files), falling back to scanning every recovered
// object for a /Catalog dict and synthesizing a minimal trailer from it.
func recoverTrailer(data []byte, entries map[uint32]xrefEntry) (Dict, error) {
	if idx := indexKeywordFrom(data, 0, "trailer"); idx >= 0 {
		for {
			p := newParser(data, idx+int64(len("trailer")))
			p.skipWhiteSpace()
			obj, err := p.readObject(nil)
			if err == nil {
				if d, ok := obj.(Dict); ok && d.Has("Root") {
					return d, nil
				}
			}
			next := indexKeywordFrom(data, idx+1, "trailer")
			if next < 0 {
				break
			}
			idx = next
		}
	}

	for num, e := range entries {
		if e.free {
			continue
		}
		p := newParser(data, e.offset)
		_, obj, err := p.readIndirectObject(nil)
		if err != nil {
			continue
		}
		d, ok := obj.(Dict)
		if !ok {
			continue
		}
		if n, _ := GetName(noRefGetter{}, d.Get("Type")); n == "Catalog" {
			return NewDict(
				DictEntry{Key: "Root", Value: NewReference(num, e.gen)},
				DictEntry{Key: "Size", Value: Integer(len(entries))},
			), nil
		}
	}
	return Dict{}, &MalformedFileError{Err: fmt.Errorf("brute-force recovery found no /Catalog")}
}
