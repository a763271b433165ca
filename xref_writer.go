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
	"sort"
)

// xrefWriteEntry is one row of an xref section being written: a free
// slot, the byte offset of an in-use object, or (xref-stream output only)
// an object compressed into an /ObjStm at (strmNum, strmIdx).
type xrefWriteEntry struct {
	num        uint32
	free       bool
	offset     int64
	gen        uint16
	compressed bool
	strmNum    uint32
	strmIdx    int
}

// writeClassicXRef emits a classic xref table for entries (which must
// include a free entry for object 0), followed by the trailer dict and the
// startxref/%%EOF footer. It returns the byte offset at which the table
// itself started, which is the value it writes after "startxref".
func writeClassicXRef(w io.Writer, pos int64, entries []xrefWriteEntry, trailer Dict) (int64, error) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].num < entries[j].num })
	for _, e := range entries {
		if e.compressed {
			return 0, fmt.Errorf("pdf: internal error: classic xref table cannot represent a compressed object (obj %d)", e.num)
		}
	}

	start := pos
	n, err := io.WriteString(w, "xref\n")
	if err != nil {
		return 0, err
	}
	pos += int64(n)

	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && entries[j].num == entries[j-1].num+1 {
			j++
		}
		n, err := fmt.Fprintf(w, "%d %d\n", entries[i].num, j-i)
		if err != nil {
			return 0, err
		}
		pos += int64(n)
		for _, e := range entries[i:j] {
			kind := byte('n')
			if e.free {
				kind = 'f'
			}
			n, err := fmt.Fprintf(w, "%010d %05d %c \n", e.offset, e.gen, kind)
			if err != nil {
				return 0, err
			}
			pos += int64(n)
		}
		i = j
	}

	if _, err := io.WriteString(w, "trailer\n"); err != nil {
		return 0, err
	}
	if err := trailer.PDF(w); err != nil {
		return 0, err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return 0, err
	}
	if err := writeStartXRef(w, start); err != nil {
		return 0, err
	}
	return start, nil
}

// widthFor returns the number of bytes needed to hold the largest value a
// cross-reference stream column must carry.
func widthFor(max int64) int {
	w := 1
	for max >= 1<<(8*w) {
		w++
	}
	return w
}

// writeXRefStream emits a cross-reference stream object (its own object
// number is streamNum) covering entries, followed by startxref/%%EOF.
func writeXRefStream(w io.Writer, pos int64, streamNum uint32, entries []xrefWriteEntry, trailer Dict) (int64, error) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].num < entries[j].num })

	var maxField2, maxField3 int64
	for _, e := range entries {
		f2, f3 := int64(e.offset), int64(e.gen)
		if e.compressed {
			f2, f3 = int64(e.strmNum), int64(e.strmIdx)
		}
		if f2 > maxField2 {
			maxField2 = f2
		}
		if f3 > maxField3 {
			maxField3 = f3
		}
	}
	w2 := widthFor(maxField2)
	w3 := widthFor(maxField3)
	if w3 < 1 {
		w3 = 1
	}

	body := make([]byte, 0, len(entries)*(1+w2+w3))
	putField := func(v int64, width int) {
		for i := width - 1; i >= 0; i-- {
			body = append(body, byte(v>>(8*i)))
		}
	}
	for _, e := range entries {
		switch {
		case e.free:
			body = append(body, 0)
			putField(e.offset, w2)
			putField(int64(e.gen), w3)
		case e.compressed:
			body = append(body, 2)
			putField(int64(e.strmNum), w2)
			putField(int64(e.strmIdx), w3)
		default:
			body = append(body, 1)
			putField(e.offset, w2)
			putField(int64(e.gen), w3)
		}
	}

	// /Index groups entries into contiguous runs, same as the classic table.
	var index Array
	for i := 0; i < len(entries); {
		j := i + 1
		for j < len(entries) && entries[j].num == entries[j-1].num+1 {
			j++
		}
		index = append(index, Integer(entries[i].num), Integer(j-i))
		i = j
	}

	dict := trailer.clone()
	dict.Set("Type", Name("XRef"))
	dict.Set("W", Array{Integer(1), Integer(w2), Integer(w3)})
	dict.Set("Index", index)
	dict.Delete("Length")

	stm := &Stream{Dict: dict, Data: body}

	start := pos
	n, err := fmt.Fprintf(w, "%d %d obj\n", streamNum, 0)
	if err != nil {
		return 0, err
	}
	pos += int64(n)
	if err := stm.PDF(w); err != nil {
		return 0, err
	}
	if _, err := io.WriteString(w, "\nendobj\n"); err != nil {
		return 0, err
	}
	if err := writeStartXRef(w, start); err != nil {
		return 0, err
	}
	return start, nil
}

func writeStartXRef(w io.Writer, offset int64) error {
	_, err := fmt.Fprintf(w, "startxref\n%d\n%%%%EOF\n", offset)
	return err
}
