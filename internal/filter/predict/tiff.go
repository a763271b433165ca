// github.com/seehuhn-go/docengine - a library for reading and writing PDF files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
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

package predict

import (
	"bytes"
	"io"
)

// tiffWriter accumulates whole rows before applying the horizontal
// differencing predictor, since each component is compared against the
// component Colors positions earlier in the same row.
type tiffWriter struct {
	w        io.Writer
	params   *Params
	rowBytes int
	pending  []byte
	mod      uint32
}

func newTIFFWriter(w io.Writer, params *Params) *tiffWriter {
	return &tiffWriter{
		w:        w,
		params:   params,
		rowBytes: params.rowBytes(),
		mod:      uint32(1) << uint(params.BitsPerComponent),
	}
}

func (tw *tiffWriter) Write(p []byte) (int, error) {
	n := len(p)
	tw.pending = append(tw.pending, p...)
	for len(tw.pending) >= tw.rowBytes {
		row := tw.pending[:tw.rowBytes]
		if err := tw.writeRow(row); err != nil {
			return 0, err
		}
		tw.pending = tw.pending[tw.rowBytes:]
	}
	return n, nil
}

func (tw *tiffWriter) writeRow(row []byte) error {
	count := tw.params.Colors * tw.params.Columns
	vals := unpackComponents(row, tw.params.BitsPerComponent, count)
	out := make([]uint32, count)
	for i, v := range vals {
		var prev uint32
		if i >= tw.params.Colors {
			prev = vals[i-tw.params.Colors]
		}
		out[i] = (v - prev) & (tw.mod - 1)
	}
	encoded := packComponents(out, tw.params.BitsPerComponent, tw.rowBytes)
	_, err := tw.w.Write(encoded)
	return err
}

func (tw *tiffWriter) Close() error {
	return nil
}

type tiffReader struct {
	r        io.Reader
	params   *Params
	rowBytes int
	mod      uint32
	buf      bytes.Buffer
	read     bool
}

func newTIFFReader(r io.Reader, params *Params) *tiffReader {
	return &tiffReader{
		r:        r,
		params:   params,
		rowBytes: params.rowBytes(),
		mod:      uint32(1) << uint(params.BitsPerComponent),
	}
}

func (tr *tiffReader) Read(p []byte) (int, error) {
	if !tr.read {
		if err := tr.decodeAll(); err != nil && err != io.EOF {
			return 0, err
		}
		tr.read = true
	}
	return tr.buf.Read(p)
}

func (tr *tiffReader) decodeAll() error {
	count := tr.params.Colors * tr.params.Columns
	row := make([]byte, tr.rowBytes)
	for {
		if _, err := io.ReadFull(tr.r, row); err != nil {
			if err == io.ErrUnexpectedEOF || err == io.EOF {
				return io.EOF
			}
			return err
		}
		vals := unpackComponents(row, tr.params.BitsPerComponent, count)
		out := make([]uint32, count)
		for i, v := range vals {
			var prev uint32
			if i >= tr.params.Colors {
				prev = out[i-tr.params.Colors]
			}
			out[i] = (v + prev) & (tr.mod - 1)
		}
		decoded := packComponents(out, tr.params.BitsPerComponent, tr.rowBytes)
		tr.buf.Write(decoded)
	}
}
