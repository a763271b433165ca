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
	"fmt"
	"io"
)

const (
	pngNone  = 0
	pngSub   = 1
	pngUp    = 2
	pngAvg   = 3
	pngPaeth = 4
)

func paeth(a, b, c int) byte {
	p := a + b - c
	pa, pb, pc := abs(p-a), abs(p-b), abs(p-c)
	switch {
	case pa <= pb && pa <= pc:
		return byte(a)
	case pb <= pc:
		return byte(b)
	default:
		return byte(c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func filterRow(tag int, cur, prev []byte, bpp int) []byte {
	out := make([]byte, len(cur))
	for i := range cur {
		var left, up, upleft byte
		if i >= bpp {
			left = cur[i-bpp]
			upleft = prev[i-bpp]
		}
		up = prev[i]
		switch tag {
		case pngNone:
			out[i] = cur[i]
		case pngSub:
			out[i] = cur[i] - left
		case pngUp:
			out[i] = cur[i] - up
		case pngAvg:
			out[i] = cur[i] - byte((int(left)+int(up))/2)
		case pngPaeth:
			out[i] = cur[i] - paeth(int(left), int(up), int(upleft))
		}
	}
	return out
}

func unfilterRow(tag int, filtered, prev []byte, bpp int) []byte {
	out := make([]byte, len(filtered))
	for i := range filtered {
		var left, up, upleft byte
		if i >= bpp {
			left = out[i-bpp]
			upleft = prev[i-bpp]
		}
		up = prev[i]
		switch tag {
		case pngNone:
			out[i] = filtered[i]
		case pngSub:
			out[i] = filtered[i] + left
		case pngUp:
			out[i] = filtered[i] + up
		case pngAvg:
			out[i] = filtered[i] + byte((int(left)+int(up))/2)
		case pngPaeth:
			out[i] = filtered[i] + paeth(int(left), int(up), int(upleft))
		}
	}
	return out
}

// fixedTagFor maps a PNG predictor number (10-14) to the filter used for
// every row; predictor 15 ("optimum") picks the Sub filter, which is always
// a valid choice even though a real encoder would pick per row to minimize
// output size.
func fixedTagFor(predictor int) (tag int, ok bool) {
	switch predictor {
	case 10:
		return pngNone, true
	case 11:
		return pngSub, true
	case 12:
		return pngUp, true
	case 13:
		return pngAvg, true
	case 14:
		return pngPaeth, true
	case 15:
		return pngSub, true
	}
	return 0, false
}

type pngWriter struct {
	w        io.Writer
	params   *Params
	rowBytes int
	bpp      int
	tag      int
	prevRow  []byte
	pending  []byte
}

func newPNGWriter(w io.Writer, params *Params) *pngWriter {
	tag, _ := fixedTagFor(params.Predictor)
	rowBytes := params.rowBytes()
	return &pngWriter{
		w:        w,
		params:   params,
		rowBytes: rowBytes,
		bpp:      params.bytesPerPixel(),
		tag:      tag,
		prevRow:  make([]byte, rowBytes),
	}
}

func (pw *pngWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.pending = append(pw.pending, p...)
	for len(pw.pending) >= pw.rowBytes {
		row := pw.pending[:pw.rowBytes]
		filtered := filterRow(pw.tag, row, pw.prevRow, pw.bpp)
		if _, err := pw.w.Write([]byte{byte(pw.tag)}); err != nil {
			return 0, err
		}
		if _, err := pw.w.Write(filtered); err != nil {
			return 0, err
		}
		pw.prevRow = append([]byte(nil), row...)
		pw.pending = pw.pending[pw.rowBytes:]
	}
	return n, nil
}

func (pw *pngWriter) Close() error {
	if len(pw.pending) != 0 {
		return fmt.Errorf("predict: incomplete final row (%d of %d bytes)", len(pw.pending), pw.rowBytes)
	}
	return nil
}

type pngReader struct {
	r        io.Reader
	params   *Params
	rowBytes int
	bpp      int
	buf      bytes.Buffer
	read     bool
}

func newPNGReader(r io.Reader, params *Params) *pngReader {
	return &pngReader{
		r:        r,
		params:   params,
		rowBytes: params.rowBytes(),
		bpp:      params.bytesPerPixel(),
	}
}

func (pr *pngReader) Read(p []byte) (int, error) {
	if !pr.read {
		if err := pr.decodeAll(); err != nil && err != io.EOF {
			return 0, err
		}
		pr.read = true
	}
	return pr.buf.Read(p)
}

func (pr *pngReader) decodeAll() error {
	prev := make([]byte, pr.rowBytes)
	tagBuf := make([]byte, 1)
	row := make([]byte, pr.rowBytes)
	for {
		if _, err := io.ReadFull(pr.r, tagBuf); err != nil {
			if err == io.EOF {
				return io.EOF
			}
			return err
		}
		tag := int(tagBuf[0])
		if tag > pngPaeth {
			return fmt.Errorf("predict: invalid PNG filter tag %d", tag)
		}
		if _, err := io.ReadFull(pr.r, row); err != nil {
			return fmt.Errorf("predict: short row: %w", err)
		}
		out := unfilterRow(tag, row, prev, pr.bpp)
		pr.buf.Write(out)
		prev = out
	}
}
