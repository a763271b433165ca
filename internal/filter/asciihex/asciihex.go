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

// Package asciihex implements the PDF ASCIIHexDecode/ASCIIHexEncode filter.
package asciihex

import (
	"bufio"
	"fmt"
	"io"
)

func hexVal(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	}
	return 0, false
}

type decoder struct {
	r      *bufio.Reader
	buf    []byte
	pos    int
	done   bool
	err    error
	hiNib  int
	haveHi bool
}

// Decode wraps r with an ASCIIHexDecode decoder. Whitespace between digit
// pairs is ignored, an odd trailing digit is padded with an implicit 0, and
// any byte that is not a hex digit, whitespace or the ">" terminator is a
// decode error (bytes decoded before the bad byte are still returned).
// Missing the ">" terminator before EOF is also an error.
func Decode(r io.Reader) io.Reader {
	return &decoder{r: bufio.NewReader(r)}
}

func (d *decoder) Read(p []byte) (int, error) {
	for d.pos >= len(d.buf) && d.err == nil && !d.done {
		d.fill()
	}
	if d.pos < len(d.buf) {
		n := copy(p, d.buf[d.pos:])
		d.pos += n
		return n, nil
	}
	if d.err != nil {
		return 0, d.err
	}
	return 0, io.EOF
}

func (d *decoder) fill() {
	d.buf = d.buf[:0]
	d.pos = 0
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			if d.haveHi {
				d.buf = append(d.buf, byte(d.hiNib<<4))
				d.haveHi = false
			}
			d.done = true
			d.err = fmt.Errorf("asciihex: missing EOD marker: %w", io.ErrUnexpectedEOF)
			return
		}
		if b == '>' {
			if d.haveHi {
				d.buf = append(d.buf, byte(d.hiNib<<4))
				d.haveHi = false
			}
			d.done = true
			return
		}
		switch b {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			continue
		}
		v, ok := hexVal(b)
		if !ok {
			if d.haveHi {
				d.buf = append(d.buf, byte(d.hiNib<<4))
				d.haveHi = false
			}
			d.done = true
			d.err = fmt.Errorf("asciihex: invalid character %q", b)
			return
		}
		if d.haveHi {
			d.buf = append(d.buf, byte(d.hiNib<<4|v))
			d.haveHi = false
		} else {
			d.hiNib = v
			d.haveHi = true
		}
		if len(d.buf) > 0 {
			return
		}
	}
}

const hexDigits = "0123456789abcdef"

type encoder struct {
	w     io.WriteCloser
	width int
	col   int
}

// Encode wraps w with an ASCIIHexEncode encoder that wraps output lines at
// approximately width columns. The caller must call Close to write the ">"
// terminator.
func Encode(w io.WriteCloser, width int) io.WriteCloser {
	return &encoder{w: w, width: width}
}

func (e *encoder) Write(p []byte) (int, error) {
	for _, b := range p {
		pair := []byte{hexDigits[b>>4], hexDigits[b&0xF]}
		if e.col+2 > e.width {
			if _, err := e.w.Write([]byte("\n")); err != nil {
				return 0, err
			}
			e.col = 0
		}
		if _, err := e.w.Write(pair); err != nil {
			return 0, err
		}
		e.col += 2
	}
	return len(p), nil
}

func (e *encoder) Close() error {
	if e.col+1 > e.width {
		if _, err := e.w.Write([]byte("\n")); err != nil {
			return err
		}
	}
	if _, err := e.w.Write([]byte(">")); err != nil {
		return err
	}
	return e.w.Close()
}
