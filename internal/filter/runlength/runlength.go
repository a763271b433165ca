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

// Package runlength implements the PDF RunLengthDecode filter: each run is a
// length byte followed by either a literal byte string (length 0-127, read
// length+1 literal bytes) or a single byte to repeat (length 129-255, repeat
// 257-length times); 128 marks end of data.
package runlength

import (
	"bufio"
	"fmt"
	"io"
)

type encoder struct {
	w       io.WriteCloser
	pending []byte
}

// Encode wraps w with a RunLengthDecode-compatible encoder. The caller must
// call Close to flush the final run and write the EOD marker.
func Encode(w io.WriteCloser) io.WriteCloser {
	return &encoder{w: w}
}

func (e *encoder) Write(p []byte) (int, error) {
	e.pending = append(e.pending, p...)
	return len(p), nil
}

func (e *encoder) Close() error {
	data := e.pending
	for len(data) > 0 {
		runLen := 1
		for runLen < len(data) && runLen < 128 && data[runLen] == data[0] {
			runLen++
		}
		if runLen >= 2 {
			if err := e.writeReplicated(data[0], runLen); err != nil {
				return err
			}
			data = data[runLen:]
			continue
		}

		litEnd := 1
		for litEnd < len(data) && litEnd < 128 {
			if litEnd+1 < len(data) && data[litEnd] == data[litEnd+1] {
				break
			}
			litEnd++
		}
		if err := e.writeLiteral(data[:litEnd]); err != nil {
			return err
		}
		data = data[litEnd:]
	}
	if _, err := e.w.Write([]byte{128}); err != nil {
		return err
	}
	return e.w.Close()
}

func (e *encoder) writeLiteral(b []byte) error {
	if _, err := e.w.Write([]byte{byte(len(b) - 1)}); err != nil {
		return err
	}
	_, err := e.w.Write(b)
	return err
}

func (e *encoder) writeReplicated(b byte, n int) error {
	if _, err := e.w.Write([]byte{byte(257 - n)}); err != nil {
		return err
	}
	_, err := e.w.Write([]byte{b})
	return err
}

type decoder struct {
	r   *bufio.Reader
	run []byte
	pos int
	eod bool
}

// Decode wraps r with a RunLengthDecode decoder.
func Decode(r io.Reader) io.Reader {
	return &decoder{r: bufio.NewReader(r)}
}

func (d *decoder) Read(p []byte) (int, error) {
	for d.pos >= len(d.run) {
		if d.eod {
			return 0, io.EOF
		}
		if err := d.fill(); err != nil {
			return 0, err
		}
	}
	n := copy(p, d.run[d.pos:])
	d.pos += n
	return n, nil
}

func (d *decoder) fill() error {
	lengthByte, err := d.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("runlength: missing EOD marker: %w", io.ErrUnexpectedEOF)
		}
		return err
	}
	length := int(lengthByte)
	switch {
	case length == 128:
		d.eod = true
		d.run, d.pos = nil, 0
		return nil
	case length < 128:
		buf := make([]byte, length+1)
		if _, err := io.ReadFull(d.r, buf); err != nil {
			return fmt.Errorf("runlength: short literal run: %w", err)
		}
		d.run, d.pos = buf, 0
		return nil
	default:
		b, err := d.r.ReadByte()
		if err != nil {
			return fmt.Errorf("runlength: short replicated run: %w", err)
		}
		count := 257 - length
		buf := make([]byte, count)
		for i := range buf {
			buf[i] = b
		}
		d.run, d.pos = buf, 0
		return nil
	}
}
