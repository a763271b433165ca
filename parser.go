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
	"strconv"
)

// parser turns the bytes of a whole file into a stream of PDF objects. It
// operates on an in-memory buffer rather than the teacher's windowed
// refilling scanner: this engine always needs random access into the file
// to follow the xref table and object streams, so the whole body is kept
// resident once a document is opened. See DESIGN.md for the tradeoff.
type parser struct {
	data []byte
	pos  int64

	// warn, if set, receives non-fatal problems noticed while parsing (e.g.
	// a stream whose /Length had to be recovered by scanning). Left nil by
	// most callers, which accept silent best-effort recovery.
	warn func(kind WarningKind, msg string, pos int64)
}

func newParser(data []byte, pos int64) *parser {
	return &parser{data: data, pos: pos}
}

func (p *parser) warnAt(kind WarningKind, pos int64, msg string) {
	if p.warn != nil {
		p.warn(kind, msg, pos)
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &MalformedFileError{Err: fmt.Errorf(format, args...), Pos: p.pos}
}

func isWhiteSpace(b byte) bool {
	switch b {
	case 0x00, '\t', '\n', '\f', '\r', ' ':
		return true
	}
	return false
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(b byte) bool {
	return !isWhiteSpace(b) && !isDelimiter(b)
}

func (p *parser) byteAt(off int64) (byte, bool) {
	if off < 0 || off >= int64(len(p.data)) {
		return 0, false
	}
	return p.data[off], true
}

func (p *parser) peek() (byte, bool) {
	return p.byteAt(p.pos)
}

func (p *parser) skipWhiteSpace() {
	for {
		b, ok := p.peek()
		if !ok {
			return
		}
		if b == '%' {
			for {
				b, ok := p.peek()
				if !ok || b == '\n' || b == '\r' {
					break
				}
				p.pos++
			}
			continue
		}
		if !isWhiteSpace(b) {
			return
		}
		p.pos++
	}
}

// atKeyword reports whether kw occurs at the current position, followed by a
// non-regular byte (or EOF), without consuming input. The byte before the
// current position is not checked.
func (p *parser) atKeyword(kw string) bool {
	end := p.pos + int64(len(kw))
	if end > int64(len(p.data)) {
		return false
	}
	if string(p.data[p.pos:end]) != kw {
		return false
	}
	if b, ok := p.byteAt(end); ok && isRegular(b) {
		return false
	}
	return true
}

// consumeKeyword consumes kw if present at the current position.
func (p *parser) consumeKeyword(kw string) bool {
	if !p.atKeyword(kw) {
		return false
	}
	p.pos += int64(len(kw))
	return true
}

// readObject parses one PDF object at the current position and advances
// past it. resolveLength, if non-nil, is used to resolve an indirect
// /Length entry on a stream dict.
func (p *parser) readObject(resolveLength func(Object) (Integer, error)) (Object, error) {
	p.skipWhiteSpace()
	b, ok := p.peek()
	if !ok {
		return nil, p.errorf("unexpected end of file")
	}

	switch {
	case b == '/':
		return p.readName()
	case b == '(':
		return p.readLiteralString()
	case b == '<':
		if b2, ok2 := p.byteAt(p.pos + 1); ok2 && b2 == '<' {
			return p.readDictOrStream(resolveLength)
		}
		return p.readHexString()
	case b == '[':
		return p.readArray(resolveLength)
	case b == '+' || b == '-' || b == '.' || (b >= '0' && b <= '9'):
		return p.readNumberOrReference()
	case p.consumeKeyword("true"):
		return Boolean(true), nil
	case p.consumeKeyword("false"):
		return Boolean(false), nil
	case p.consumeKeyword("null"):
		return nil, nil
	default:
		return nil, p.errorf("unexpected byte %q", b)
	}
}

func (p *parser) readName() (Name, error) {
	p.pos++ // '/'
	var buf []byte
	for {
		b, ok := p.peek()
		if !ok || !isRegular(b) {
			break
		}
		if b == '#' {
			if h1, ok1 := p.byteAt(p.pos + 1); ok1 {
				if h2, ok2 := p.byteAt(p.pos + 2); ok2 {
					if v, err := strconv.ParseUint(string([]byte{h1, h2}), 16, 8); err == nil {
						buf = append(buf, byte(v))
						p.pos += 3
						continue
					}
				}
			}
		}
		buf = append(buf, b)
		p.pos++
	}
	return Name(buf), nil
}

func (p *parser) readLiteralString() (String, error) {
	p.pos++ // '('
	var buf []byte
	depth := 1
	for {
		b, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated literal string")
		}
		p.pos++
		switch b {
		case '(':
			depth++
			buf = append(buf, b)
		case ')':
			depth--
			if depth == 0 {
				return String(buf), nil
			}
			buf = append(buf, b)
		case '\\':
			esc, ok := p.peek()
			if !ok {
				return nil, p.errorf("unterminated escape in literal string")
			}
			p.pos++
			switch esc {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '(', ')', '\\':
				buf = append(buf, esc)
			case '\r':
				if b2, ok := p.peek(); ok && b2 == '\n' {
					p.pos++
				}
			case '\n':
				// line continuation, nothing emitted
			default:
				if esc >= '0' && esc <= '7' {
					val := int(esc - '0')
					for i := 0; i < 2; i++ {
						d, ok := p.peek()
						if !ok || d < '0' || d > '7' {
							break
						}
						val = val*8 + int(d-'0')
						p.pos++
					}
					buf = append(buf, byte(val))
				} else {
					buf = append(buf, esc)
				}
			}
		default:
			buf = append(buf, b)
		}
	}
}

func (p *parser) readHexString() (String, error) {
	p.pos++ // '<'
	var digits []byte
	for {
		b, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated hex string")
		}
		p.pos++
		if b == '>' {
			break
		}
		if isWhiteSpace(b) {
			continue
		}
		digits = append(digits, b)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		v, err := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
		if err != nil {
			return nil, p.errorf("invalid hex string digit: %w", err)
		}
		out[i] = byte(v)
	}
	return String(out), nil
}

func (p *parser) readArray(resolveLength func(Object) (Integer, error)) (Array, error) {
	p.pos++ // '['
	var arr Array
	for {
		p.skipWhiteSpace()
		b, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated array")
		}
		if b == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.readObject(resolveLength)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *parser) readDictOrStream(resolveLength func(Object) (Integer, error)) (Object, error) {
	p.pos += 2 // '<<'
	var d Dict
	for {
		p.skipWhiteSpace()
		b, ok := p.peek()
		if !ok {
			return nil, p.errorf("unterminated dict")
		}
		if b == '>' {
			if b2, ok2 := p.byteAt(p.pos + 1); !ok2 || b2 != '>' {
				return nil, p.errorf("malformed dict terminator")
			}
			p.pos += 2
			break
		}
		if b != '/' {
			return nil, p.errorf("expected dict key, got %q", b)
		}
		key, err := p.readName()
		if err != nil {
			return nil, err
		}
		p.skipWhiteSpace()
		val, err := p.readObject(resolveLength)
		if err != nil {
			return nil, err
		}
		d.Set(key, val)
	}

	save := p.pos
	p.skipWhiteSpace()
	if !p.consumeKeyword("stream") {
		p.pos = save
		return d, nil
	}
	// per the PDF spec the keyword is followed by CRLF or LF (never a bare CR).
	if b, ok := p.peek(); ok && b == '\r' {
		p.pos++
	}
	if b, ok := p.peek(); ok && b == '\n' {
		p.pos++
	}
	start := p.pos

	length := int64(-1)
	lengthDirect := false
	if d.Get("Length") == nil {
		p.warnAt(WarningStream, start, "stream has no /Length entry, recovering by scanning for endstream")
	} else if resolveLength != nil {
		if n, err := resolveLength(d.Get("Length")); err == nil {
			length = int64(n)
			lengthDirect = true
		} else {
			p.warnAt(WarningStream, start, "stream /Length could not be resolved, recovering by scanning for endstream")
		}
	} else if n, ok := d.Get("Length").(Integer); ok {
		length = int64(n)
		lengthDirect = true
	} else {
		p.warnAt(WarningStream, start, "stream /Length is not a direct integer, recovering by scanning for endstream")
	}

	var data []byte
	if length >= 0 && start+length <= int64(len(p.data)) {
		data = p.data[start : start+length]
		p.pos = start + length
		p.skipWhiteSpace()
		if !p.atKeyword("endstream") {
			// the declared length didn't land on "endstream": the producer
			// lied about /Length, fall back to scanning for the keyword.
			if lengthDirect {
				p.warnAt(WarningStream, p.pos, "declared /Length did not land on endstream, recovering by scanning")
			}
			data = nil
		}
	}
	if data == nil {
		end := indexKeywordFrom(p.data, start, "endstream")
		if end < 0 {
			return nil, p.errorf("missing endstream")
		}
		data = trimStreamTrailingEOL(p.data[start:end])
		p.pos = end
	}
	if !p.consumeKeyword("endstream") {
		return nil, p.errorf("expected endstream")
	}
	return &Stream{Dict: d, Data: data}, nil
}

// trimStreamTrailingEOL drops a single EOL sequence immediately preceding a
// recovered "endstream", matching how producers pad the declared length.
func trimStreamTrailingEOL(data []byte) []byte {
	if n := len(data); n >= 2 && data[n-2] == '\r' && data[n-1] == '\n' {
		return data[:n-2]
	}
	if n := len(data); n >= 1 && (data[n-1] == '\n' || data[n-1] == '\r') {
		return data[:n-1]
	}
	return data
}

func indexKeywordFrom(data []byte, from int64, kw string) int64 {
	n := int64(len(data))
	k := int64(len(kw))
	for i := from; i+k <= n; i++ {
		if string(data[i:i+k]) == kw {
			return i
		}
	}
	return -1
}

// readNumberOrReference parses a number; if it is a non-negative integer
// immediately followed by another non-negative integer and the keyword "R",
// the pair is read as an indirect [Reference] instead.
func (p *parser) readNumberOrReference() (Object, error) {
	start := p.pos
	if b, ok := p.peek(); ok && (b == '+' || b == '-') {
		// a signed number can never be an object/generation number.
		return p.readReal()
	}
	n, isInt, err := p.readNumberLiteral()
	if err != nil {
		p.pos = start
		return p.readReal()
	}
	if isInt && n >= 0 {
		save := p.pos
		p.skipWhiteSpace()
		if b, ok := p.peek(); ok && b >= '0' && b <= '9' {
			genStart := p.pos
			gen, isInt2, err2 := p.readNumberLiteral()
			if err2 == nil && isInt2 && gen >= 0 {
				save2 := p.pos
				p.skipWhiteSpace()
				if p.consumeKeyword("R") {
					return NewReference(uint32(n), uint16(gen)), nil
				}
				p.pos = save2
			}
			p.pos = genStart
		}
		p.pos = save
	}
	_ = start
	if isInt {
		return Integer(n), nil
	}
	p.pos = start
	return p.readReal()
}

// readNumberLiteral reads a bare integer (no sign handling needed for the
// reference lookahead, which only ever sees non-negative object/generation
// numbers) and reports whether it was a plain integer literal.
func (p *parser) readNumberLiteral() (int64, bool, error) {
	start := p.pos
	for {
		b, ok := p.peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return 0, false, p.errorf("expected digits")
	}
	// if the run continues into '.', 'e' or 'E' it is not a bare integer
	if b, ok := p.peek(); ok && (b == '.' || b == 'e' || b == 'E') {
		return 0, false, nil
	}
	v, err := strconv.ParseInt(string(p.data[start:p.pos]), 10, 64)
	if err != nil {
		return 0, false, nil
	}
	return v, true, nil
}

func (p *parser) readReal() (Object, error) {
	start := p.pos
	if b, ok := p.peek(); ok && (b == '+' || b == '-') {
		p.pos++
	}
	sawDigit := false
	for {
		b, ok := p.peek()
		if !ok || b < '0' || b > '9' {
			break
		}
		p.pos++
		sawDigit = true
	}
	isReal := false
	if b, ok := p.peek(); ok && b == '.' {
		isReal = true
		p.pos++
		for {
			b, ok := p.peek()
			if !ok || b < '0' || b > '9' {
				break
			}
			p.pos++
			sawDigit = true
		}
	}
	if !sawDigit {
		return nil, p.errorf("malformed number")
	}
	text := string(p.data[start:p.pos])
	if isReal {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errorf("malformed real: %w", err)
		}
		return Real(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// overflowed int64 or otherwise exotic: treat as a real, which is
		// how most readers cope with oversized integer literals.
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return nil, p.errorf("malformed number: %w", err)
		}
		return Real(f), nil
	}
	return Integer(n), nil
}

// readIndirectObject parses "N G obj ... endobj" at the current position
// and returns the object's body along with the object number/generation the
// header actually declared (which callers should cross-check against what
// the xref table promised).
func (p *parser) readIndirectObject(resolveLength func(Object) (Integer, error)) (Reference, Object, error) {
	p.skipWhiteSpace()
	num, isInt, err := p.readNumberLiteral()
	if err != nil || !isInt {
		return 0, nil, p.errorf("expected object number")
	}
	p.skipWhiteSpace()
	genVal, isInt2, err := p.readNumberLiteral()
	if err != nil || !isInt2 {
		return 0, nil, p.errorf("expected generation number")
	}
	p.skipWhiteSpace()
	if !p.consumeKeyword("obj") {
		return 0, nil, p.errorf("expected 'obj' keyword")
	}
	obj, err := p.readObject(resolveLength)
	if err != nil {
		return 0, nil, err
	}
	p.skipWhiteSpace()
	p.consumeKeyword("endobj")
	return NewReference(uint32(num), uint16(genVal)), obj, nil
}
