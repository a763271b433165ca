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
)

// Object is implemented by every native PDF object kind: Boolean, Integer,
// Real, Name, String, Array, Dict, *Stream and Reference. A nil Object
// represents the PDF null object.
type Object interface {
	// PDF writes the object's serialized form to w.
	PDF(w io.Writer) error
}

// Boolean is a PDF boolean object.
type Boolean bool

func (x Boolean) PDF(w io.Writer) error {
	if x {
		_, err := io.WriteString(w, "true")
		return err
	}
	_, err := io.WriteString(w, "false")
	return err
}

// Integer is a PDF integer object.
type Integer int64

func (x Integer) PDF(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d", int64(x))
	return err
}

// Real is a PDF real number object.
type Real float64

func (x Real) PDF(w io.Writer) error {
	_, err := io.WriteString(w, formatReal(float64(x)))
	return err
}

// Number is either an Integer or a Real, resolved from the file. It is a
// convenience value, not itself an [Object]; use [GetNumber] to obtain one.
type Number float64

// AsObject returns the canonical Object for a Number: an Integer when the
// value has no fractional part, a Real otherwise.
func (x Number) AsObject() Object {
	if i := Integer(x); Number(i) == x {
		return i
	}
	return Real(x)
}

// GetNumber resolves obj and requires it to be an Integer or Real.
func GetNumber(r Getter, obj Object) (Number, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return 0, err
	}
	switch x := obj.(type) {
	case Integer:
		return Number(x), nil
	case Real:
		return Number(x), nil
	case nil:
		return 0, nil
	default:
		return 0, &MalformedFileError{Err: fmt.Errorf("expected Number but got %T", obj)}
	}
}

// Name is a PDF name object, stored decoded: the "#XX" hex escape is only a
// surface form introduced by the serializer/scanner.
type Name string

func (x Name) PDF(w io.Writer) error {
	return writeName(w, string(x))
}

// String is a PDF string object, stored as a raw byte payload. It is always
// serialized in literal (parenthesized) form; the distinction between a
// literal and a hex string in the source file is a surface form only.
type String []byte

func (x String) PDF(w io.Writer) error {
	return writeLiteralString(w, []byte(x))
}

// Array is an ordered sequence of objects. A nil element represents null.
type Array []Object

func (x Array) PDF(w io.Writer) error {
	if _, err := io.WriteString(w, "["); err != nil {
		return err
	}
	for i, elem := range x {
		if i > 0 {
			if _, err := io.WriteString(w, " "); err != nil {
				return err
			}
		}
		if err := writeObject(w, elem); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "]")
	return err
}

// DictEntry is one key/value pair of a [Dict], used when building one with
// [NewDict].
type DictEntry struct {
	Key   Name
	Value Object
}

// Dict is an insertion-ordered mapping from Name to Object. Overwriting an
// existing key does not change its position; setting a key to nil removes
// it, matching the PDF convention that a null-valued entry is equivalent to
// the entry being absent. Entry order is authoritative for output and is
// preserved across a load/save round-trip.
type Dict struct {
	entries []DictEntry
}

// NewDict builds a Dict from the given entries, in order.
func NewDict(entries ...DictEntry) Dict {
	var d Dict
	for _, e := range entries {
		d.Set(e.Key, e.Value)
	}
	return d
}

// Get returns the value stored under key, or nil if key is absent.
func (d Dict) Get(key Name) Object {
	for _, e := range d.entries {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// Set stores val under key, preserving key's existing position if present.
// Setting val to nil removes the key.
func (d *Dict) Set(key Name, val Object) {
	for i, e := range d.entries {
		if e.Key == key {
			if val == nil {
				d.entries = append(d.entries[:i], d.entries[i+1:]...)
			} else {
				d.entries[i].Value = val
			}
			return
		}
	}
	if val != nil {
		d.entries = append(d.entries, DictEntry{Key: key, Value: val})
	}
}

// Delete removes key, if present.
func (d *Dict) Delete(key Name) {
	d.Set(key, nil)
}

// Has reports whether key is present.
func (d Dict) Has(key Name) bool {
	for _, e := range d.entries {
		if e.Key == key {
			return true
		}
	}
	return false
}

// Keys returns the dict's keys in insertion order.
func (d Dict) Keys() []Name {
	keys := make([]Name, len(d.entries))
	for i, e := range d.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (d Dict) Len() int {
	return len(d.entries)
}

// Range calls yield for every entry in insertion order, stopping early if
// yield returns false.
func (d Dict) Range(yield func(key Name, val Object) bool) {
	for _, e := range d.entries {
		if !yield(e.Key, e.Value) {
			return
		}
	}
}

// Entries returns a copy of d's entries, in insertion order. It is a
// convenience for callers that want a plain for-range loop instead of
// Range's callback style.
func (d Dict) Entries() []DictEntry {
	out := make([]DictEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

func (d Dict) clone() Dict {
	out := Dict{entries: make([]DictEntry, len(d.entries))}
	copy(out.entries, d.entries)
	return out
}

func (x Dict) PDF(w io.Writer) error {
	if _, err := io.WriteString(w, "<<"); err != nil {
		return err
	}
	for _, e := range x.entries {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		if err := writeName(w, string(e.Key)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, " "); err != nil {
			return err
		}
		if err := writeObject(w, e.Value); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n>>")
	return err
}

// Stream is a dict plus a raw byte payload. The payload is stored exactly as
// it would appear on disk (i.e. still filtered, if /Filter names filters);
// use [DecodeStream] or [ReadAll] to obtain the decoded bytes.
type Stream struct {
	Dict Dict
	Data []byte

	decoded      []byte
	decodedValid bool
}

func (x *Stream) PDF(w io.Writer) error {
	d := x.Dict.clone()
	d.Set("Length", Integer(len(x.Data)))
	if err := d.PDF(w); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\nstream\n"); err != nil {
		return err
	}
	if _, err := w.Write(x.Data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\nendstream")
	return err
}

// Reference is a handle to an indirect object: a pair (object number,
// generation). It never owns the object it refers to; dereferencing always
// goes through a [Getter].
type Reference uint64

// NewReference constructs a reference from an object number and generation.
func NewReference(number uint32, generation uint16) Reference {
	return Reference(uint64(number)<<16 | uint64(generation))
}

// Number returns the object number.
func (r Reference) Number() uint32 { return uint32(r >> 16) }

// Generation returns the generation number.
func (r Reference) Generation() uint16 { return uint16(r) }

func (r Reference) String() string {
	return fmt.Sprintf("%d %d R", r.Number(), r.Generation())
}

func (r Reference) PDF(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%d %d R", r.Number(), r.Generation())
	return err
}

// Operator is a content-stream operator token (e.g. "Tj", "q"). It is not a
// regular object kind but shares the serialization surface for tools that
// want to re-emit a parsed content stream.
type Operator string

func (op Operator) PDF(w io.Writer) error {
	_, err := io.WriteString(w, string(op))
	return err
}

func writeObject(w io.Writer, obj Object) error {
	if obj == nil {
		_, err := io.WriteString(w, "null")
		return err
	}
	return obj.PDF(w)
}

// Format renders obj the way the serializer would write it to a file, as a
// string. Mainly useful for tests and diagnostics.
func Format(obj Object) string {
	var buf fmtBuffer
	_ = writeObject(&buf, obj)
	return string(buf)
}

type fmtBuffer []byte

func (b *fmtBuffer) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}
