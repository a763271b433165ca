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

import "testing"

func parseOne(t *testing.T, in string) Object {
	t.Helper()
	p := newParser([]byte(in), 0)
	obj, err := p.readObject(nil)
	if err != nil {
		t.Fatalf("readObject(%q) error: %v", in, err)
	}
	return obj
}

func TestParseScalars(t *testing.T) {
	cases := []struct {
		in   string
		want Object
	}{
		{"123", Integer(123)},
		{"-17", Integer(-17)},
		{"3.14", Real(3.14)},
		{"-0.5", Real(-0.5)},
		{".5", Real(0.5)},
		{"true", Boolean(true)},
		{"false", Boolean(false)},
		{"null", nil},
		{"/Name", Name("Name")},
		{"/A#42", Name("AB")},
	}
	for _, c := range cases {
		got := parseOne(t, c.in)
		if got != c.want {
			t.Errorf("parse(%q) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestParseLiteralString(t *testing.T) {
	got := parseOne(t, `(hello \(world\)\n)`)
	want := String("hello (world)\n")
	if s, ok := got.(String); !ok || string(s) != string(want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestParseHexString(t *testing.T) {
	got := parseOne(t, "<48656C6C6F>")
	want := String("Hello")
	if s, ok := got.(String); !ok || string(s) != string(want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestParseArray(t *testing.T) {
	got := parseOne(t, "[1 2.5 /Foo (bar)]")
	arr, ok := got.(Array)
	if !ok || len(arr) != 4 {
		t.Fatalf("got %#v, want a 4-element array", got)
	}
	if arr[0] != Integer(1) || arr[1] != Real(2.5) || arr[2] != Name("Foo") {
		t.Errorf("array = %#v", arr)
	}
}

func TestParseDict(t *testing.T) {
	got := parseOne(t, "<< /Type /Catalog /Count 3 >>")
	d, ok := got.(Dict)
	if !ok {
		t.Fatalf("got %#v, want Dict", got)
	}
	if d.Get("Type") != Name("Catalog") || d.Get("Count") != Integer(3) {
		t.Errorf("dict = %#v", d)
	}
}

func TestParseReference(t *testing.T) {
	got := parseOne(t, "12 0 R")
	ref, ok := got.(Reference)
	if !ok {
		t.Fatalf("got %#v, want Reference", got)
	}
	if ref.Number() != 12 || ref.Generation() != 0 {
		t.Errorf("ref = %s, want 12 0 R", ref)
	}
}

func TestParseStreamWithDirectLength(t *testing.T) {
	in := "<< /Length 5 >>\nstream\nhello\nendstream"
	p := newParser([]byte(in), 0)
	obj, err := p.readObject(nil)
	if err != nil {
		t.Fatalf("readObject error: %v", err)
	}
	stm, ok := obj.(*Stream)
	if !ok {
		t.Fatalf("got %#v, want *Stream", obj)
	}
	if string(stm.Data) != "hello" {
		t.Errorf("stream data = %q, want %q", stm.Data, "hello")
	}
}

func TestParseStreamWithBadLengthFallsBackToScan(t *testing.T) {
	in := "<< /Length 999 >>\nstream\nhello\nendstream"
	p := newParser([]byte(in), 0)
	obj, err := p.readObject(nil)
	if err != nil {
		t.Fatalf("readObject error: %v", err)
	}
	stm, ok := obj.(*Stream)
	if !ok {
		t.Fatalf("got %#v, want *Stream", obj)
	}
	if string(stm.Data) != "hello" {
		t.Errorf("stream data = %q, want %q (recovered by scanning for endstream)", stm.Data, "hello")
	}
}

func TestReadIndirectObject(t *testing.T) {
	in := "7 0 obj\n(payload)\nendobj"
	p := newParser([]byte(in), 0)
	ref, obj, err := p.readIndirectObject(nil)
	if err != nil {
		t.Fatalf("readIndirectObject error: %v", err)
	}
	if ref.Number() != 7 || ref.Generation() != 0 {
		t.Errorf("ref = %s, want 7 0 R", ref)
	}
	if s, ok := obj.(String); !ok || string(s) != "payload" {
		t.Errorf("obj = %#v, want String(payload)", obj)
	}
}
