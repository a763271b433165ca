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
	"bytes"
	"fmt"
	"testing"
)

// buildClassicXRefPDF assembles a minimal well-formed PDF from a set of
// object bodies (numbered 1..len(bodies)), with a classic xref table and
// trailer pointing at object 1 as /Root. Offsets are computed from the
// actual bytes written, not hand-counted, so the fixture can't drift out of
// sync with the format it builds.
func buildClassicXRefPDF(bodies []string) []byte {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")

	offsets := make([]int64, len(bodies)+1) // 1-indexed; offsets[0] unused
	for i, body := range bodies {
		offsets[i+1] = int64(buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefOffset := int64(buf.Len())
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(bodies)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(bodies); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\n", len(bodies)+1)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF", xrefOffset)
	return buf.Bytes()
}

func openBytes(t *testing.T, data []byte) *Reader {
	t.Helper()
	r, err := NewReader(bytes.NewReader(data), int64(len(data)), nil)
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	return r
}

func TestNewReaderClassicXRefAndGet(t *testing.T) {
	data := buildClassicXRefPDF([]string{
		`<< /Type /Catalog /Pages 2 0 R >>`,
		`<< /Type /Pages /Kids [3 0 R] /Count 1 >>`,
		`<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>`,
		`<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>`,
		"<< /Length 10 >>\nstream\n0 0 0 RG Q\nendstream",
	})

	r := openBytes(t, data)
	if len(r.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", r.Warnings())
	}
	if r.Recovered() {
		t.Errorf("Recovered() = true, want false for a well-formed file")
	}

	obj, err := r.Get(NewReference(1, 0))
	if err != nil {
		t.Fatalf("Get(1 0 R) error: %v", err)
	}
	d, ok := obj.(Dict)
	if !ok || d.Get("Type") != Name("Catalog") {
		t.Errorf("object 1 = %#v, want the Catalog dict", obj)
	}
}

func TestCatalogWalksPageTree(t *testing.T) {
	data := buildClassicXRefPDF([]string{
		`<< /Type /Catalog /Pages 2 0 R /Lang (en-US) >>`,
		`<< /Type /Pages /Kids [3 0 R] /Count 1 /MediaBox [0 0 200 300] >>`,
		`<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>`,
		`<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>`,
		"<< /Length 4 >>\nstream\nq Q \nendstream",
	})

	r := openBytes(t, data)
	cat, err := r.Catalog()
	if err != nil {
		t.Fatalf("Catalog error: %v", err)
	}
	if len(cat.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(cat.Pages))
	}
	pg := cat.Pages[0]
	if pg.MediaBox != [4]float64{0, 0, 200, 300} {
		t.Errorf("MediaBox = %v, want inherited [0 0 200 300]", pg.MediaBox)
	}
	if !pg.Resources.Has("Font") {
		t.Errorf("page Resources missing /Font")
	}
	if cat.Lang.String() == "und" {
		t.Errorf("Lang not parsed from /Lang (en-US)")
	}

	contents, err := pg.Contents(r)
	if err != nil {
		t.Fatalf("Contents error: %v", err)
	}
	if string(contents) != "q Q " {
		t.Errorf("contents = %q, want %q", contents, "q Q ")
	}
}

func TestBruteForceRecoveryWhenXRefIsMissing(t *testing.T) {
	data := []byte("%PDF-1.7\n" +
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n" +
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n" +
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /Resources << >> /Contents 4 0 R >>\nendobj\n" +
		"4 0 obj\n<< /Length 3 >>\nstream\nq Q\nendstream\nendobj\n" +
		"%%EOF")

	r := openBytes(t, data)
	if !r.Recovered() {
		t.Fatalf("Recovered() = false, want true (no usable xref table present)")
	}
	if len(r.Warnings()) == 0 {
		t.Errorf("expected at least one warning about brute-force recovery")
	}

	cat, err := r.Catalog()
	if err != nil {
		t.Fatalf("Catalog error after recovery: %v", err)
	}
	if len(cat.Pages) != 1 {
		t.Fatalf("got %d pages, want 1", len(cat.Pages))
	}
}

func TestWarningOnMissingLength(t *testing.T) {
	data := buildClassicXRefPDF([]string{
		`<< /Type /Catalog /Pages 2 0 R >>`,
		`<< /Type /Pages /Kids [] /Count 0 >>`,
		"<< >>\nstream\nabc\nendstream",
	})
	r := openBytes(t, data)
	stm, err := GetStream(r, NewReference(3, 0))
	if err != nil {
		t.Fatalf("GetStream error: %v", err)
	}
	if string(stm.Data) != "abc" {
		t.Errorf("stream data = %q, want %q", stm.Data, "abc")
	}
	found := false
	for _, w := range r.Warnings() {
		if w.Kind == WarningStream {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a WarningStream about the missing /Length, got %v", r.Warnings())
	}
}

func TestWarningOnDuplicateXRefEntry(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n")
	obj1 := int64(buf.Len())
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 1 0 R >>\nendobj\n")

	// Two subsections both cover object 1, so the section lists it twice.
	xrefOffset := int64(buf.Len())
	buf.WriteString("xref\n0 2\n")
	buf.WriteString("0000000000 65535 f \n")
	fmt.Fprintf(&buf, "%010d 00000 n \n", obj1)
	buf.WriteString("1 1\n")
	fmt.Fprintf(&buf, "%010d 00000 n \n", obj1)
	buf.WriteString("trailer\n<< /Size 2 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF", xrefOffset)

	r := openBytes(t, buf.Bytes())
	found := false
	for _, w := range r.Warnings() {
		if w.Kind == WarningXRef {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a WarningXRef about the duplicate entry, got %v", r.Warnings())
	}
}

func TestWarningOnUnresolvedReference(t *testing.T) {
	data := buildClassicXRefPDF([]string{
		`<< /Type /Catalog /Pages 2 0 R >>`,
		`<< /Type /Pages /Kids [] /Count 0 /Extra 99 0 R >>`,
	})
	r := openBytes(t, data)
	pages, err := GetDict(r, NewReference(2, 0))
	if err != nil {
		t.Fatalf("GetDict error: %v", err)
	}
	// object 99 is referenced but was never written; resolving /Extra must
	// come back nil (not an error) while recording a warning.
	if _, err := Resolve(r, pages.Get("Extra")); err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	found := false
	for _, w := range r.Warnings() {
		if w.Kind == WarningXRef {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a WarningXRef about the unresolved reference, got %v", r.Warnings())
	}
}

func TestStreamLengthIndirectReference(t *testing.T) {
	data := buildClassicXRefPDF([]string{
		`<< /Type /Catalog /Pages 2 0 R >>`,
		`<< /Type /Pages /Kids [] /Count 0 >>`,
		`3`, // object 3 holds the indirect /Length value
		"<< /Length 3 0 R >>\nstream\nabc\nendstream",
	})
	r := openBytes(t, data)
	stm, err := GetStream(r, NewReference(4, 0))
	if err != nil {
		t.Fatalf("GetStream error: %v", err)
	}
	if string(stm.Data) != "abc" {
		t.Errorf("stream data = %q, want %q", stm.Data, "abc")
	}
}
