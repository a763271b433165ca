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
	"io"
	"sort"

	"golang.org/x/exp/maps"
)

// binaryTag marks a PDF file as containing binary data, so that tools
// sniffing the first few bytes in text mode treat it accordingly.
const binaryTag = "%\xE2\xE3\xCF\xD3\n"

// pendingObject is one object held by a [Writer] awaiting serialization,
// either freshly allocated or loaded from an existing document and since
// modified.
type pendingObject struct {
	obj   Object
	dirty bool
}

// WriterOptions configures how a [Writer] lays out its output.
type WriterOptions struct {
	// Version is the PDF version declared in the header. Defaults to
	// [DefaultVersion].
	Version Version
	// UseXRefStream selects a cross-reference stream (PDF 1.5+) instead of
	// a classic xref table.
	UseXRefStream bool
	// UseObjectStreams packs eligible non-stream objects into /ObjStm
	// containers (PDF 1.5+) instead of writing each as a free-standing
	// indirect object. Ignored unless UseXRefStream is also set: a
	// classic xref table has no entry type for a compressed object.
	UseObjectStreams bool
	// ID is the document's two-part file identifier (/ID in the trailer).
	// Left nil, no /ID is written on a full rewrite; an incremental update
	// always carries the original's /ID forward unchanged.
	ID [2]String
}

// Writer accumulates objects and serializes them either as a brand-new
// document or as an update layered onto an existing one. A Writer with no
// source [Reader] only supports [Writer.WriteComplete]; one built with
// [NewIncrementalWriter] additionally supports [Writer.WriteIncremental].
type Writer struct {
	opt WriterOptions

	source *Reader // nil for a from-scratch document

	objects map[uint32]*pendingObject
	nextNum uint32

	root Reference
	info Reference
}

// NewWriter creates a Writer for a document built entirely from scratch.
func NewWriter(opt *WriterOptions) *Writer {
	if opt == nil {
		opt = &WriterOptions{}
	}
	if opt.Version == 0 {
		opt.Version = DefaultVersion
	}
	return &Writer{
		opt:     *opt,
		objects: make(map[uint32]*pendingObject),
		nextNum: 1,
	}
}

// NewIncrementalWriter wraps an existing document for an update: newly
// allocated objects append past the source's highest object number, and
// [Writer.WriteIncremental] emits only what changed.
func NewIncrementalWriter(r *Reader, opt *WriterOptions) *Writer {
	w := NewWriter(opt)
	w.source = r
	w.nextNum = r.MaxObjectNumber() + 1
	if root, ok := r.Trailer().Get("Root").(Reference); ok {
		w.root = root
	}
	if info, ok := r.Trailer().Get("Info").(Reference); ok {
		w.info = info
	}
	return w
}

// Alloc reserves a fresh object number and returns a reference to it at
// generation 0. The object itself is not registered until [Writer.Put].
func (w *Writer) Alloc() Reference {
	ref := NewReference(w.nextNum, 0)
	w.nextNum++
	return ref
}

// Put registers obj under ref, marking it dirty so it is included in the
// next write. ref need not have come from [Writer.Alloc]: overwriting an
// object loaded from the source document is how an incremental update
// modifies it.
func (w *Writer) Put(ref Reference, obj Object) {
	w.objects[ref.Number()] = &pendingObject{obj: obj, dirty: true}
	if ref.Number() >= w.nextNum {
		w.nextNum = ref.Number() + 1
	}
}

// SetRoot records ref as the document catalog for the trailer's /Root
// entry.
func (w *Writer) SetRoot(ref Reference) {
	w.root = ref
}

// SetInfo records ref as the document information dictionary for the
// trailer's /Info entry.
func (w *Writer) SetInfo(ref Reference) {
	w.info = ref
}

// Get implements [Getter] over whatever has been written so far, falling
// back to the source document (if any) for objects not yet touched by
// this Writer. This lets callers build new objects that reference
// existing, unmodified ones without reaching for the source Reader
// directly.
func (w *Writer) Get(ref Reference) (Object, error) {
	if p, ok := w.objects[ref.Number()]; ok {
		return p.obj, nil
	}
	if w.source != nil {
		return w.source.Get(ref)
	}
	return nil, nil
}

func (w *Writer) trailerBase() Dict {
	d := NewDict(
		DictEntry{Key: "Size", Value: Integer(w.nextNum)},
		DictEntry{Key: "Root", Value: w.root},
	)
	if w.info != 0 {
		d.Set("Info", w.info)
	}
	if w.opt.ID[0] != nil {
		d.Set("ID", Array{w.opt.ID[0], w.opt.ID[1]})
	}
	return d
}

// WriteComplete serializes the Writer's entire object registry as a
// brand-new PDF file: header, every registered object in ascending object
// number order, a full xref section, and a trailer.
func (w *Writer) WriteComplete(out io.Writer) error {
	version, err := w.opt.Version.ToString()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n", version)
	buf.WriteString(binaryTag)

	nums := maps.Keys(w.objects)
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })

	entries := []xrefWriteEntry{{num: 0, free: true, gen: 65535}}
	directNums := nums
	if w.opt.UseXRefStream && w.opt.UseObjectStreams {
		packed, remaining, err := w.packObjectStreams(&buf, nums)
		if err != nil {
			return err
		}
		entries = append(entries, packed...)
		directNums = remaining
	}
	for _, num := range directNums {
		offset := int64(buf.Len())
		entries = append(entries, xrefWriteEntry{num: num, offset: offset})
		p := w.objects[num]
		if err := writeIndirectObject(&buf, NewReference(num, 0), p.obj); err != nil {
			return err
		}
	}

	trailer := w.trailerBase()
	xrefPos := int64(buf.Len())
	if w.opt.UseXRefStream {
		streamNum := w.nextNum
		entries = append(entries, xrefWriteEntry{num: streamNum, offset: xrefPos})
		trailer.Set("Size", Integer(streamNum+1))
		if _, err := writeXRefStream(&buf, xrefPos, streamNum, entries, trailer); err != nil {
			return err
		}
	} else {
		if _, err := writeClassicXRef(&buf, xrefPos, entries, trailer); err != nil {
			return err
		}
	}

	_, err = out.Write(buf.Bytes())
	return err
}

// WriteIncremental appends only the changes accumulated in w to the
// original document's bytes, producing a new file whose first N bytes are
// byte-identical to the original (N = the original's length). It refuses
// with an [IncrementalSaveRefusedError] when the source document was
// recovered by brute force or uses a linearized layout; callers must fall
// back to [Writer.WriteComplete] in that case.
func (w *Writer) WriteIncremental(out io.Writer) error {
	if w.source == nil {
		return fmt.Errorf("pdf: WriteIncremental requires a Writer built with NewIncrementalWriter")
	}
	if w.source.Trailer().Has("Encrypt") != w.trailerBase().Has("Encrypt") {
		return &IncrementalSaveRefusedError{Reason: EncryptionStateChanged}
	}
	if w.source.Recovered() {
		return &IncrementalSaveRefusedError{Reason: RecoveredViaBruteForce}
	}
	if w.source.Linearized() {
		return &IncrementalSaveRefusedError{Reason: Linearized}
	}

	var changedNums []uint32
	for _, num := range maps.Keys(w.objects) {
		if w.objects[num].dirty {
			changedNums = append(changedNums, num)
		}
	}
	if len(changedNums) == 0 {
		_, err := out.Write(w.source.data)
		return err
	}
	sort.Slice(changedNums, func(i, j int) bool { return changedNums[i] < changedNums[j] })

	var buf bytes.Buffer
	buf.Write(w.source.data)
	if n := buf.Len(); n == 0 || buf.Bytes()[n-1] != '\n' {
		buf.WriteByte('\n')
	}

	entries := make([]xrefWriteEntry, 0, len(changedNums))
	directNums := changedNums
	if w.opt.UseXRefStream && w.opt.UseObjectStreams {
		packed, remaining, err := w.packObjectStreams(&buf, changedNums)
		if err != nil {
			return err
		}
		entries = append(entries, packed...)
		directNums = remaining
	}
	for _, num := range directNums {
		offset := int64(buf.Len())
		entries = append(entries, xrefWriteEntry{num: num, offset: offset})
		p := w.objects[num]
		if err := writeIndirectObject(&buf, NewReference(num, 0), p.obj); err != nil {
			return err
		}
	}

	size := w.nextNum
	if max := w.source.MaxObjectNumber() + 1; max > size {
		size = max
	}
	trailer := w.trailerBase()
	trailer.Set("Size", Integer(size))
	trailer.Set("Prev", Integer(w.source.XRefOffset()))
	if id := w.source.Trailer().Get("ID"); id != nil {
		trailer.Set("ID", id)
	}

	xrefPos := int64(buf.Len())
	if w.opt.UseXRefStream {
		streamNum := w.nextNum
		entries = append(entries, xrefWriteEntry{num: streamNum, offset: xrefPos})
		trailer.Set("Size", Integer(streamNum+1))
		if _, err := writeXRefStream(&buf, xrefPos, streamNum, entries, trailer); err != nil {
			return err
		}
	} else {
		if _, err := writeClassicXRef(&buf, xrefPos, entries, trailer); err != nil {
			return err
		}
	}

	if err := checkIncrementalInvariant(w.source.data, buf.Bytes()); err != nil {
		return err
	}

	if _, err := out.Write(buf.Bytes()); err != nil {
		return err
	}
	for _, num := range changedNums {
		w.objects[num].dirty = false
	}
	return nil
}

// objStmChunkSize bounds how many objects are packed into a single /ObjStm,
// keeping any one compressed stream to a manageable size.
const objStmChunkSize = 200

// packObjectStreams serializes the non-stream objects named by nums into
// one or more /ObjStm containers, writes those containers to buf (each
// under a freshly allocated object number), and returns the xref entries
// needed for both the compressed objects and their containing streams,
// plus the subset of nums that could not be compressed (streams, which
// §4.4/§9 never allow inside an ObjStm) and must still be written as
// ordinary indirect objects.
func (w *Writer) packObjectStreams(buf *bytes.Buffer, nums []uint32) ([]xrefWriteEntry, []uint32, error) {
	var eligible, remaining []uint32
	for _, num := range nums {
		if _, isStream := w.objects[num].obj.(*Stream); isStream {
			remaining = append(remaining, num)
		} else {
			eligible = append(eligible, num)
		}
	}

	var entries []xrefWriteEntry
	for i := 0; i < len(eligible); i += objStmChunkSize {
		end := i + objStmChunkSize
		if end > len(eligible) {
			end = len(eligible)
		}
		chunk := eligible[i:end]

		var body bytes.Buffer
		offsets := make([]int64, len(chunk))
		for idx, num := range chunk {
			offsets[idx] = int64(body.Len())
			if err := writeObject(&body, w.objects[num].obj); err != nil {
				return nil, nil, err
			}
			body.WriteByte('\n')
		}

		var header bytes.Buffer
		for idx, num := range chunk {
			fmt.Fprintf(&header, "%d %d ", num, offsets[idx])
		}
		first := header.Len()

		full := make([]byte, 0, first+body.Len())
		full = append(full, header.Bytes()...)
		full = append(full, body.Bytes()...)

		streamNum := w.nextNum
		w.nextNum++
		dict := NewDict(
			DictEntry{Key: "Type", Value: Name("ObjStm")},
			DictEntry{Key: "N", Value: Integer(len(chunk))},
			DictEntry{Key: "First", Value: Integer(first)},
		)
		stm := &Stream{Dict: dict, Data: full}

		offset := int64(buf.Len())
		if err := writeIndirectObject(buf, NewReference(streamNum, 0), stm); err != nil {
			return nil, nil, err
		}
		entries = append(entries, xrefWriteEntry{num: streamNum, offset: offset})
		for idx, num := range chunk {
			entries = append(entries, xrefWriteEntry{num: num, compressed: true, strmNum: streamNum, strmIdx: idx})
		}
	}

	return entries, remaining, nil
}

func writeIndirectObject(w io.Writer, ref Reference, obj Object) error {
	if _, err := fmt.Fprintf(w, "%d %d obj\n", ref.Number(), ref.Generation()); err != nil {
		return err
	}
	if err := writeObject(w, obj); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\nendobj\n")
	return err
}

// checkIncrementalInvariant is the self-check utility required of
// incremental output: the prefix must reproduce the original byte for
// byte, and the file must still end in %%EOF. A violation here is a
// programmer error in the writer, never a data error from the caller.
func checkIncrementalInvariant(original, result []byte) error {
	if len(result) < len(original) || !bytes.Equal(result[:len(original)], original) {
		return fmt.Errorf("pdf: internal error: incremental output does not preserve the original bytes")
	}
	tail := result
	if len(tail) > 10 {
		tail = tail[len(tail)-10:]
	}
	if !bytes.Contains(tail, []byte("%%EOF")) {
		return fmt.Errorf("pdf: internal error: incremental output does not end in %%%%EOF")
	}
	return nil
}
