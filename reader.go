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
	"os"
)

// ReaderOptions configures how a [Reader] loads a file. The zero value is
// the default: follow the xref chain as written, fall back to brute-force
// recovery only if that fails.
type ReaderOptions struct {
	// ForceBruteForce skips the xref chain entirely and reconstructs the
	// document by scanning for "N G obj" headers. Useful for diagnosing a
	// file whose xref table is present but believed to be lying.
	ForceBruteForce bool
}

// Reader gives read access to an existing PDF file. It implements [Getter],
// so it (and every helper built on Getter, e.g. [GetDict], [ReadAll]) can be
// used directly to walk the object graph.
type Reader struct {
	// r and size back findXRef/lastOccurence, which only need random
	// access to the tail of the file to locate the first xref section.
	r    io.ReaderAt
	size int64

	data []byte

	entries    map[uint32]xrefEntry
	trailer    Dict
	xrefOffset int64

	cache       map[Reference]Object
	objStmCache map[uint32][]Object
	pending     map[Reference]bool

	warnings []Warning

	// recovered and linearized feed IncrementalSaveRefusedError: per the
	// write-side contract, incremental saves are refused for either.
	recovered  bool
	linearized bool

	closer io.Closer
}

// Open opens the named file for reading.
func Open(name string) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	r, err := NewReader(f, info.Size(), nil)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// NewReader loads a document from r, which must support random access over
// exactly size bytes.
func NewReader(r io.ReaderAt, size int64, opt *ReaderOptions) (*Reader, error) {
	if opt == nil {
		opt = &ReaderOptions{}
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(io.NewSectionReader(r, 0, size), data); err != nil {
		return nil, fmt.Errorf("reading file contents: %w", err)
	}

	reader := &Reader{
		r:           r,
		size:        size,
		data:        data,
		cache:       make(map[Reference]Object),
		objStmCache: make(map[uint32][]Object),
		pending:     make(map[Reference]bool),
	}
	if bytes.Contains(data[:min(len(data), 2048)], []byte("/Linearized")) {
		reader.linearized = true
	}

	if opt.ForceBruteForce {
		reader.bruteForceLoad()
		return reader, nil
	}

	if err := reader.loadXRefChain(); err != nil {
		reader.addWarning(WarningXRef, fmt.Sprintf("xref chain unusable (%s), recovering by brute force", err), 0)
		reader.bruteForceLoad()
		return reader, nil
	}
	if !reader.trailer.Has("Root") {
		reader.addWarning(WarningXRef, "trailer has no /Root, recovering by brute force", 0)
		reader.bruteForceLoad()
	}
	return reader, nil
}

func (r *Reader) bruteForceLoad() {
	entries, trailer, err := recoverByBruteForce(r.data)
	if err != nil {
		r.addWarning(WarningRecovered, err.Error(), 0)
	} else {
		r.addWarning(WarningRecovered, "document recovered by brute-force object scan", 0)
	}
	r.entries = entries
	r.trailer = trailer
	r.recovered = true
}

// Close releases the underlying file handle, if the Reader was created by
// [Open].
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

// Warnings returns every non-fatal problem noticed while the document was
// read, in the order they were encountered.
func (r *Reader) Warnings() []Warning {
	return r.warnings
}

func (r *Reader) addWarning(kind WarningKind, msg string, pos int64) {
	r.warnings = append(r.warnings, Warning{Kind: kind, Message: msg, Pos: pos})
}

// Recovered reports whether the document could only be read by brute-force
// object scanning, one of the conditions that forces a full rewrite instead
// of an incremental save.
func (r *Reader) Recovered() bool { return r.recovered }

// Linearized reports whether the file declares itself to use the
// web-optimized linearized layout, the other condition that forces a full
// rewrite instead of an incremental save.
func (r *Reader) Linearized() bool { return r.linearized }

// Encrypted reports whether the trailer carries an /Encrypt entry. This
// library never attempts authentication or decryption: an encrypted
// document still opens and its object graph (including the /Encrypt
// dictionary itself) is readable, but [DecodeStream] refuses to hand back
// stream payloads, since those bytes are ciphertext rather than the
// filtered data they claim to be.
func (r *Reader) Encrypted() bool { return r.trailer.Has("Encrypt") }

// encryptionID returns the first half of the trailer's /ID, for inclusion
// in an [AuthenticationError]. Returns nil if /ID is absent or malformed.
func (r *Reader) encryptionID() []byte {
	id, err := GetArray(r, r.trailer.Get("ID"))
	if err != nil || len(id) == 0 {
		return nil
	}
	s, err := GetString(r, id[0])
	if err != nil {
		return nil
	}
	return []byte(s)
}

func (r *Reader) loadXRefChain() error {
	start, err := r.findXRef()
	if err != nil {
		return err
	}

	r.entries = make(map[uint32]xrefEntry)
	r.xrefOffset = start
	seen := make(map[int64]bool)
	offset := start
	var trailer Dict
	first := true
	for offset >= 0 {
		if seen[offset] {
			r.addWarning(WarningXRef, fmt.Sprintf("/Prev cycle detected at offset %d", offset), offset)
			break
		}
		seen[offset] = true

		entries, sectionTrailer, prev, err := parseXRefSection(r.data, offset, r.addWarning)
		if err != nil {
			return err
		}
		for num, e := range entries {
			if _, have := r.entries[num]; !have {
				r.entries[num] = e
			}
		}
		if first {
			trailer = sectionTrailer
			first = false
		} else {
			// merge forward only the keys the newest (first-seen) trailer
			// lacks, so /Prev sections only fill gaps like /Info.
			for _, key := range sectionTrailer.Keys() {
				if !trailer.Has(key) {
					trailer.Set(key, sectionTrailer.Get(key))
				}
			}
		}
		offset = prev
	}
	r.trailer = trailer
	return nil
}

// findXRef locates the byte offset of the document's first (most recent)
// xref section, by finding the last "startxref" keyword and reading the
// offset that follows it.
func (r *Reader) findXRef() (int64, error) {
	pos, err := r.lastOccurence("startxref")
	if err != nil {
		return 0, err
	}
	p := newParser(r.data, pos+int64(len("startxref")))
	p.skipWhiteSpace()
	n, isInt, err := p.readNumberLiteral()
	if err != nil || !isInt {
		return 0, &MalformedFileError{Err: fmt.Errorf("malformed startxref offset"), Pos: pos}
	}
	return n, nil
}

// lastOccurence returns the byte offset of the last occurrence of pat in
// the file, searching backward from the end (xref offsets and the %%EOF
// marker only ever appear near the tail, so this never needs to scan the
// whole file for well-formed input).
func (r *Reader) lastOccurence(pat string) (int64, error) {
	const chunkSize = 2048
	patBytes := []byte(pat)

	end := r.size
	for end > 0 {
		start := end - chunkSize
		if start < 0 {
			start = 0
		}
		readLen := end - start + int64(len(patBytes)) - 1
		if start+readLen > r.size {
			readLen = r.size - start
		}
		buf := make([]byte, readLen)
		if _, err := r.r.ReadAt(buf, start); err != nil && err != io.EOF {
			return 0, err
		}
		if idx := bytes.LastIndex(buf, patBytes); idx >= 0 {
			return start + int64(idx), nil
		}
		if start == 0 {
			break
		}
		end = start
	}
	return 0, &MalformedFileError{Err: fmt.Errorf("%q not found", pat)}
}

// Get implements [Getter]. It returns nil for a free (or absent) entry, as
// the null object.
func (r *Reader) Get(ref Reference) (Object, error) {
	if obj, ok := r.cache[ref]; ok {
		return obj, nil
	}

	entry, ok := r.entries[ref.Number()]
	if !ok || entry.free {
		r.addWarning(WarningXRef, fmt.Sprintf("reference %s did not resolve to an object", ref), 0)
		return nil, nil
	}

	if r.pending[ref] {
		return nil, &MalformedFileError{Err: fmt.Errorf("cycle resolving %s (e.g. a stream's /Length referring to itself)", ref)}
	}
	r.pending[ref] = true
	defer delete(r.pending, ref)

	var obj Object
	var err error
	if entry.compressed {
		obj, err = r.getFromObjectStream(entry)
	} else {
		obj, err = r.getDirect(ref, entry)
	}
	if err != nil {
		return nil, err
	}
	r.cache[ref] = obj
	return obj, nil
}

func (r *Reader) getDirect(ref Reference, entry xrefEntry) (Object, error) {
	resolveLength := func(lenObj Object) (Integer, error) {
		return GetInteger(r, lenObj)
	}
	p := newParser(r.data, entry.offset)
	p.warn = r.addWarning
	gotRef, obj, err := p.readIndirectObject(resolveLength)
	if err != nil {
		return nil, err
	}
	if gotRef.Number() != ref.Number() {
		return nil, &MalformedFileError{
			Err: fmt.Errorf("xref promised object %d at offset %d, found %d", ref.Number(), entry.offset, gotRef.Number()),
			Pos: entry.offset,
		}
	}
	return obj, nil
}

func (r *Reader) getFromObjectStream(entry xrefEntry) (Object, error) {
	objs, err := r.loadObjectStream(entry.inStream)
	if err != nil {
		return nil, err
	}
	if entry.strmIdx < 0 || entry.strmIdx >= len(objs) {
		return nil, &MalformedFileError{Err: fmt.Errorf("object stream %d has no entry %d", entry.inStream, entry.strmIdx)}
	}
	return objs[entry.strmIdx], nil
}

func (r *Reader) loadObjectStream(num uint32) ([]Object, error) {
	if objs, ok := r.objStmCache[num]; ok {
		return objs, nil
	}
	stm, err := GetStream(r, NewReference(num, 0))
	if err != nil {
		return nil, err
	}
	if stm == nil {
		return nil, &MalformedFileError{Err: fmt.Errorf("object stream %d is missing", num)}
	}
	if err := CheckDictType(r, stm.Dict, "ObjStm"); err != nil {
		return nil, err
	}
	n, err := GetInteger(r, stm.Dict.Get("N"))
	if err != nil {
		return nil, err
	}
	first, err := GetInteger(r, stm.Dict.Get("First"))
	if err != nil {
		return nil, err
	}
	decoded, err := ReadAll(r, stm)
	if err != nil {
		return nil, err
	}

	header := newParser(decoded, 0)
	type offsetEntry struct{ num, off int64 }
	offsets := make([]offsetEntry, n)
	for i := int64(0); i < n; i++ {
		header.skipWhiteSpace()
		on, _, err := header.readNumberLiteral()
		if err != nil {
			return nil, err
		}
		header.skipWhiteSpace()
		off, _, err := header.readNumberLiteral()
		if err != nil {
			return nil, err
		}
		offsets[i] = offsetEntry{on, off}
	}

	objs := make([]Object, n)
	for i, oe := range offsets {
		bodyParser := newParser(decoded, int64(first)+oe.off)
		obj, err := bodyParser.readObject(nil)
		if err != nil {
			return nil, err
		}
		objs[i] = obj
	}
	r.objStmCache[num] = objs
	return objs, nil
}

// Resolve follows an indirect reference to its direct object, as [Resolve].
func (r *Reader) Resolve(obj Object) (Object, error) {
	return Resolve(r, obj)
}

// Trailer returns the document's trailer dictionary.
func (r *Reader) Trailer() Dict {
	return r.trailer
}

// XRefOffset returns the byte offset of the document's first (most recent)
// xref section, as found by [Reader.findXRef]. Writer.WriteIncremental uses
// this as the new section's /Prev value.
func (r *Reader) XRefOffset() int64 {
	return r.xrefOffset
}

// MaxObjectNumber returns the largest object number known to the document's
// xref table.
func (r *Reader) MaxObjectNumber() uint32 {
	var max uint32
	for num := range r.entries {
		if num > max {
			max = num
		}
	}
	return max
}
