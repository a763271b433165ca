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

// AuthenticationError indicates that authentication failed because the correct
// password has not been supplied.
type AuthenticationError struct {
	ID []byte
}

func (err *AuthenticationError) Error() string {
	if err.ID == nil {
		return "authentication failed"
	}
	return fmt.Sprintf("authentication failed for document ID %x", err.ID)
}

// MalformedFileError indicates that the PDF file could not be parsed.
type MalformedFileError struct {
	Err error
	Pos int64
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid PDF file" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// VersionError is returned when trying to use a feature in a PDF file which is
// not supported by the PDF version used.
type VersionError struct {
	Operation string
	Earliest  Version
}

func (err *VersionError) Error() string {
	return (err.Operation + " requires PDF version " +
		err.Earliest.String() + " or later")
}

// IncrementalRefusalReason names why an incremental save was refused,
// so that callers can branch without string-matching an error message.
type IncrementalRefusalReason int

const (
	// RecoveredViaBruteForce means the document's xref was rebuilt by
	// scanning the file for "obj" markers; its object offsets no longer
	// correspond to a well-formed xref chain an incremental update could
	// extend.
	RecoveredViaBruteForce IncrementalRefusalReason = iota
	// Linearized means the document is arranged for first-page-first web
	// delivery; appending to it would break the linearization hints.
	Linearized
	// EncryptionStateChanged means encryption is being added to or removed
	// from the document, which requires rewriting every object.
	EncryptionStateChanged
)

func (r IncrementalRefusalReason) String() string {
	switch r {
	case RecoveredViaBruteForce:
		return "document was recovered via brute-force xref reconstruction"
	case Linearized:
		return "document uses a linearized layout"
	case EncryptionStateChanged:
		return "encryption is being added or removed"
	default:
		return "unknown reason"
	}
}

// IncrementalSaveRefusedError is returned by [Writer.WriteIncremental] when
// an incremental update is not possible and the caller must fall back to a
// full rewrite.
type IncrementalSaveRefusedError struct {
	Reason IncrementalRefusalReason
}

func (err *IncrementalSaveRefusedError) Error() string {
	return "pdf: incremental save refused: " + err.Reason.String()
}
