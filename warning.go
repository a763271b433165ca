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

	"golang.org/x/term"
)

// WarningKind categorizes a non-fatal problem noticed while reading a file.
type WarningKind int

const (
	// WarningRecovered reports that the file's own xref chain was unusable
	// and the document was reconstructed by brute-force object scanning.
	WarningRecovered WarningKind = iota
	// WarningXRef reports a problem following the xref chain short of full
	// brute-force recovery, e.g. a /Prev cycle that had to be broken.
	WarningXRef
	// WarningStream reports a stream whose /Length was missing, could not be
	// resolved to an integer, or did not land on "endstream", requiring a
	// scan-based recovery of its data.
	WarningStream
	// WarningFilter reports a filter that could not be decoded.
	WarningFilter
	// WarningFont reports a font resource that could not be fully parsed.
	WarningFont
)

func (k WarningKind) String() string {
	switch k {
	case WarningRecovered:
		return "recovered"
	case WarningXRef:
		return "xref"
	case WarningStream:
		return "stream"
	case WarningFilter:
		return "filter"
	case WarningFont:
		return "font"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal problem encountered while reading a file, collected
// on the [Reader] rather than aborting the load.
type Warning struct {
	Kind    WarningKind
	Message string
	Pos     int64
}

func (w Warning) String() string {
	if w.Pos > 0 {
		return fmt.Sprintf("%s (at byte %d)", w.Message, w.Pos)
	}
	return w.Message
}

// DumpWarnings writes one line per warning to w. When w is a terminal (as
// reported by golang.org/x/term), the kind is highlighted so a human
// skimming CLI output can spot it quickly; non-terminal output (files,
// pipes) gets a plain, grep-friendly line.
func DumpWarnings(w io.Writer, warnings []Warning) {
	isTerm := false
	if f, ok := w.(interface{ Fd() uintptr }); ok {
		isTerm = term.IsTerminal(int(f.Fd()))
	}
	for _, warn := range warnings {
		if isTerm {
			fmt.Fprintf(w, "\x1b[33m[%s]\x1b[0m %s\n", warn.Kind, warn)
		} else {
			fmt.Fprintf(w, "[%s] %s\n", warn.Kind, warn)
		}
	}
}
