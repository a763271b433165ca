// github.com/seehuhn-go/docengine - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
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

import "fmt"

// Version represents a PDF version number (1.0 through 2.0).
type Version int

const (
	V1_0 Version = iota
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

// DefaultVersion is the version the writer emits when none is requested.
const DefaultVersion = V1_7

var versionStrings = map[Version]string{
	V1_0: "1.0",
	V1_1: "1.1",
	V1_2: "1.2",
	V1_3: "1.3",
	V1_4: "1.4",
	V1_5: "1.5",
	V1_6: "1.6",
	V1_7: "1.7",
	V2_0: "2.0",
}

var stringVersions = map[string]Version{
	"1.0": V1_0,
	"1.1": V1_1,
	"1.2": V1_2,
	"1.3": V1_3,
	"1.4": V1_4,
	"1.5": V1_5,
	"1.6": V1_6,
	"1.7": V1_7,
	"2.0": V2_0,
}

// ParseVersion parses a PDF version string ("1.7", "2.0", ...).
func ParseVersion(s string) (Version, error) {
	v, ok := stringVersions[s]
	if !ok {
		return 0, fmt.Errorf("pdf: invalid version %q", s)
	}
	return v, nil
}

// ToString renders the version as it appears in a PDF header.
func (v Version) ToString() (string, error) {
	s, ok := versionStrings[v]
	if !ok {
		return "", fmt.Errorf("pdf: invalid version %d", int(v))
	}
	return s, nil
}

func (v Version) String() string {
	s, err := v.ToString()
	if err != nil {
		return fmt.Sprintf("Version(%d)", int(v))
	}
	return s
}
