// github.com/seehuhn-go/docengine - a library for reading and writing PDF files
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
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

// Package float formats floating point numbers the way PDF writers do:
// integers without a decimal point, reals trimmed to the shortest
// representation that round-trips within the requested number of digits.
package float

import (
	"strconv"
	"strings"
)

// Format renders x with exactly digits fractional digits, then strips
// trailing zeros and a trailing decimal point; the empty string or a bare
// "-" that results from stripping away an all-zero fractional part
// coerces to "0".
func Format(x float64, digits int) string {
	s := strconv.FormatFloat(x, 'f', digits, 64)
	if digits > 0 {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if s == "" || s == "-" {
		s = "0"
	}
	return s
}

// Round rounds value to digits fractional digits, using the same rounding
// rule as Format, so that Format(Round(x, d), d) == Format(x, d).
func Round(value float64, digits int) float64 {
	s := Format(value, digits)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return value
	}
	return f
}
