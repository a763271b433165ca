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
	"math"
)

// Getter is implemented by anything that can resolve an indirect reference
// to its object: both [Reader] and [Writer] satisfy it, so helper functions
// that only need to look objects up work against either.
type Getter interface {
	Get(ref Reference) (Object, error)
}

// maxRefDepth bounds chains of references-to-references, which cannot occur
// in a well-formed file but must not be allowed to loop forever on a
// malformed one.
const maxRefDepth = 16

// Resolve follows obj through indirect references until a direct object (or
// nil) is reached.
func Resolve(r Getter, obj Object) (Object, error) {
	ref, isRef := obj.(Reference)
	if !isRef {
		return obj, nil
	}

	origRef := ref
	for count := 0; ; count++ {
		if count > maxRefDepth {
			return nil, &MalformedFileError{
				Err: fmt.Errorf("too many levels of indirection resolving %s", origRef),
			}
		}
		next, err := r.Get(ref)
		if err != nil {
			return nil, err
		}
		nextRef, isRef := next.(Reference)
		if !isRef {
			return next, nil
		}
		ref = nextRef
	}
}

func resolveAndCast[T Object](r Getter, obj Object) (T, error) {
	var zero T
	resolved, err := Resolve(r, obj)
	if err != nil {
		return zero, err
	}
	if resolved == nil {
		return zero, nil
	}
	x, ok := resolved.(T)
	if !ok {
		return zero, &MalformedFileError{Err: fmt.Errorf("expected %T but got %T", zero, resolved)}
	}
	return x, nil
}

// Helper functions for getting objects of a specific type. Each resolves
// any indirect reference first. If the (resolved) object is null, the zero
// value is returned without error; if it has the wrong type, an error is
// returned.
var (
	GetArray   = resolveAndCast[Array]
	GetBoolean = resolveAndCast[Boolean]
	GetDict    = resolveAndCast[Dict]
	GetName    = resolveAndCast[Name]
	GetReal    = resolveAndCast[Real]
	GetStream  = resolveAndCast[*Stream]
	GetString  = resolveAndCast[String]
)

// GetInteger resolves obj and requires it to be an Integer; a Real is
// rounded to the nearest integer for tolerance of malformed producers.
func GetInteger(r Getter, obj Object) (Integer, error) {
	resolved, err := Resolve(r, obj)
	if err != nil || resolved == nil {
		return 0, err
	}
	switch x := resolved.(type) {
	case Integer:
		return x, nil
	case Real:
		return Integer(math.Round(float64(x))), nil
	default:
		return 0, &MalformedFileError{Err: fmt.Errorf("expected Integer but got %T", resolved)}
	}
}

// GetFloatArray resolves obj as an Array and each of its elements as a
// Number, returning the values as a plain float64 slice.
func GetFloatArray(r Getter, obj Object) ([]float64, error) {
	arr, err := GetArray(r, obj)
	if err != nil || arr == nil {
		return nil, err
	}
	out := make([]float64, len(arr))
	for i, elem := range arr {
		n, err := GetNumber(r, elem)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		out[i] = float64(n)
	}
	return out, nil
}

// GetDictTyped resolves obj as a Dict and checks that its /Type entry (if
// present) equals wantType.
func GetDictTyped(r Getter, obj Object, wantType Name) (Dict, error) {
	dict, err := GetDict(r, obj)
	if err != nil || dict.Len() == 0 {
		return dict, err
	}
	if err := CheckDictType(r, dict, wantType); err != nil {
		return Dict{}, err
	}
	return dict, nil
}

// CheckDictType checks that dict's /Type entry, if present, equals
// wantType.
func CheckDictType(r Getter, dict Dict, wantType Name) error {
	haveType, err := GetName(r, dict.Get("Type"))
	if err != nil {
		return err
	}
	if haveType != wantType && haveType != "" {
		return &MalformedFileError{Err: fmt.Errorf("expected dict type %q, got %q", wantType, haveType)}
	}
	return nil
}

// ReadAll returns the fully decoded contents of stream s.
func ReadAll(r Getter, s *Stream) ([]byte, error) {
	return DecodeStream(r, s, 0)
}
