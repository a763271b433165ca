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
	"compress/lzw"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/seehuhn-go/docengine/ascii85"
	"github.com/seehuhn-go/docengine/internal/filter/asciihex"
	"github.com/seehuhn-go/docengine/internal/filter/predict"
	"github.com/seehuhn-go/docengine/internal/filter/runlength"
)

// FilterInfo describes one entry of a stream's /Filter (+ /DecodeParms)
// chain. Entries are kept in decoding order: the first entry is the one
// nearest the raw bytes on disk and is applied first by [DecodeStream].
type FilterInfo struct {
	Name  Name
	Parms Dict
}

// GetFilters reads the (possibly absent, single, or array-valued) /Filter
// and /DecodeParms entries of dict and returns them as a normalized slice.
func GetFilters(r Getter, dict Dict) ([]FilterInfo, error) {
	filterObj, err := Resolve(r, dict.Get("Filter"))
	if err != nil {
		return nil, err
	}
	if filterObj == nil {
		return nil, nil
	}

	var names []Name
	switch f := filterObj.(type) {
	case Name:
		names = []Name{f}
	case Array:
		for _, elem := range f {
			n, err := GetName(r, elem)
			if err != nil {
				return nil, err
			}
			names = append(names, n)
		}
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("invalid /Filter entry %T", filterObj)}
	}

	parmsObj, err := Resolve(r, dict.Get("DecodeParms"))
	if err != nil {
		return nil, err
	}
	var parms []Dict
	switch p := parmsObj.(type) {
	case nil:
		parms = make([]Dict, len(names))
	case Dict:
		parms = []Dict{p}
	case Array:
		for _, elem := range p {
			d, err := GetDict(r, elem)
			if err != nil {
				return nil, err
			}
			parms = append(parms, d)
		}
		for len(parms) < len(names) {
			parms = append(parms, Dict{})
		}
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("invalid /DecodeParms entry %T", parmsObj)}
	}

	out := make([]FilterInfo, len(names))
	for i, n := range names {
		out[i] = FilterInfo{Name: n, Parms: parms[i]}
	}
	return out, nil
}

// predictParams extracts the predictor parameters from a filter's
// /DecodeParms dict, defaulting Predictor to 1 (no prediction) when absent.
func predictParams(r Getter, parms Dict) (*predict.Params, error) {
	p := &predict.Params{Colors: 1, BitsPerComponent: 8, Columns: 1, Predictor: 1}
	if n, err := GetInteger(r, parms.Get("Colors")); err != nil {
		return nil, err
	} else if n != 0 {
		p.Colors = int(n)
	}
	if n, err := GetInteger(r, parms.Get("BitsPerComponent")); err != nil {
		return nil, err
	} else if n != 0 {
		p.BitsPerComponent = int(n)
	}
	if n, err := GetInteger(r, parms.Get("Columns")); err != nil {
		return nil, err
	} else if n != 0 {
		p.Columns = int(n)
	}
	if n, err := GetInteger(r, parms.Get("Predictor")); err != nil {
		return nil, err
	} else if n != 0 {
		p.Predictor = int(n)
	}
	return p, nil
}

// decodeOneFilter returns a reader that decodes data according to one
// FilterInfo entry. CCITTFaxDecode and DCTDecode are passed through
// undecoded: this library does not implement image codecs, and a caller
// asking to read such a stream's "decoded" bytes gets the filtered image
// data unchanged, same as the underlying bytes it would get for an
// unsupported filter name.
func decodeOneFilter(r Getter, data []byte, info FilterInfo) ([]byte, error) {
	switch info.Name {
	case "FlateDecode", "Fl":
		zr, err := zlib.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &MalformedFileError{Err: err}
		}
		defer zr.Close()
		decoded, err := io.ReadAll(zr)
		if err != nil {
			return nil, &MalformedFileError{Err: err}
		}
		params, err := predictParams(r, info.Parms)
		if err != nil {
			return nil, err
		}
		return applyPredictorDecode(decoded, params)

	case "ASCII85Decode", "A85":
		dr, err := ascii85.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(dr)

	case "ASCIIHexDecode", "AHx":
		return io.ReadAll(asciihex.Decode(bytes.NewReader(data)))

	case "LZWDecode", "LZW":
		lr := lzw.NewReader(bytes.NewReader(data), lzw.MSB, 8)
		defer lr.Close()
		decoded, err := io.ReadAll(lr)
		if err != nil {
			return nil, &MalformedFileError{Err: err}
		}
		params, err := predictParams(r, info.Parms)
		if err != nil {
			return nil, err
		}
		return applyPredictorDecode(decoded, params)

	case "RunLengthDecode", "RL":
		return io.ReadAll(runlength.Decode(bytes.NewReader(data)))

	case "CCITTFaxDecode", "CCF", "DCTDecode", "DCT":
		return data, nil

	default:
		return data, nil
	}
}

func applyPredictorDecode(data []byte, params *predict.Params) ([]byte, error) {
	if params.Predictor <= 1 {
		return data, nil
	}
	pr, err := predict.NewReader(bytes.NewReader(data), params)
	if err != nil {
		return nil, &MalformedFileError{Err: err}
	}
	return io.ReadAll(pr)
}

// DecodeStream returns the fully decoded bytes of s, applying every filter
// in s.Dict's /Filter chain in order. numFilters, if positive, limits how
// many filters (counted from the first, i.e. the one closest to the raw
// bytes as written) are applied; 0 means apply all of them.
func DecodeStream(r Getter, s *Stream, numFilters int) ([]byte, error) {
	if rd, ok := r.(*Reader); ok && rd.Encrypted() {
		return nil, &AuthenticationError{ID: rd.encryptionID()}
	}
	filters, err := GetFilters(r, s.Dict)
	if err != nil {
		return nil, err
	}
	data := s.Data
	n := len(filters)
	if numFilters > 0 && numFilters < n {
		n = numFilters
	}
	for i := 0; i < n; i++ {
		data, err = decodeOneFilter(r, data, filters[i])
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, filters[i].Name, err)
		}
	}
	return data, nil
}

// EncodeFlate returns data compressed with zlib, suitable for storing as a
// stream with a single /FlateDecode filter.
func EncodeFlate(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewFlateStream builds a Stream holding data, compressed with
// /FlateDecode, merging extraDict entries (e.g. /Type, /Subtype) into the
// stream dictionary.
func NewFlateStream(data []byte, extraDict Dict) (*Stream, error) {
	compressed, err := EncodeFlate(data)
	if err != nil {
		return nil, err
	}
	d := extraDict.clone()
	d.Set("Filter", Name("FlateDecode"))
	return &Stream{Dict: d, Data: compressed}, nil
}
