// github.com/seehuhn-go/docengine - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

package font

import (
	"github.com/seehuhn-go/docengine"
)

// Descriptor represents a PDF font descriptor.
//
// See section 9.8.1 of PDF 32000-2:2020.
type Descriptor struct {
	FontName   string
	FontFamily string

	IsFixedPitch bool
	IsSerif      bool
	IsSymbolic   bool
	IsScript     bool
	IsItalic     bool
	IsAllCap     bool
	IsSmallCap   bool
	ForceBold    bool

	FontBBox     [4]float64
	ItalicAngle  float64
	Ascent       float64
	Descent      float64 // negative
	Leading      float64
	CapHeight    float64
	XHeight      float64
	StemV        float64
	StemH        float64
	MaxWidth     float64
	AvgWidth     float64
	MissingWidth float64
}

const (
	flagFixedPitch pdf.Integer = 1 << 0
	flagSerif      pdf.Integer = 1 << 1
	flagSymbolic   pdf.Integer = 1 << 2
	flagScript     pdf.Integer = 1 << 3
	flagItalic     pdf.Integer = 1 << 6
	flagAllCap     pdf.Integer = 1 << 16
	flagSmallCap   pdf.Integer = 1 << 17
	flagForceBold  pdf.Integer = 1 << 18
)

// ExtractDescriptor reads a font descriptor dict. It returns nil, nil if obj
// is absent.
func ExtractDescriptor(r pdf.Getter, obj pdf.Object) (*Descriptor, error) {
	fd, err := pdf.GetDictTyped(r, obj, "FontDescriptor")
	if err != nil || fd.Len() == 0 {
		return nil, err
	}

	res := &Descriptor{}

	if name, err := pdf.GetName(r, fd.Get("FontName")); err == nil {
		res.FontName = string(name)
	}
	if s, err := pdf.GetString(r, fd.Get("FontFamily")); err == nil {
		res.FontFamily = string(s)
	}

	flags, err := pdf.GetInteger(r, fd.Get("Flags"))
	if err != nil {
		return nil, err
	}
	res.IsFixedPitch = flags&flagFixedPitch != 0
	res.IsSerif = flags&flagSerif != 0
	res.IsSymbolic = flags&flagSymbolic != 0
	res.IsScript = flags&flagScript != 0
	res.IsItalic = flags&flagItalic != 0
	res.IsAllCap = flags&flagAllCap != 0
	res.IsSmallCap = flags&flagSmallCap != 0
	res.ForceBold = flags&flagForceBold != 0

	if bbox, err := pdf.GetFloatArray(r, fd.Get("FontBBox")); err == nil && len(bbox) == 4 {
		res.FontBBox = [4]float64{bbox[0], bbox[1], bbox[2], bbox[3]}
	}

	readNum := func(key pdf.Name) float64 {
		n, _ := pdf.GetNumber(r, fd.Get(key))
		return float64(n)
	}
	res.ItalicAngle = readNum("ItalicAngle")
	res.Ascent = readNum("Ascent")
	res.Descent = readNum("Descent")
	res.Leading = readNum("Leading")
	res.CapHeight = readNum("CapHeight")
	res.XHeight = readNum("XHeight")
	res.StemV = readNum("StemV")
	res.StemH = readNum("StemH")
	res.MaxWidth = readNum("MaxWidth")
	res.AvgWidth = readNum("AvgWidth")
	res.MissingWidth = readNum("MissingWidth")

	return res, nil
}
