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

package content

import (
	"io"

	"github.com/seehuhn-go/docengine"
)

// operator is a PDF operator found in a content stream.
type operator pdf.Name

// PDF implements the [pdf.Object] interface.
func (x operator) PDF(w io.Writer) error {
	_, err := w.Write([]byte(x))
	return err
}
