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

	"golang.org/x/text/language"
)

// Catalog is the document catalog (the object the trailer's /Root points
// to), together with its page tree already flattened into reading order.
type Catalog struct {
	Dict Dict

	// Lang is the document's natural language, from /Lang, parsed with
	// golang.org/x/text/language. The zero Tag (language.Und) means /Lang
	// was absent or unparseable.
	Lang language.Tag

	Pages []*Page
}

// Page is one leaf of the page tree, with /Resources and /MediaBox already
// resolved against whichever ancestor actually set them.
type Page struct {
	Dict      Dict
	Resources Dict
	MediaBox  [4]float64
	ref       Reference
}

// Contents returns the page's content stream, decoded and concatenated.
// Per the file format, a /Contents array is logically one stream: each
// member is decoded and the pieces are joined with a newline, since a token
// (an operator or operand) is never allowed to straddle a content stream
// boundary.
func (pg *Page) Contents(r Getter) ([]byte, error) {
	obj, err := Resolve(r, pg.Dict.Get("Contents"))
	if err != nil {
		return nil, err
	}
	switch c := obj.(type) {
	case nil:
		return nil, nil
	case *Stream:
		return ReadAll(r, c)
	case Array:
		var out []byte
		for i, elem := range c {
			stm, err := GetStream(r, elem)
			if err != nil {
				return nil, fmt.Errorf("content stream %d: %w", i, err)
			}
			if stm == nil {
				continue
			}
			data, err := ReadAll(r, stm)
			if err != nil {
				return nil, fmt.Errorf("content stream %d: %w", i, err)
			}
			if len(out) > 0 {
				out = append(out, '\n')
			}
			out = append(out, data...)
		}
		return out, nil
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("/Contents has unexpected type %T", obj)}
	}
}

var defaultMediaBox = [4]float64{0, 0, 612, 792}

// Catalog resolves the trailer's /Root and walks its page tree.
func (r *Reader) Catalog() (*Catalog, error) {
	root, err := GetDictTyped(r, r.trailer.Get("Root"), "Catalog")
	if err != nil {
		return nil, err
	}

	cat := &Catalog{Dict: root, Lang: language.Und}
	if langName, err := GetString(r, root.Get("Lang")); err == nil && len(langName) > 0 {
		if tag, err := language.Parse(string(langName)); err == nil {
			cat.Lang = tag
		}
	} else if langName, err := GetName(r, root.Get("Lang")); err == nil && langName != "" {
		if tag, err := language.Parse(string(langName)); err == nil {
			cat.Lang = tag
		}
	}

	pagesRef := root.Get("Pages")
	pagesDict, err := GetDictTyped(r, pagesRef, "Pages")
	if err != nil {
		return nil, err
	}
	visited := make(map[Reference]bool)
	pages, err := walkPageTree(r, pagesRef, pagesDict, inherited{MediaBox: defaultMediaBox}, visited)
	if err != nil {
		return nil, err
	}
	cat.Pages = pages
	return cat, nil
}

type inherited struct {
	Resources Dict
	MediaBox  [4]float64
}

const maxPageTreeDepth = 64

func walkPageTree(r *Reader, nodeRef Object, node Dict, inh inherited, visited map[Reference]bool) ([]*Page, error) {
	if ref, ok := nodeRef.(Reference); ok {
		if visited[ref] {
			return nil, &MalformedFileError{Err: fmt.Errorf("cycle in page tree at %s", ref)}
		}
		if len(visited) > maxPageTreeDepth*64 {
			return nil, &MalformedFileError{Err: fmt.Errorf("page tree too deep or too large")}
		}
		visited[ref] = true
	}

	if res, err := GetDict(r, node.Get("Resources")); err != nil {
		return nil, err
	} else if res.Len() > 0 {
		inh.Resources = res
	}
	if box, err := GetFloatArray(r, node.Get("MediaBox")); err != nil {
		return nil, err
	} else if len(box) == 4 {
		inh.MediaBox = [4]float64{box[0], box[1], box[2], box[3]}
	}

	typ, err := GetName(r, node.Get("Type"))
	if err != nil {
		return nil, err
	}

	if typ == "Page" || (!node.Has("Kids") && node.Has("Contents")) {
		ref, _ := nodeRef.(Reference)
		return []*Page{{
			Dict:      node,
			Resources: inh.Resources,
			MediaBox:  inh.MediaBox,
			ref:       ref,
		}}, nil
	}

	kids, err := GetArray(r, node.Get("Kids"))
	if err != nil {
		return nil, err
	}
	var pages []*Page
	for _, kidObj := range kids {
		kidDict, err := GetDict(r, kidObj)
		if err != nil {
			return nil, err
		}
		sub, err := walkPageTree(r, kidObj, kidDict, inh, visited)
		if err != nil {
			return nil, err
		}
		pages = append(pages, sub...)
	}
	return pages, nil
}
