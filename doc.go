// Package pdf provides support for reading and writing PDF files.
//
// This package treats PDF files as containers containing a sequence of objects
// (typically Dictionaries and Streams).  Object are written sequentially, but
// can be read in any order.
//
// A `Reader` can be used to read an existing PDF file:
//
//      r, err := pdf.Open("in.pdf")
//      if err != nil {
//          log.Fatal(err)
//      }
//      defer r.Close()
//      catalog, err := r.Catalog()
//      if err != nil {
//          log.Fatal(err)
//      }
//      ... use catalog to locate objects in the file ...
//
// A `Writer` can be used to assemble a new PDF file from scratch:
//
//      w := pdf.NewWriter(nil)
//      pagesRef := w.Alloc()
//      pageRef := w.Alloc()
//      catalogRef := w.Alloc()
//
//      w.Put(pagesRef, pdf.NewDict(
//          pdf.DictEntry{Key: "Type", Value: pdf.Name("Pages")},
//          pdf.DictEntry{Key: "Kids", Value: pdf.Array{pageRef}},
//          pdf.DictEntry{Key: "Count", Value: pdf.Integer(1)},
//      ))
//      w.Put(pageRef, pdf.NewDict(
//          pdf.DictEntry{Key: "Type", Value: pdf.Name("Page")},
//          pdf.DictEntry{Key: "Parent", Value: pagesRef},
//      ))
//      w.Put(catalogRef, pdf.NewDict(
//          pdf.DictEntry{Key: "Type", Value: pdf.Name("Catalog")},
//          pdf.DictEntry{Key: "Pages", Value: pagesRef},
//      ))
//      w.SetRoot(catalogRef)
//
//      var buf bytes.Buffer
//      if err := w.WriteComplete(&buf); err != nil {
//          log.Fatal(err)
//      }
//
// [Writer.WriteIncremental], built from [NewIncrementalWriter], appends only
// the objects changed by [Writer.Put] onto an existing file's bytes instead
// of rewriting the whole document.
//
// The following types implement native PDF objects which can be stored in
// PDF files.  All of these implement the `pdf.Object` interface:
//
//     Array
//     Boolean
//     Dict
//     Integer
//     Name
//     Real
//     Reference
//     Stream
//     String
//
// Subpackages implement support for reading font metrics (font), walking
// content streams to extract text (content), and searching extracted text
// (search).
package pdf
