// Package epubtest builds small EPUB archives in memory for tests.
package epubtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"html"
)

// File is one archive entry.
type File struct {
	Name string
	Body string
}

// Build writes files into a zip archive in order.
func Build(files ...File) []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range files {
		fw, err := w.Create(f.Name)
		if err != nil {
			panic(err)
		}
		if _, err := fw.Write([]byte(f.Body)); err != nil {
			panic(err)
		}
	}
	if err := w.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

const container = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles>
    <rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
  </rootfiles>
</container>`

const opfTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<package xmlns="http://www.idpf.org/2007/opf" version="3.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>%s</dc:title>
    <dc:creator>%s</dc:creator>
  </metadata>
  <manifest>
    <item id="ch1" href="chapter1.xhtml" media-type="application/xhtml+xml"/>
  </manifest>
  <spine>
    <itemref idref="ch1"/>
  </spine>
</package>`

const chapterTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml"><head><title>Chapter</title></head>
<body><p>%s</p></body></html>`

// Book returns a valid single-chapter EPUB.
func Book(title, author, text string) []byte {
	return Build(
		File{"mimetype", "application/epub+zip"},
		File{"META-INF/container.xml", container},
		File{"OEBPS/content.opf", fmt.Sprintf(opfTemplate, html.EscapeString(title), html.EscapeString(author))},
		File{"OEBPS/chapter1.xhtml", fmt.Sprintf(chapterTemplate, html.EscapeString(text))},
	)
}

// WithoutContainer returns an archive that lacks META-INF/container.xml.
func WithoutContainer() []byte {
	return Build(File{"mimetype", "application/epub+zip"}, File{"OEBPS/content.opf", "<package/>"})
}
