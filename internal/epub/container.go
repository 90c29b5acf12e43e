package epub

import (
	"bytes"
	"encoding/xml"
	"strings"

	"golang.org/x/net/html/charset"
)

// ContainerPath is the fixed location of the OCF container document.
const ContainerPath = "META-INF/container.xml"

type containerDocument struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

// ResolveContainer returns the package document path named by the first
// rootfile of META-INF/container.xml.
func ResolveContainer(a *Archive) (string, error) {
	entry, ok := a.Entry(ContainerPath)
	if !ok {
		return "", invalidEpub(ReasonContainerNotFound)
	}
	data, err := entry.Binary()
	if err != nil {
		return "", err
	}
	return parseContainer(data)
}

func parseContainer(data []byte) (string, error) {
	var doc containerDocument
	if err := newXMLDecoder(data).Decode(&doc); err != nil {
		return "", invalidEpub(ReasonRootfileMissing)
	}
	if len(doc.Rootfiles) == 0 {
		return "", invalidEpub(ReasonRootfileMissing)
	}
	fullPath := strings.TrimSpace(doc.Rootfiles[0].FullPath)
	if fullPath == "" {
		return "", invalidEpub(ReasonRootfileMissing)
	}
	return fullPath, nil
}

// newXMLDecoder returns a strict decoder that still understands HTML named
// entities and non-UTF-8 encoding declarations.
func newXMLDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	dec.Strict = true
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}
