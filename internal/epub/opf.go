package epub

import (
	"encoding/xml"
	"strings"
)

const dcNamespace = "http://purl.org/dc/elements/1.1/"

// Metadata holds the descriptive fields read from the package document.
type Metadata struct {
	Title  string
	Author string
}

// ManifestItem is one file declared by the package manifest.
type ManifestItem struct {
	ID        string
	Href      string
	MediaType string
}

// Manifest keeps items in document order with an index by id.
type Manifest struct {
	Items []ManifestItem
	byID  map[string]int
}

// Lookup returns the manifest item with the given id.
func (m Manifest) Lookup(id string) (ManifestItem, bool) {
	i, ok := m.byID[id]
	if !ok {
		return ManifestItem{}, false
	}
	return m.Items[i], true
}

// Len returns the number of manifest items.
func (m Manifest) Len() int {
	return len(m.Items)
}

// Package is the typed form of an OPF package document.
type Package struct {
	Metadata Metadata
	Manifest Manifest
	// Spine lists manifest ids in reading order.
	Spine []string
}

type opfDocument struct {
	Metadata opfNode `xml:"metadata"`
	Items    []struct {
		ID        string `xml:"id,attr"`
		Href      string `xml:"href,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"manifest>item"`
	Itemrefs []struct {
		IDRef string `xml:"idref,attr"`
	} `xml:"spine>itemref"`
}

type opfNode struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []opfNode `xml:",any"`
}

// LoadPackage reads and parses the package document at opfPath.
func LoadPackage(a *Archive, opfPath string) (*Package, error) {
	entry, ok := a.Entry(opfPath)
	if !ok {
		return nil, invalidEpub(ReasonOPFNotFound)
	}
	data, err := entry.Binary()
	if err != nil {
		return nil, err
	}
	return ParsePackage(data)
}

// ParsePackage decodes an OPF document into a Package.
func ParsePackage(data []byte) (*Package, error) {
	var doc opfDocument
	if err := newXMLDecoder(data).Decode(&doc); err != nil {
		return nil, invalidEpub(ReasonMalformedPackage)
	}

	pkg := &Package{
		Metadata: Metadata{
			Title:  firstMetadataValue(doc.Metadata, "title"),
			Author: firstMetadataValue(doc.Metadata, "creator"),
		},
		Manifest: Manifest{byID: make(map[string]int, len(doc.Items))},
	}

	for _, item := range doc.Items {
		id := strings.TrimSpace(item.ID)
		href := strings.TrimSpace(item.Href)
		mediaType := strings.TrimSpace(item.MediaType)
		if id == "" || href == "" || mediaType == "" {
			continue
		}
		if _, dup := pkg.Manifest.byID[id]; dup {
			continue
		}
		pkg.Manifest.byID[id] = len(pkg.Manifest.Items)
		pkg.Manifest.Items = append(pkg.Manifest.Items, ManifestItem{ID: id, Href: href, MediaType: mediaType})
	}

	for _, ref := range doc.Itemrefs {
		idref := strings.TrimSpace(ref.IDRef)
		if idref == "" {
			continue
		}
		pkg.Spine = append(pkg.Spine, idref)
	}

	return pkg, nil
}

// firstMetadataValue returns the text of the first dc-qualified element with
// the given local name, falling back to the first element of that name in
// any namespace.
func firstMetadataValue(root opfNode, local string) string {
	var qualified, plain *opfNode
	root.walk(func(n *opfNode) bool {
		if n.XMLName.Local != local {
			return true
		}
		if plain == nil {
			plain = n
		}
		if qualified == nil && isDublinCore(n.XMLName.Space) {
			qualified = n
			return false
		}
		return true
	})

	switch {
	case qualified != nil:
		return strings.TrimSpace(qualified.Text)
	case plain != nil:
		return strings.TrimSpace(plain.Text)
	}
	return ""
}

// isDublinCore accepts the declared namespace and the bare prefix left by
// documents that forget to declare it.
func isDublinCore(space string) bool {
	return space == dcNamespace || space == "dc"
}

// walk visits descendants depth-first in document order until fn returns false.
func (n *opfNode) walk(fn func(*opfNode) bool) bool {
	for i := range n.Children {
		child := &n.Children[i]
		if !fn(child) {
			return false
		}
		if !child.walk(fn) {
			return false
		}
	}
	return true
}
