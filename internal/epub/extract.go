package epub

import (
	"log"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Diagnostic records a spine item that contributed no text.
type Diagnostic struct {
	ItemID string `json:"item_id"`
	Href   string `json:"href,omitempty"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	if d.Href == "" {
		return d.ItemID + ": " + d.Reason
	}
	return d.ItemID + " (" + d.Href + "): " + d.Reason
}

// Extraction is the result of folding over the spine.
type Extraction struct {
	Text    string
	Skipped []Diagnostic
}

// ExtractContent concatenates the readable text of every HTML document in
// spine order. Documents that cannot be read are recorded in Skipped and do
// not stop the walk.
func ExtractContent(a *Archive, pkg *Package, opfPath string) (*Extraction, error) {
	base := baseDir(opfPath)
	result := &Extraction{}

	var b strings.Builder
	for _, id := range pkg.Spine {
		text, diag := extractSpineItem(a, pkg.Manifest, base, id)
		if diag != nil {
			log.Printf("epub: skipped %s", diag)
			result.Skipped = append(result.Skipped, *diag)
			continue
		}
		if text == "" {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n\n")
	}

	result.Text = strings.TrimSpace(b.String())
	if result.Text == "" {
		return result, invalidEpub(ReasonNoContent)
	}
	return result, nil
}

func extractSpineItem(a *Archive, manifest Manifest, base, id string) (string, *Diagnostic) {
	item, ok := manifest.Lookup(id)
	if !ok {
		return "", &Diagnostic{ItemID: id, Reason: "not in manifest"}
	}
	if !isHTMLMediaType(item.MediaType) {
		return "", &Diagnostic{ItemID: id, Href: item.Href, Reason: "unsupported media type " + item.MediaType}
	}

	entryPath := resolveHref(base, item.Href)
	entry, ok := a.Entry(entryPath)
	if !ok {
		return "", &Diagnostic{ItemID: id, Href: item.Href, Reason: "entry not found: " + entryPath}
	}
	source, err := entry.Text()
	if err != nil {
		return "", &Diagnostic{ItemID: id, Href: item.Href, Reason: err.Error()}
	}
	text, err := textFromHTML(source)
	if err != nil {
		return "", &Diagnostic{ItemID: id, Href: item.Href, Reason: "parse: " + err.Error()}
	}
	return text, nil
}

// textFromHTML returns the normalized body text of an HTML or XHTML document.
func textFromHTML(source string) (string, error) {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return "", err
	}

	root := findElement(doc, atom.Body)
	if root == nil {
		root = doc
	}

	var b strings.Builder
	collectText(root, &b)
	return normalizeText(b.String()), nil
}

var skippedElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Section: true, atom.Article: true, atom.Tr: true,
	atom.Pre: true, atom.Hr: true, atom.Dd: true, atom.Dt: true,
}

func collectText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if skippedElements[n.DataAtom] {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b)
	}

	// Keeps adjacent blocks from running words together.
	if n.Type == html.ElementNode && blockElements[n.DataAtom] {
		b.WriteByte(' ')
	}
}

func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, a); found != nil {
			return found
		}
	}
	return nil
}

// normalizeText collapses whitespace runs to single spaces and starts a new
// paragraph after every sentence-ending period followed by whitespace.
func normalizeText(s string) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(collapsed, ". ", ".\n\n")
}

func isHTMLMediaType(mediaType string) bool {
	return strings.Contains(strings.ToLower(mediaType), "html")
}

// baseDir returns the directory prefix of the package document, including
// the trailing slash, or "" when it sits at the archive root.
func baseDir(opfPath string) string {
	i := strings.LastIndex(opfPath, "/")
	if i < 0 {
		return ""
	}
	return opfPath[:i+1]
}

// resolveHref joins a manifest href onto base, dropping any fragment and
// undoing percent-encoding.
func resolveHref(base, href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	if strings.HasPrefix(href, "/") {
		return strings.TrimPrefix(path.Clean(href), "/")
	}
	return path.Clean(base + href)
}
