package epub

import (
	"encoding/base64"
	"log"
	"strings"
)

// ResolveCover returns the cover image as a data URI, or "" when the
// manifest declares no recognizable cover or it cannot be read.
func ResolveCover(a *Archive, pkg *Package, opfPath string) string {
	item, ok := findCoverItem(pkg.Manifest)
	if !ok {
		return ""
	}

	entryPath := resolveHref(baseDir(opfPath), item.Href)
	entry, ok := a.Entry(entryPath)
	if !ok {
		log.Printf("epub: cover %s not found in archive", entryPath)
		return ""
	}
	data, err := entry.Binary()
	if err != nil {
		log.Printf("epub: failed to read cover %s: %v", entryPath, err)
		return ""
	}
	if len(data) == 0 {
		return ""
	}

	return "data:" + strings.ToLower(item.MediaType) + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// findCoverItem picks the first image item whose id or href mentions "cover".
func findCoverItem(manifest Manifest) (ManifestItem, bool) {
	for _, item := range manifest.Items {
		if !isImageMediaType(item.MediaType) {
			continue
		}
		if strings.Contains(strings.ToLower(item.ID), "cover") || strings.Contains(strings.ToLower(item.Href), "cover") {
			return item, true
		}
	}
	return ManifestItem{}, false
}

func isImageMediaType(mediaType string) bool {
	return strings.HasPrefix(strings.ToLower(mediaType), "image/")
}
