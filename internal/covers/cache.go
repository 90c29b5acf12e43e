package covers

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultFetchTimeout = 30 * time.Second
	maxCoverSize        = 20 << 20
	filePrefix          = "cover_"
)

var safeID = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// Cache keeps book covers on local disk. Covers given as data URIs are
// decoded; http(s) covers are downloaded once.
type Cache struct {
	cacheDir   string
	httpClient *http.Client
}

// NewCache creates a new cover cache at the specified directory.
func NewCache(cacheDir string, fetchTimeout time.Duration) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create cache dir")
	}
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}

	return &Cache{
		cacheDir: cacheDir,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
	}, nil
}

// GetCover returns the path of the cached cover for a book, storing it first
// if needed. An empty cover yields an empty path.
func (c *Cache) GetCover(ctx context.Context, bookID, cover string) (string, error) {
	if cover == "" {
		return "", nil
	}

	if strings.HasPrefix(cover, "data:") {
		mediaType, data, err := decodeDataURI(cover)
		if err != nil {
			return "", err
		}
		path := filepath.Join(c.cacheDir, c.coverFilename(bookID, cover, mediaType))
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return path, c.write(path, strings.NewReader(string(data)))
	}

	u, err := url.Parse(cover)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errors.Errorf("unsupported cover reference for book %s", bookID)
	}

	path := filepath.Join(c.cacheDir, c.coverFilename(bookID, cover, mime.TypeByExtension(filepath.Ext(u.Path))))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := c.fetchAndCache(ctx, cover, path); err != nil {
		return "", err
	}
	return path, nil
}

// InvalidateCover removes the cached cover for a book.
func (c *Cache) InvalidateCover(bookID string) error {
	matches, err := filepath.Glob(filepath.Join(c.cacheDir, filePrefix+idKey(bookID)+"_*"))
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := os.Remove(match); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Prune removes cached covers of books not in keep and returns how many
// files were removed.
func (c *Cache) Prune(keep []string) (int, error) {
	kept := make(map[string]bool, len(keep))
	for _, id := range keep {
		kept[idKey(id)] = true
	}

	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return 0, errors.Wrap(err, "read cache dir")
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		key, _, ok := strings.Cut(strings.TrimPrefix(name, filePrefix), "_")
		if !ok || kept[key] {
			continue
		}
		if err := os.Remove(filepath.Join(c.cacheDir, name)); err != nil && !os.IsNotExist(err) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// CacheDir returns the cache directory path.
func (c *Cache) CacheDir() string {
	return c.cacheDir
}

// coverFilename is unique per book and cover reference.
func (c *Cache) coverFilename(bookID, cover, mediaType string) string {
	hash := sha256.Sum256([]byte(cover))
	return fmt.Sprintf("%s%s_%x%s", filePrefix, idKey(bookID), hash[:8], extension(mediaType))
}

// idKey is the book id when it is filename-safe, otherwise a digest of it.
func idKey(bookID string) string {
	if safeID.MatchString(bookID) {
		return bookID
	}
	hash := sha256.Sum256([]byte(bookID))
	return fmt.Sprintf("%x", hash[:12])
}

func extension(mediaType string) string {
	mediaType, _, _ = mime.ParseMediaType(mediaType)
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ".jpg"
	}
}

// decodeDataURI decodes a base64 data URI into its media type and bytes.
func decodeDataURI(uri string) (string, []byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return "", nil, errors.New("cover data URI is not base64 encoded")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Wrap(err, "decode cover data URI")
	}
	return strings.TrimSuffix(meta, ";base64"), data, nil
}

// fetchAndCache downloads a cover image and saves it to the cache.
func (c *Cache) fetchAndCache(ctx context.Context, coverURL, cachePath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, coverURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Reader/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "fetch cover")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("failed to fetch cover: status %d", resp.StatusCode)
	}
	return c.write(cachePath, io.LimitReader(resp.Body, maxCoverSize))
}

// write stores r at path through a temp file and rename.
func (c *Cache) write(path string, r io.Reader) error {
	tmpFile, err := os.CreateTemp(c.cacheDir, "tmp_cover_")
	if err != nil {
		return err
	}
	tmpPath := tmpFile.Name()
	defer func() {
		tmpFile.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, r); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
