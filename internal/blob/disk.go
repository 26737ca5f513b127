// Package blob stores uploaded files and hands back public URLs.
package blob

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// DiskStore writes blobs under a single directory that is served statically
// at /uploads/.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("internal/blob: create upload dir: %w", err)
	}

	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Store writes data to disk under a timestamp-prefixed name and returns the
// URL it will be served from. Names are flattened to their base component so
// callers cannot escape the upload directory.
func (s *DiskStore) Store(data []byte, originalName string) (string, error) {
	name := filepath.Base(strings.TrimSpace(originalName))
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload"
	}

	if filepath.Ext(name) == "" {
		name += mimetype.Detect(data).Extension()
	}

	filename := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), name)
	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("internal/blob: write file: %w", err)
	}

	return s.baseURL + "/uploads/" + url.PathEscape(filename), nil
}

// Dir returns the directory blobs are written to, for static serving.
func (s *DiskStore) Dir() string {
	return s.dir
}
