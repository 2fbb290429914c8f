// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// imageExtensions are the file extensions checked for a stored poster, in order.
var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp"}

// maxImageSize bounds a downloaded poster.
const maxImageSize = 10 << 20

// ErrEmptyName is returned when a title sanitizes to an empty file name.
var ErrEmptyName = errors.New("title has no usable file name characters")

// Store is the on-disk poster directory. Files are named by SanitizeFilename.
type Store struct {
	dir    string
	prefix string
	client *http.Client
}

// NewStore creates a store rooted at dir whose files are served under prefix.
func NewStore(dir, prefix string, client *http.Client) *Store {
	if client == nil {
		client = http.DefaultClient
	}
	return &Store{dir: dir, prefix: prefix, client: client}
}

// Dir returns the poster directory.
func (s *Store) Dir() string {
	return s.dir
}

// Find returns the static URL of a stored poster for title. A missing file is
// not an error: ok is false and err nil.
func (s *Store) Find(title string) (staticURL string, ok bool, err error) {
	name := SanitizeFilename(title)
	if name == "" {
		return "", false, nil
	}
	for _, ext := range imageExtensions {
		info, statErr := os.Stat(filepath.Join(s.dir, name+ext))
		if statErr == nil {
			if info.Mode().IsRegular() {
				return s.prefix + name + ext, true, nil
			}
			continue
		}
		if !errors.Is(statErr, fs.ErrNotExist) {
			return "", false, fmt.Errorf("stat poster: %w", statErr)
		}
	}
	return "", false, nil
}

// Download fetches imageURL into the poster directory and returns its static URL.
func (s *Store) Download(ctx context.Context, title, imageURL string) (string, error) {
	name := SanitizeFilename(title)
	if name == "" {
		return "", ErrEmptyName
	}
	ext := imageExtension(imageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download poster: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("poster download returned status %d", resp.StatusCode)
	}

	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return "", fmt.Errorf("create poster dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".poster-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxImageSize)); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write poster: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close poster: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name+ext)); err != nil {
		return "", fmt.Errorf("move poster into place: %w", err)
	}
	return s.prefix + name + ext, nil
}

// imageExtension picks a known extension from the URL path, defaulting to .jpg.
func imageExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(u.Path))
	for _, known := range imageExtensions {
		if ext == known {
			return ext
		}
	}
	return ".jpg"
}
