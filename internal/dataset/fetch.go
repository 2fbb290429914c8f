// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
)

// maxEntrySize bounds a single extracted file.
const maxEntrySize = 1 << 30

// maxErrorBody bounds how much of a failed response body is kept for the error.
const maxErrorBody = 64 * 1024

// Fetch makes sure the archive is on disk and extracted, and returns the
// directory holding movies.csv and ratings.csv. Both the archive and the
// extracted files are reused across restarts; extracted files win.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Fetch(ctx context.Context, cfg Config, logger zerolog.Logger) (string, error) {
	dataDir := filepath.Join(cfg.ExtractDir, archiveStem(cfg.ArchivePath))
	if hasDataFiles(dataDir) {
		logger.Debug().Str("dir", dataDir).Msg("using previously extracted dataset")
		return dataDir, nil
	}

	if _, err := os.Stat(cfg.ArchivePath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("stat archive: %w", err)
		}
		if cfg.URL == "" {
			return "", fmt.Errorf("%w: %s", ErrArchiveMissing, cfg.ArchivePath)
		}

		logger.Info().Str("url", cfg.URL).Str("path", cfg.ArchivePath).Msg("downloading dataset archive")
		if err := download(ctx, cfg, cfg.ArchivePath); err != nil {
			return "", err
		}
	}

	logger.Info().Str("archive", cfg.ArchivePath).Str("dest", cfg.ExtractDir).Msg("extracting dataset archive")
	dir, err := extract(cfg.ArchivePath, cfg.ExtractDir)
	if err != nil {
		return "", fmt.Errorf("extract archive: %w", err)
	}
	if dir == "" {
		dir = dataDir
	}
	if !hasDataFiles(dir) {
		return "", fmt.Errorf("%w: %s and %s not found in archive", ErrMissingFile, MoviesFile, RatingsFile)
	}
	return dir, nil
}

// download streams url into path via a temp file in the same directory and
// renames it into place once complete.
func download(ctx context.Context, cfg Config, path string) error {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	if cfg.DownloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DownloadTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.URL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("download failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op after a successful rename
	}()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("move archive into place: %w", err)
	}
	return nil
}

// extract unpacks the archive into dest and returns the directory that
// contained movies.csv, or "" when the archive had none.
func extract(archivePath, dest string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("open archive: %w", err)
	}
	defer zr.Close()

	cleanDest := filepath.Clean(dest)
	moviesDir := ""

	for _, f := range zr.File {
		target := filepath.Join(cleanDest, f.Name) //nolint:gosec // checked below
		rel, err := filepath.Rel(cleanDest, target)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
			return "", fmt.Errorf("%w: %s", ErrUnsafeArchivePath, f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o750); err != nil {
				return "", fmt.Errorf("create dir %s: %w", f.Name, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return "", err
		}
		if filepath.Base(target) == MoviesFile && moviesDir == "" {
			moviesDir = filepath.Dir(target)
		}
	}

	return moviesDir, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("create dir for %s: %w", f.Name, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640) //nolint:gosec // target validated by caller
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, io.LimitReader(src, maxEntrySize)); err != nil {
		_ = dst.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	return dst.Close()
}

// archiveStem returns the archive file name without its extension.
func archiveStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func hasDataFiles(dir string) bool {
	for _, name := range []string{MoviesFile, RatingsFile} {
		if info, err := os.Stat(filepath.Join(dir, name)); err != nil || info.IsDir() {
			return false
		}
	}
	return true
}
