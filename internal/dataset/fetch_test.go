// Cinecluster - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecluster

package dataset

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog"
)

const sampleMovies = "movieId,title,genres\n1,A (2000),Drama\n2,B (2001),Drama\n3,C (2002),Comedy\n"

// sampleRatings gives A and B 20 ratings each and C only 5.
func sampleRatings() string {
	var b strings.Builder
	b.WriteString("userId,movieId,rating,timestamp\n")
	for u := 1; u <= 20; u++ {
		b.WriteString(strconv.Itoa(u) + ",1,4.0,0\n")
		b.WriteString(strconv.Itoa(u) + ",2,3.5,0\n")
		if u <= 5 {
			b.WriteString(strconv.Itoa(u) + ",3,5.0,0\n")
		}
	}
	return b.String()
}

func buildArchive(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close archive: %v", err)
	}
	return buf.Bytes()
}

func fetchConfig(dir string) Config {
	cfg := testConfig(1)
	cfg.ArchivePath = filepath.Join(dir, "ml-latest-small.zip")
	cfg.ExtractDir = dir
	return cfg
}

func TestFetch_ExtractsLocalArchive(t *testing.T) {
	dir := t.TempDir()
	cfg := fetchConfig(dir)
	archive := buildArchive(t, map[string]string{
		"ml-latest-small/movies.csv":  sampleMovies,
		"ml-latest-small/ratings.csv": sampleRatings(),
		"ml-latest-small/README.txt":  "readme",
	})
	if err := os.WriteFile(cfg.ArchivePath, archive, 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Fetch(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if want := filepath.Join(dir, "ml-latest-small"); got != want {
		t.Errorf("Fetch() dir = %q, want %q", got, want)
	}

	// Second call reuses the extracted files even if the archive is gone.
	if err := os.Remove(cfg.ArchivePath); err != nil {
		t.Fatal(err)
	}
	cfg.URL = ""
	if _, err := Fetch(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Errorf("Fetch() with extracted files error = %v", err)
	}
}

func TestFetch_NoArchiveNoURL(t *testing.T) {
	cfg := fetchConfig(t.TempDir())
	cfg.URL = ""
	if _, err := Fetch(context.Background(), cfg, zerolog.Nop()); !errors.Is(err, ErrArchiveMissing) {
		t.Errorf("Fetch() error = %v, want ErrArchiveMissing", err)
	}
}

func TestFetch_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	cfg := fetchConfig(filepath.Join(dir, "data"))
	if err := os.MkdirAll(cfg.ExtractDir, 0o750); err != nil {
		t.Fatal(err)
	}
	archive := buildArchive(t, map[string]string{"../evil.csv": "x"})
	if err := os.WriteFile(cfg.ArchivePath, archive, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Fetch(context.Background(), cfg, zerolog.Nop())
	if !errors.Is(err, ErrUnsafeArchivePath) {
		t.Fatalf("Fetch() error = %v, want ErrUnsafeArchivePath", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "evil.csv")); statErr == nil {
		t.Error("traversal entry was written outside the extraction dir")
	}
}

func TestFetch_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	cfg := fetchConfig(dir)
	archive := buildArchive(t, map[string]string{"ml-latest-small/movies.csv": sampleMovies})
	if err := os.WriteFile(cfg.ArchivePath, archive, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Fetch(context.Background(), cfg, zerolog.Nop()); !errors.Is(err, ErrMissingFile) {
		t.Errorf("Fetch() error = %v, want ErrMissingFile", err)
	}
}

func TestLoad_Download(t *testing.T) {
	archive := buildArchive(t, map[string]string{
		"ml-latest-small/movies.csv":  sampleMovies,
		"ml-latest-small/ratings.csv": sampleRatings(),
	})
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := fetchConfig(dir)
	cfg.URL = srv.URL + "/ml-latest-small.zip"
	cfg.HTTPClient = srv.Client()

	table, err := Load(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(table.Movies) != 2 {
		t.Fatalf("got %d movies, want 2 (C is below the rating threshold)", len(table.Movies))
	}
	if table.Movies[0].Title != "A (2000)" || table.Movies[1].Title != "B (2001)" {
		t.Errorf("movies = %+v", table.Movies)
	}
	if table.DroppedSparse != 1 {
		t.Errorf("DroppedSparse = %d, want 1", table.DroppedSparse)
	}

	// The archive is cached on disk after the first run.
	if _, err := Load(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("download hits = %d, want 1", hits.Load())
	}
}

func TestFetch_DownloadStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	cfg := fetchConfig(dir)
	cfg.URL = srv.URL
	cfg.HTTPClient = srv.Client()

	_, err := Fetch(context.Background(), cfg, zerolog.Nop())
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("Fetch() error = %v, want status 404", err)
	}
	if _, statErr := os.Stat(cfg.ArchivePath); statErr == nil {
		t.Error("failed download left an archive behind")
	}
}

func TestArchiveStem(t *testing.T) {
	if got := archiveStem("/data/ml-latest-small.zip"); got != "ml-latest-small" {
		t.Errorf("archiveStem() = %q", got)
	}
}
