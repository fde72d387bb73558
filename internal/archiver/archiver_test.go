package archiver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/dbtools/db-archiver/internal/archive"
	"github.com/dbtools/db-archiver/internal/clock"
	"github.com/dbtools/db-archiver/internal/config"
	"github.com/dbtools/db-archiver/internal/fs"
	"github.com/dbtools/db-archiver/internal/logging"
)

var archiveNamePattern = regexp.MustCompile(`^archive-\d{8}T\d{6}Z\.db\.xz$`)

func testRunner(t *testing.T, srcDir, destDir string, at time.Time) *Runner {
	t.Helper()
	src := config.SourceConfig{Dir: srcDir, Name: "archive.db"}
	dest := config.DestinationConfig{Dir: destDir}
	return New(src, dest, logging.New("error"), nil, nil, clock.Fixed{T: at})
}

func writeSource(t *testing.T, dir string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, "archive.db")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunArchivesAndDeletesSource(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(srcDir, "archive") // absent before the run

	content := []byte("hello")
	srcPath := writeSource(t, srcDir, content)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	res, err := testRunner(t, srcDir, destDir, at).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		t.Fatalf("destination directory missing: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("want exactly one archive, got %d entries", len(entries))
	}
	name := entries[0].Name()
	if !archiveNamePattern.MatchString(name) {
		t.Errorf("archive name %q does not match pattern", name)
	}
	if name != "archive-20240102T030405Z.db.xz" {
		t.Errorf("archive name = %q, want stamp from injected clock", name)
	}

	if res.ArchivePath != filepath.Join(destDir, name) {
		t.Errorf("result path = %q", res.ArchivePath)
	}
	if res.Size == 0 {
		t.Error("result size is zero")
	}
	if !res.Timestamp.Equal(at) {
		t.Errorf("result timestamp = %v, want %v", res.Timestamp, at)
	}

	if _, err := os.Stat(srcPath); !os.IsNotExist(err) {
		t.Errorf("source file still present, stat err = %v", err)
	}

	outDir := t.TempDir()
	if err := archive.Extract(res.ArchivePath, outDir); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(outDir, "archive.db"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("extracted content = %q, want %q", got, content)
	}
}

func TestRunMissingSource(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(srcDir, "archive")

	_, err := testRunner(t, srcDir, destDir, time.Now()).Run(context.Background())

	var ace *ArchiveCreateError
	if !errors.As(err, &ace) {
		t.Fatalf("err = %v, want ArchiveCreateError", err)
	}

	entries, readErr := os.ReadDir(destDir)
	if readErr == nil && len(entries) != 0 {
		t.Errorf("destination has %d entries, want none", len(entries))
	}
}

func TestRunKeepsExistingArchives(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(srcDir, "archive")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatal(err)
	}

	prior := filepath.Join(destDir, "archive-20230101T000000Z.db.xz")
	priorContent := []byte("older archive")
	if err := os.WriteFile(prior, priorContent, 0o644); err != nil {
		t.Fatal(err)
	}

	writeSource(t, srcDir, []byte("newer"))

	at := time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)
	if _, err := testRunner(t, srcDir, destDir, at).Run(context.Background()); err != nil {
		t.Fatalf("Run with existing destination dir: %v", err)
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("want two archives, got %d", len(entries))
	}

	got, err := os.ReadFile(prior)
	if err != nil {
		t.Fatalf("prior archive disturbed: %v", err)
	}
	if !bytes.Equal(got, priorContent) {
		t.Error("prior archive content changed")
	}
}

func TestRunRefusesNameCollision(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(srcDir, "archive")
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		t.Fatal(err)
	}

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	colliding := filepath.Join(destDir, "archive-20240102T030405Z.db.xz")
	if err := os.WriteFile(colliding, []byte("earlier run"), 0o644); err != nil {
		t.Fatal(err)
	}

	srcPath := writeSource(t, srcDir, []byte("data"))

	_, err := testRunner(t, srcDir, destDir, at).Run(context.Background())
	var ace *ArchiveCreateError
	if !errors.As(err, &ace) {
		t.Fatalf("err = %v, want ArchiveCreateError", err)
	}

	if got, readErr := os.ReadFile(colliding); readErr != nil || !bytes.Equal(got, []byte("earlier run")) {
		t.Errorf("colliding archive overwritten: %q, %v", got, readErr)
	}
	if _, statErr := os.Stat(srcPath); statErr != nil {
		t.Errorf("source must survive a refused run: %v", statErr)
	}
}

type failingCodec struct{}

func (failingCodec) Create(ctx context.Context, src, dst string) error {
	return errors.New("compressor exploded")
}

func (failingCodec) Extension() string { return ".xz" }

func TestRunArchiveFailureKeepsSource(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(srcDir, "archive")
	srcPath := writeSource(t, srcDir, []byte("precious"))

	src := config.SourceConfig{Dir: srcDir, Name: "archive.db"}
	dest := config.DestinationConfig{Dir: destDir}
	r := New(src, dest, logging.New("error"), nil, failingCodec{}, clock.Fixed{T: time.Now()})

	_, err := r.Run(context.Background())
	var ace *ArchiveCreateError
	if !errors.As(err, &ace) {
		t.Fatalf("err = %v, want ArchiveCreateError", err)
	}

	got, readErr := os.ReadFile(srcPath)
	if readErr != nil {
		t.Fatalf("source lost after failed archive step: %v", readErr)
	}
	if !bytes.Equal(got, []byte("precious")) {
		t.Error("source content changed")
	}
}

type emptyCodec struct{}

func (emptyCodec) Create(ctx context.Context, src, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	return f.Close()
}

func (emptyCodec) Extension() string { return ".xz" }

func TestRunRejectsEmptyArchive(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(srcDir, "archive")
	srcPath := writeSource(t, srcDir, []byte("data"))

	src := config.SourceConfig{Dir: srcDir, Name: "archive.db"}
	dest := config.DestinationConfig{Dir: destDir}
	r := New(src, dest, logging.New("error"), nil, emptyCodec{}, clock.Fixed{T: time.Now()})

	_, err := r.Run(context.Background())
	var ace *ArchiveCreateError
	if !errors.As(err, &ace) {
		t.Fatalf("err = %v, want ArchiveCreateError", err)
	}

	entries, readErr := os.ReadDir(destDir)
	if readErr != nil {
		t.Fatal(readErr)
	}
	if len(entries) != 0 {
		t.Errorf("empty archive left behind: %v", entries)
	}
	if _, statErr := os.Stat(srcPath); statErr != nil {
		t.Errorf("source must survive a rejected archive: %v", statErr)
	}
}

type failRemoveFS struct {
	fs.FS
	denied string
}

func (f *failRemoveFS) Remove(path string) error {
	if path == f.denied {
		return errors.New("permission denied")
	}
	return f.FS.Remove(path)
}

func TestRunDeleteFailure(t *testing.T) {
	srcDir := t.TempDir()
	destDir := filepath.Join(srcDir, "archive")
	srcPath := writeSource(t, srcDir, []byte("data"))

	src := config.SourceConfig{Dir: srcDir, Name: "archive.db"}
	dest := config.DestinationConfig{Dir: destDir}
	filesystem := &failRemoveFS{FS: fs.New(), denied: srcPath}
	r := New(src, dest, logging.New("error"), filesystem, nil, clock.Fixed{T: time.Now()})

	_, err := r.Run(context.Background())
	var de *DeleteError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want DeleteError", err)
	}

	// the safer failure mode: both files present
	if _, statErr := os.Stat(srcPath); statErr != nil {
		t.Errorf("source missing: %v", statErr)
	}
	if _, statErr := os.Stat(de.Archive); statErr != nil {
		t.Errorf("archive missing: %v", statErr)
	}
}
