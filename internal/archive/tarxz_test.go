package archive

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTarXZRoundTrip(t *testing.T) {
	dir := t.TempDir()
	content := []byte("hello")

	src := filepath.Join(dir, "archive.db")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "archive-20240102T030405Z.db.xz")
	codec := NewTarXZ()
	if err := codec.Create(context.Background(), src, dst); err != nil {
		t.Fatalf("Create: %v", err)
	}

	st, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("archive missing: %v", err)
	}
	if st.Size() == 0 {
		t.Fatal("archive is empty")
	}

	// no stray temp file
	if _, err := os.Stat(filepath.Join(dir, ".tmp-archive-20240102T030405Z.db.xz")); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	outDir := t.TempDir()
	if err := Extract(dst, outDir); err != nil {
		t.Fatalf("Extract: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(outDir, "archive.db"))
	if err != nil {
		t.Fatalf("extracted file under original name missing: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("extracted content = %q, want %q", got, content)
	}
}

func TestTarXZCreateMissingSource(t *testing.T) {
	dir := t.TempDir()
	codec := NewTarXZ()

	dst := filepath.Join(dir, "out.db.xz")
	if err := codec.Create(context.Background(), filepath.Join(dir, "absent.db"), dst); err == nil {
		t.Fatal("expected error for missing source")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("destination should not exist after failure, stat err = %v", err)
	}
}

func TestName(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	if got := Name("archive.db", ts, ".xz"); got != "archive-20240102T030405Z.db.xz" {
		t.Errorf("Name = %q", got)
	}

	// local times are rendered in UTC
	loc := time.FixedZone("plus2", 2*60*60)
	if got := Name("archive.db", ts.In(loc), ".xz"); got != "archive-20240102T030405Z.db.xz" {
		t.Errorf("Name with zoned input = %q", got)
	}
}

func TestStamp(t *testing.T) {
	tests := []struct {
		fileName string
		ok       bool
	}{
		{"archive-20240102T030405Z.db.xz", true},
		{"archive-20240102T030405Z.db", false},
		{"other-20240102T030405Z.db.xz", false},
		{"archive-2024.db.xz", false},
		{"archive.db", false},
	}

	for _, tc := range tests {
		ts, ok := Stamp("archive.db", tc.fileName, ".xz")
		if ok != tc.ok {
			t.Errorf("Stamp(%q) ok = %v, want %v", tc.fileName, ok, tc.ok)
			continue
		}
		if ok && !ts.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)) {
			t.Errorf("Stamp(%q) = %v", tc.fileName, ts)
		}
	}
}
