package archiver

import "fmt"

// Each step of a run fails with its own error type so callers (and exit
// diagnostics) can tell which stage gave up. A run attempts each step at
// most once and stops at the first failure.

// DirCreateError means the destination directory could not be created.
type DirCreateError struct {
	Path string
	Err  error
}

func (e *DirCreateError) Error() string {
	return fmt.Sprintf("creating destination directory %s: %v", e.Path, e.Err)
}

func (e *DirCreateError) Unwrap() error { return e.Err }

// ArchiveCreateError means no valid archive was produced. The source
// file is left untouched.
type ArchiveCreateError struct {
	Source  string
	Archive string
	Err     error
}

func (e *ArchiveCreateError) Error() string {
	return fmt.Sprintf("archiving %s to %s: %v", e.Source, e.Archive, e.Err)
}

func (e *ArchiveCreateError) Unwrap() error { return e.Err }

// DeleteError means the archive was written but the source file could
// not be removed. Data is duplicated, not lost.
type DeleteError struct {
	Source  string
	Archive string
	Err     error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("removing %s (archive %s is intact): %v", e.Source, e.Archive, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }
