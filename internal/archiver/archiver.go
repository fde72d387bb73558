// Package archiver runs the archive sequence: ensure the destination
// directory, stamp the archive name, compress the working file into it,
// then delete the working file. The source is only ever removed after a
// complete, non-empty archive exists, so a failed run can duplicate data
// but never lose it.
package archiver

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/dbtools/db-archiver/internal/archive"
	"github.com/dbtools/db-archiver/internal/clock"
	"github.com/dbtools/db-archiver/internal/config"
	"github.com/dbtools/db-archiver/internal/fs"
	"github.com/dbtools/db-archiver/internal/logging"
)

// Result describes a completed run.
type Result struct {
	Source      string
	ArchivePath string
	Timestamp   time.Time
	Size        int64
}

// Runner executes archive runs against a source and destination that may
// be hot-reloaded between runs.
type Runner struct {
	mu   sync.RWMutex
	src  config.SourceConfig
	dest config.DestinationConfig

	fs    fs.FS
	codec archive.Archiver
	clock clock.Clock
	log   logging.Logger
}

// New creates a runner. Nil filesystem, codec or clk select the OS
// filesystem, the tar+xz codec and the system clock.
func New(src config.SourceConfig, dest config.DestinationConfig, log logging.Logger, filesystem fs.FS, codec archive.Archiver, clk clock.Clock) *Runner {
	if filesystem == nil {
		filesystem = fs.New()
	}
	if codec == nil {
		codec = archive.NewTarXZ()
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Runner{
		src:   src,
		dest:  dest,
		fs:    filesystem,
		codec: codec,
		clock: clk,
		log:   log,
	}
}

// UpdateConfig hot-reloads source and destination settings.
func (r *Runner) UpdateConfig(src config.SourceConfig, dest config.DestinationConfig) {
	r.mu.Lock()
	r.src = src
	r.dest = dest
	r.mu.Unlock()
}

// Run performs one archive sequence. On failure the filesystem is left
// in whatever state the failed step produced: an archiving failure
// leaves the source untouched, a deletion failure leaves both files.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	r.mu.RLock()
	src := r.src
	dest := r.dest
	r.mu.RUnlock()

	srcPath := filepath.Join(src.Dir, src.Name)

	if err := r.fs.MkdirAll(dest.Dir); err != nil {
		return Result{}, &DirCreateError{Path: dest.Dir, Err: err}
	}

	ts := r.clock.Now().UTC()
	dstPath := filepath.Join(dest.Dir, archive.Name(src.Name, ts, r.codec.Extension()))
	r.log.Debug("archiving %s to %s", srcPath, dstPath)

	// Refuse to overwrite: two runs within the same second would
	// otherwise silently clobber an earlier archive.
	if _, err := r.fs.Stat(dstPath); err == nil {
		return Result{}, &ArchiveCreateError{Source: srcPath, Archive: dstPath, Err: errors.New("archive name already exists")}
	}

	before, err := r.fs.Stat(srcPath)
	if err != nil {
		return Result{}, &ArchiveCreateError{Source: srcPath, Archive: dstPath, Err: err}
	}

	if err := r.codec.Create(ctx, srcPath, dstPath); err != nil {
		return Result{}, &ArchiveCreateError{Source: srcPath, Archive: dstPath, Err: err}
	}

	// If the source moved underneath the compressor the archive may hold
	// a torn read. Discard it and keep the source.
	after, err := r.fs.Stat(srcPath)
	if err != nil || before.Changed(after) {
		_ = r.fs.Remove(dstPath)
		return Result{}, &ArchiveCreateError{Source: srcPath, Archive: dstPath, Err: errors.New("source changed during archiving")}
	}

	st, err := r.fs.Stat(dstPath)
	if err != nil {
		return Result{}, &ArchiveCreateError{Source: srcPath, Archive: dstPath, Err: err}
	}
	if st.Size == 0 {
		_ = r.fs.Remove(dstPath)
		return Result{}, &ArchiveCreateError{Source: srcPath, Archive: dstPath, Err: errors.New("archive is empty")}
	}

	if err := r.fs.Remove(srcPath); err != nil {
		return Result{}, &DeleteError{Source: srcPath, Archive: dstPath, Err: err}
	}

	return Result{
		Source:      srcPath,
		ArchivePath: dstPath,
		Timestamp:   ts,
		Size:        st.Size,
	}, nil
}
