// Package retention prunes old archives from the destination directory,
// keeping the newest N. A keep count of zero disables pruning: archives
// persist indefinitely, which is the default.
package retention

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dbtools/db-archiver/internal/archive"
	"github.com/dbtools/db-archiver/internal/logging"
)

type Engine struct {
	mu      sync.RWMutex
	srcName string
	contExt string
	keep    int
	log     logging.Logger
}

func New(srcName, contExt string, keep int, log logging.Logger) *Engine {
	return &Engine{
		srcName: srcName,
		contExt: contExt,
		keep:    keep,
		log:     log,
	}
}

// UpdateConfig hot-reloads the keep count.
func (e *Engine) UpdateConfig(keep int) {
	e.mu.Lock()
	e.keep = keep
	e.mu.Unlock()
}

type entry struct {
	path  string
	stamp time.Time
}

// Apply removes the oldest archives in dir beyond the keep count. Files
// that do not match the archive naming pattern are never touched.
func (e *Engine) Apply(ctx context.Context, dir string) error {
	e.mu.RLock()
	srcName := e.srcName
	contExt := e.contExt
	keep := e.keep
	e.mu.RUnlock()

	if keep <= 0 {
		return nil
	}

	entries, err := scanArchives(dir, srcName, contExt)
	if err != nil {
		return err
	}
	if len(entries) <= keep {
		return nil
	}

	// newest first
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].stamp.After(entries[j].stamp)
	})

	for _, old := range entries[keep:] {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.Remove(old.path); err != nil {
			e.log.Error("retention: removing %s: %v", old.path, err)
			continue
		}
		e.log.Info("retention: removed %s", old.path)
	}

	return nil
}

func scanArchives(dir, srcName, contExt string) ([]entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading destination directory: %w", err)
	}

	var entries []entry
	for _, ent := range dirEntries {
		if ent.IsDir() {
			continue
		}
		stamp, ok := archive.Stamp(srcName, ent.Name(), contExt)
		if !ok {
			continue
		}
		entries = append(entries, entry{
			path:  filepath.Join(dir, ent.Name()),
			stamp: stamp,
		})
	}

	return entries, nil
}
