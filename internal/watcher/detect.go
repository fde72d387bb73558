package watcher

import (
	"os"
	"path/filepath"

	"github.com/dbtools/db-archiver/internal/worker"
)

// detect enqueues an archive job if the working file changed since the
// last enqueued version and has stopped growing.
func (w *Watcher) detect() {
	w.mu.RLock()
	path := filepath.Join(w.dir, w.name)
	last := w.lastModTime
	w.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		// absent between runs is the normal resting state
		return
	}

	mod := info.ModTime()
	if !mod.After(last) {
		return
	}

	if !w.isStable(path) {
		w.log.Debug("watcher: %s still changing, waiting", path)
		return
	}

	w.mu.Lock()
	w.lastModTime = mod
	w.mu.Unlock()

	w.log.Info("watcher: detected %s", path)
	w.mb.Put(worker.Job{Reason: "watch", Detected: mod})
}
