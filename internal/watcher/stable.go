package watcher

import (
	"os"
	"time"
)

// isStable reports whether the file at path kept its size across the
// stability window. The producer writes the database in one pass, so a
// constant size means the write finished.
func (w *Watcher) isStable(path string) bool {
	w.mu.RLock()
	window := w.stability
	w.mu.RUnlock()

	if window <= 0 {
		return true
	}

	info1, err := os.Stat(path)
	if err != nil {
		return false
	}

	time.Sleep(window)

	info2, err := os.Stat(path)
	if err != nil {
		return false
	}

	return info1.Size() == info2.Size()
}
