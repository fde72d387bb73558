package watcher

import (
	"time"

	"github.com/dbtools/db-archiver/internal/config"
)

// UpdateConfig updates watcher fields atomically for hot-reload.
func (w *Watcher) UpdateConfig(cfg config.SourceConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	sourceChanged := cfg.Dir != w.dir || cfg.Name != w.name

	w.dir = cfg.Dir
	w.name = cfg.Name
	w.interval = cfg.Watch.PollInterval.Std()
	w.mode = cfg.Watch.Mode
	w.debounce = cfg.Watch.DebounceWindow.Std()
	w.stability = cfg.Watch.StabilityWindow.Std()

	if sourceChanged {
		w.lastModTime = time.Time{}
	}
}
