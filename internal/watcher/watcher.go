// Package watcher monitors the working file and emits archive jobs when
// a new version appears.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dbtools/db-archiver/internal/config"
	"github.com/dbtools/db-archiver/internal/fsprobe"
	"github.com/dbtools/db-archiver/internal/logging"
	"github.com/dbtools/db-archiver/internal/mailbox"
	"github.com/dbtools/db-archiver/internal/worker"
)

// Watcher observes the working file and enqueues a job when it is
// created or updated and has stopped growing.
type Watcher struct {
	mu sync.RWMutex

	dir       string
	name      string
	interval  time.Duration
	mode      string
	debounce  time.Duration
	stability time.Duration

	log logging.Logger

	lastModTime time.Time

	mb *mailbox.Mailbox[worker.Job]
}

// New creates a watcher from the source configuration.
func New(cfg config.SourceConfig, log logging.Logger, mb *mailbox.Mailbox[worker.Job]) *Watcher {
	return &Watcher{
		dir:       cfg.Dir,
		name:      cfg.Name,
		interval:  cfg.Watch.PollInterval.Std(),
		mode:      cfg.Watch.Mode,
		debounce:  cfg.Watch.DebounceWindow.Std(),
		stability: cfg.Watch.StabilityWindow.Std(),
		log:       log,
		mb:        mb,
	}
}

// Start chooses the correct watching strategy based on config.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode := w.mode
	dir := w.dir
	w.mu.RUnlock()

	switch mode {
	case "fsnotify":
		return w.startFsNotify(ctx)

	case "poll":
		w.startPolling(ctx)
		return nil

	case "auto":
		res := fsprobe.Probe(dir)
		if res.Supported {
			return w.startFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled: %s", res.Reason)
		w.startPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown watch mode %q", mode)
	}
}
