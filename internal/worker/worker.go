// Package worker drives archive runs in daemon mode: it takes trigger
// jobs from the mailbox, runs the archiver and applies retention.
package worker

import (
	"context"
	"sync"

	"github.com/dbtools/db-archiver/internal/archiver"
	"github.com/dbtools/db-archiver/internal/config"
	"github.com/dbtools/db-archiver/internal/logging"
	"github.com/dbtools/db-archiver/internal/mailbox"
	"github.com/dbtools/db-archiver/internal/retention"
)

type Worker struct {
	mu      sync.RWMutex
	destDir string

	runner    *archiver.Runner
	retention *retention.Engine
	mb        *mailbox.Mailbox[Job]
	log       logging.Logger
}

func New(dest config.DestinationConfig, runner *archiver.Runner, ret *retention.Engine, mb *mailbox.Mailbox[Job], log logging.Logger) *Worker {
	return &Worker{
		destDir:   dest.Dir,
		runner:    runner,
		retention: ret,
		mb:        mb,
		log:       log,
	}
}

// Start runs the worker loop until ctx is done.
func (w *Worker) Start(ctx context.Context) {
	w.log.Info("starting worker")
	for {
		job, ok := w.mb.Take(ctx)
		if !ok {
			return
		}
		w.handle(ctx, job)
	}
}

func (w *Worker) handle(ctx context.Context, job Job) {
	w.log.Debug("worker: job received (%s)", job.Reason)

	res, err := w.runner.Run(ctx)
	if err != nil {
		// A failed run leaves the source (if any) for the next trigger.
		w.log.Error("worker: archive run failed: %v", err)
		return
	}
	w.log.Info("archived %s (%d bytes)", res.ArchivePath, res.Size)

	w.mu.RLock()
	dir := w.destDir
	w.mu.RUnlock()

	if err := w.retention.Apply(ctx, dir); err != nil {
		w.log.Error("worker: retention failed: %v", err)
	}
}

// UpdateConfig hot-reloads destination settings.
func (w *Worker) UpdateConfig(dest config.DestinationConfig) {
	w.mu.Lock()
	w.destDir = dest.Dir
	w.mu.Unlock()

	w.retention.UpdateConfig(dest.Retention.Keep)
}
