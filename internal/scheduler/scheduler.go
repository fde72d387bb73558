// Package scheduler triggers archive runs on a cron expression, for
// deployments that rotate the database on a timetable instead of (or in
// addition to) watching for it.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dbtools/db-archiver/internal/logging"
	"github.com/dbtools/db-archiver/internal/mailbox"
	"github.com/dbtools/db-archiver/internal/worker"
)

type Scheduler struct {
	c   *cron.Cron
	log logging.Logger
}

// New validates spec (standard 5-field cron) and prepares a scheduler
// that puts a job into mb on every tick.
func New(spec string, log logging.Logger, mb *mailbox.Mailbox[worker.Job]) (*Scheduler, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		log.Debug("scheduler: tick")
		mb.Put(worker.Job{Reason: "schedule", Detected: time.Now()})
	})
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return &Scheduler{c: c, log: log}, nil
}

// Start runs the cron loop until ctx is done, then waits for any
// in-flight tick to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("starting scheduler")
	s.c.Start()
	<-ctx.Done()
	<-s.c.Stop().Done()
}
