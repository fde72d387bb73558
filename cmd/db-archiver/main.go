package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dbtools/db-archiver/internal/archive"
	"github.com/dbtools/db-archiver/internal/archiver"
	"github.com/dbtools/db-archiver/internal/config"
	"github.com/dbtools/db-archiver/internal/lock"
	"github.com/dbtools/db-archiver/internal/logging"
	"github.com/dbtools/db-archiver/internal/mailbox"
	"github.com/dbtools/db-archiver/internal/retention"
	"github.com/dbtools/db-archiver/internal/scheduler"
	"github.com/dbtools/db-archiver/internal/watcher"
	"github.com/dbtools/db-archiver/internal/worker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("shutting down...")
		cancel()
	}()

	// Load config; a missing file means the plain one-shot defaults
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Logger
	logg := logging.New(cfg.Logging.Level)

	// One archiver per working file: advisory lock beside the source
	lk := lock.New(filepath.Join(cfg.Source.Dir, cfg.Source.Name+".lock"))
	if err := lk.TryLock(); err != nil {
		log.Fatalf("failed to acquire lock: %v", err)
	}
	defer func() {
		_ = lk.Unlock()
	}()

	codec := archive.NewTarXZ()

	// Archive runner (the mkdir → stamp → compress → delete sequence)
	runner := archiver.New(cfg.Source, cfg.Destination, logg, nil, codec, nil)

	// Retention engine (prunes old archives; keep=0 disables)
	ret := retention.New(cfg.Source.Name, codec.Extension(), cfg.Destination.Retention.Keep, logg)

	if !cfg.Daemon() {
		runOnce(ctx, runner, ret, cfg, logg)
		return
	}
	runDaemon(ctx, runner, ret, cfg, logg)
}

// runOnce performs a single archive run and exits non-zero on any
// step failure.
func runOnce(ctx context.Context, runner *archiver.Runner, ret *retention.Engine, cfg *config.Config, logg logging.Logger) {
	res, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("archive run failed: %v", err)
	}
	logg.Info("archived %s (%d bytes)", res.ArchivePath, res.Size)

	if err := ret.Apply(ctx, cfg.Destination.Dir); err != nil {
		logg.Error("retention failed: %v", err)
	}
}

func runDaemon(ctx context.Context, runner *archiver.Runner, ret *retention.Engine, cfg *config.Config, logg logging.Logger) {
	// Mailbox for archive jobs
	mb := mailbox.New[worker.Job]()

	// Worker (archive runs + retention)
	w := worker.New(cfg.Destination, runner, ret, mb, logg)
	go w.Start(ctx)

	// Watcher (detects new working files and pushes into mailbox)
	var watch *watcher.Watcher
	if cfg.Source.Watch.Enabled {
		watch = watcher.New(cfg.Source, logg, mb)
		go func() {
			if err := watch.Start(ctx); err != nil {
				log.Fatalf("failed to start watcher: %v", err)
			}
		}()
	}

	// Scheduler (cron-driven archive runs)
	if cfg.Schedule != "" {
		sched, err := scheduler.New(cfg.Schedule, logg, mb)
		if err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		go sched.Start(ctx)
	}

	// Hot reload on SIGHUP
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP)

		for range sigCh {
			newCfg, err := config.Load("config.yaml")
			if err != nil {
				logg.Error("config reload failed: %v", err)
				continue
			}

			// Apply updates
			runner.UpdateConfig(newCfg.Source, newCfg.Destination)
			w.UpdateConfig(newCfg.Destination)
			if watch != nil {
				watch.UpdateConfig(newCfg.Source)
			}

			logg.Info("config reloaded")
		}
	}()

	<-ctx.Done()
	log.Println("exit complete")
}
