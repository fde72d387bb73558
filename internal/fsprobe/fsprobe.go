// Package fsprobe checks whether fsnotify works reliably for a
// directory (network mounts often swallow events). It performs a real
// create+rename test and watches for the events to arrive.
package fsprobe

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Result reports whether fsnotify is usable and why not.
type Result struct {
	Supported bool
	Reason    string
}

const probeTimeout = 200 * time.Millisecond

// Probe tests whether fsnotify reliably reports file events in dir.
func Probe(dir string) Result {
	st, err := os.Stat(dir)
	if err != nil {
		return Result{false, fmt.Sprintf("stat failed: %v", err)}
	}
	if !st.IsDir() {
		return Result{false, "not a directory"}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return Result{false, fmt.Sprintf("fsnotify unavailable: %v", err)}
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return Result{false, fmt.Sprintf("cannot watch directory: %v", err)}
	}

	final, err := stir(dir)
	if err != nil {
		return Result{false, err.Error()}
	}
	defer os.Remove(final)

	timeout := time.After(probeTimeout)
	for {
		select {
		case ev := <-w.Events:
			if ev.Op&(fsnotify.Rename|fsnotify.Create|fsnotify.Write) != 0 {
				return Result{true, ""}
			}
		case <-timeout:
			return Result{false, "no events received"}
		}
	}
}

// stir creates and renames a hidden file in dir to provoke events,
// returning the path left behind for the caller to clean up.
func stir(dir string) (string, error) {
	tmp := filepath.Join(dir, ".fsprobe_tmp")
	final := filepath.Join(dir, ".fsprobe_final")

	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("cannot create probe file: %v", err)
	}
	f.Close()

	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("probe rename failed: %v", err)
	}
	return final, nil
}
