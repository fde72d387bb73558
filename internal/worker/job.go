package worker

import "time"

// Job asks the worker to run one archive sequence. Trigger details are
// only for logging; the worker always archives the configured source.
type Job struct {
	Reason   string // "watch", "schedule"
	Detected time.Time
}
