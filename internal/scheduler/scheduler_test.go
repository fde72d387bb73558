package scheduler

import (
	"testing"

	"github.com/dbtools/db-archiver/internal/logging"
	"github.com/dbtools/db-archiver/internal/mailbox"
	"github.com/dbtools/db-archiver/internal/worker"
)

func TestNewValidatesSpec(t *testing.T) {
	mb := mailbox.New[worker.Job]()
	log := logging.New("error")

	if _, err := New("0 3 * * *", log, mb); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}
	if _, err := New("every day at 3", log, mb); err == nil {
		t.Error("invalid spec accepted")
	}
}
