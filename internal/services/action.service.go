package services

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/shirou/gopsutil/v3/process"

	"wakeguard/internal/models"
)

// Seams for the blocking process calls, swappable in tests.
var (
	processExists = func(pid int32) (bool, error) {
		return process.PidExists(pid)
	}
	killProcess = func(pid int32) error {
		p, err := process.NewProcess(pid)
		if err != nil {
			return err
		}
		return p.Kill()
	}
)

// Terminate requests OS-level termination of a process-bound blocker
// entry. ActionOK means the request was accepted, not that the process
// has fully exited. Calling with a non-process entry is a contract
// violation and yields ActionInvalidArgument.
//
// Terminate never publishes a snapshot; callers should trigger a manual
// refresh after ActionOK or ActionNotFound so the snapshot converges.
func Terminate(entry models.BlockerEntry) models.ActionResult {
	if entry.SourceKind != models.SourceProcess || entry.PID <= 0 {
		return models.ActionInvalidArgument
	}

	if exists, err := processExists(entry.PID); err == nil && !exists {
		return models.ActionNotFound
	}

	if err := killProcess(entry.PID); err != nil {
		switch {
		case errors.Is(err, process.ErrorProcessNotRunning):
			return models.ActionNotFound
		case errors.Is(err, os.ErrPermission),
			strings.Contains(strings.ToLower(err.Error()), "access is denied"):
			log.Printf("Terminate pid %d denied: %v", entry.PID, err)
			return models.ActionAccessDenied
		default:
			log.Printf("Terminate pid %d failed: %v", entry.PID, err)
			return models.ActionOther
		}
	}

	log.Printf("Terminate pid %d (%s) requested", entry.PID, entry.DisplayName)
	return models.ActionOK
}
