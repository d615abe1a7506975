package services

import (
	"fmt"
	"os"
	"testing"

	"github.com/shirou/gopsutil/v3/process"

	"wakeguard/internal/models"
)

func stubProcessControl(t *testing.T, exists bool, killErr error) {
	t.Helper()
	origExists, origKill := processExists, killProcess
	processExists = func(pid int32) (bool, error) { return exists, nil }
	killProcess = func(pid int32) error { return killErr }
	t.Cleanup(func() {
		processExists = origExists
		killProcess = origKill
	})
}

func processEntry(pid int32) models.BlockerEntry {
	return models.BlockerEntry{
		SourceKind:  models.SourceProcess,
		PID:         pid,
		DisplayName: "vlc.exe",
		RequestKind: models.RequestSystem,
	}
}

func TestTerminateRejectsNonProcessEntries(t *testing.T) {
	stubProcessControl(t, true, nil)

	driver := models.BlockerEntry{SourceKind: models.SourceDriver, DisplayName: "SMB Network Share"}
	if got := Terminate(driver); got != models.ActionInvalidArgument {
		t.Errorf("Terminate(driver) = %q, want invalid_argument", got)
	}

	noPID := models.BlockerEntry{SourceKind: models.SourceProcess, DisplayName: "gone.exe"}
	if got := Terminate(noPID); got != models.ActionInvalidArgument {
		t.Errorf("Terminate(pid 0) = %q, want invalid_argument", got)
	}
}

func TestTerminateAlreadyExited(t *testing.T) {
	stubProcessControl(t, false, nil)

	if got := Terminate(processEntry(4242)); got != models.ActionNotFound {
		t.Errorf("Terminate() = %q, want not_found", got)
	}
}

func TestTerminateRaceToExit(t *testing.T) {
	// Existence check passes but the kill itself finds the process gone.
	stubProcessControl(t, true, process.ErrorProcessNotRunning)

	if got := Terminate(processEntry(4242)); got != models.ActionNotFound {
		t.Errorf("Terminate() = %q, want not_found", got)
	}
}

func TestTerminateAccessDenied(t *testing.T) {
	stubProcessControl(t, true, os.ErrPermission)
	if got := Terminate(processEntry(4242)); got != models.ActionAccessDenied {
		t.Errorf("Terminate() = %q, want access_denied", got)
	}

	stubProcessControl(t, true, fmt.Errorf("OpenProcess: Access is denied."))
	if got := Terminate(processEntry(4242)); got != models.ActionAccessDenied {
		t.Errorf("Terminate() with OS message = %q, want access_denied", got)
	}
}

func TestTerminateOtherFailure(t *testing.T) {
	stubProcessControl(t, true, fmt.Errorf("something unexpected"))

	if got := Terminate(processEntry(4242)); got != models.ActionOther {
		t.Errorf("Terminate() = %q, want other", got)
	}
}

func TestTerminateOK(t *testing.T) {
	stubProcessControl(t, true, nil)

	if got := Terminate(processEntry(4242)); got != models.ActionOK {
		t.Errorf("Terminate() = %q, want ok", got)
	}
}
