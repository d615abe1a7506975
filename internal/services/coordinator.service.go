package services

import (
	"errors"
	"log"
	"sync"
	"time"

	"wakeguard/internal/models"
)

// Coordinator states. A tick or manual refresh only starts a scan from
// coordinatorIdle; anything arriving during coordinatorScanning is
// dropped, which is what keeps at most one scan in flight.
const (
	coordinatorIdle = iota
	coordinatorScanning
	coordinatorShuttingDown
)

// refreshCoordinator owns the scan lifecycle: periodic ticks, manual
// refresh requests, single-flight enforcement and shutdown.
type refreshCoordinator struct {
	mu       sync.Mutex
	state    int
	interval time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	started  bool
}

var coordinator = &refreshCoordinator{
	state:    coordinatorIdle,
	interval: 10 * time.Second,
}

// ConfigureRefreshInterval sets the automatic rescan cadence. Call
// before StartRefreshCoordinator; intervals below one second are clamped.
func ConfigureRefreshInterval(seconds int) {
	if seconds < 1 {
		seconds = 1
	}
	coordinator.mu.Lock()
	coordinator.interval = time.Duration(seconds) * time.Second
	coordinator.mu.Unlock()
}

// StartRefreshCoordinator begins periodic scanning. One scan is fired
// immediately so the first snapshot does not wait a full tick.
func StartRefreshCoordinator() {
	coordinator.mu.Lock()
	if coordinator.started {
		coordinator.mu.Unlock()
		return
	}
	coordinator.started = true
	coordinator.state = coordinatorIdle
	coordinator.done = make(chan struct{})
	interval := coordinator.interval
	done := coordinator.done
	coordinator.mu.Unlock()

	RequestRefresh()

	coordinator.wg.Add(1)
	go func() {
		defer coordinator.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				RequestRefresh()
			case <-done:
				return
			}
		}
	}()

	log.Printf("Refresh coordinator started (interval: %v)", interval)
}

// RequestRefresh starts a scan unless one is already in flight or the
// coordinator is shutting down. Returns true when a scan was started.
// A request arriving mid-scan is dropped, never queued; callers wanting
// a fresh result must re-request after the in-flight scan completes.
func RequestRefresh() bool {
	coordinator.mu.Lock()
	if coordinator.state != coordinatorIdle {
		coordinator.mu.Unlock()
		return false
	}
	coordinator.state = coordinatorScanning
	coordinator.mu.Unlock()

	coordinator.wg.Add(1)
	go func() {
		defer coordinator.wg.Done()

		snap := collectSnapshot()
		PublishSnapshot(snap)
		logScanOutcome(snap)

		coordinator.mu.Lock()
		if coordinator.state == coordinatorScanning {
			coordinator.state = coordinatorIdle
		}
		coordinator.mu.Unlock()
	}()
	return true
}

// StopRefreshCoordinator stops scheduling further scans and waits for an
// in-flight scan to finish; the OS query is not preemptible mid-call.
func StopRefreshCoordinator() {
	coordinator.mu.Lock()
	if !coordinator.started {
		coordinator.mu.Unlock()
		return
	}
	coordinator.started = false
	coordinator.state = coordinatorShuttingDown
	close(coordinator.done)
	coordinator.mu.Unlock()

	coordinator.wg.Wait()
	log.Println("Refresh coordinator stopped")
}

// ScanNow runs one synchronous scan cycle and publishes the result. The
// one-shot CLI commands use this; the daemon path goes through
// RequestRefresh so it stays off the interactive context.
func ScanNow() *models.Snapshot {
	snap := collectSnapshot()
	PublishSnapshot(snap)
	return snap
}

// collectSnapshot runs scan and classification and builds the resulting
// snapshot. Scan failures are encoded in the snapshot, never returned;
// the coordinator itself does not fail.
func collectSnapshot() *models.Snapshot {
	snap := &models.Snapshot{
		Timestamp: time.Now(),
		Entries:   []models.BlockerEntry{},
		Scanned:   true,
	}

	raw, err := Scan()
	switch {
	case err == nil:
		snap.Entries = Classify(raw)
	case errors.Is(err, ErrPermissionDenied):
		snap.PermissionDenied = true
	default:
		snap.ScanError = err.Error()
	}
	return snap
}

func logScanOutcome(snap *models.Snapshot) {
	switch {
	case snap.PermissionDenied:
		log.Println("Scan denied: not elevated")
	case snap.ScanError != "":
		log.Printf("Scan failed: %s", snap.ScanError)
	default:
		log.Printf("Scan complete: %d blocker(s)", len(snap.Entries))
	}
}
