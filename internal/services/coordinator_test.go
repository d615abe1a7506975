package services

import (
	"testing"
	"time"

	"wakeguard/internal/models"
)

func freshCoordinator(t *testing.T) {
	t.Helper()
	orig := coordinator
	coordinator = &refreshCoordinator{state: coordinatorIdle, interval: time.Hour}
	t.Cleanup(func() {
		coordinator.wg.Wait()
		coordinator = orig
	})
}

func TestRequestRefreshIsSingleFlight(t *testing.T) {
	freshStore(t)
	freshCoordinator(t)

	release := make(chan struct{})
	stubPowercfgBlocking(t, release)

	published := make(chan *models.Snapshot, 4)
	OnPublish(func(s *models.Snapshot) { published <- s })

	if !RequestRefresh() {
		t.Fatal("first RequestRefresh() not started")
	}
	// The in-flight scan is blocked; anything arriving now must be dropped.
	for i := 0; i < 3; i++ {
		if RequestRefresh() {
			t.Fatal("RequestRefresh() started a second scan mid-flight")
		}
	}

	close(release)
	waitForSnapshot(t, published)

	// Back to idle eventually; a new request is accepted again.
	waitForAcceptedRefresh(t)
	waitForSnapshot(t, published)

	if len(published) != 0 {
		t.Errorf("extra publishes: %d", len(published))
	}
}

func TestScanNowPublishesDenialSnapshot(t *testing.T) {
	freshStore(t)
	stubPowercfg(t, "", "You must be an administrator to run this command.", errTestExit)

	snap := ScanNow()
	if !snap.PermissionDenied {
		t.Fatalf("snapshot not marked denied: %+v", snap)
	}
	if !snap.Scanned || len(snap.Entries) != 0 || snap.ScanError != "" {
		t.Errorf("denial snapshot shape wrong: %+v", snap)
	}
	if CurrentSnapshot() != snap {
		t.Error("ScanNow() did not publish its snapshot")
	}
}

func TestScanNowEncodesScanError(t *testing.T) {
	freshStore(t)
	stubPowercfg(t, "", "", errTestExit)

	snap := ScanNow()
	if snap.ScanError == "" {
		t.Fatalf("snapshot missing scan error: %+v", snap)
	}
	if snap.PermissionDenied || len(snap.Entries) != 0 {
		t.Errorf("failure snapshot shape wrong: %+v", snap)
	}
}

func TestStopWaitsForInFlightScan(t *testing.T) {
	freshStore(t)
	freshCoordinator(t)

	release := make(chan struct{})
	stubPowercfgBlocking(t, release)

	published := make(chan *models.Snapshot, 4)
	OnPublish(func(s *models.Snapshot) { published <- s })

	StartRefreshCoordinator()

	stopped := make(chan struct{})
	go func() {
		StopRefreshCoordinator()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("StopRefreshCoordinator() returned while a scan was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("StopRefreshCoordinator() did not return after scan finished")
	}

	// The in-flight scan still published before shutdown completed.
	waitForSnapshot(t, published)

	if RequestRefresh() {
		t.Error("RequestRefresh() accepted after shutdown")
	}
}

var errTestExit = &exitError{}

type exitError struct{}

func (*exitError) Error() string { return "exit status 1" }

func stubPowercfgBlocking(t *testing.T, release <-chan struct{}) {
	t.Helper()
	orig := runPowercfg
	runPowercfg = func() (string, string, error) {
		<-release
		return "SYSTEM:\nNone.\n", "", nil
	}
	t.Cleanup(func() { runPowercfg = orig })
}

func waitForSnapshot(t *testing.T, ch <-chan *models.Snapshot) *models.Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a published snapshot")
		return nil
	}
}

func waitForAcceptedRefresh(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if RequestRefresh() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("coordinator never returned to idle")
}
