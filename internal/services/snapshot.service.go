package services

import (
	"sync"

	"wakeguard/internal/models"
)

// snapshotStore holds the single current snapshot. The value behind the
// pointer is immutable; a publish swaps the pointer, so readers either
// see the old snapshot or the new one, never a mix of two scans.
type snapshotStore struct {
	mu            sync.RWMutex
	current       *models.Snapshot
	lastGoodCount int
	listener      func(*models.Snapshot)
}

var store = newSnapshotStore()

// newSnapshotStore returns a store primed with the pre-scan sentinel:
// Scanned=false, no entries, no error flags.
func newSnapshotStore() *snapshotStore {
	return &snapshotStore{
		current: &models.Snapshot{Entries: []models.BlockerEntry{}},
	}
}

// PublishSnapshot atomically replaces the current snapshot and notifies
// the registered listener. Single-flight in the refresh coordinator
// guarantees one writer at a time; the lock here is defense in depth.
func PublishSnapshot(s *models.Snapshot) {
	store.mu.Lock()
	store.current = s
	if s.Scanned && !s.PermissionDenied && s.ScanError == "" {
		store.lastGoodCount = len(s.Entries)
	}
	listener := store.listener
	store.mu.Unlock()

	if listener != nil {
		listener(s)
	}
}

// CurrentSnapshot returns the latest published snapshot. The returned
// value must be treated as read-only.
func CurrentSnapshot() *models.Snapshot {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.current
}

// LastGoodCount returns the entry count of the most recent snapshot that
// completed without permission or scan errors. Used to keep a stale
// count on display while the scanner is failing.
func LastGoodCount() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.lastGoodCount
}

// OnPublish registers the listener invoked after every publish. The
// websocket hub uses this to push fresh results instead of polling.
func OnPublish(fn func(*models.Snapshot)) {
	store.mu.Lock()
	store.listener = fn
	store.mu.Unlock()
}
