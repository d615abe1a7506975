package services

import "wakeguard/internal/models"

// Project derives the compact status signal from one snapshot. Pure and
// total; a failed-scan snapshot projects StatusUnknown with Stale set,
// and CurrentStatus fills in the carried count.
func Project(s *models.Snapshot) models.Status {
	switch {
	case s.PermissionDenied:
		return models.Status{State: models.StatusDenied}
	case !s.Scanned:
		return models.Status{State: models.StatusUnknown}
	case s.ScanError != "":
		return models.Status{State: models.StatusUnknown, Stale: true}
	case len(s.Entries) == 0:
		return models.Status{State: models.StatusClear}
	default:
		return models.Status{State: models.StatusBlocked, Count: len(s.Entries)}
	}
}

// CurrentStatus projects the latest snapshot. When the last scan failed,
// the previous good entry count is carried so the presentation layer can
// keep showing it grayed out rather than flashing to zero.
func CurrentStatus() models.Status {
	status := Project(CurrentSnapshot())
	if status.Stale {
		status.Count = LastGoodCount()
	}
	return status
}

// CurrentEntries returns the entries of the latest snapshot for detail
// rendering.
func CurrentEntries() []models.BlockerEntry {
	return CurrentSnapshot().Entries
}
