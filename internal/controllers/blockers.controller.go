package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wakeguard/internal/models"
	"wakeguard/internal/services"
)

// GetBlockers returns the current snapshot's entries with scan metadata
// for detail rendering.
func GetBlockers(c *gin.Context) {
	snap := services.CurrentSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"entries":           snap.Entries,
		"scanned":           snap.Scanned,
		"permission_denied": snap.PermissionDenied,
		"scan_error":        snap.ScanError,
		"timestamp":         snap.Timestamp,
	})
}

// RequestRefresh triggers a manual rescan. Fire-and-forget: the response
// only says whether a scan was started; a request arriving while a scan
// is in flight is dropped and the client should re-request if it still
// wants a fresh result.
func RequestRefresh(c *gin.Context) {
	started := services.RequestRefresh()
	c.JSON(http.StatusAccepted, gin.H{"started": started})
}

// killRequest is the body of POST /blockers/kill.
type killRequest struct {
	PID int32 `json:"pid" binding:"required"`
}

// KillBlocker terminates the process behind a blocker entry. The PID
// must belong to a process-kind entry in the current snapshot; entries a
// client invented are rejected. On ok/not_found a refresh is triggered
// so the snapshot converges.
func KillBlocker(c *gin.Context) {
	var req killRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pid is required"})
		return
	}

	entry, ok := findProcessEntry(req.PID)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pid is not a process blocker in the current snapshot"})
		return
	}

	result := services.Terminate(entry)
	if result == models.ActionOK || result == models.ActionNotFound {
		services.RequestRefresh()
	}

	c.JSON(httpStatusForAction(result), gin.H{
		"result": result,
		"pid":    req.PID,
		"name":   entry.DisplayName,
	})
}

// findProcessEntry looks the PID up in the current snapshot.
func findProcessEntry(pid int32) (models.BlockerEntry, bool) {
	for _, entry := range services.CurrentEntries() {
		if entry.SourceKind == models.SourceProcess && entry.PID == pid {
			return entry, true
		}
	}
	return models.BlockerEntry{}, false
}

func httpStatusForAction(result models.ActionResult) int {
	switch result {
	case models.ActionOK, models.ActionNotFound:
		// not_found means the process already exited: converged either way.
		return http.StatusOK
	case models.ActionAccessDenied:
		return http.StatusForbidden
	case models.ActionInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
