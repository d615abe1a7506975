package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"wakeguard/internal/services"
)

// GetStatus returns the aggregated sleep-blocker status projected from
// the current snapshot.
func GetStatus(c *gin.Context) {
	snap := services.CurrentSnapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":       services.CurrentStatus(),
		"scanned":      snap.Scanned,
		"last_scan_at": snap.Timestamp,
	})
}
