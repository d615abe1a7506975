package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"wakeguard/internal/models"
	"wakeguard/internal/services"
)

var killCmd = &cobra.Command{
	Use:   "kill <pid>",
	Short: "Terminate a process that is blocking sleep",
	Long: `Scans once, verifies the PID belongs to a process currently holding a
power request, and asks the OS to terminate it. Drivers and services
cannot be terminated this way.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pid, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid pid %q", args[0])
		}

		snap := services.ScanNow()
		if snap.PermissionDenied {
			fmt.Fprintln(os.Stderr, "Cannot check: administrator privileges required")
			os.Exit(2)
		}

		var entry models.BlockerEntry
		found := false
		for _, e := range snap.Entries {
			if e.SourceKind == models.SourceProcess && e.PID == int32(pid) {
				entry = e
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("pid %d is not a process currently blocking sleep", pid)
		}

		switch result := services.Terminate(entry); result {
		case models.ActionOK:
			fmt.Printf("Termination of %s (pid %d) requested\n", entry.DisplayName, pid)
		case models.ActionNotFound:
			fmt.Printf("%s (pid %d) already exited\n", entry.DisplayName, pid)
		case models.ActionAccessDenied:
			fmt.Fprintf(os.Stderr, "Access denied terminating %s (pid %d)\n", entry.DisplayName, pid)
			os.Exit(2)
		default:
			fmt.Fprintf(os.Stderr, "Failed to terminate %s (pid %d)\n", entry.DisplayName, pid)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(killCmd)
}
