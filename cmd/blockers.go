package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"wakeguard/internal/models"
	"wakeguard/internal/services"
)

var blockersJSON bool

var blockersCmd = &cobra.Command{
	Use:   "blockers",
	Short: "Scan once and list the current sleep blockers",
	Run: func(cmd *cobra.Command, args []string) {
		snap := services.ScanNow()

		if blockersJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			enc.Encode(snap)
			return
		}

		if snap.PermissionDenied {
			fmt.Fprintln(os.Stderr, "Cannot check: administrator privileges required")
			os.Exit(2)
		}
		if snap.ScanError != "" {
			fmt.Fprintf(os.Stderr, "Scan failed: %s\n", snap.ScanError)
			os.Exit(3)
		}
		if len(snap.Entries) == 0 {
			fmt.Println("No apps blocking sleep")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KIND\tPID\tNAME\tREQUEST\tREASON")
		for _, e := range snap.Entries {
			pid := "-"
			if e.SourceKind == models.SourceProcess {
				pid = fmt.Sprintf("%d", e.PID)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.SourceKind, pid, e.DisplayName, e.RequestKind, truncateReason(e.Reason))
		}
		w.Flush()
	},
}

func init() {
	blockersCmd.Flags().BoolVar(&blockersJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(blockersCmd)
}

func truncateReason(reason string) string {
	if len(reason) <= 60 {
		return reason
	}
	return reason[:57] + "..."
}
