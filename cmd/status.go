package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wakeguard/internal/models"
	"wakeguard/internal/services"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Scan once and print the aggregated status",
	Long: `Performs one scan of the power-request registry and prints the
aggregated result. Exit codes: 0 clear, 1 blocked, 2 permission denied,
3 scan unavailable.`,
	Run: func(cmd *cobra.Command, args []string) {
		services.ScanNow()
		status := services.CurrentStatus()

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			enc.Encode(status)
		} else {
			printStatus(status)
		}

		os.Exit(statusExitCode(status))
	},
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(statusCmd)
}

func printStatus(status models.Status) {
	switch status.State {
	case models.StatusClear:
		fmt.Println("Ready to sleep: nothing is blocking")
	case models.StatusBlocked:
		fmt.Printf("%d blocker(s) preventing sleep (run \"wakeguard blockers\" for details)\n", status.Count)
	case models.StatusDenied:
		fmt.Println("Cannot check: administrator privileges required")
	default:
		fmt.Println("Status unknown: the scan did not complete")
	}
}

func statusExitCode(status models.Status) int {
	switch status.State {
	case models.StatusClear:
		return 0
	case models.StatusBlocked:
		return 1
	case models.StatusDenied:
		return 2
	default:
		return 3
	}
}
