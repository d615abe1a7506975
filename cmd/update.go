package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wakeguard/internal/updater"
)

var updateCheckOnly bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check for a newer release and download it",
	RunE: func(cmd *cobra.Command, args []string) error {
		info := updater.CheckForUpdate(Version)
		if info == nil {
			fmt.Printf("wakeguard %s is up to date\n", Version)
			return nil
		}

		fmt.Printf("Update available: %s -> %s\n", Version, info.Latest)
		if updateCheckOnly {
			fmt.Printf("Download: %s\n", info.DownloadURL)
			return nil
		}

		staged, err := updater.Download(info, os.TempDir())
		if err != nil {
			return fmt.Errorf("download failed: %w", err)
		}
		fmt.Printf("Downloaded to %s\n", staged)
		fmt.Println("Replace the running binary with the downloaded file to finish the update")
		return nil
	},
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "only check, do not download")
	rootCmd.AddCommand(updateCmd)
}
