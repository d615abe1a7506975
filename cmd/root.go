package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wakeguard",
	Short: "Find out what keeps your machine from sleeping",
	Long: `WakeGuard watches the operating system's power-request registry and
reports which processes and drivers are currently preventing the machine
from entering sleep.

Run "wakeguard serve" to start the monitoring agent with its local API
for tray hosts and dashboards, or use the one-shot commands (status,
blockers, kill) directly from a terminal. Querying power requests needs
administrator privileges; "wakeguard task install" sets up an elevated
scheduled task so the agent can start without a UAC prompt.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
