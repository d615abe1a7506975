package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wakeguard/internal/scheduler"
)

var taskAutostart bool

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the elevated scheduled task",
	Long: `The scheduled task runs the agent with the highest available privilege
level, so power requests can be queried without a UAC prompt on every
start. Installing or removing it requires an elevated shell.`,
}

var taskInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the scheduled task",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scheduler.InstallTask(taskAutostart); err != nil {
			return err
		}
		fmt.Println("Task installed")
		if taskAutostart {
			fmt.Println("Autostart at logon enabled")
		}
		return nil
	},
}

var taskUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the scheduled task",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scheduler.UninstallTask(); err != nil {
			return err
		}
		fmt.Println("Task uninstalled")
		return nil
	},
}

var taskRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the agent through the scheduled task (elevated)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := scheduler.RunTask(); err != nil {
			return err
		}
		fmt.Println("Task started")
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show scheduled task state",
	Run: func(cmd *cobra.Command, args []string) {
		if !scheduler.IsSupported() {
			fmt.Println("Scheduled tasks are not supported on this platform")
			return
		}
		if !scheduler.IsTaskInstalled() {
			fmt.Println("Task: not installed")
			return
		}
		fmt.Println("Task: installed")
		if scheduler.IsAutostartEnabled() {
			fmt.Println("Autostart at logon: enabled")
		} else {
			fmt.Println("Autostart at logon: disabled")
		}
	},
}

var taskAutostartCmd = &cobra.Command{
	Use:   "autostart",
	Short: "Toggle autostart at user logon",
	RunE: func(cmd *cobra.Command, args []string) error {
		enabled, err := scheduler.ToggleAutostart()
		if err != nil {
			return err
		}
		if enabled {
			fmt.Println("Autostart enabled")
		} else {
			fmt.Println("Autostart disabled")
		}
		return nil
	},
}

func init() {
	taskInstallCmd.Flags().BoolVar(&taskAutostart, "autostart", false, "also start the agent at user logon")
	taskCmd.AddCommand(taskInstallCmd, taskUninstallCmd, taskRunCmd, taskStatusCmd, taskAutostartCmd)
	rootCmd.AddCommand(taskCmd)
}
