package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"wakeguard/internal/services"
)

var tokenClientName string

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate an API token for a presentation client",
	Long: `Mints a JWT a tray host or dashboard uses against the agent's mutating
endpoints when the agent runs with auth enabled. Tokens are only ever
generated here, never over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services.InitAuthService("", 0)
		token, err := services.GenerateToken(tokenClientName)
		if err != nil {
			return err
		}
		fmt.Println(token)
		fmt.Printf("Expires: %s\n", services.GetTokenExpiry().Format("2006-01-02"))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenClientName, "name", "presentation", "client name embedded in the token")
	rootCmd.AddCommand(tokenCmd)
}
