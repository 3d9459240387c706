package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Checks that the configured account can login.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		login(cmd.Context(), cfg)
		slog.Info("logged in", "base_url", cfg.BaseUrl, "username", cfg.Username)
	},
}
