package commands

import (
	"ccapi/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	usersCmd.AddCommand(usersListCmd)
	rootCmd.AddCommand(usersCmd)
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "The 'users' subcommand works with back office accounts.",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists back office users.",
	Run: func(cmd *cobra.Command, args []string) {
		api := connect(cmd)
		users, err := api.Users.Users(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to get users", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"ID", "Username", "Name", "Email", "Last login", "Active"})
		for _, u := range users {
			t.AppendRow(table.Row{u.ID, u.Username, u.Name, u.Email, formatDate(u.LastLogin), u.Active})
		}
		t.Render()
	},
}
