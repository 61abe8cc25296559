package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var loginURLCmd = &cobra.Command{
	Use:   "login-url",
	Short: "Print the Entra ID authorize URL",
	Long: `Print the authorize URL /api/login would redirect to. Useful for checking
the client id, tenant, scopes and redirect URI of the app registration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := buildApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp(app)

		_, err = fmt.Fprintln(cmd.OutOrStdout(), app.Auth.BeginLogin().URL)
		return err
	},
}

func init() {
	rootCmd.AddCommand(loginURLCmd)
}
