package cli

import (
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show who the backend thinks you are",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		app.Start(cmd.Context())
		printSession(cmd.OutOrStdout(), app.Session.Current())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
