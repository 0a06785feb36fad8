package commands

import (
	"fmt"
	"tennisscout/internal/render"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(installBrowserCmd)
}

var installBrowserCmd = &cobra.Command{
	Use:   "install-browser",
	Short: "Downloads the browser used to render player pages.",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := render.InstallBrowser()
		if err != nil {
			return fmt.Errorf("install browser: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "browser installed.")
		return nil
	},
}
