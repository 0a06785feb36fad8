package commands

import (
	"fmt"
	"strings"
	"tennisscout/cmd/tennisscout/globals"
	"tennisscout/cmd/tennisscout/utils"
	"tennisscout/internal/cache"
	"tennisscout/internal/tour"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var cacheTour *string

func init() {
	cacheTour = cacheCmd.PersistentFlags().StringP("tour", "t", "", "The tour the player plays on, ATP or WTA.")
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheSuggestCmd)
	cacheCmd.AddCommand(cacheForgetCmd)
	rootCmd.AddCommand(cacheCmd)
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "The 'cache' subcommand inspects and edits the remembered player urls.",
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists every cached player url.",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := globals.Get(cmd.Context()).Cache.Entries(cmd.Context())
		if err != nil {
			return err
		}

		t := utils.NewTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Tour", "URL"})
		for _, e := range entries {
			t.AppendRow(table.Row{e.Key.Name, e.Key.Tour.Display(), e.URL})
		}
		t.Render()
		return nil
	},
}

var cacheSuggestCmd = &cobra.Command{
	Use:   "suggest <player name...> --tour <atp|wta>",
	Short: "Lists the cached players with names similar to the one given.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := tour.Parse(*cacheTour)
		if err != nil {
			return err
		}
		entries, err := globals.Get(cmd.Context()).Cache.Entries(cmd.Context())
		if err != nil {
			return err
		}

		t := utils.NewTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Similarity", "URL"})
		for _, s := range cache.Suggest(entries, strings.Join(args, " "), code, 10) {
			t.AppendRow(table.Row{s.Entry.Key.Name, fmt.Sprintf("%.2f", s.Similarity), s.Entry.URL})
		}
		t.Render()
		return nil
	},
}

var cacheForgetCmd = &cobra.Command{
	Use:   "forget <player name...> --tour <atp|wta>",
	Short: "Removes a cached player url so that the next lookup searches again.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := tour.Parse(*cacheTour)
		if err != nil {
			return err
		}
		key := cache.NewKey(strings.Join(args, " "), code)
		removed, err := globals.Get(cmd.Context()).Cache.Forget(cmd.Context(), key)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Fprintf(cmd.OutOrStdout(), "%q was not cached.\n", key.String())
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "forgot %q.\n", key.String())
		return nil
	},
}
