package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"tennisscout/cmd/tennisscout/globals"
	"tennisscout/cmd/tennisscout/utils"
	"tennisscout/internal/cache"
	"tennisscout/internal/resolver"
	"tennisscout/internal/scout"
	"tennisscout/internal/tour"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const suggestionCount = 3

var (
	lookupTour   *string
	lookupExtras *bool
)

func init() {
	lookupTour = lookupCmd.Flags().StringP("tour", "t", "", "The tour the player plays on, ATP or WTA.")
	lookupExtras = lookupCmd.Flags().Bool("extras", false, "Also show grand slams, surface records and recent matches.")
	rootCmd.AddCommand(lookupCmd)
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <player name...> --tour <atp|wta> [--extras]",
	Short: "Prints the profile of a player.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLookup(
			cmd.Context(),
			cmd.OutOrStdout(),
			globals.Get(cmd.Context()),
			strings.Join(args, " "),
			*lookupTour,
			*lookupExtras,
		)
	},
}

// runLookup prints the outcome of a lookup. Bad input and unknown players
// are outcomes, not errors, only failures to reach the site are returned.
func runLookup(ctx context.Context, out io.Writer, value *globals.Value, name, tourName string, extras bool) error {
	report, err := value.Scout.Lookup(ctx, name, tourName, scout.Options{Extras: extras})
	switch {
	case errors.Is(err, resolver.ErrInvalidTour):
		fmt.Fprintln(out, "❌ Invalid tour.")
		return nil
	case errors.Is(err, resolver.ErrInvalidName):
		fmt.Fprintln(out, "❌ Invalid player name.")
		return nil
	case errors.Is(err, resolver.ErrNotFound):
		fmt.Fprintln(out, "❌ Player not found.")
		printSuggestions(ctx, out, value, name, tourName)
		return nil
	case err != nil:
		return err
	}

	printReport(out, report)
	return nil
}

func printSuggestions(ctx context.Context, out io.Writer, value *globals.Value, name, tourName string) {
	code, err := tour.Parse(tourName)
	if err != nil {
		return
	}
	entries, err := value.Cache.Entries(ctx)
	if err != nil {
		value.Telemetry.ReportWarning("lookup.suggest", err)
		return
	}
	suggestions := cache.Suggest(entries, name, code, suggestionCount)
	if len(suggestions) == 0 {
		return
	}
	names := make([]string, len(suggestions))
	for i, s := range suggestions {
		names[i] = s.Entry.Key.Name
	}
	fmt.Fprintf(out, "Did you mean: %s?\n", strings.Join(names, ", "))
}

func printReport(out io.Writer, report scout.Report) {
	t := utils.NewTable(out)
	t.SetTitle("🎾 PLAYER PROFILE (%s)", report.Tour.Display())
	for _, f := range report.Profile.Fields() {
		t.AppendRow(table.Row{f.Label, f.Value.String()})
	}
	if report.Extras != nil {
		t.AppendRow(table.Row{"Grand Slams", report.Extras.GrandSlams.String()})
	}
	t.SetCaption("%s", report.URL)
	t.Render()

	if report.Extras == nil {
		return
	}

	surfaces := utils.NewTable(out)
	surfaces.SetTitle("📊 Surface Records")
	surfaces.AppendHeader(table.Row{"Surface", "Win/Loss"})
	for _, s := range report.Extras.Surfaces {
		surfaces.AppendRow(table.Row{s.Surface, s.Record})
	}
	surfaces.Render()

	matches := utils.NewTable(out)
	matches.SetTitle("🕒 Recent Matches")
	matches.AppendHeader(table.Row{"#", "Tournament", "Round", "Opponent", "Result"})
	for i, m := range report.Extras.RecentMatches {
		matches.AppendRow(table.Row{i + 1, m.Tournament, m.Round, "vs " + m.Opponent, m.Result})
	}
	matches.Render()
}
