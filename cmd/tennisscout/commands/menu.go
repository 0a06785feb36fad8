package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"tennisscout/cmd/tennisscout/globals"
	"tennisscout/internal/tour"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(menuCmd)
}

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Prompts for a player and tour, then prints everything known about the player.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), globals.Get(cmd.Context()))
	},
}

// runMenu rejects a bad tour before anything is searched for.
func runMenu(ctx context.Context, in io.Reader, out io.Writer, value *globals.Value) error {
	name, tourName, ok := prompt(in, out)
	if !ok {
		return nil
	}
	if _, err := tour.Parse(tourName); err != nil {
		fmt.Fprintln(out, "❌ Invalid tour.")
		return nil
	}
	fmt.Fprintln(out, "\n🔍 Searching...")
	return runLookup(ctx, out, value, name, tourName, true)
}

// prompt reads a player name and a tour, one per line. It returns false
// if the input ends early.
func prompt(in io.Reader, out io.Writer) (name, tourName string, ok bool) {
	scanner := bufio.NewScanner(in)

	fmt.Fprint(out, "Search player name: ")
	if !scanner.Scan() {
		return "", "", false
	}
	name = strings.TrimSpace(scanner.Text())

	fmt.Fprint(out, "Tour (ATP/WTA): ")
	if !scanner.Scan() {
		return "", "", false
	}
	tourName = strings.TrimSpace(scanner.Text())

	return name, tourName, true
}
