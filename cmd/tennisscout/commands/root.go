package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"tennisscout/cmd/tennisscout/globals"
	"tennisscout/internal/cache"
	"tennisscout/internal/render"
	"tennisscout/internal/resolver"
	"tennisscout/internal/scout"
	"tennisscout/internal/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	cachePath  *string
	verbose    *bool
	static     *bool
	dumpDir    *string
)

var rootCmd = &cobra.Command{
	Use:           "tennisscout",
	Short:         "tennisscout looks up ATP and WTA player profiles.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(os.Stderr, *verbose)

		cfg, err := readConfig(*configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("cache") {
			cfg.Cache.File = *cachePath
			cfg.Cache.Database = ""
		}
		if *static {
			cfg.Render.Static = true
		}

		value, err := setup(cmd.Context(), cfg, *dumpDir)
		if err != nil {
			return err
		}
		active = value
		cmd.SetContext(globals.Set(cmd.Context(), value))
		return nil
	},
}

// active is what the running command set up, it is closed once the
// command returns whether or not it failed.
var active *globals.Value

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "", "Config file to read, defaults to tennisscout.json5.")
	cachePath = rootCmd.PersistentFlags().String("cache", defaultCacheFile, "The JSON file player urls are cached in.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug output.")
	static = rootCmd.PersistentFlags().Bool("static", false, "Fetch pages without a browser, scripts are not run.")
	dumpDir = rootCmd.PersistentFlags().String("dump", "", "Write every rendered page to a new timestamped directory inside this one.")
}

// setup wires the cache, renderer and scout service described by cfg.
func setup(ctx context.Context, cfg Config, dumpDir string) (*globals.Value, error) {
	providers, err := telemetry.SetupFromEnv(ctx, "tennisscout")
	if err != nil {
		return nil, err
	}
	tel := telemetry.SlogAPI{}

	var store cache.Maintainable
	closeStore := func() error { return nil }
	if cfg.Cache.Database != "" {
		sqlStore, err := cache.OpenSQLStore(cfg.Cache.Database, tel)
		if err != nil {
			return nil, errors.Join(err, providers.Shutdown(ctx))
		}
		store = sqlStore
		closeStore = sqlStore.Close
	} else {
		store = cache.NewFileStore(cfg.cacheFile(), tel)
	}

	var renderer render.Renderer
	if cfg.Render.Static {
		renderer = render.NewHTTPRenderer(render.HTTPOptions{
			Options:           cfg.renderOptions(),
			RequestsPerSecond: cfg.RateLimit,
		}, tel)
	} else {
		renderer = render.NewBrowserRenderer(render.BrowserOptions{
			Options:        cfg.renderOptions(),
			Headless:       cfg.headless(),
			ExecutablePath: cfg.Render.BrowserPath,
		}, tel)
	}
	if dumpDir != "" {
		renderer, err = render.NewDumpingRenderer(renderer, dumpDir, tel)
		if err != nil {
			return nil, errors.Join(err, closeStore(), providers.Shutdown(ctx))
		}
	}
	slog.Debug("configured", "static", cfg.Render.Static, "cache", cfg.cacheFile(), "database", cfg.Cache.Database)

	return &globals.Value{
		Telemetry: tel,
		Cache:     store,
		Scout:     scout.NewService(resolver.New(store, renderer, tel), renderer, tel),
		Close: func() error {
			return errors.Join(closeStore(), providers.Shutdown(context.Background()))
		},
	}, nil
}

// closeAfter runs run and then releases whatever it set up, the errors
// of both are returned.
func closeAfter(run func() error) error {
	err := run()
	if active != nil {
		value := active
		active = nil
		err = errors.Join(err, value.Close())
	}
	return err
}

func ExecuteContext(ctx context.Context) {
	err := closeAfter(func() error {
		return rootCmd.ExecuteContext(ctx)
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
