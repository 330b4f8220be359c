// Package cli wires configuration, the catalog provider and the browsing
// engine behind the rentgrip command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"rentgrip/internal/config"
	"rentgrip/internal/engine"
	"rentgrip/internal/eventbus"
	"rentgrip/internal/logging"
	"rentgrip/internal/ui"
)

// Version is set at build time
var Version = "dev"

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. Without a subcommand it starts the
// interactive browser.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var (
		initialSearch   string
		initialCategory string
	)

	cmd := &cobra.Command{
		Use:           "rentgrip",
		Short:         "Browse a catalog of rentable items",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowser(cmd.Context(), opts, initialSearch, initialCategory)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default ./"+config.FileName+")")
	flags.StringVar(&opts.catalogPath, "catalog", "", "catalog file or SQLite database to browse")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	cmd.Flags().StringVarP(&initialSearch, "search", "s", "", "start with this search committed")
	cmd.Flags().StringVar(&initialCategory, "category", "", "start with this category selected")

	cmd.AddCommand(
		newQueryCmd(opts),
		newFacetsCmd(opts),
		newImportCmd(opts),
		newInitCmd(),
	)
	return cmd
}

func runBrowser(ctx context.Context, opts *globalOptions, initialSearch, initialCategory string) error {
	bus := eventbus.New()
	defer bus.Close()

	cfg, err := loadConfig(opts, bus)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg, nil)
	if err != nil {
		return err
	}
	defer closeLog()
	log := logging.Component("cli")

	provider, closeProvider, err := openProvider(cfg)
	if err != nil {
		return err
	}
	defer closeProvider()

	var extra []engine.Option
	extra = append(extra, engine.WithEventBus(bus))
	if initialSearch != "" {
		extra = append(extra, engine.WithInitialSearch(initialSearch))
	}
	if initialCategory != "" {
		extra = append(extra, engine.WithInitialCategory(initialCategory))
	}
	eng := engine.New(provider, engineOptions(cfg, extra...)...)
	defer eng.Dispose()

	model := ui.NewModel(eng, cfg)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	log.Info().Str("source", cfg.Catalog.Source).Msg("starting browser")
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("browser exited with error")
		return fmt.Errorf("error running program: %w", err)
	}
	log.Info().Msg("browser exited")
	return nil
}
