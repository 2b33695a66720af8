// Package cmd wires the command line surface: connecting to ports,
// listing them, and managing settings and the persisted command history.
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"serterm/pkg/config"
	"serterm/pkg/history"
	"serterm/pkg/store"
)

var (
	verbose bool

	rootCmd = &cobra.Command{
		Use:               "serterm",
		Short:             "Interactive serial terminal with persistent command history",
		Version:           "1.0.0",
		PersistentPreRun:  setupLogging,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}
)

// Execute runs the root command and exits nonzero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func setupLogging(cmd *cobra.Command, args []string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(loadSettings().LogLevel); err == nil {
		level = parsed
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
}

// configManager opens the settings file at its default location.
func configManager() *config.Manager {
	path, err := config.DefaultPath()
	if err != nil {
		log.Debug().Err(err).Msg("resolving config path")
	}
	return config.NewManager(path)
}

func loadSettings() config.Settings {
	return configManager().Load()
}

// openRing opens the persisted command ring. The caller closes the
// returned store.
func openRing(settings config.Settings) (*history.Ring, *store.Bolt, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve history path: %w", err)
	}
	db, err := store.OpenBolt(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history store: %w", err)
	}
	return history.NewRing(db, settings.HistoryMax), db, nil
}
