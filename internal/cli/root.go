// Package cli implements the noprints command line
package cli

import (
	"fmt"
	"os"

	"github.com/grendel/noprints/internal/app"
	"github.com/grendel/noprints/internal/config"
	"github.com/grendel/noprints/internal/logging"
	"github.com/grendel/noprints/pkg/ui"
	"github.com/spf13/cobra"
)

// env carries state shared by every subcommand of one root command
type env struct {
	cfgFile   string
	container *app.Container
}

// NewRootCmd creates the root command with every subcommand attached. Each
// call returns an independent tree, so tests can run commands in isolation.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "noprints",
		Short: "Clipboard sanitizer and sensitive data guard",
		Long: `NoPrints strips invisible characters from copied text, classifies it
for Bitcoin, Nostr and other secrets, and keeps an encrypted history in which
sensitive items are blurred and expire on their own.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd, e.cfgFile)
			if err != nil {
				return err
			}
			logging.SetLevel(cfg.LogLevel)
			c, err := app.BuildContainer(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			e.container = c
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			DisplayHelp(ui.NewColorScheme(cmd.OutOrStdout()))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&e.cfgFile, "config", "", "config file (default is <user config dir>/NoPrints/noprints.yaml)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newAnalyzeCommand(e),
		newCleanCommand(e),
		newValidateCommand(e),
		newScanCommand(e),
		newWatchCommand(e),
		newHistoryCommand(e),
		newPrefsCommand(e),
		newConfigCommand(e),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
