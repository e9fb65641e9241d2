package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/internal/logging"
)

// Populated by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "waypoint",
	Short: "Waypoint runs guided walkthroughs anchored to live UI elements",
	Long: `Waypoint validates walkthrough definitions, rehearses them headlessly against
scripted scenes, and inspects the progress of recorded sessions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadSettings(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// The context is cancelled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("dir", "", "Directory containing walkthrough definitions")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// loadSettings resolves the configuration from defaults, the config file,
// WAYPOINT_* variables and the persistent flags, in increasing priority.
func loadSettings(cmd *cobra.Command) error {
	file, _ := cmd.Flags().GetString("config")
	v, err := config.New(file)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("dir"); f != nil && f.Changed {
		v.Set("catalog.dir", f.Value.String())
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		v.Set("log.level", f.Value.String())
	}

	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(loaded.Log.Level)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = logging.New(level)
	return nil
}
