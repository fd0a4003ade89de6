// Command talentradar collects engineer and researcher profiles, merges them
// into persons and ranks them against job requirements.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/okian/talentradar/internal/config"
	"github.com/okian/talentradar/pkg/logger"
	"github.com/spf13/cobra"
)

const app = "talentradar"

var (
	// Used for flags.
	cfgFile string
	envFile string
	debug   bool
	jsonLog bool

	// cfg is loaded once per invocation before any subcommand runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:               app,
		Short:             "talentradar aggregates GitHub, Qiita, OpenAlex and KAKEN profiles and matches them to job requirements",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(_ *cobra.Command, _ []string) { _ = logger.Sync() },
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default: $"+config.FileEnv+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment is read")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json", "j", false, "json format for logging")
}

// setup loads the dotenv file, the layered config and the global logger.
func setup(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	loaded, err := config.Load(cmd.Context(), cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if err := logger.Init(logger.WithJSON(jsonLog || cfg.LogJSON)); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	lvl := cfg.LogLevel
	if debug {
		lvl = "debug"
	}
	if err := logger.SetLevelString(lvl); err != nil {
		logger.Get().Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", lvl), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
