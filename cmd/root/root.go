// Package root contains the root command and the state shared by every
// subcommand.
package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fjacquet/ofx-import/internal/config"
	"fjacquet/ofx-import/internal/container"
	"fjacquet/ofx-import/internal/logging"
)

// CommonFlags are the persistent flags of every command.
type CommonFlags struct {
	ConfigFile string
	DataDir    string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger. It is replaced by the configured one before
	// a subcommand runs.
	Log = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built in PersistentPreRun.
	AppContainer *container.Container

	// SharedFlags holds the persistent flag values.
	SharedFlags = CommonFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "ofx-import",
		Short: "Import OFX bank statements into a categorized ledger.",
		Long: `ofx-import parses OFX bank statements, classifies every transaction with
keyword rules, lets you review and split them, and records payables and
receivables. Rules are learned from the categories you assign.`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := Setup(cmd); err != nil {
				Log.Fatalf("Initialization failed: %v", err)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				if err := AppContainer.Close(); err != nil {
					Log.WithError(err).Warn("Failed to close container")
				}
			}
		},
	}
)

// Init registers the persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default searches $HOME/.ofx-import, ./.ofx-import and .)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.DataDir, "data-dir", "d", "", "Directory holding rules, taxonomy, records and history")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
}

// LoadConfig reads the configuration and applies flag overrides.
func LoadConfig(flags CommonFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	if flags.DataDir != "" {
		cfg.Data.Directory = flags.DataDir
	}
	if flags.LogLevel != "" {
		cfg.Log.Level = flags.LogLevel
	}
	if flags.LogFormat != "" {
		cfg.Log.Format = flags.LogFormat
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Setup loads .env and the configuration, then builds AppContainer.
func Setup(cmd *cobra.Command) error {
	if loaded := config.LoadEnv(); loaded != "" {
		Log.Debug("Loaded environment file", logging.F(logging.FieldFile, loaded))
	}
	cfg, err := LoadConfig(SharedFlags)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	c, err := container.NewContainer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()
	return nil
}

// GetContainer returns the application container or exits when it was not
// initialized.
func GetContainer() *container.Container {
	if AppContainer == nil {
		Log.Fatal("Container not initialized")
		os.Exit(1)
	}
	return AppContainer
}
