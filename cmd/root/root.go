// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/techpack-csv/internal/config"
	"fjacquet/techpack-csv/internal/container"
	"fjacquet/techpack-csv/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "techpack-csv",
		Short: "A CLI tool to extract product attributes from tech-pack PDFs into CSV.",
		Long: `techpack-csv reads apparel tech-pack PDFs, extracts product attributes
(style id, fabric, colour, fit, print technique, brand...), classifies the
article type and writes the resulting records to CSV or a local record store.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: initContainer,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appContainer == nil {
				return
			}
			if err := appContainer.Close(); err != nil {
				appContainer.GetLogger().WithError(err).Warn("Failed to release resources")
			}
		},
	}

	// SharedFlags holds the flags accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile is an explicit configuration file; the standard locations are searched when empty.
	ConfigFile string

	// LogLevel overrides log.level from the configuration.
	LogLevel string

	appContainer *container.Container
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate PDF structure before extraction")
	Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Configuration file (default: config.yaml in $HOME/.techpack-csv, .techpack-csv or .)")
	Cmd.PersistentFlags().StringVar(&LogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

// initContainer loads the configuration and wires the application once per run.
func initContainer(cmd *cobra.Command, args []string) error {
	if appContainer != nil {
		return nil
	}

	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return err
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	appContainer = c
	return nil
}

// GetContainer returns the container built by the root command, or nil
// before PersistentPreRunE has run.
func GetContainer() *container.Container {
	return appContainer
}

// SetContainer installs c as the application container. Commands skip
// configuration loading when a container is already set.
func SetContainer(c *container.Container) {
	appContainer = c
}

// GetLogger returns the container's logger, or the process-wide logger when
// no container exists yet.
func GetLogger() logging.Logger {
	if appContainer != nil {
		return appContainer.GetLogger()
	}
	return logging.GetLogger()
}
