// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/ebill-csv/internal/config"
	"fjacquet/ebill-csv/internal/container"
	"fjacquet/ebill-csv/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.GetLogger()

	// AppContainer holds the wired dependencies once PersistentPreRunE has run
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "ebill-csv",
		Short: "A CLI tool to convert credit-card e-bill e-mails to CSV.",
		Long: `ebill-csv is a CLI tool that converts credit-card e-bills received as
HTML e-mail (.eml or .mbox) into a categorized CSV report.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initContainer,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				_ = AppContainer.Close()
			}
		},
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to ebill-csv!")
			Log.Info("Use --help to see available commands")
		},
	}

	// SharedFlags are accessible to all commands
	SharedFlags = CommonFlags{}

	// ConfigFile overrides the config.yaml search
	ConfigFile string
	// LogLevel overrides log.level when set
	LogLevel string
	// LogFormat overrides log.format when set
	LogFormat string
)

// Init registers the persistent flags of the root command.
func Init() {
	flags := Cmd.PersistentFlags()
	if flags.Lookup("input") != nil {
		return
	}
	flags.StringVarP(&SharedFlags.Input, "input", "i", "", "Input file or directory")
	flags.StringVarP(&SharedFlags.Output, "output", "o", "", "Output file or directory")
	flags.BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before conversion")
	flags.StringVar(&ConfigFile, "config", "", "Config file (default: config.yaml in $HOME/.ebill-csv, .ebill-csv or .)")
	flags.StringVar(&LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&LogFormat, "log-format", "", "Log format (text or json)")
}

// LoadConfig reads the configuration and applies the command-line overrides.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.InitializeConfigFromFile(ConfigFile)
	if err != nil {
		return nil, err
	}
	if LogLevel != "" {
		cfg.Log.Level = LogLevel
	}
	if LogFormat != "" {
		cfg.Log.Format = LogFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initContainer(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	cfg, err := LoadConfig()
	if err != nil {
		Log.WithError(err).Error("Failed to load configuration")
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	Log = config.ConfigureLoggingFromConfig(cfg)
	AppContainer, err = container.NewContainerWithLogger(cfg, Log)
	if err != nil {
		Log.WithError(err).Error("Failed to initialize application")
		return err
	}
	return nil
}

// GetContainer returns the application container, or nil before initialization.
func GetContainer() *container.Container {
	return AppContainer
}

// GetLogger returns the shared command logger.
func GetLogger() logging.Logger {
	return Log
}
