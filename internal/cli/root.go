// Package cli implements the vcardmgr command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/captaindpt/vcard-manager/internal/config"
	"github.com/captaindpt/vcard-manager/internal/logger"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string

	cfg    *config.Config
	appLog *logger.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vcardmgr",
	Short: "vcardmgr - vCard directory manager",
	Long: `vcardmgr manages a directory of vCard files, validating each one
through the native parsing library and keeping a coherent cache of
valid cards as the directory changes.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.NewLoader(cfgFile).Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}

		appLog, err = logger.New(logger.Config{
			Level:   cfg.Logging.Level,
			File:    cfg.Logging.File,
			Console: cfg.Logging.Console,
			Pretty:  cfg.Logging.Pretty,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appLog != nil {
			_ = appLog.Close()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vcardmgr/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the application version string.
func GetVersion() string {
	return version
}
