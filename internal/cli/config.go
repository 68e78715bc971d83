package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/captaindpt/vcard-manager/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vcardmgr configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader := config.NewLoader(cfgFile)
	if err := loader.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Config written to %s\n", loader.Path())
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Cards directory:     %s\n", cfg.CardsDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Extension:           %s\n", cfg.Extension)
	fmt.Fprintf(cmd.OutOrStdout(), "Library path:        %s\n", cfg.LibraryPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Refresh schedule:    %s\n", cfg.RefreshSchedule)
	fmt.Fprintf(cmd.OutOrStdout(), "Stability threshold: %dms\n", cfg.StabilityThresholdMs)
	fmt.Fprintf(cmd.OutOrStdout(), "Log level:           %s\n", cfg.Logging.Level)
	if cfg.Metrics.Enabled {
		fmt.Fprintf(cmd.OutOrStdout(), "Metrics listen:      %s\n", cfg.Metrics.Listen)
	}
	return nil
}
