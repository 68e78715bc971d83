package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/captaindpt/vcard-manager/internal/daemon"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the card cache daemon",
	Long: `Run the long-lived card cache service: an initial full
reconciliation, a filesystem watcher for targeted refreshes, and a
scheduled periodic pass. Stops cleanly on SIGINT or SIGTERM.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	lib, err := openLibrary()
	if err != nil {
		return err
	}

	d, err := daemon.New(cfg, lib)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return d.Run(ctx)
}
