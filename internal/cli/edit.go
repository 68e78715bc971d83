package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/captaindpt/vcard-manager/pkg/contacts"
)

var editCmd = &cobra.Command{
	Use:   "edit <filename> <formatted-name>",
	Short: "Replace a card's formatted name",
	Args:  cobra.ExactArgs(2),
	RunE:  runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cache, lib, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	svc := contacts.NewService(lib, cache)
	if err := svc.SetFormattedName(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", args[0])
	return nil
}
