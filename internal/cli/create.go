package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/captaindpt/vcard-manager/pkg/contacts"
)

var createCmd = &cobra.Command{
	Use:   "create <filename> <formatted-name>",
	Short: "Create a new card with the given formatted name",
	Args:  cobra.ExactArgs(2),
	RunE:  runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	cache, lib, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	svc := contacts.NewService(lib, cache)
	if err := svc.Create(args[0], args[1]); err != nil {
		return err
	}
	fmt.Printf("Created %s\n", args[0])
	return nil
}
