package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List valid cards in the managed directory",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cache, _, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	names := cache.List()
	if len(names) == 0 {
		fmt.Println("No valid vCard files found")
		return nil
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}
