package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/captaindpt/vcard-manager/pkg/contacts"
)

var showRendered bool

var showCmd = &cobra.Command{
	Use:   "show <filename>",
	Short: "Show a card's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRendered, "rendered", false, "print the full rendered card")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cache, lib, err := openCache()
	if err != nil {
		return err
	}
	defer cache.Close()

	svc := contacts.NewService(lib, cache)
	sum, err := svc.Summary(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("File:         %s\n", sum.Filename)
	fmt.Printf("Name:         %s\n", sum.FormattedName)
	fmt.Printf("Birthday:     %s\n", sum.Birthday)
	fmt.Printf("Anniversary:  %s\n", sum.Anniversary)
	fmt.Printf("Other props:  %d\n", sum.OptionalProperties)

	if showRendered {
		text, err := svc.Render(sum.Filename)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Print(text)
	}
	return nil
}
