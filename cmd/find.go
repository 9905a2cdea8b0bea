/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/josephgoksu/contactbook/internal/ui"
	"github.com/josephgoksu/contactbook/types"
	"github.com/spf13/cobra"
)

// NoMatches is printed by find when nothing matches.
const NoMatches = "No contacts found."

// findCmd represents the find command
var findCmd = &cobra.Command{
	Use:     "find [query]",
	Aliases: []string{"search"},
	Short:   "Find contacts by substring across fields",
	Long: `Find contacts whose name, phone, email or tags contain the query, ignoring
case. Results are shown in the order the contacts were added.`,
	Example: `  contactbook find --q lic
  contactbook find 555`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)

	findCmd.Flags().String("q", "", "query substring")
}

func runFind(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("q")
	switch {
	case cmd.Flags().Changed("q"):
	case len(args) == 1:
		query = args[0]
	default:
		return &UsageError{Cmd: cmd.CommandPath(), Err: errors.New("a query is required: pass --q or a positional argument")}
	}

	book, closeBook, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer closeBook()

	hits := book.Find(query)

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, types.NewContactListResponse(hits))
	}
	if len(hits) == 0 {
		fmt.Fprintln(out, NoMatches)
		return nil
	}
	fmt.Fprintln(out, ui.RenderContacts(hits, styled(out)))
	return nil
}
