/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/contactbook/internal/contacts"
	"github.com/josephgoksu/contactbook/internal/ui"
	"github.com/josephgoksu/contactbook/types"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List contacts",
	Long: `List every contact as a table. Contacts are sorted by name (ignoring case)
unless --sort-by id is given; contacts with equal names keep the order they
were added in.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().String("sort-by", string(contacts.SortByName), "sort key: name or id")
	listCmd.Flags().Bool("reverse", false, "reverse the sort order")
}

// sortFlags reads --sort-by and --reverse. Unknown keys fall back to name.
func sortFlags(cmd *cobra.Command) (contacts.SortKey, bool) {
	raw, _ := cmd.Flags().GetString("sort-by")
	reverse, _ := cmd.Flags().GetBool("reverse")
	key, ok := contacts.ParseSortKey(raw)
	if !ok {
		appLogger.Debug("unknown sort key, using name", zap.String("sort_by", raw))
	}
	return key, reverse
}

func runList(cmd *cobra.Command, args []string) error {
	key, reverse := sortFlags(cmd)

	book, closeBook, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer closeBook()

	list := book.List(key, reverse)

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, types.NewContactListResponse(list))
	}
	fmt.Fprintln(out, ui.RenderContacts(list, styled(out)))
	return nil
}
