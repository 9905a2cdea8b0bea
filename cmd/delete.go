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
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"rm"},
	Short:   "Delete a contact by ID",
	Long: `Delete the contact with the given id. Its id is never handed out again.
Exits with status 1 when no contact has that id.`,
	Example: `  contactbook delete --id 2`,
	Args:    cobra.NoArgs,
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().Int("id", 0, "contact id (required)")
	_ = deleteCmd.MarkFlagRequired("id")
}

func runDelete(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt("id")

	book, closeBook, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer closeBook()

	ok, err := book.Delete(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return &ExitError{
			Code: ExitNotFound,
			Msg:  fmt.Sprintf("contact id %d not found.", id),
			Err:  fmt.Errorf("%w: id %d", contacts.ErrNotFound, id),
		}
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, types.DeleteContactResponse{Deleted: true, ID: id})
	}

	msg := fmt.Sprintf("Deleted contact id %d", id)
	if styled(out) {
		msg = ui.StyleSuccess.Render(msg)
	}
	fmt.Fprintln(out, msg)
	return nil
}
