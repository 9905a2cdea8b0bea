/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"

	"github.com/josephgoksu/contactbook/internal/contacts"
	"github.com/josephgoksu/contactbook/internal/ui"
	"github.com/spf13/cobra"
)

// addCmd represents the add command
var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new contact",
	Long: `Add a contact to the book. Name and phone are required; surrounding
whitespace is trimmed and blank tags are dropped. The new contact gets the
next unused id.`,
	Example: `  contactbook add --name "Ada Lovelace" --phone 555-0100
  contactbook add --name Bob --phone 555-0199 --email bob@example.com --tags work,golf
  contactbook add --name Cy --phone 1 --tags friends --tags gym
  contactbook add --name Di --phone 2 --tags sales apac`,
	Args: tagArgs,
	RunE: runAdd,
}

// tagArgs lets words following --tags count as further tags, so
// "--tags sales apac" works like "--tags sales,apac".
func tagArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 && !cmd.Flags().Changed("tags") {
		return &UsageError{
			Cmd: cmd.CommandPath(),
			Err: fmt.Errorf("unexpected argument %q; extra words are only accepted as tags after --tags", args[0]),
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().String("name", "", "contact name (required)")
	addCmd.Flags().String("phone", "", "phone number (required)")
	addCmd.Flags().String("email", "", "email address")
	addCmd.Flags().StringSlice("tags", nil, "tags, comma or space separated, or repeated")
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("phone")
}

func runAdd(cmd *cobra.Command, args []string) error {
	name, _ := cmd.Flags().GetString("name")
	phone, _ := cmd.Flags().GetString("phone")
	email, _ := cmd.Flags().GetString("email")
	tags, _ := cmd.Flags().GetStringSlice("tags")
	tags = append(tags, args...)

	book, closeBook, err := openBook(cmd.Context())
	if err != nil {
		return err
	}
	defer closeBook()

	c, err := book.Add(cmd.Context(), contacts.NewContact{
		Name:  name,
		Phone: phone,
		Email: email,
		Tags:  tags,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if isJSON() {
		return printJSON(out, c)
	}

	msg := fmt.Sprintf("Added contact #%d: %s", c.ID, c.Name)
	if styled(out) {
		msg = ui.StyleSuccess.Render(msg)
	}
	fmt.Fprintln(out, msg)
	return nil
}
