/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"fmt"

	"github.com/josephgoksu/contactbook/internal/contacts"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI tool integration",
	Long: `Start a Model Context Protocol (MCP) server so that AI assistants can read
and edit the contact book.

The MCP server runs over stdin/stdout and provides tools for:
- Adding new contacts
- Listing contacts
- Searching contacts
- Deleting contacts

Example:
  contactbook --db ~/contacts.json mcp

The server will run until the client disconnects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCPServer(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServer(ctx context.Context) error {
	book, closeBook, err := openBook(ctx)
	if err != nil {
		return err
	}
	defer closeBook()

	server := newMCPServer(book)
	appLogger.Info("mcp server starting", zap.String("location", book.Location()))

	// Run the server over stdin/stdout
	if err := server.Run(ctx, mcp.NewStdioTransport()); err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// newMCPServer creates a server exposing book through the contact tools.
func newMCPServer(book *contacts.Book) *mcp.Server {
	impl := &mcp.Implementation{
		Name:    "contactbook",
		Version: version,
	}
	server := mcp.NewServer(impl, &mcp.ServerOptions{})
	registerMCPTools(server, book)
	return server
}

func registerMCPTools(server *mcp.Server, book *contacts.Book) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add-contact",
		Description: "Add a contact. Name and phone are required; email and tags are optional. Returns the stored contact with its assigned ID.",
	}, addContactHandler(book))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list-contacts",
		Description: "List all contacts sorted by name (case-insensitive) or by id. Returns the contacts and their count.",
	}, listContactsHandler(book))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find-contacts",
		Description: "Find contacts whose name, phone, email or tags contain the query, ignoring case. A blank query matches nothing.",
	}, findContactsHandler(book))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete-contact",
		Description: "Delete a contact by ID. Deleted ids are never reused. Fails with CONTACT_NOT_FOUND when the id does not exist.",
	}, deleteContactHandler(book))
}

func logToolCall(toolName string, params any) {
	appLogger.Debug("mcp tool called", zap.String("tool", toolName), zap.Any("params", params))
}
