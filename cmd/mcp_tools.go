/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

// Contact MCP tools: add, list, find, delete

import (
	"context"
	"errors"
	"fmt"

	"github.com/josephgoksu/contactbook/internal/contacts"
	"github.com/josephgoksu/contactbook/models"
	"github.com/josephgoksu/contactbook/store"
	"github.com/josephgoksu/contactbook/types"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

// addContactHandler creates a new contact
func addContactHandler(book *contacts.Book) mcp.ToolHandlerFor[types.AddContactParams, models.Contact] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.AddContactParams]) (*mcp.CallToolResultFor[models.Contact], error) {
		args := params.Arguments
		logToolCall("add-contact", args)

		c, err := book.Add(ctx, contacts.NewContact{
			Name:  args.Name,
			Phone: args.Phone,
			Email: args.Email,
			Tags:  args.Tags,
		})
		if err != nil {
			return nil, wrapBookError(err, "add", 0)
		}

		return &mcp.CallToolResultFor[models.Contact]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Added contact #%d: %s", c.ID, c.Name)},
			},
			StructuredContent: c,
		}, nil
	}
}

// listContactsHandler lists every contact
func listContactsHandler(book *contacts.Book) mcp.ToolHandlerFor[types.ListContactsParams, types.ContactListResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.ListContactsParams]) (*mcp.CallToolResultFor[types.ContactListResponse], error) {
		args := params.Arguments
		logToolCall("list-contacts", args)

		key, ok := contacts.ParseSortKey(args.SortBy)
		if !ok && args.SortBy != "" {
			appLogger.Debug("unknown sort key, using name", zap.String("sort_by", args.SortBy))
		}
		resp := types.NewContactListResponse(book.List(key, args.Reverse))

		return &mcp.CallToolResultFor[types.ContactListResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("%d contact(s)", resp.Total)},
			},
			StructuredContent: resp,
		}, nil
	}
}

// findContactsHandler searches contacts by substring
func findContactsHandler(book *contacts.Book) mcp.ToolHandlerFor[types.FindContactsParams, types.ContactListResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.FindContactsParams]) (*mcp.CallToolResultFor[types.ContactListResponse], error) {
		args := params.Arguments
		logToolCall("find-contacts", args)

		resp := types.NewContactListResponse(book.Find(args.Query))
		text := fmt.Sprintf("%d contact(s) match %q", resp.Total, args.Query)
		if resp.Total == 0 {
			text = NoMatches
		}

		return &mcp.CallToolResultFor[types.ContactListResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: text},
			},
			StructuredContent: resp,
		}, nil
	}
}

// deleteContactHandler deletes a contact by id
func deleteContactHandler(book *contacts.Book) mcp.ToolHandlerFor[types.DeleteContactParams, types.DeleteContactResponse] {
	return func(ctx context.Context, ss *mcp.ServerSession, params *mcp.CallToolParamsFor[types.DeleteContactParams]) (*mcp.CallToolResultFor[types.DeleteContactResponse], error) {
		args := params.Arguments
		logToolCall("delete-contact", args)

		ok, err := book.Delete(ctx, args.ID)
		if err != nil {
			return nil, wrapBookError(err, "delete", args.ID)
		}
		if !ok {
			return nil, wrapBookError(fmt.Errorf("%w: id %d", contacts.ErrNotFound, args.ID), "delete", args.ID)
		}

		return &mcp.CallToolResultFor[types.DeleteContactResponse]{
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Deleted contact id %d", args.ID)},
			},
			StructuredContent: types.DeleteContactResponse{Deleted: true, ID: args.ID},
		}, nil
	}
}

// wrapBookError converts book and store errors into structured MCP errors.
func wrapBookError(err error, operation string, id int) error {
	var (
		invalid    *contacts.ValidationError
		persistErr *store.PersistenceError
	)
	switch {
	case errors.As(err, &invalid):
		fields := make([]string, 0, len(invalid.Fields))
		for _, f := range invalid.Fields {
			fields = append(fields, f.Field)
		}
		return types.NewMCPError(types.CodeInvalidContact, invalid.Error(), map[string]any{
			"operation": operation,
			"fields":    fields,
		})
	case errors.Is(err, contacts.ErrNotFound):
		return types.NewMCPError(types.CodeContactNotFound, fmt.Sprintf("contact id %d not found", id), map[string]any{
			"operation": operation,
			"id":        id,
		})
	case errors.As(err, &persistErr):
		return types.NewMCPError(types.CodePersistenceFailed, fmt.Sprintf("could not %s contacts at %s", persistErr.Op, persistErr.Path), map[string]any{
			"operation":      operation,
			"original_error": err.Error(),
		})
	default:
		return types.NewMCPError(types.CodeOperationFailed, fmt.Sprintf("%s operation failed: %v", operation, err), map[string]any{
			"operation": operation,
		})
	}
}
