package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/josephgoksu/contactbook/internal/contacts"
	"github.com/josephgoksu/contactbook/models"
	"github.com/josephgoksu/contactbook/store"
	"github.com/josephgoksu/contactbook/types"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readOnlyBackend refuses every save.
type readOnlyBackend struct {
	*store.MemoryBackend
}

func (readOnlyBackend) Location() string { return "/ro/contacts.json" }

func (b readOnlyBackend) Save(_ context.Context, _ models.ContactList) error {
	return &store.PersistenceError{Op: "save", Path: b.Location(), Err: errors.New("read-only file system")}
}

func newTestBook(t *testing.T) *contacts.Book {
	t.Helper()
	book, err := contacts.Open(context.Background(), store.NewMemoryBackend(), nil)
	require.NoError(t, err)
	return book
}

func requireMCPError(t *testing.T, err error, code string) *types.MCPError {
	t.Helper()
	var mcpErr *types.MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, code, mcpErr.Code)
	return mcpErr
}

func TestAddContactHandler(t *testing.T) {
	book := newTestBook(t)
	handler := addContactHandler(book)

	params := &mcp.CallToolParamsFor[types.AddContactParams]{
		Arguments: types.AddContactParams{Name: "  Ada ", Phone: "123", Tags: []string{"math", " "}},
	}
	res, err := handler(context.Background(), nil, params)
	if err != nil {
		t.Fatalf("add-contact error: %v", err)
	}

	assert.Equal(t, models.Contact{ID: 1, Name: "Ada", Phone: "123", Tags: []string{"math"}}, res.StructuredContent)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "Added contact #1: Ada", text.Text)
	assert.Equal(t, 1, book.Len())
}

func TestAddContactHandler_Invalid(t *testing.T) {
	book := newTestBook(t)
	handler := addContactHandler(book)

	params := &mcp.CallToolParamsFor[types.AddContactParams]{
		Arguments: types.AddContactParams{Name: "", Phone: " "},
	}
	_, err := handler(context.Background(), nil, params)

	mcpErr := requireMCPError(t, err, types.CodeInvalidContact)
	assert.Equal(t, "invalid contact: name is required, phone is required", mcpErr.Message)
	assert.Equal(t, []string{"name", "phone"}, mcpErr.Details["fields"])
	assert.Equal(t, 0, book.Len())
	assert.Equal(t, 1, book.NextID())
}

func TestAddContactHandler_PersistenceFailure(t *testing.T) {
	book, err := contacts.Open(context.Background(), readOnlyBackend{store.NewMemoryBackend()}, nil)
	require.NoError(t, err)

	params := &mcp.CallToolParamsFor[types.AddContactParams]{
		Arguments: types.AddContactParams{Name: "Ada", Phone: "123"},
	}
	_, err = addContactHandler(book)(context.Background(), nil, params)

	mcpErr := requireMCPError(t, err, types.CodePersistenceFailed)
	assert.Contains(t, mcpErr.Message, "/ro/contacts.json")
	assert.Equal(t, 0, book.Len())
}

func TestListContactsHandler(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()
	for _, name := range []string{"carol", "Bob", "alice"} {
		_, err := book.Add(ctx, contacts.NewContact{Name: name, Phone: "1"})
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		args    types.ListContactsParams
		wantIDs []int
	}{
		{name: "default sorts by name", args: types.ListContactsParams{}, wantIDs: []int{3, 2, 1}},
		{name: "by id", args: types.ListContactsParams{SortBy: "id"}, wantIDs: []int{1, 2, 3}},
		{name: "by id reversed", args: types.ListContactsParams{SortBy: "id", Reverse: true}, wantIDs: []int{3, 2, 1}},
		{name: "unknown key", args: types.ListContactsParams{SortBy: "email"}, wantIDs: []int{3, 2, 1}},
	}

	handler := listContactsHandler(book)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := handler(ctx, nil, &mcp.CallToolParamsFor[types.ListContactsParams]{Arguments: tt.args})
			require.NoError(t, err)

			var ids []int
			for _, c := range res.StructuredContent.Contacts {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, 3, res.StructuredContent.Total)
		})
	}
}

func TestFindContactsHandler(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()
	for _, name := range []string{"Alice", "Alicia", "Charlie"} {
		_, err := book.Add(ctx, contacts.NewContact{Name: name, Phone: "1"})
		require.NoError(t, err)
	}
	handler := findContactsHandler(book)

	res, err := handler(ctx, nil, &mcp.CallToolParamsFor[types.FindContactsParams]{
		Arguments: types.FindContactsParams{Query: "LIC"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.StructuredContent.Total)
	assert.Equal(t, "Alice", res.StructuredContent.Contacts[0].Name)
	assert.Equal(t, "Alicia", res.StructuredContent.Contacts[1].Name)

	res, err = handler(ctx, nil, &mcp.CallToolParamsFor[types.FindContactsParams]{
		Arguments: types.FindContactsParams{Query: " "},
	})
	require.NoError(t, err)
	assert.NotNil(t, res.StructuredContent.Contacts)
	assert.Empty(t, res.StructuredContent.Contacts)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, NoMatches, text.Text)
}

func TestDeleteContactHandler(t *testing.T) {
	book := newTestBook(t)
	ctx := context.Background()
	_, err := book.Add(ctx, contacts.NewContact{Name: "Ada", Phone: "1"})
	require.NoError(t, err)
	handler := deleteContactHandler(book)

	res, err := handler(ctx, nil, &mcp.CallToolParamsFor[types.DeleteContactParams]{
		Arguments: types.DeleteContactParams{ID: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, types.DeleteContactResponse{Deleted: true, ID: 1}, res.StructuredContent)
	assert.Equal(t, 0, book.Len())

	_, err = handler(ctx, nil, &mcp.CallToolParamsFor[types.DeleteContactParams]{
		Arguments: types.DeleteContactParams{ID: 1},
	})
	mcpErr := requireMCPError(t, err, types.CodeContactNotFound)
	assert.Equal(t, "contact id 1 not found", mcpErr.Message)
	assert.Equal(t, 1, mcpErr.Details["id"])
}

func TestWrapBookError_Fallback(t *testing.T) {
	err := wrapBookError(errors.New("boom"), "list", 0)
	mcpErr := requireMCPError(t, err, types.CodeOperationFailed)
	assert.Equal(t, "list operation failed: boom", mcpErr.Message)
}

func TestNewMCPServer(t *testing.T) {
	server := newMCPServer(newTestBook(t))
	if server == nil {
		t.Fatal("newMCPServer returned nil")
	}
}
