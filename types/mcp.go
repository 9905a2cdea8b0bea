/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "github.com/josephgoksu/contactbook/models"

// MCP Tool Parameter Types

// AddContactParams for creating a new contact
type AddContactParams struct {
	Name  string   `json:"name" mcp:"Contact name (required)"`
	Phone string   `json:"phone" mcp:"Phone number (required)"`
	Email string   `json:"email,omitempty" mcp:"Email address"`
	Tags  []string `json:"tags,omitempty" mcp:"Free-form labels"`
}

// ListContactsParams for listing contacts
type ListContactsParams struct {
	SortBy  string `json:"sortBy,omitempty" mcp:"Sort by: name, id (default name)"`
	Reverse bool   `json:"reverse,omitempty" mcp:"Reverse the sort order"`
}

// FindContactsParams for substring search
type FindContactsParams struct {
	Query string `json:"query" mcp:"Case-insensitive substring matched against name, phone, email and tags"`
}

// DeleteContactParams for deleting a contact
type DeleteContactParams struct {
	ID int `json:"id" mcp:"Contact ID to delete (required)"`
}

// MCP Response Types

// ContactListResponse is the payload of list-contacts, find-contacts and
// the --json output of list and find.
type ContactListResponse struct {
	Contacts []models.Contact `json:"contacts"`
	Total    int              `json:"total"`
}

// DeleteContactResponse reports a successful deletion.
type DeleteContactResponse struct {
	Deleted bool `json:"deleted"`
	ID      int  `json:"id"`
}

// NewContactListResponse wraps list, never emitting a null array.
func NewContactListResponse(list []models.Contact) ContactListResponse {
	if list == nil {
		list = []models.Contact{}
	}
	return ContactListResponse{Contacts: list, Total: len(list)}
}
