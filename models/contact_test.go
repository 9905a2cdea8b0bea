package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContactList_Normalize(t *testing.T) {
	tests := []struct {
		name   string
		in     ContactList
		wantID int
	}{
		{name: "zero value", in: ContactList{}, wantID: 1},
		{name: "counter behind max id", in: ContactList{NextID: 2, Contacts: []Contact{{ID: 5}}}, wantID: 6},
		{name: "counter ahead of max id", in: ContactList{NextID: 9, Contacts: []Contact{{ID: 3}}}, wantID: 9},
		{name: "negative counter", in: ContactList{NextID: -4}, wantID: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := tt.in
			l.Normalize()
			assert.Equal(t, tt.wantID, l.NextID)
			assert.NotNil(t, l.Contacts)
			for _, c := range l.Contacts {
				assert.NotNil(t, c.Tags)
			}
		})
	}
}

func TestContactList_CloneIsDeep(t *testing.T) {
	orig := ContactList{NextID: 2, Contacts: []Contact{{ID: 1, Name: "Ada", Phone: "1", Tags: []string{"a"}}}}
	cp := orig.Clone()

	cp.Contacts[0].Name = "changed"
	cp.Contacts[0].Tags[0] = "changed"

	assert.Equal(t, "Ada", orig.Contacts[0].Name)
	assert.Equal(t, []string{"a"}, orig.Contacts[0].Tags)
}

func TestContact_JoinedTags(t *testing.T) {
	assert.Equal(t, "", Contact{}.JoinedTags())
	assert.Equal(t, "sales,apac", Contact{Tags: []string{"sales", "apac"}}.JoinedTags())
}

func TestContact_RequiredFields(t *testing.T) {
	assert.NoError(t, Validator().Struct(Contact{ID: 1, Name: "Ada", Phone: "1"}))
	assert.Error(t, Validator().Struct(Contact{ID: 1, Name: "Ada"}))
}
