package types

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/josephgoksu/contactbook/models"
)

func TestAppConfig_Validation(t *testing.T) {
	validate := validator.New()

	tests := []struct {
		name    string
		config  AppConfig
		wantErr bool
	}{
		{name: "zero value", config: AppConfig{}},
		{name: "full", config: AppConfig{DB: "c.db", Format: "sqlite", OnCorrupt: "fail", Log: LogConfig{Level: "debug", Format: "json"}}},
		{name: "bad format", config: AppConfig{Format: "toml"}, wantErr: true},
		{name: "bad policy", config: AppConfig{OnCorrupt: "ignore"}, wantErr: true},
		{name: "bad log level", config: AppConfig{Log: LogConfig{Level: "trace"}}, wantErr: true},
		{name: "bad log format", config: AppConfig{Log: LogConfig{Format: "logfmt"}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("Struct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewContactListResponse_NeverNil(t *testing.T) {
	resp := NewContactListResponse(nil)
	if resp.Contacts == nil {
		t.Fatal("Contacts must be an empty slice, not nil")
	}
	if resp.Total != 0 {
		t.Errorf("Total = %d, want 0", resp.Total)
	}

	resp = NewContactListResponse([]models.Contact{{ID: 1}, {ID: 2}})
	if resp.Total != 2 {
		t.Errorf("Total = %d, want 2", resp.Total)
	}
}

func TestMCPError(t *testing.T) {
	err := NewMCPError(CodeContactNotFound, "contact 3 not found", map[string]any{"id": 3})
	if err.Error() != "CONTACT_NOT_FOUND: contact 3 not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
