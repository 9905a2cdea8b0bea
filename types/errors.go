/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "fmt"

// MCP error codes
const (
	CodeInvalidContact    = "INVALID_CONTACT"
	CodeContactNotFound   = "CONTACT_NOT_FOUND"
	CodePersistenceFailed = "PERSISTENCE_FAILED"
	CodeOperationFailed   = "OPERATION_FAILED"
)

// MCPError provides structured error information for MCP responses
type MCPError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewMCPError creates a new structured MCP error
func NewMCPError(code string, message string, details map[string]any) *MCPError {
	return &MCPError{
		Code:    code,
		Message: message,
		Details: details,
	}
}
