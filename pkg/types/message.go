package types

import (
	"bytes"
	"encoding/json"
)

// SchemaError reports a request that is well-formed JSON but violates the
// request schema.
type SchemaError struct {
	Field string
	Msg   string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return e.Field + ": " + e.Msg
}

// UnmarshalJSON requires role and content to be present and non-null.
func (m *Message) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return &SchemaError{Field: "messages", Msg: "message must be an object"}
	}
	var raw struct {
		Role    *Role   `json:"role"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Role == nil {
		return &SchemaError{Field: "role", Msg: "is required"}
	}
	if raw.Content == nil {
		return &SchemaError{Field: "content", Msg: "is required"}
	}
	m.Role, m.Content = *raw.Role, *raw.Content
	return nil
}
