package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func commentSchema(name string, keys ...string) *Schema {
	props := map[string]any{}
	for _, k := range keys {
		props[k] = map[string]any{"type": "string", "minLength": 1}
	}
	return &Schema{
		Name: name,
		Definition: map[string]any{
			"type":                 "object",
			"properties":           props,
			"required":             keys,
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	schema := commentSchema("category-commentary", "business", "data")

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"business":"Solid plan.","data":"Thin data."}`, false},
		{"missing required", `{"business":"Solid plan."}`, true},
		{"wrong type", `{"business":"ok","data":3}`, true},
		{"empty string", `{"business":"","data":"x"}`, true},
		{"extra property", `{"business":"a","data":"b","tech":"c"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(schema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse(%s) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
				if string(invErr.Content) != tt.raw {
					t.Errorf("Content = %q, want %q", invErr.Content, tt.raw)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_SameNameDifferentShape(t *testing.T) {
	narrow := commentSchema("shared-name", "business")
	wide := commentSchema("shared-name", "business", "data")

	raw := json.RawMessage(`{"business":"ok"}`)
	if err := validateResponse(narrow, raw); err != nil {
		t.Fatalf("narrow schema: %v", err)
	}
	if err := validateResponse(wide, raw); err == nil {
		t.Fatal("wide schema should reject a response missing data")
	}
}
