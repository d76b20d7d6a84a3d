package question

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func createChoiceQuestion(t *testing.T, options []string) Question {
	t.Helper()

	metadata, err := GenerateOptionMetadata(options)
	if err != nil {
		t.Fatalf("Failed to generate option metadata: %v", err)
	}

	return Question{
		ID:       uuid.New(),
		Type:     TypeMultipleChoice,
		Metadata: metadata,
	}
}

func TestMultipleChoice_Validate(t *testing.T) {
	q := createChoiceQuestion(t, []string{"Yes", "No", "Maybe"})
	mc, err := NewMultipleChoice(q)
	if err != nil {
		t.Fatalf("Failed to create multiple choice: %v", err)
	}

	tests := []struct {
		name        string
		value       string
		shouldError bool
	}{
		{
			name:        "Should accept first option",
			value:       "Yes",
			shouldError: false,
		},
		{
			name:        "Should accept last option",
			value:       "Maybe",
			shouldError: false,
		},
		{
			name:        "Should reject value outside the option set",
			value:       "Sometimes",
			shouldError: true,
		},
		{
			name:        "Should reject empty value",
			value:       "",
			shouldError: true,
		},
		{
			name:        "Should reject case mismatch",
			value:       "yes",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mc.Validate(tt.value)

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				var invalidOption ErrInvalidOption
				if !errors.As(err, &invalidOption) {
					t.Errorf("Expected ErrInvalidOption, got %T", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNewMultipleChoice_Metadata(t *testing.T) {
	tests := []struct {
		name        string
		metadata    []byte
		shouldError bool
	}{
		{
			name:        "Should accept valid options metadata",
			metadata:    []byte(`{"options":["A","B"]}`),
			shouldError: false,
		},
		{
			name:        "Should reject nil metadata",
			metadata:    nil,
			shouldError: true,
		},
		{
			name:        "Should reject malformed metadata",
			metadata:    []byte(`not json`),
			shouldError: true,
		},
		{
			name:        "Should reject metadata without options",
			metadata:    []byte(`{}`),
			shouldError: true,
		},
		{
			name:        "Should reject empty options list",
			metadata:    []byte(`{"options":[]}`),
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMultipleChoice(Question{
				ID:       uuid.New(),
				Type:     TypeMultipleChoice,
				Metadata: tt.metadata,
			})

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				var broken ErrMetadataBroken
				if !errors.As(err, &broken) {
					t.Errorf("Expected ErrMetadataBroken, got %T", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestGenerateOptionMetadata(t *testing.T) {
	tests := []struct {
		name        string
		options     []string
		expected    []string
		shouldError bool
	}{
		{
			name:        "Should produce round-trippable metadata",
			options:     []string{"Yes", "No"},
			expected:    []string{"Yes", "No"},
			shouldError: false,
		},
		{
			name:        "Should trim surrounding whitespace",
			options:     []string{"  Yes ", "No"},
			expected:    []string{"Yes", "No"},
			shouldError: false,
		},
		{
			name:        "Should reject empty option list",
			options:     nil,
			shouldError: true,
		},
		{
			name:        "Should reject blank option",
			options:     []string{"Yes", "   "},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata, err := GenerateOptionMetadata(tt.options)

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			options, err := ExtractOptions(metadata)
			if err != nil {
				t.Errorf("Failed to extract options back: %v", err)
				return
			}
			if len(options) != len(tt.expected) {
				t.Fatalf("Expected %d options, got %d", len(tt.expected), len(options))
			}
			for i, option := range options {
				if option != tt.expected[i] {
					t.Errorf("Expected option %q at index %d, got %q", tt.expected[i], i, option)
				}
			}
		})
	}
}

func TestExtractOptions(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		expected    int
		shouldError bool
	}{
		{
			name:     "Should extract options array",
			data:     `{"options":["A","B","C"]}`,
			expected: 3,
		},
		{
			name:     "Should return no options when key is absent",
			data:     `{"other":true}`,
			expected: 0,
		},
		{
			name:        "Should return error for invalid json",
			data:        `invalid`,
			shouldError: true,
		},
		{
			name:        "Should return error when options is not an array",
			data:        `{"options":"A"}`,
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := ExtractOptions(json.RawMessage(tt.data))

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}

			if len(options) != tt.expected {
				t.Errorf("Expected %d options, got %d", tt.expected, len(options))
			}
		})
	}
}
