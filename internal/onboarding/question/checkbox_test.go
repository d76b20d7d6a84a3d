package question

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestCheckbox_Validate(t *testing.T) {
	c := NewCheckbox(Question{ID: uuid.New(), Type: TypeCheckbox})

	tests := []struct {
		name        string
		value       string
		shouldError bool
	}{
		{
			name:        "Should accept true",
			value:       "true",
			shouldError: false,
		},
		{
			name:        "Should accept false",
			value:       "false",
			shouldError: false,
		},
		{
			name:        "Should reject numeric one",
			value:       "1",
			shouldError: true,
		},
		{
			name:        "Should reject yes",
			value:       "yes",
			shouldError: true,
		},
		{
			name:        "Should reject uppercase variant",
			value:       "TRUE",
			shouldError: true,
		},
		{
			name:        "Should reject empty value",
			value:       "",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Validate(tt.value)

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				var invalidBoolean ErrInvalidBoolean
				if !errors.As(err, &invalidBoolean) {
					t.Errorf("Expected ErrInvalidBoolean, got %T", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
