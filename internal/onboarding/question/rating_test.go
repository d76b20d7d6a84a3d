package question

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestRating_Validate(t *testing.T) {
	r := NewRating(Question{ID: uuid.New(), Type: TypeRating})

	tests := []struct {
		name        string
		value       string
		shouldError bool
	}{
		{
			name:        "Should accept integer value",
			value:       "4",
			shouldError: false,
		},
		{
			name:        "Should accept decimal value",
			value:       "3.5",
			shouldError: false,
		},
		{
			name:        "Should accept negative value",
			value:       "-1",
			shouldError: false,
		},
		{
			name:        "Should reject non-numeric value",
			value:       "abc",
			shouldError: true,
		},
		{
			name:        "Should accept empty value as zero",
			value:       "",
			shouldError: false,
		},
		{
			name:        "Should reject number with trailing text",
			value:       "4 stars",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Validate(tt.value)

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				var notANumber ErrNotANumber
				if !errors.As(err, &notANumber) {
					t.Errorf("Expected ErrNotANumber, got %T", err)
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
