package internal

import (
	"testing"
)

func TestNewValidator_PhoneRule(t *testing.T) {
	v := NewValidator()

	type payload struct {
		Phone string `validate:"required,phone_et"`
	}

	tests := []struct {
		name        string
		phone       string
		shouldError bool
	}{
		{
			name:        "Should accept local format",
			phone:       "0911234567",
			shouldError: false,
		},
		{
			name:        "Should accept international format",
			phone:       "+251911234567",
			shouldError: false,
		},
		{
			name:        "Should reject landline prefix",
			phone:       "0111234567",
			shouldError: true,
		},
		{
			name:        "Should reject short number",
			phone:       "09112345",
			shouldError: true,
		},
		{
			name:        "Should reject non-numeric input",
			phone:       "not-a-phone",
			shouldError: true,
		},
		{
			name:        "Should reject empty value",
			phone:       "",
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(payload{Phone: tt.phone})

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error but got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
