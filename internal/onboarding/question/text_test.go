package question

import (
	"testing"

	"github.com/google/uuid"
)

func TestText_Validate(t *testing.T) {
	txt := NewText(Question{ID: uuid.New(), Type: TypeText})

	tests := []struct {
		name  string
		value string
	}{
		{
			name:  "Should accept free-form text",
			value: "I have a persistent headache in the mornings.",
		},
		{
			name:  "Should accept empty value",
			value: "",
		},
		{
			name:  "Should accept numeric text",
			value: "12345",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := txt.Validate(tt.value); err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestNewAnswerable(t *testing.T) {
	choiceMetadata := []byte(`{"options":["Yes","No"]}`)

	tests := []struct {
		name         string
		question     Question
		shouldError  bool
		expectedType QuestionType
	}{
		{
			name:         "Should build text answerable",
			question:     Question{ID: uuid.New(), Type: TypeText},
			expectedType: TypeText,
		},
		{
			name:         "Should build multiple choice answerable",
			question:     Question{ID: uuid.New(), Type: TypeMultipleChoice, Metadata: choiceMetadata},
			expectedType: TypeMultipleChoice,
		},
		{
			name:         "Should build rating answerable",
			question:     Question{ID: uuid.New(), Type: TypeRating},
			expectedType: TypeRating,
		},
		{
			name:         "Should build checkbox answerable",
			question:     Question{ID: uuid.New(), Type: TypeCheckbox},
			expectedType: TypeCheckbox,
		},
		{
			name:        "Should return error for unknown type",
			question:    Question{ID: uuid.New(), Type: QuestionType("date")},
			shouldError: true,
		},
		{
			name:        "Should return error for choice question without metadata",
			question:    Question{ID: uuid.New(), Type: TypeMultipleChoice},
			shouldError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answerable, err := NewAnswerable(tt.question)

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

			if answerable.Question().Type != tt.expectedType {
				t.Errorf("Expected question type %s, got %s", tt.expectedType, answerable.Question().Type)
			}
		})
	}
}
