package question

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

type MultipleChoice struct {
	question Question
	Options  []string
}

func NewMultipleChoice(q Question) (MultipleChoice, error) {
	options, err := validateAndExtractOptions(q)
	if err != nil {
		return MultipleChoice{}, err
	}

	return MultipleChoice{
		question: q,
		Options:  options,
	}, nil
}

func (m MultipleChoice) Question() Question {
	return m.question
}

func (m MultipleChoice) Validate(value string) error {
	if slices.Contains(m.Options, value) {
		return nil
	}

	return ErrInvalidOption{
		QuestionID: m.question.ID.String(),
		Value:      value,
	}
}

// GenerateOptionMetadata creates and validates metadata JSON for choice questions.
func GenerateOptionMetadata(options []string) ([]byte, error) {
	if len(options) == 0 {
		return nil, ErrMetadataValidate{
			QuestionType: string(TypeMultipleChoice),
			Message:      "no options provided for choice question",
		}
	}

	cleaned := make([]string, len(options))
	for i, option := range options {
		option = strings.TrimSpace(option)
		if option == "" {
			return nil, ErrMetadataValidate{
				QuestionType: string(TypeMultipleChoice),
				Message:      "option cannot be empty",
			}
		}
		cleaned[i] = option
	}

	metadata := map[string]any{
		"options": cleaned,
	}

	return json.Marshal(metadata)
}

func ExtractOptions(data []byte) ([]string, error) {
	var partial map[string]json.RawMessage
	err := json.Unmarshal(data, &partial)
	if err != nil {
		return nil, fmt.Errorf("could not parse partial json: %w", err)
	}

	var options []string
	if raw, ok := partial["options"]; ok {
		err := json.Unmarshal(raw, &options)
		if err != nil {
			return nil, fmt.Errorf("could not parse options: %w", err)
		}
	}

	return options, nil
}

func validateAndExtractOptions(q Question) ([]string, error) {
	if q.Metadata == nil {
		return nil, ErrMetadataBroken{
			QuestionID: q.ID.String(),
			RawData:    nil,
			Message:    "metadata is nil",
		}
	}

	options, err := ExtractOptions(q.Metadata)
	if err != nil {
		return nil, ErrMetadataBroken{
			QuestionID: q.ID.String(),
			RawData:    q.Metadata,
			Message:    "could not extract options from metadata",
		}
	}

	if len(options) == 0 {
		return nil, ErrMetadataBroken{
			QuestionID: q.ID.String(),
			RawData:    q.Metadata,
			Message:    "no options found in metadata",
		}
	}

	return options, nil
}
