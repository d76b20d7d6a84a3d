package question

import (
	"fmt"

	"CareSync/healthcare-backend/internal"
)

type ErrUnsupportedQuestionType struct {
	QuestionType string
}

func (e ErrUnsupportedQuestionType) Error() string {
	return fmt.Sprintf("unsupported question type: %s", e.QuestionType)
}

func (e ErrUnsupportedQuestionType) Unwrap() error {
	return internal.ErrInvalidRequestBody
}

type ErrInvalidOption struct {
	QuestionID string
	Value      string
}

func (e ErrInvalidOption) Error() string {
	return fmt.Sprintf("value %q is not a valid option for question %s", e.Value, e.QuestionID)
}

func (e ErrInvalidOption) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrNotANumber struct {
	QuestionID string
	RawValue   string
}

func (e ErrNotANumber) Error() string {
	return fmt.Sprintf("invalid rating for question %s: %q is not a number", e.QuestionID, e.RawValue)
}

func (e ErrNotANumber) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrInvalidBoolean struct {
	QuestionID string
	RawValue   string
}

func (e ErrInvalidBoolean) Error() string {
	return fmt.Sprintf("invalid checkbox value for question %s: %q, must be 'true' or 'false'", e.QuestionID, e.RawValue)
}

func (e ErrInvalidBoolean) Unwrap() error {
	return internal.ErrValidationFailed
}

// ErrMetadataBroken is returned when stored metadata is corrupted and cannot be recovered.
type ErrMetadataBroken struct {
	QuestionID string
	RawData    []byte
	Message    string
}

func (e ErrMetadataBroken) Error() string {
	return fmt.Sprintf("metadata broken for question %s: %s, raw data: %s", e.QuestionID, e.Message, e.RawData)
}

func (e ErrMetadataBroken) Unwrap() error {
	return internal.ErrInternalServerError
}

type ErrMetadataValidate struct {
	QuestionType string
	Message      string
}

func (e ErrMetadataValidate) Error() string {
	return fmt.Sprintf("metadata validation failed for %s question: %s", e.QuestionType, e.Message)
}

func (e ErrMetadataValidate) Unwrap() error {
	return internal.ErrValidationFailed
}
