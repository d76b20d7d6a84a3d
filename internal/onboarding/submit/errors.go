package submit

import (
	"fmt"

	"CareSync/healthcare-backend/internal"
)

type ErrUnknownQuestion struct {
	QuestionID      string
	QuestionnaireID string
}

func (e ErrUnknownQuestion) Error() string {
	return fmt.Sprintf("question %s not found in questionnaire %s", e.QuestionID, e.QuestionnaireID)
}

func (e ErrUnknownQuestion) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrRequiredAnswerMissing struct {
	QuestionID string
	Title      string
}

func (e ErrRequiredAnswerMissing) Error() string {
	return fmt.Sprintf("question %s (%s) is required but no answer was provided", e.QuestionID, e.Title)
}

func (e ErrRequiredAnswerMissing) Unwrap() error {
	return internal.ErrValidationFailed
}

type ErrConditionalQuestionUnanswered struct {
	QuestionID          string
	DependsOnQuestionID string
	ExpectedValue       string
}

func (e ErrConditionalQuestionUnanswered) Error() string {
	return fmt.Sprintf("question %s must be answered because question %s was answered with %q",
		e.QuestionID, e.DependsOnQuestionID, e.ExpectedValue)
}

func (e ErrConditionalQuestionUnanswered) Unwrap() error {
	return internal.ErrValidationFailed
}
