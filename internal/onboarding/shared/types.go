package shared

import "github.com/google/uuid"

// AnswerParam is a single answer as it arrives in a submission request,
// before any validation has been applied.
type AnswerParam struct {
	QuestionID uuid.UUID `json:"questionId" validate:"required"`
	Value      string    `json:"answer"`
}
