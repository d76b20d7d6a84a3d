package submit

import (
	"github.com/google/uuid"

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/onboarding/question"
	"CareSync/healthcare-backend/internal/onboarding/shared"
)

// ValidateBatch checks a full submission against the questionnaire's
// questions. Validation proceeds in stages:
//
//  1. Each submitted answer must reference a known question, carry a value
//     when the question is required, and pass the question type's own checks.
//  2. Every required question that is active must have been answered. All
//     missing question IDs are reported in a single error.
//  3. Every conditional question whose trigger fired must have been answered,
//     required or not.
//
// A conditional question is active only when its parent question was answered
// with the exact value it depends on. Inactive conditional questions are
// exempt from the required check even when marked required.
func ValidateBatch(questionnaireID uuid.UUID, questions []question.Answerable, answers []shared.AnswerParam) error {
	byID := make(map[uuid.UUID]question.Answerable, len(questions))
	for _, a := range questions {
		byID[a.Question().ID] = a
	}

	submitted := make(map[uuid.UUID]string, len(answers))
	for _, entry := range answers {
		submitted[entry.QuestionID] = entry.Value
	}

	for _, entry := range answers {
		answerable, ok := byID[entry.QuestionID]
		if !ok {
			return ErrUnknownQuestion{
				QuestionID:      entry.QuestionID.String(),
				QuestionnaireID: questionnaireID.String(),
			}
		}

		q := answerable.Question()
		if q.Required && entry.Value == "" {
			return ErrRequiredAnswerMissing{
				QuestionID: q.ID.String(),
				Title:      q.Title,
			}
		}

		if err := answerable.Validate(entry.Value); err != nil {
			return err
		}
	}

	var missing []string
	for _, answerable := range questions {
		q := answerable.Question()
		if !q.Required {
			continue
		}
		if _, answered := submitted[q.ID]; answered {
			continue
		}
		if !isActive(q, submitted) {
			continue
		}
		missing = append(missing, q.ID.String())
	}
	if len(missing) > 0 {
		return internal.ErrMissingRequiredQuestions{QuestionIDs: missing}
	}

	for _, answerable := range questions {
		q := answerable.Question()
		if !q.DependsOnQuestionID.Valid {
			continue
		}
		if !isActive(q, submitted) {
			continue
		}
		if _, answered := submitted[q.ID]; !answered {
			return ErrConditionalQuestionUnanswered{
				QuestionID:          q.ID.String(),
				DependsOnQuestionID: uuid.UUID(q.DependsOnQuestionID.Bytes).String(),
				ExpectedValue:       q.DependsOnAnswerValue.String,
			}
		}
	}

	return nil
}

// isActive reports whether a question participates in this submission. A
// question without a dependency is always active; one with a dependency is
// active only when the parent's submitted value matches the trigger value.
func isActive(q question.Question, submitted map[uuid.UUID]string) bool {
	if !q.DependsOnQuestionID.Valid {
		return true
	}

	parentValue, answered := submitted[uuid.UUID(q.DependsOnQuestionID.Bytes)]
	return answered && parentValue == q.DependsOnAnswerValue.String
}
