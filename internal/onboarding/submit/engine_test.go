package submit

import (
	"errors"
	"testing"

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/onboarding/question"
	"CareSync/healthcare-backend/internal/onboarding/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
)

func mustAnswerable(t *testing.T, q question.Question) question.Answerable {
	t.Helper()
	answerable, err := question.NewAnswerable(q)
	require.NoError(t, err)
	return answerable
}

func textQuestion(t *testing.T, id uuid.UUID, required bool) question.Answerable {
	t.Helper()
	return mustAnswerable(t, question.Question{
		ID:       id,
		Type:     question.TypeText,
		Required: required,
	})
}

func choiceQuestion(t *testing.T, id uuid.UUID, required bool, options ...string) question.Answerable {
	t.Helper()
	metadata, err := question.GenerateOptionMetadata(options)
	require.NoError(t, err)
	return mustAnswerable(t, question.Question{
		ID:       id,
		Type:     question.TypeMultipleChoice,
		Required: required,
		Metadata: metadata,
	})
}

// dependentQuestion builds a question that only becomes active when parentID
// was answered with triggerValue.
func dependentQuestion(t *testing.T, id, parentID uuid.UUID, triggerValue string, required bool, questionType question.QuestionType) question.Answerable {
	t.Helper()
	return mustAnswerable(t, question.Question{
		ID:                   id,
		Type:                 questionType,
		Required:             required,
		DependsOnQuestionID:  pgtype.UUID{Bytes: parentID, Valid: true},
		DependsOnAnswerValue: pgtype.Text{String: triggerValue, Valid: true},
	})
}

func TestValidateBatch(t *testing.T) {
	t.Parallel()

	questionnaireID := uuid.New()

	smokerID := uuid.New()
	packsPerDayID := uuid.New()
	nameID := uuid.New()
	painLevelID := uuid.New()

	type testCase struct {
		name       string
		questions  func(t *testing.T) []question.Answerable
		answers    []shared.AnswerParam
		assertions func(t *testing.T, err error)
	}

	testCases := []testCase{
		{
			name: "complete submission passes",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					textQuestion(t, nameID, true),
					choiceQuestion(t, smokerID, true, "Yes", "No"),
				}
			},
			answers: []shared.AnswerParam{
				{QuestionID: nameID, Value: "Abebe Bikila"},
				{QuestionID: smokerID, Value: "No"},
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "all missing required questions reported in one error",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					textQuestion(t, nameID, true),
					choiceQuestion(t, smokerID, true, "Yes", "No"),
					textQuestion(t, uuid.New(), false),
				}
			},
			answers: nil,
			assertions: func(t *testing.T, err error) {
				var missing internal.ErrMissingRequiredQuestions
				require.ErrorAs(t, err, &missing)
				require.ElementsMatch(t, []string{nameID.String(), smokerID.String()}, missing.QuestionIDs)
				require.ErrorIs(t, err, internal.ErrValidationFailed)
			},
		},
		{
			name: "answer referencing unknown question is rejected",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{textQuestion(t, nameID, false)}
			},
			answers: []shared.AnswerParam{
				{QuestionID: uuid.New(), Value: "anything"},
			},
			assertions: func(t *testing.T, err error) {
				var unknown ErrUnknownQuestion
				require.ErrorAs(t, err, &unknown)
				require.ErrorIs(t, err, internal.ErrValidationFailed)
			},
		},
		{
			name: "empty value on required question is rejected",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{textQuestion(t, nameID, true)}
			},
			answers: []shared.AnswerParam{
				{QuestionID: nameID, Value: ""},
			},
			assertions: func(t *testing.T, err error) {
				var required ErrRequiredAnswerMissing
				require.ErrorAs(t, err, &required)
			},
		},
		{
			name: "type validation runs on provided optional answers",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					mustAnswerable(t, question.Question{ID: painLevelID, Type: question.TypeCheckbox}),
				}
			},
			answers: []shared.AnswerParam{
				{QuestionID: painLevelID, Value: ""},
			},
			assertions: func(t *testing.T, err error) {
				var invalid question.ErrInvalidBoolean
				require.ErrorAs(t, err, &invalid)
			},
		},
		{
			name: "empty answer on optional rating counts as zero",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					mustAnswerable(t, question.Question{ID: painLevelID, Type: question.TypeRating}),
				}
			},
			answers: []shared.AnswerParam{
				{QuestionID: painLevelID, Value: ""},
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "invalid rating value is rejected",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					mustAnswerable(t, question.Question{ID: painLevelID, Type: question.TypeRating, Required: true}),
				}
			},
			answers: []shared.AnswerParam{
				{QuestionID: painLevelID, Value: "severe"},
			},
			assertions: func(t *testing.T, err error) {
				var notANumber question.ErrNotANumber
				require.ErrorAs(t, err, &notANumber)
			},
		},
		{
			name: "activated conditional required question must be answered",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					choiceQuestion(t, smokerID, true, "Yes", "No"),
					dependentQuestion(t, packsPerDayID, smokerID, "Yes", true, question.TypeRating),
				}
			},
			answers: []shared.AnswerParam{
				{QuestionID: smokerID, Value: "Yes"},
			},
			assertions: func(t *testing.T, err error) {
				var missing internal.ErrMissingRequiredQuestions
				require.ErrorAs(t, err, &missing)
				require.Equal(t, []string{packsPerDayID.String()}, missing.QuestionIDs)
			},
		},
		{
			name: "inactive conditional question is exempt even when required",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					choiceQuestion(t, smokerID, true, "Yes", "No"),
					dependentQuestion(t, packsPerDayID, smokerID, "Yes", true, question.TypeRating),
				}
			},
			answers: []shared.AnswerParam{
				{QuestionID: smokerID, Value: "No"},
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "conditional question is inactive when its parent is unanswered",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					choiceQuestion(t, smokerID, false, "Yes", "No"),
					dependentQuestion(t, packsPerDayID, smokerID, "Yes", true, question.TypeRating),
				}
			},
			answers: nil,
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "activated non-required conditional question must still be answered",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					choiceQuestion(t, smokerID, true, "Yes", "No"),
					dependentQuestion(t, packsPerDayID, smokerID, "Yes", false, question.TypeRating),
				}
			},
			answers: []shared.AnswerParam{
				{QuestionID: smokerID, Value: "Yes"},
			},
			assertions: func(t *testing.T, err error) {
				var unanswered ErrConditionalQuestionUnanswered
				require.ErrorAs(t, err, &unanswered)
				require.Equal(t, packsPerDayID.String(), unanswered.QuestionID)
				require.Equal(t, smokerID.String(), unanswered.DependsOnQuestionID)
			},
		},
		{
			name: "answered conditional question passes its own validation",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					choiceQuestion(t, smokerID, true, "Yes", "No"),
					dependentQuestion(t, packsPerDayID, smokerID, "Yes", true, question.TypeRating),
				}
			},
			answers: []shared.AnswerParam{
				{QuestionID: smokerID, Value: "Yes"},
				{QuestionID: packsPerDayID, Value: "2"},
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "empty submission of optional questionnaire passes",
			questions: func(t *testing.T) []question.Answerable {
				return []question.Answerable{
					textQuestion(t, nameID, false),
					choiceQuestion(t, smokerID, false, "Yes", "No"),
				}
			},
			answers: nil,
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateBatch(questionnaireID, tc.questions(t), tc.answers)
			tc.assertions(t, err)
		})
	}
}

func TestValidateBatch_ValidationErrorsMapToValidationFailed(t *testing.T) {
	t.Parallel()

	questionnaireID := uuid.New()
	questionID := uuid.New()

	questions := []question.Answerable{
		mustAnswerable(t, question.Question{ID: questionID, Type: question.TypeCheckbox, Required: true}),
	}

	err := ValidateBatch(questionnaireID, questions, []shared.AnswerParam{
		{QuestionID: questionID, Value: "maybe"},
	})

	require.Error(t, err)
	require.True(t, errors.Is(err, internal.ErrValidationFailed), "type errors should unwrap to the validation sentinel")
}
