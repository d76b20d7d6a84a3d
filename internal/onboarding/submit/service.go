package submit

import (
	"context"

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/onboarding/answer"
	"CareSync/healthcare-backend/internal/onboarding/question"
	"CareSync/healthcare-backend/internal/onboarding/questionnaire"
	"CareSync/healthcare-backend/internal/onboarding/shared"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type QuestionStore interface {
	ListByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) ([]question.Answerable, error)
}

type QuestionnaireStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (questionnaire.Questionnaire, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type AnswerStore interface {
	Replace(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID, entries []shared.AnswerParam) ([]answer.Answer, error)
	ListByUserAndQuestionnaire(ctx context.Context, userID, questionnaireID uuid.UUID) ([]answer.ListByUserAndQuestionnaireIDRow, error)
}

type UserStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Result is the outcome of a successful submission.
type Result struct {
	QuestionnaireID uuid.UUID
	UserID          uuid.UUID
	Answers         []answer.Answer
}

// UserAnswers couples a questionnaire with one user's stored answers.
type UserAnswers struct {
	Questionnaire questionnaire.Questionnaire
	Answers       []answer.ListByUserAndQuestionnaireIDRow
}

type Service struct {
	logger *zap.Logger
	tracer trace.Tracer

	questionnaireStore QuestionnaireStore
	questionStore      QuestionStore
	answerStore        AnswerStore
	userStore          UserStore
}

func NewService(
	logger *zap.Logger,
	questionnaireStore QuestionnaireStore,
	questionStore QuestionStore,
	answerStore AnswerStore,
	userStore UserStore,
) *Service {
	return &Service{
		logger:             logger,
		tracer:             otel.Tracer("submit/service"),
		questionnaireStore: questionnaireStore,
		questionStore:      questionStore,
		answerStore:        answerStore,
		userStore:          userStore,
	}
}

// Submit validates and stores a user's answers for a questionnaire. A
// resubmission replaces the previous answer set entirely, so submitting the
// same payload twice leaves the same stored state.
func (s *Service) Submit(ctx context.Context, questionnaireID uuid.UUID, userID uuid.UUID, answers []shared.AnswerParam) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "Submit")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.questionnaireStore.Exists(ctx, questionnaireID)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}
	if !exists {
		return Result{}, internal.ErrQuestionnaireNotFound
	}

	exists, err = s.userStore.Exists(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}
	if !exists {
		return Result{}, internal.ErrUserNotFound
	}

	questions, err := s.questionStore.ListByQuestionnaire(ctx, questionnaireID)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	if err := ValidateBatch(questionnaireID, questions, answers); err != nil {
		logger.Warn("Submission failed validation",
			zap.String("questionnaire_id", questionnaireID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		span.RecordError(err)
		return Result{}, err
	}

	// The replacement scope is every question of the questionnaire, so
	// answers to questions that became inactive since the last submission
	// are dropped as well.
	questionIDs := make([]uuid.UUID, 0, len(questions))
	for _, q := range questions {
		questionIDs = append(questionIDs, q.Question().ID)
	}

	created, err := s.answerStore.Replace(ctx, userID, questionIDs, answers)
	if err != nil {
		span.RecordError(err)
		return Result{}, err
	}

	logger.Info("Questionnaire submitted",
		zap.String("questionnaire_id", questionnaireID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("answers", len(created)))

	return Result{
		QuestionnaireID: questionnaireID,
		UserID:          userID,
		Answers:         created,
	}, nil
}

// GetUserAnswers returns the questionnaire and the user's stored answers,
// ordered the way the questions appear in the questionnaire.
func (s *Service) GetUserAnswers(ctx context.Context, userID, questionnaireID uuid.UUID) (UserAnswers, error) {
	ctx, span := s.tracer.Start(ctx, "GetUserAnswers")
	defer span.End()

	qn, err := s.questionnaireStore.GetByID(ctx, questionnaireID)
	if err != nil {
		span.RecordError(err)
		return UserAnswers{}, err
	}

	exists, err := s.userStore.Exists(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return UserAnswers{}, err
	}
	if !exists {
		return UserAnswers{}, internal.ErrUserNotFound
	}

	rows, err := s.answerStore.ListByUserAndQuestionnaire(ctx, userID, questionnaireID)
	if err != nil {
		span.RecordError(err)
		return UserAnswers{}, err
	}

	return UserAnswers{
		Questionnaire: qn,
		Answers:       rows,
	}, nil
}
