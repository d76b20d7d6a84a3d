package answer

import (
	"context"

	"CareSync/healthcare-backend/internal/onboarding/shared"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Pool is a DBTX that can open transactions, satisfied by pgxpool.Pool.
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Service struct {
	logger  *zap.Logger
	db      Pool
	queries *Queries
	tracer  trace.Tracer
}

func NewService(logger *zap.Logger, db Pool) *Service {
	return &Service{
		logger:  logger,
		db:      db,
		queries: New(db),
		tracer:  otel.Tracer("answer/service"),
	}
}

// Replace atomically swaps a user's answers for the given question set. Old
// answers are deleted and the new ones inserted in a single transaction, so a
// failed resubmission never leaves a partial answer set behind.
func (s *Service) Replace(ctx context.Context, userID uuid.UUID, questionIDs []uuid.UUID, entries []shared.AnswerParam) ([]Answer, error) {
	ctx, span := s.tracer.Start(ctx, "Replace")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "begin transaction")
		span.RecordError(err)
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	qtx := New(tx)

	err = qtx.DeleteByUserAndQuestionIDs(ctx, DeleteByUserAndQuestionIDsParams{
		UserID:      userID,
		QuestionIDs: questionIDs,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "delete previous answers")
		span.RecordError(err)
		return nil, err
	}

	created := make([]Answer, 0, len(entries))
	for _, entry := range entries {
		a, err := qtx.Create(ctx, CreateParams{
			UserID:     userID,
			QuestionID: entry.QuestionID,
			Value:      entry.Value,
		})
		if err != nil {
			err = databaseutil.WrapDBError(err, logger, "create answer")
			span.RecordError(err)
			return nil, err
		}
		created = append(created, a)
	}

	if err := tx.Commit(ctx); err != nil {
		err = databaseutil.WrapDBError(err, logger, "commit answer replacement")
		span.RecordError(err)
		return nil, err
	}

	logger.Info("Replaced answers",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(created)))
	return created, nil
}

func (s *Service) ListByUserAndQuestionnaire(ctx context.Context, userID, questionnaireID uuid.UUID) ([]ListByUserAndQuestionnaireIDRow, error) {
	ctx, span := s.tracer.Start(ctx, "ListByUserAndQuestionnaire")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	rows, err := s.queries.ListByUserAndQuestionnaireID(ctx, ListByUserAndQuestionnaireIDParams{
		UserID:          userID,
		QuestionnaireID: questionnaireID,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list answers by user and questionnaire")
		span.RecordError(err)
		return nil, err
	}

	return rows, nil
}

func (s *Service) ListByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) ([]ListByQuestionnaireIDRow, error) {
	ctx, span := s.tracer.Start(ctx, "ListByQuestionnaire")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	rows, err := s.queries.ListByQuestionnaireID(ctx, questionnaireID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list answers by questionnaire")
		span.RecordError(err)
		return nil, err
	}

	return rows, nil
}
