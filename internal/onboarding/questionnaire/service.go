package questionnaire

import (
	"context"
	"errors"

	"CareSync/healthcare-backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Questionnaire, error)
	GetByID(ctx context.Context, id uuid.UUID) (Questionnaire, error)
	GetLatest(ctx context.Context, userRole string) (Questionnaire, error)
	List(ctx context.Context) ([]Questionnaire, error)
	Update(ctx context.Context, arg UpdateParams) (Questionnaire, error)
	Delete(ctx context.Context, id uuid.UUID) (pgconn.CommandTag, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Service struct {
	logger    *zap.Logger
	queries   Querier
	sanitizer *bluemonday.Policy
	tracer    trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX) *Service {
	return &Service{
		logger:    logger,
		queries:   New(db),
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    otel.Tracer("questionnaire/service"),
	}
}

type CreateInput struct {
	Title       string
	Description string
	UserRole    string
	IsActive    bool
	OrderIndex  int32
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	description := s.sanitizer.Sanitize(input.Description)
	qn, err := s.queries.Create(ctx, CreateParams{
		Title:       s.sanitizer.Sanitize(input.Title),
		Description: pgtype.Text{String: description, Valid: true},
		UserRole:    input.UserRole,
		IsActive:    input.IsActive,
		OrderIndex:  input.OrderIndex,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create questionnaire")
		span.RecordError(err)
		return Questionnaire{}, err
	}

	logger.Info("Created questionnaire", zap.String("id", qn.ID.String()))
	return qn, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	qn, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Questionnaire{}, internal.ErrQuestionnaireNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "questionnaires", "id", id.String(), logger, "get questionnaire by id")
		span.RecordError(err)
		return Questionnaire{}, err
	}

	return qn, nil
}

// GetLatest returns the most recently created active questionnaire for the
// given role, which is the one served to newly registered users.
func (s *Service) GetLatest(ctx context.Context, userRole string) (Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "GetLatest")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	qn, err := s.queries.GetLatest(ctx, userRole)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Questionnaire{}, internal.ErrNoQuestionnaires
		}
		err = databaseutil.WrapDBError(err, logger, "get latest questionnaire")
		span.RecordError(err)
		return Questionnaire{}, err
	}

	return qn, nil
}

func (s *Service) List(ctx context.Context) ([]Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	items, err := s.queries.List(ctx)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list questionnaires")
		span.RecordError(err)
		return nil, err
	}

	return items, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input CreateInput) (Questionnaire, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	description := s.sanitizer.Sanitize(input.Description)
	qn, err := s.queries.Update(ctx, UpdateParams{
		ID:          id,
		Title:       s.sanitizer.Sanitize(input.Title),
		Description: pgtype.Text{String: description, Valid: true},
		UserRole:    input.UserRole,
		IsActive:    input.IsActive,
		OrderIndex:  input.OrderIndex,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Questionnaire{}, internal.ErrQuestionnaireNotFound
		}
		err = databaseutil.WrapDBError(err, logger, "update questionnaire")
		span.RecordError(err)
		return Questionnaire{}, err
	}

	return qn, nil
}

// Delete removes the questionnaire along with its questions and their answers
// through foreign key cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tag, err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "delete questionnaire")
		span.RecordError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrQuestionnaireNotFound
	}

	logger.Info("Deleted questionnaire", zap.String("id", id.String()))
	return nil
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "Exists")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.Exists(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check questionnaire exists")
		span.RecordError(err)
		return false, err
	}

	return exists, nil
}
