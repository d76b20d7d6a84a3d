package question

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/onboarding/questionnaire"

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
	Create(ctx context.Context, arg CreateParams) (Question, error)
	Update(ctx context.Context, arg UpdateParams) (Question, error)
	Delete(ctx context.Context, id uuid.UUID) (pgconn.CommandTag, error)
	GetByID(ctx context.Context, id uuid.UUID) (Question, error)
	ListByQuestionnaireID(ctx context.Context, questionnaireID uuid.UUID) ([]Question, error)
}

// QuestionnaireStore is used to check questionnaire existence and to create
// the generated header for bulk question creation.
type QuestionnaireStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, input questionnaire.CreateInput) (questionnaire.Questionnaire, error)
}

// CreateInput carries the caller-facing fields for creating or updating a
// question. Options are only meaningful for multiple choice questions.
type CreateInput struct {
	QuestionnaireID      uuid.UUID
	Title                string
	Description          string
	UserType             string
	Type                 QuestionType
	Required             bool
	Options              []string
	OrderIndex           int32
	DependsOnQuestionID  uuid.NullUUID
	DependsOnAnswerValue string
}

// userTypeOrDefault falls back to the patient role, which nearly every
// onboarding question targets.
func userTypeOrDefault(userType string) string {
	if userType == "" {
		return "PATIENT"
	}
	return userType
}

type Service struct {
	logger             *zap.Logger
	queries            Querier
	questionnaireStore QuestionnaireStore
	sanitizer          *bluemonday.Policy
	tracer             trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX, questionnaireStore QuestionnaireStore) *Service {
	return &Service{
		logger:             logger,
		queries:            New(db),
		questionnaireStore: questionnaireStore,
		sanitizer:          bluemonday.StrictPolicy(),
		tracer:             otel.Tracer("question/service"),
	}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (Answerable, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.questionnaireStore.Exists(ctx, input.QuestionnaireID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check questionnaire exists")
		span.RecordError(err)
		return nil, err
	}
	if !exists {
		return nil, internal.ErrQuestionnaireNotFound
	}

	metadata, err := s.buildMetadata(input.Type, input.Options)
	if err != nil {
		return nil, err
	}

	if err := s.checkDependency(ctx, input.QuestionnaireID, uuid.Nil, input.DependsOnQuestionID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	description := s.sanitizer.Sanitize(input.Description)
	row, err := s.queries.Create(ctx, CreateParams{
		QuestionnaireID:      input.QuestionnaireID,
		Title:                s.sanitizer.Sanitize(input.Title),
		Description:          pgtype.Text{String: description, Valid: true},
		UserType:             userTypeOrDefault(input.UserType),
		Type:                 input.Type,
		Required:             input.Required,
		Metadata:             metadata,
		OrderIndex:           input.OrderIndex,
		DependsOnQuestionID:  toPgUUID(input.DependsOnQuestionID),
		DependsOnAnswerValue: pgtype.Text{String: input.DependsOnAnswerValue, Valid: input.DependsOnQuestionID.Valid},
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create question")
		span.RecordError(err)
		return nil, err
	}

	return NewAnswerable(row)
}

// BulkResult pairs the generated questionnaire header with the questions
// created under it.
type BulkResult struct {
	Questionnaire questionnaire.Questionnaire
	Questions     []Answerable
}

// CreateBulk creates a questionnaire with a generated title and inserts the
// given questions under it in request order, assigning order indexes
// sequentially. Dependencies are ignored since the referenced IDs do not
// exist until insertion.
func (s *Service) CreateBulk(ctx context.Context, inputs []CreateInput) (BulkResult, error) {
	ctx, span := s.tracer.Start(ctx, "CreateBulk")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	qn, err := s.questionnaireStore.Create(ctx, questionnaire.CreateInput{
		Title:       fmt.Sprintf("Questionnaire-%d", rand.IntN(10000)),
		Description: "Auto-generated on " + time.Now().UTC().Format(time.RFC3339),
		UserRole:    "PATIENT",
		IsActive:    true,
	})
	if err != nil {
		span.RecordError(err)
		return BulkResult{}, err
	}

	result := BulkResult{Questionnaire: qn, Questions: make([]Answerable, 0, len(inputs))}
	for i, input := range inputs {
		metadata, err := s.buildMetadata(input.Type, input.Options)
		if err != nil {
			return BulkResult{}, err
		}

		description := s.sanitizer.Sanitize(input.Description)
		row, err := s.queries.Create(ctx, CreateParams{
			QuestionnaireID: qn.ID,
			Title:           s.sanitizer.Sanitize(input.Title),
			Description:     pgtype.Text{String: description, Valid: true},
			UserType:        userTypeOrDefault(input.UserType),
			Type:            input.Type,
			Required:        input.Required,
			Metadata:        metadata,
			OrderIndex:      int32(i + 1),
		})
		if err != nil {
			err = databaseutil.WrapDBError(err, logger, "create question in bulk")
			span.RecordError(err)
			return BulkResult{}, err
		}

		answerable, err := NewAnswerable(row)
		if err != nil {
			return BulkResult{}, err
		}
		result.Questions = append(result.Questions, answerable)
	}

	logger.Info("Created questionnaire with questions in bulk",
		zap.String("questionnaire_id", qn.ID.String()),
		zap.Int("count", len(result.Questions)))
	return result, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input CreateInput) (Answerable, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	current, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrQuestionNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "questions", "id", id.String(), logger, "get question by id")
		span.RecordError(err)
		return nil, err
	}

	metadata := current.Metadata
	if current.Type == TypeMultipleChoice && len(input.Options) > 0 {
		metadata, err = GenerateOptionMetadata(input.Options)
		if err != nil {
			return nil, err
		}
	}

	if err := s.checkDependency(ctx, current.QuestionnaireID, id, input.DependsOnQuestionID); err != nil {
		span.RecordError(err)
		return nil, err
	}

	description := s.sanitizer.Sanitize(input.Description)
	row, err := s.queries.Update(ctx, UpdateParams{
		ID:                   id,
		Title:                s.sanitizer.Sanitize(input.Title),
		Description:          pgtype.Text{String: description, Valid: true},
		UserType:             userTypeOrDefault(input.UserType),
		Required:             input.Required,
		Metadata:             metadata,
		OrderIndex:           input.OrderIndex,
		DependsOnQuestionID:  toPgUUID(input.DependsOnQuestionID),
		DependsOnAnswerValue: pgtype.Text{String: input.DependsOnAnswerValue, Valid: input.DependsOnQuestionID.Valid},
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "update question")
		span.RecordError(err)
		return nil, err
	}

	return NewAnswerable(row)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tag, err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "delete question")
		span.RecordError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrQuestionNotFound
	}

	return nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Answerable, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	row, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, internal.ErrQuestionNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "questions", "id", id.String(), logger, "get question by id")
		span.RecordError(err)
		return nil, err
	}

	return NewAnswerable(row)
}

// ListByQuestionnaire returns the questionnaire's questions ordered by their
// order index, wrapped with their type validation rules.
func (s *Service) ListByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) ([]Answerable, error) {
	ctx, span := s.tracer.Start(ctx, "ListByQuestionnaire")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.questionnaireStore.Exists(ctx, questionnaireID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check questionnaire exists")
		span.RecordError(err)
		return nil, err
	}
	if !exists {
		return nil, internal.ErrQuestionnaireNotFound
	}

	rows, err := s.queries.ListByQuestionnaireID(ctx, questionnaireID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list questions by questionnaire id")
		span.RecordError(err)
		return nil, err
	}

	result := make([]Answerable, 0, len(rows))
	for _, row := range rows {
		answerable, err := NewAnswerable(row)
		if err != nil {
			err = databaseutil.WrapDBError(err, logger, "create answerable from question")
			span.RecordError(err)
			return nil, err
		}
		result = append(result, answerable)
	}

	return result, nil
}

func (s *Service) buildMetadata(questionType QuestionType, options []string) ([]byte, error) {
	switch questionType {
	case TypeMultipleChoice:
		return GenerateOptionMetadata(options)
	case TypeText, TypeRating, TypeCheckbox:
		return nil, nil
	default:
		return nil, ErrUnsupportedQuestionType{QuestionType: string(questionType)}
	}
}

// checkDependency validates a question's dependency reference: the parent
// must exist, belong to the same questionnaire, not be the question itself,
// and not close a dependency cycle. selfID is uuid.Nil on creation, where a
// cycle through the new question is impossible.
func (s *Service) checkDependency(ctx context.Context, questionnaireID uuid.UUID, selfID uuid.UUID, dependsOn uuid.NullUUID) error {
	if !dependsOn.Valid {
		return nil
	}

	if selfID != uuid.Nil && dependsOn.UUID == selfID {
		return internal.ErrSelfDependency
	}

	parent, err := s.queries.GetByID(ctx, dependsOn.UUID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return internal.ErrDependencyNotFound
		}
		return err
	}
	if parent.QuestionnaireID != questionnaireID {
		return internal.ErrDependencyWrongOwner
	}

	// Walk the dependency chain upwards. If it reaches the question being
	// updated, the new edge would close a cycle. The visited set guards
	// against pre-existing corruption never terminating the walk.
	visited := map[uuid.UUID]bool{}
	for parent.DependsOnQuestionID.Valid {
		next := uuid.UUID(parent.DependsOnQuestionID.Bytes)
		if next == selfID && selfID != uuid.Nil {
			return internal.ErrDependencyCycle
		}
		if visited[next] {
			return internal.ErrDependencyCycle
		}
		visited[next] = true

		parent, err = s.queries.GetByID(ctx, next)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil
			}
			return err
		}
	}

	return nil
}

func toPgUUID(id uuid.NullUUID) pgtype.UUID {
	if !id.Valid {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: id.UUID, Valid: true}
}
