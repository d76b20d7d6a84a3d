package category

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
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, arg UpdateParams) (Category, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (pgconn.CommandTag, error)
	ExistsByName(ctx context.Context, arg ExistsByNameParams) (bool, error)
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX) *Service {
	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("category/service"),
	}
}

func (s *Service) Create(ctx context.Context, name, description string) (Category, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	taken, err := s.queries.ExistsByName(ctx, ExistsByNameParams{Name: name, ExcludeID: uuid.Nil})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check category name exists")
		span.RecordError(err)
		return Category{}, err
	}
	if taken {
		return Category{}, internal.ErrCategoryNameConflict
	}

	c, err := s.queries.Create(ctx, CreateParams{
		Name:        name,
		Description: pgtype.Text{String: description, Valid: true},
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create category")
		span.RecordError(err)
		return Category{}, err
	}

	logger.Info("Created category", zap.String("id", c.ID.String()), zap.String("name", c.Name))
	return c, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Category, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	c, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, internal.ErrCategoryNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "physician_categories", "id", id.String(), logger, "get category by id")
		span.RecordError(err)
		return Category{}, err
	}

	return c, nil
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	items, err := s.queries.List(ctx)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list categories")
		span.RecordError(err)
		return nil, err
	}

	return items, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name, description string) (Category, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	taken, err := s.queries.ExistsByName(ctx, ExistsByNameParams{Name: name, ExcludeID: id})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check category name exists")
		span.RecordError(err)
		return Category{}, err
	}
	if taken {
		return Category{}, internal.ErrCategoryNameConflict
	}

	c, err := s.queries.Update(ctx, UpdateParams{
		ID:          id,
		Name:        name,
		Description: pgtype.Text{String: description, Valid: true},
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, internal.ErrCategoryNotFound
		}
		err = databaseutil.WrapDBError(err, logger, "update category")
		span.RecordError(err)
		return Category{}, err
	}

	return c, nil
}

// Delete marks the category deleted without removing the row, so physicians
// already linked to it keep a resolvable reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tag, err := s.queries.SoftDelete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "soft delete category")
		span.RecordError(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return internal.ErrCategoryNotFound
	}

	logger.Info("Deleted category", zap.String("id", id.String()))
	return nil
}
