package user

import (
	"context"
	"errors"

	"CareSync/healthcare-backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByPhone(ctx context.Context, phone string) (User, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByIDAndRole(ctx context.Context, arg ExistsByIDAndRoleParams) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
}

func (u User) GetID() uuid.UUID {
	return u.ID
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
		tracer:  otel.Tracer("user/service"),
	}
}

func (s *Service) Create(ctx context.Context, phone, fullName string, role Role) (User, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	switch role {
	case RolePatient, RolePhysician, RoleAdmin:
	default:
		return User{}, internal.ErrInvalidRole
	}

	taken, err := s.queries.ExistsByPhone(ctx, phone)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check phone exists")
		span.RecordError(err)
		return User{}, err
	}
	if taken {
		return User{}, internal.ErrPhoneAlreadyInUse
	}

	u, err := s.queries.Create(ctx, CreateParams{
		Phone:    phone,
		FullName: fullName,
		Role:     role,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create user")
		span.RecordError(err)
		return User{}, err
	}

	logger.Info("Created user", zap.String("id", u.ID.String()), zap.String("role", string(u.Role)))
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	u, err := s.queries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, internal.ErrUserNotFound
		}
		err = databaseutil.WrapDBErrorWithKeyValue(err, "users", "id", id.String(), logger, "get user by id")
		span.RecordError(err)
		return User{}, err
	}

	return u, nil
}

func (s *Service) GetByPhone(ctx context.Context, phone string) (User, error) {
	ctx, span := s.tracer.Start(ctx, "GetByPhone")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	u, err := s.queries.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, internal.ErrUserNotFound
		}
		err = databaseutil.WrapDBError(err, logger, "get user by phone")
		span.RecordError(err)
		return User{}, err
	}

	return u, nil
}

func (s *Service) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "Exists")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.ExistsByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check user exists")
		span.RecordError(err)
		return false, err
	}

	return exists, nil
}

func (s *Service) ExistsWithRole(ctx context.Context, id uuid.UUID, role Role) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "ExistsWithRole")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.ExistsByIDAndRole(ctx, ExistsByIDAndRoleParams{ID: id, Role: role})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check user exists with role")
		span.RecordError(err)
		return false, err
	}

	return exists, nil
}
