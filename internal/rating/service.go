package rating

import (
	"context"

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/user"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Rating, error)
	ExistsByPatientAndPhysician(ctx context.Context, arg ExistsByPatientAndPhysicianParams) (bool, error)
	GetSummaryByPhysicianID(ctx context.Context, physicianID uuid.UUID) (GetSummaryByPhysicianIDRow, error)
	ListByPhysicianID(ctx context.Context, physicianID uuid.UUID) ([]Rating, error)
}

type UserStore interface {
	ExistsWithRole(ctx context.Context, id uuid.UUID, role user.Role) (bool, error)
}

// Summary is the aggregated rating of a physician, computed in the database
// rather than kept as a running average on the user row.
type Summary struct {
	PhysicianID uuid.UUID
	Average     float64
	Count       int64
}

type Service struct {
	logger    *zap.Logger
	queries   Querier
	userStore UserStore
	tracer    trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX, userStore UserStore) *Service {
	return &Service{
		logger:    logger,
		queries:   New(db),
		userStore: userStore,
		tracer:    otel.Tracer("rating/service"),
	}
}

// Rate records a patient's one-time rating of a physician. A patient can rate
// a given physician only once.
func (s *Service) Rate(ctx context.Context, patientID, physicianID uuid.UUID, score int32, comment string) (Rating, error) {
	ctx, span := s.tracer.Start(ctx, "Rate")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.userStore.ExistsWithRole(ctx, physicianID, user.RolePhysician)
	if err != nil {
		span.RecordError(err)
		return Rating{}, err
	}
	if !exists {
		return Rating{}, internal.ErrPhysicianNotFound
	}

	exists, err = s.userStore.ExistsWithRole(ctx, patientID, user.RolePatient)
	if err != nil {
		span.RecordError(err)
		return Rating{}, err
	}
	if !exists {
		return Rating{}, internal.ErrPatientNotFound
	}

	duplicate, err := s.queries.ExistsByPatientAndPhysician(ctx, ExistsByPatientAndPhysicianParams{
		PatientID:   patientID,
		PhysicianID: physicianID,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check duplicate rating")
		span.RecordError(err)
		return Rating{}, err
	}
	if duplicate {
		return Rating{}, internal.ErrDuplicateRating
	}

	r, err := s.queries.Create(ctx, CreateParams{
		PatientID:   patientID,
		PhysicianID: physicianID,
		Score:       score,
		Comment:     pgtype.Text{String: comment, Valid: true},
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create rating")
		span.RecordError(err)
		return Rating{}, err
	}

	logger.Info("Recorded rating",
		zap.String("patient_id", patientID.String()),
		zap.String("physician_id", physicianID.String()),
		zap.Int32("score", score))
	return r, nil
}

func (s *Service) GetSummary(ctx context.Context, physicianID uuid.UUID) (Summary, error) {
	ctx, span := s.tracer.Start(ctx, "GetSummary")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.userStore.ExistsWithRole(ctx, physicianID, user.RolePhysician)
	if err != nil {
		span.RecordError(err)
		return Summary{}, err
	}
	if !exists {
		return Summary{}, internal.ErrPhysicianNotFound
	}

	row, err := s.queries.GetSummaryByPhysicianID(ctx, physicianID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "get rating summary")
		span.RecordError(err)
		return Summary{}, err
	}

	return Summary{
		PhysicianID: physicianID,
		Average:     row.Average,
		Count:       row.Count,
	}, nil
}

func (s *Service) ListByPhysician(ctx context.Context, physicianID uuid.UUID) ([]Rating, error) {
	ctx, span := s.tracer.Start(ctx, "ListByPhysician")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.userStore.ExistsWithRole(ctx, physicianID, user.RolePhysician)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !exists {
		return nil, internal.ErrPhysicianNotFound
	}

	items, err := s.queries.ListByPhysicianID(ctx, physicianID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list ratings by physician")
		span.RecordError(err)
		return nil, err
	}

	return items, nil
}
