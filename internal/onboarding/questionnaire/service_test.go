package questionnaire

import (
	"context"
	"testing"

	"CareSync/healthcare-backend/internal"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Create(ctx context.Context, arg CreateParams) (Questionnaire, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(Questionnaire)
	return row, args.Error(1)
}

func (m *mockQuerier) GetByID(ctx context.Context, id uuid.UUID) (Questionnaire, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(Questionnaire)
	return row, args.Error(1)
}

func (m *mockQuerier) GetLatest(ctx context.Context, userRole string) (Questionnaire, error) {
	args := m.Called(ctx, userRole)
	row, _ := args.Get(0).(Questionnaire)
	return row, args.Error(1)
}

func (m *mockQuerier) List(ctx context.Context) ([]Questionnaire, error) {
	args := m.Called(ctx)
	rows, _ := args.Get(0).([]Questionnaire)
	return rows, args.Error(1)
}

func (m *mockQuerier) Update(ctx context.Context, arg UpdateParams) (Questionnaire, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(Questionnaire)
	return row, args.Error(1)
}

func (m *mockQuerier) Delete(ctx context.Context, id uuid.UUID) (pgconn.CommandTag, error) {
	args := m.Called(ctx, id)
	tag, _ := args.Get(0).(pgconn.CommandTag)
	return tag, args.Error(1)
}

func (m *mockQuerier) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockQuerier) {
	t.Helper()

	q := &mockQuerier{}
	return &Service{
		logger:    zap.NewNop(),
		queries:   q,
		sanitizer: bluemonday.StrictPolicy(),
		tracer:    noop.NewTracerProvider().Tracer("test"),
	}, q
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	t.Run("markup in the title does not survive into storage", func(t *testing.T) {
		t.Parallel()

		s, q := newTestService(t)

		q.On("Create", mock.Anything, mock.MatchedBy(func(arg CreateParams) bool {
			return arg.Title == "Patient Intake" && arg.UserRole == "PATIENT" && arg.IsActive
		})).Return(Questionnaire{ID: uuid.New(), Title: "Patient Intake", UserRole: "PATIENT", IsActive: true}, nil).Once()

		got, err := s.Create(context.Background(), CreateInput{
			Title:       "<b>Patient Intake</b>",
			Description: "Initial onboarding",
			UserRole:    "PATIENT",
			IsActive:    true,
		})
		require.NoError(t, err)
		require.Equal(t, "Patient Intake", got.Title)
		q.AssertExpectations(t)
	})

	t.Run("omitted description is stored as an empty string", func(t *testing.T) {
		t.Parallel()

		s, q := newTestService(t)

		// The description column is NOT NULL, so the parameter must never
		// encode as SQL NULL.
		q.On("Create", mock.Anything, mock.MatchedBy(func(arg CreateParams) bool {
			return arg.Description.Valid && arg.Description.String == ""
		})).Return(Questionnaire{ID: uuid.New(), Title: "Patient Intake"}, nil).Once()

		_, err := s.Create(context.Background(), CreateInput{
			Title:    "Patient Intake",
			UserRole: "PATIENT",
			IsActive: true,
		})
		require.NoError(t, err)
		q.AssertExpectations(t)
	})
}

func TestService_GetByID(t *testing.T) {
	t.Parallel()

	s, q := newTestService(t)
	id := uuid.New()
	q.On("GetByID", mock.Anything, id).Return(Questionnaire{}, pgx.ErrNoRows).Once()

	_, err := s.GetByID(context.Background(), id)
	require.ErrorIs(t, err, internal.ErrQuestionnaireNotFound)
}

func TestService_GetLatest(t *testing.T) {
	t.Parallel()

	t.Run("latest questionnaire is returned", func(t *testing.T) {
		t.Parallel()

		s, q := newTestService(t)
		latest := Questionnaire{ID: uuid.New(), Title: "Intake v3", UserRole: "PATIENT", IsActive: true}
		q.On("GetLatest", mock.Anything, "PATIENT").Return(latest, nil).Once()

		got, err := s.GetLatest(context.Background(), "PATIENT")
		require.NoError(t, err)
		require.Equal(t, latest, got)
	})

	t.Run("empty table reports no questionnaires", func(t *testing.T) {
		t.Parallel()

		s, q := newTestService(t)
		q.On("GetLatest", mock.Anything, "PATIENT").Return(Questionnaire{}, pgx.ErrNoRows).Once()

		_, err := s.GetLatest(context.Background(), "PATIENT")
		require.ErrorIs(t, err, internal.ErrNoQuestionnaires)
	})
}

func TestService_Delete(t *testing.T) {
	t.Parallel()

	t.Run("existing questionnaire is deleted", func(t *testing.T) {
		t.Parallel()

		s, q := newTestService(t)
		id := uuid.New()
		q.On("Delete", mock.Anything, id).Return(pgconn.NewCommandTag("DELETE 1"), nil).Once()

		require.NoError(t, s.Delete(context.Background(), id))
	})

	t.Run("unknown questionnaire returns not found", func(t *testing.T) {
		t.Parallel()

		s, q := newTestService(t)
		id := uuid.New()
		q.On("Delete", mock.Anything, id).Return(pgconn.NewCommandTag("DELETE 0"), nil).Once()

		require.ErrorIs(t, s.Delete(context.Background(), id), internal.ErrQuestionnaireNotFound)
	})
}
