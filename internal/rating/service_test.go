package rating

import (
	"context"
	"testing"

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Create(ctx context.Context, arg CreateParams) (Rating, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(Rating)
	return row, args.Error(1)
}

func (m *mockQuerier) ExistsByPatientAndPhysician(ctx context.Context, arg ExistsByPatientAndPhysicianParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}

func (m *mockQuerier) GetSummaryByPhysicianID(ctx context.Context, physicianID uuid.UUID) (GetSummaryByPhysicianIDRow, error) {
	args := m.Called(ctx, physicianID)
	row, _ := args.Get(0).(GetSummaryByPhysicianIDRow)
	return row, args.Error(1)
}

func (m *mockQuerier) ListByPhysicianID(ctx context.Context, physicianID uuid.UUID) ([]Rating, error) {
	args := m.Called(ctx, physicianID)
	rows, _ := args.Get(0).([]Rating)
	return rows, args.Error(1)
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) ExistsWithRole(ctx context.Context, id uuid.UUID, role user.Role) (bool, error) {
	args := m.Called(ctx, id, role)
	return args.Bool(0), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockQuerier, *mockUserStore) {
	t.Helper()

	q := &mockQuerier{}
	us := &mockUserStore{}

	return &Service{
		logger:    zap.NewNop(),
		queries:   q,
		userStore: us,
		tracer:    noop.NewTracerProvider().Tracer("test"),
	}, q, us
}

func TestService_Rate(t *testing.T) {
	t.Parallel()

	patientID := uuid.New()
	physicianID := uuid.New()

	type testCase struct {
		name        string
		setup       func(t *testing.T, q *mockQuerier, us *mockUserStore)
		expectedErr error
	}

	testCases := []testCase{
		{
			name: "first rating is recorded",
			setup: func(t *testing.T, q *mockQuerier, us *mockUserStore) {
				us.On("ExistsWithRole", mock.Anything, physicianID, user.RolePhysician).Return(true, nil).Once()
				us.On("ExistsWithRole", mock.Anything, patientID, user.RolePatient).Return(true, nil).Once()
				q.On("ExistsByPatientAndPhysician", mock.Anything, ExistsByPatientAndPhysicianParams{
					PatientID:   patientID,
					PhysicianID: physicianID,
				}).Return(false, nil).Once()
				q.On("Create", mock.Anything, mock.MatchedBy(func(arg CreateParams) bool {
					return arg.PatientID == patientID && arg.PhysicianID == physicianID && arg.Score == 4
				})).Return(Rating{ID: uuid.New(), PatientID: patientID, PhysicianID: physicianID, Score: 4}, nil).Once()
			},
		},
		{
			name: "second rating of the same physician is rejected",
			setup: func(t *testing.T, q *mockQuerier, us *mockUserStore) {
				us.On("ExistsWithRole", mock.Anything, physicianID, user.RolePhysician).Return(true, nil).Once()
				us.On("ExistsWithRole", mock.Anything, patientID, user.RolePatient).Return(true, nil).Once()
				q.On("ExistsByPatientAndPhysician", mock.Anything, mock.Anything).Return(true, nil).Once()
			},
			expectedErr: internal.ErrDuplicateRating,
		},
		{
			name: "unknown physician is rejected",
			setup: func(t *testing.T, q *mockQuerier, us *mockUserStore) {
				us.On("ExistsWithRole", mock.Anything, physicianID, user.RolePhysician).Return(false, nil).Once()
			},
			expectedErr: internal.ErrPhysicianNotFound,
		},
		{
			name: "unknown patient is rejected",
			setup: func(t *testing.T, q *mockQuerier, us *mockUserStore) {
				us.On("ExistsWithRole", mock.Anything, physicianID, user.RolePhysician).Return(true, nil).Once()
				us.On("ExistsWithRole", mock.Anything, patientID, user.RolePatient).Return(false, nil).Once()
			},
			expectedErr: internal.ErrPatientNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, q, us := newTestService(t)
			tc.setup(t, q, us)

			_, err := s.Rate(context.Background(), patientID, physicianID, 4, "Very attentive")

			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				q.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
		})
	}

	t.Run("omitted comment is stored as an empty string", func(t *testing.T) {
		t.Parallel()

		s, q, us := newTestService(t)

		us.On("ExistsWithRole", mock.Anything, physicianID, user.RolePhysician).Return(true, nil).Once()
		us.On("ExistsWithRole", mock.Anything, patientID, user.RolePatient).Return(true, nil).Once()
		q.On("ExistsByPatientAndPhysician", mock.Anything, mock.Anything).Return(false, nil).Once()
		// The comment column is NOT NULL, so the parameter must never encode
		// as SQL NULL.
		q.On("Create", mock.Anything, mock.MatchedBy(func(arg CreateParams) bool {
			return arg.Comment.Valid && arg.Comment.String == ""
		})).Return(Rating{ID: uuid.New(), Score: 5}, nil).Once()

		_, err := s.Rate(context.Background(), patientID, physicianID, 5, "")
		require.NoError(t, err)
		q.AssertExpectations(t)
	})
}

func TestService_GetSummary(t *testing.T) {
	t.Parallel()

	physicianID := uuid.New()

	t.Run("average is computed over stored ratings", func(t *testing.T) {
		t.Parallel()

		s, q, us := newTestService(t)

		us.On("ExistsWithRole", mock.Anything, physicianID, user.RolePhysician).Return(true, nil).Once()
		q.On("GetSummaryByPhysicianID", mock.Anything, physicianID).Return(GetSummaryByPhysicianIDRow{
			Average: 4.5,
			Count:   2,
		}, nil).Once()

		got, err := s.GetSummary(context.Background(), physicianID)
		require.NoError(t, err)
		require.Equal(t, physicianID, got.PhysicianID)
		require.Equal(t, 4.5, got.Average)
		require.Equal(t, int64(2), got.Count)
	})

	t.Run("physician without ratings has zero average", func(t *testing.T) {
		t.Parallel()

		s, q, us := newTestService(t)

		us.On("ExistsWithRole", mock.Anything, physicianID, user.RolePhysician).Return(true, nil).Once()
		q.On("GetSummaryByPhysicianID", mock.Anything, physicianID).Return(GetSummaryByPhysicianIDRow{}, nil).Once()

		got, err := s.GetSummary(context.Background(), physicianID)
		require.NoError(t, err)
		require.Zero(t, got.Average)
		require.Zero(t, got.Count)
	})

	t.Run("unknown physician returns not found", func(t *testing.T) {
		t.Parallel()

		s, _, us := newTestService(t)

		us.On("ExistsWithRole", mock.Anything, physicianID, user.RolePhysician).Return(false, nil).Once()

		_, err := s.GetSummary(context.Background(), physicianID)
		require.ErrorIs(t, err, internal.ErrPhysicianNotFound)
	})
}
