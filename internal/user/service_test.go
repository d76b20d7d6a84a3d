package user

import (
	"context"
	"testing"

	"CareSync/healthcare-backend/internal"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Create(ctx context.Context, arg CreateParams) (User, error) {
	args := m.Called(ctx, arg)
	row, _ := args.Get(0).(User)
	return row, args.Error(1)
}

func (m *mockQuerier) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(User)
	return row, args.Error(1)
}

func (m *mockQuerier) GetByPhone(ctx context.Context, phone string) (User, error) {
	args := m.Called(ctx, phone)
	row, _ := args.Get(0).(User)
	return row, args.Error(1)
}

func (m *mockQuerier) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockQuerier) ExistsByIDAndRole(ctx context.Context, arg ExistsByIDAndRoleParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}

func (m *mockQuerier) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	args := m.Called(ctx, phone)
	return args.Bool(0), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockQuerier) {
	t.Helper()

	q := &mockQuerier{}
	return &Service{
		logger:  zap.NewNop(),
		queries: q,
		tracer:  noop.NewTracerProvider().Tracer("test"),
	}, q
}

func TestService_Create(t *testing.T) {
	t.Parallel()

	t.Run("new patient is created", func(t *testing.T) {
		t.Parallel()

		s, q := newTestService(t)

		q.On("ExistsByPhone", mock.Anything, "0911234567").Return(false, nil).Once()
		q.On("Create", mock.Anything, CreateParams{
			Phone:    "0911234567",
			FullName: "Tigist Alemu",
			Role:     RolePatient,
		}).Return(User{ID: uuid.New(), Phone: "0911234567", FullName: "Tigist Alemu", Role: RolePatient}, nil).Once()

		got, err := s.Create(context.Background(), "0911234567", "Tigist Alemu", RolePatient)
		require.NoError(t, err)
		require.Equal(t, RolePatient, got.Role)
	})

	t.Run("duplicate phone is rejected", func(t *testing.T) {
		t.Parallel()

		s, q := newTestService(t)

		q.On("ExistsByPhone", mock.Anything, "0911234567").Return(true, nil).Once()

		_, err := s.Create(context.Background(), "0911234567", "Tigist Alemu", RolePatient)
		require.ErrorIs(t, err, internal.ErrPhoneAlreadyInUse)
		q.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		t.Parallel()

		s, q := newTestService(t)

		_, err := s.Create(context.Background(), "0911234567", "Tigist Alemu", Role("NURSE"))
		require.ErrorIs(t, err, internal.ErrInvalidRole)
		q.AssertNotCalled(t, "ExistsByPhone", mock.Anything, mock.Anything)
	})
}

func TestService_GetByPhone(t *testing.T) {
	t.Parallel()

	s, q := newTestService(t)

	q.On("GetByPhone", mock.Anything, "0911234567").Return(User{}, pgx.ErrNoRows).Once()

	_, err := s.GetByPhone(context.Background(), "0911234567")
	require.ErrorIs(t, err, internal.ErrUserNotFound)
}
