package jwt

import (
	"context"
	"testing"
	"time"

	"CareSync/healthcare-backend/internal/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

func newTokenService(t *testing.T, secret string, accessTokenExpiration time.Duration) *Service {
	t.Helper()

	return &Service{
		logger:                zap.NewNop(),
		tracer:                noop.NewTracerProvider().Tracer("test"),
		secret:                secret,
		accessTokenExpiration: accessTokenExpiration,
	}
}

func TestService_NewAndParse(t *testing.T) {
	t.Parallel()

	u := user.User{
		ID:       uuid.New(),
		Phone:    "0911234567",
		FullName: "Tigist Alemu",
		Role:     user.RolePatient,
	}

	t.Run("token round trips the user identity", func(t *testing.T) {
		t.Parallel()

		s := newTokenService(t, "test-secret", time.Hour)

		token, err := s.New(context.Background(), u)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		got, err := s.Parse(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
		require.Equal(t, u.Phone, got.Phone)
		require.Equal(t, u.FullName, got.FullName)
		require.Equal(t, u.Role, got.Role)
	})

	t.Run("bearer prefix is stripped before parsing", func(t *testing.T) {
		t.Parallel()

		s := newTokenService(t, "test-secret", time.Hour)

		token, err := s.New(context.Background(), u)
		require.NoError(t, err)

		got, err := s.Parse(context.Background(), "Bearer "+token)
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("token signed with a different secret is rejected", func(t *testing.T) {
		t.Parallel()

		s := newTokenService(t, "test-secret", time.Hour)
		other := newTokenService(t, "other-secret", time.Hour)

		token, err := other.New(context.Background(), u)
		require.NoError(t, err)

		_, err = s.Parse(context.Background(), token)
		require.Error(t, err)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		t.Parallel()

		s := newTokenService(t, "test-secret", -time.Minute)

		token, err := s.New(context.Background(), u)
		require.NoError(t, err)

		_, err = s.Parse(context.Background(), token)
		require.Error(t, err)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		t.Parallel()

		s := newTokenService(t, "test-secret", time.Hour)

		_, err := s.Parse(context.Background(), "not-a-jwt")
		require.Error(t, err)
	})
}
