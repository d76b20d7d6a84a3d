package jwt

import (
	"context"
	"net/http"
	"strings"

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/user"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Parser interface {
	Parse(ctx context.Context, tokenString string) (user.User, error)
}

type Middleware struct {
	tracer trace.Tracer
	logger *zap.Logger

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	parser Parser
}

func NewMiddleware(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	parser Parser,
) *Middleware {
	return &Middleware{
		tracer:        otel.Tracer("jwt/middleware"),
		logger:        logger,
		validator:     validator,
		problemWriter: problemWriter,
		parser:        parser,
	}
}

// AuthenticateMiddleware requires a valid bearer token and places the token's
// user into the request context.
func (m *Middleware) AuthenticateMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		traceCtx, span := m.tracer.Start(r.Context(), "AuthenticateMiddleware")
		defer span.End()
		logger := logutil.WithContext(traceCtx, m.logger)

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.problemWriter.WriteError(traceCtx, w, internal.ErrMissingAuthHeader, logger)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			m.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidAuthHeaderFormat, logger)
			return
		}

		u, err := m.parser.Parse(traceCtx, authHeader)
		if err != nil {
			span.RecordError(err)
			m.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidJWTToken, logger)
			return
		}

		ctx := context.WithValue(traceCtx, internal.UserContextKey, u)
		next(w, r.WithContext(ctx))
	}
}
