package auth

import (
	"context"
	"net/http"
	"time"

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/jwt"
	"CareSync/healthcare-backend/internal/user"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Phone    string `json:"phone" validate:"required,phone_et"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=PATIENT PHYSICIAN ADMIN"`
}

type LoginRequest struct {
	Phone string `json:"phone" validate:"required,phone_et"`
}

type RefreshRequest struct {
	RefreshToken uuid.UUID `json:"refreshToken" validate:"required"`
}

type TokenResponse struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       string    `json:"userId"`
}

type UserStore interface {
	Create(ctx context.Context, phone, fullName string, role user.Role) (user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetByPhone(ctx context.Context, phone string) (user.User, error)
}

type TokenIssuer interface {
	New(ctx context.Context, u user.User) (string, error)
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (jwt.RefreshToken, error)
	GetRefreshTokenByID(ctx context.Context, id uuid.UUID) (jwt.RefreshToken, error)
	InactivateRefreshToken(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	userStore   UserStore
	tokenIssuer TokenIssuer
}

func NewHandler(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	userStore UserStore,
	tokenIssuer TokenIssuer,
) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("auth/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		userStore:     userStore,
		tokenIssuer:   tokenIssuer,
	}
}

func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "RegisterHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req RegisterRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	u, err := h.userStore.Create(traceCtx, req.Phone, req.FullName, user.Role(req.Role))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeTokens(traceCtx, w, u, logger)
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "LoginHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req LoginRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	u, err := h.userStore.GetByPhone(traceCtx, req.Phone)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeTokens(traceCtx, w, u, logger)
}

// RefreshTokenHandler rotates a refresh token: the presented token is
// inactivated and a fresh pair is issued.
func (h *Handler) RefreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "RefreshTokenHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req RefreshRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	token, err := h.tokenIssuer.GetRefreshTokenByID(traceCtx, req.RefreshToken)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidRefreshToken, logger)
		return
	}
	if !token.IsActive || token.ExpirationDate.Time.Before(time.Now()) {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInvalidRefreshToken, logger)
		return
	}

	u, err := h.userStore.GetByID(traceCtx, token.UserID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := h.tokenIssuer.InactivateRefreshToken(traceCtx, token.ID); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	h.writeTokens(traceCtx, w, u, logger)
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "LogoutHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req RefreshRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := h.tokenIssuer.InactivateRefreshToken(traceCtx, req.RefreshToken); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeTokens(ctx context.Context, w http.ResponseWriter, u user.User, logger *zap.Logger) {
	accessToken, err := h.tokenIssuer.New(ctx, u)
	if err != nil {
		h.problemWriter.WriteError(ctx, w, err, logger)
		return
	}

	refreshToken, err := h.tokenIssuer.GenerateRefreshToken(ctx, u.ID)
	if err != nil {
		h.problemWriter.WriteError(ctx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.ID.String(),
		ExpiresAt:    refreshToken.ExpirationDate.Time,
		UserID:       u.ID.String(),
	})
}
