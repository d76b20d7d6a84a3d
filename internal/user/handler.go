package user

import (
	"net/http"
	"time"

	"CareSync/healthcare-backend/internal"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ProfileResponse struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func ToProfileResponse(u User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID.String(),
		Phone:     u.Phone,
		FullName:  u.FullName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Time,
	}
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	problemWriter *problem.HttpWriter
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("user/handler"),
		problemWriter: problemWriter,
	}
}

func (h *Handler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetMeHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	u, ok := GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToProfileResponse(u))
}
