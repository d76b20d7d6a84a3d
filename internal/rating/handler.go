package rating

import (
	"context"
	"net/http"
	"time"

	"CareSync/healthcare-backend/internal"
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

type Request struct {
	PhysicianID uuid.UUID `json:"physicianId" validate:"required"`
	Score       int32     `json:"score" validate:"required,min=1,max=5"`
	Comment     string    `json:"comment"`
}

type Response struct {
	ID          string    `json:"id"`
	PatientID   string    `json:"patientId"`
	PhysicianID string    `json:"physicianId"`
	Score       int32     `json:"score"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SummaryResponse struct {
	PhysicianID string  `json:"physicianId"`
	Average     float64 `json:"average"`
	Count       int64   `json:"count"`
}

func ToResponse(r Rating) Response {
	return Response{
		ID:          r.ID.String(),
		PatientID:   r.PatientID.String(),
		PhysicianID: r.PhysicianID.String(),
		Score:       r.Score,
		Comment:     r.Comment.String,
		CreatedAt:   r.CreatedAt.Time,
	}
}

type Store interface {
	Rate(ctx context.Context, patientID, physicianID uuid.UUID, score int32, comment string) (Rating, error)
	GetSummary(ctx context.Context, physicianID uuid.UUID) (Summary, error)
	ListByPhysician(ctx context.Context, physicianID uuid.UUID) ([]Rating, error)
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	store Store
}

func NewHandler(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	store Store,
) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("rating/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

// RateHandler records the authenticated patient's rating of a physician.
func (h *Handler) RateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "RateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	currentUser, ok := user.GetFromContext(traceCtx)
	if !ok {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrNoUserInContext, logger)
		return
	}

	var req Request
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	rating, err := h.store.Rate(traceCtx, currentUser.ID, req.PhysicianID, req.Score, req.Comment)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, ToResponse(rating))
}

func (h *Handler) GetSummaryHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetSummaryHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	physicianID, err := handlerutil.ParseUUID(r.PathValue("physicianId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	summary, err := h.store.GetSummary(traceCtx, physicianID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, SummaryResponse{
		PhysicianID: summary.PhysicianID.String(),
		Average:     summary.Average,
		Count:       summary.Count,
	})
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	physicianID, err := handlerutil.ParseUUID(r.PathValue("physicianId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	items, err := h.store.ListByPhysician(traceCtx, physicianID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	response := make([]Response, 0, len(items))
	for _, rating := range items {
		response = append(response, ToResponse(rating))
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, response)
}
