package answer

import (
	"context"
	"fmt"
	"net/http"

	"CareSync/healthcare-backend/internal"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Store interface {
	ListByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) ([]ListByQuestionnaireIDRow, error)
}

type questionnaireStore interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	problemWriter *problem.HttpWriter

	store              Store
	questionnaireStore questionnaireStore
}

func NewHandler(
	logger *zap.Logger,
	problemWriter *problem.HttpWriter,
	store Store,
	questionnaireStore questionnaireStore,
) *Handler {
	return &Handler{
		logger:             logger,
		tracer:             otel.Tracer("answer/handler"),
		problemWriter:      problemWriter,
		store:              store,
		questionnaireStore: questionnaireStore,
	}
}

// ExportHandler streams all answers of a questionnaire as an xlsx workbook.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ExportHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	questionnaireID, err := handlerutil.ParseUUID(r.PathValue("questionnaireId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	exists, err := h.questionnaireStore.Exists(traceCtx, questionnaireID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}
	if !exists {
		h.problemWriter.WriteError(traceCtx, w, internal.ErrQuestionnaireNotFound, logger)
		return
	}

	rows, err := h.store.ListByQuestionnaire(traceCtx, questionnaireID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	workbook, err := BuildWorkbook(rows)
	if err != nil {
		logger.Error("Failed to build answer workbook", zap.Error(err))
		h.problemWriter.WriteError(traceCtx, w, internal.ErrInternalServerError, logger)
		return
	}

	filename := fmt.Sprintf("answers-%s.xlsx", questionnaireID)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := workbook.Write(w); err != nil {
		logger.Error("Failed to write answer workbook", zap.Error(err))
	}
}
