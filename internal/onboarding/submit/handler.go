package submit

import (
	"context"
	"net/http"
	"time"

	"CareSync/healthcare-backend/internal"
	"CareSync/healthcare-backend/internal/onboarding/shared"
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
	QuestionnaireID uuid.UUID            `json:"questionnaireId" validate:"required"`
	Answers         []shared.AnswerParam `json:"answers" validate:"required,dive"`
}

type SubmittedAnswer struct {
	QuestionID string    `json:"questionId"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Response struct {
	Message string            `json:"message"`
	Answers []SubmittedAnswer `json:"answers"`
}

type AnswerDetail struct {
	QuestionID string    `json:"questionId"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"createdAt"`
}

type UserAnswersResponse struct {
	QuestionnaireID    string         `json:"questionnaireId"`
	QuestionnaireTitle string         `json:"questionnaireTitle"`
	UserID             string         `json:"userId"`
	Answers            []AnswerDetail `json:"answers"`
}

type Store interface {
	Submit(ctx context.Context, questionnaireID uuid.UUID, userID uuid.UUID, answers []shared.AnswerParam) (Result, error)
	GetUserAnswers(ctx context.Context, userID, questionnaireID uuid.UUID) (UserAnswers, error)
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
		tracer:        otel.Tracer("submit/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

// SubmitHandler accepts a questionnaire submission for the authenticated user.
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SubmitHandler")
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

	result, err := h.store.Submit(traceCtx, req.QuestionnaireID, currentUser.ID, req.Answers)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	answers := make([]SubmittedAnswer, 0, len(result.Answers))
	for _, a := range result.Answers {
		answers = append(answers, SubmittedAnswer{
			QuestionID: a.QuestionID.String(),
			Answer:     a.Value,
			CreatedAt:  a.CreatedAt.Time,
		})
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, Response{
		Message: "Questionnaire submitted successfully",
		Answers: answers,
	})
}

// GetUserAnswersHandler returns a user's stored answers for a questionnaire.
func (h *Handler) GetUserAnswersHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetUserAnswersHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	userID, err := handlerutil.ParseUUID(r.PathValue("userId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	questionnaireID, err := handlerutil.ParseUUID(r.PathValue("questionnaireId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	result, err := h.store.GetUserAnswers(traceCtx, userID, questionnaireID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	answers := make([]AnswerDetail, 0, len(result.Answers))
	for _, row := range result.Answers {
		answers = append(answers, AnswerDetail{
			QuestionID: row.QuestionID.String(),
			Question:   row.QuestionTitle,
			Answer:     row.Value,
			CreatedAt:  row.CreatedAt.Time,
		})
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, UserAnswersResponse{
		QuestionnaireID:    result.Questionnaire.ID.String(),
		QuestionnaireTitle: result.Questionnaire.Title,
		UserID:             userID.String(),
		Answers:            answers,
	})
}
