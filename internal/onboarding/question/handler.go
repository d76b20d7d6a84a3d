package question

import (
	"context"
	"net/http"

	"CareSync/healthcare-backend/internal/onboarding/questionnaire"

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
	Title                string   `json:"title" validate:"required"`
	Description          string   `json:"description"`
	UserType             string   `json:"userType" validate:"omitempty,oneof=PATIENT PHYSICIAN"`
	Type                 string   `json:"type" validate:"required,oneof=TEXT MULTIPLE_CHOICE RATING CHECKBOX"`
	Required             bool     `json:"required"`
	Options              []string `json:"options"`
	OrderIndex           int32    `json:"orderIndex"`
	DependsOnQuestionID  *string  `json:"dependsOnQuestionId" validate:"omitempty,uuid"`
	DependsOnAnswerValue string   `json:"dependsOnAnswerValue" validate:"required_with=DependsOnQuestionID"`
}

type BulkRequest struct {
	Questions []Request `json:"questions" validate:"required,min=1,dive"`
}

type BulkResponse struct {
	Questionnaire questionnaire.Response `json:"questionnaire"`
	Questions     []Response             `json:"questions"`
}

type Response struct {
	ID                   string   `json:"id"`
	QuestionnaireID      string   `json:"questionnaireId"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	UserType             string   `json:"userType"`
	Type                 string   `json:"type"`
	Required             bool     `json:"required"`
	Options              []string `json:"options,omitempty"`
	OrderIndex           int32    `json:"orderIndex"`
	DependsOnQuestionID  *string  `json:"dependsOnQuestionId"`
	DependsOnAnswerValue *string  `json:"dependsOnAnswerValue"`
}

// typeToUppercase converts database type format (lowercase) to API format (uppercase).
func typeToUppercase(t QuestionType) string {
	switch t {
	case TypeText:
		return "TEXT"
	case TypeMultipleChoice:
		return "MULTIPLE_CHOICE"
	case TypeRating:
		return "RATING"
	case TypeCheckbox:
		return "CHECKBOX"
	default:
		return string(t)
	}
}

// typeToLowercase converts API type format (uppercase) to database format (lowercase).
func typeToLowercase(t string) QuestionType {
	switch t {
	case "TEXT":
		return TypeText
	case "MULTIPLE_CHOICE":
		return TypeMultipleChoice
	case "RATING":
		return TypeRating
	case "CHECKBOX":
		return TypeCheckbox
	default:
		return QuestionType(t)
	}
}

func ToResponse(a Answerable) Response {
	q := a.Question()

	var options []string
	if mc, ok := a.(MultipleChoice); ok {
		options = mc.Options
	}

	var dependsOn *string
	var dependsValue *string
	if q.DependsOnQuestionID.Valid {
		id := uuid.UUID(q.DependsOnQuestionID.Bytes).String()
		dependsOn = &id
		value := q.DependsOnAnswerValue.String
		dependsValue = &value
	}

	return Response{
		ID:                   q.ID.String(),
		QuestionnaireID:      q.QuestionnaireID.String(),
		Title:                q.Title,
		Description:          q.Description.String,
		UserType:             q.UserType,
		Type:                 typeToUppercase(q.Type),
		Required:             q.Required,
		Options:              options,
		OrderIndex:           q.OrderIndex,
		DependsOnQuestionID:  dependsOn,
		DependsOnAnswerValue: dependsValue,
	}
}

type Store interface {
	Create(ctx context.Context, input CreateInput) (Answerable, error)
	CreateBulk(ctx context.Context, inputs []CreateInput) (BulkResult, error)
	Update(ctx context.Context, id uuid.UUID, input CreateInput) (Answerable, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByQuestionnaire(ctx context.Context, questionnaireID uuid.UUID) ([]Answerable, error)
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
		tracer:        otel.Tracer("question/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "CreateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	questionnaireID, err := handlerutil.ParseUUID(r.PathValue("questionnaireId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req Request
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	input, err := toCreateInput(questionnaireID, req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	answerable, err := h.store.Create(traceCtx, input)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, ToResponse(answerable))
}

// BulkCreateHandler creates a questionnaire with a generated title plus all
// submitted questions in one call.
func (h *Handler) BulkCreateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "BulkCreateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req BulkRequest
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	inputs := make([]CreateInput, 0, len(req.Questions))
	for _, q := range req.Questions {
		input, err := toCreateInput(uuid.Nil, q)
		if err != nil {
			h.problemWriter.WriteError(traceCtx, w, err, logger)
			return
		}
		inputs = append(inputs, input)
	}

	result, err := h.store.CreateBulk(traceCtx, inputs)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	questions := make([]Response, 0, len(result.Questions))
	for _, a := range result.Questions {
		questions = append(questions, ToResponse(a))
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, BulkResponse{
		Questionnaire: questionnaire.ToResponse(result.Questionnaire),
		Questions:     questions,
	})
}

func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UpdateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("questionId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req Request
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	input, err := toCreateInput(uuid.Nil, req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	answerable, err := h.store.Update(traceCtx, id, input)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(answerable))
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("questionId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := h.store.Delete(traceCtx, id); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	questionnaireID, err := handlerutil.ParseUUID(r.PathValue("questionnaireId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	list, err := h.store.ListByQuestionnaire(traceCtx, questionnaireID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	response := make([]Response, 0, len(list))
	for _, a := range list {
		response = append(response, ToResponse(a))
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, response)
}

func toCreateInput(questionnaireID uuid.UUID, req Request) (CreateInput, error) {
	var dependsOn uuid.NullUUID
	if req.DependsOnQuestionID != nil {
		id, err := handlerutil.ParseUUID(*req.DependsOnQuestionID)
		if err != nil {
			return CreateInput{}, err
		}
		dependsOn = uuid.NullUUID{UUID: id, Valid: true}
	}

	return CreateInput{
		QuestionnaireID:      questionnaireID,
		Title:                req.Title,
		Description:          req.Description,
		UserType:             req.UserType,
		Type:                 typeToLowercase(req.Type),
		Required:             req.Required,
		Options:              req.Options,
		OrderIndex:           req.OrderIndex,
		DependsOnQuestionID:  dependsOn,
		DependsOnAnswerValue: req.DependsOnAnswerValue,
	}, nil
}
