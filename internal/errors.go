package internal

import (
	"errors"
	"strings"

	"github.com/NYCU-SDC/summer/pkg/problem"
)

// ErrMissingRequiredQuestions reports every required question that was left
// out of a submission batch in a single error, rather than one error per id.
type ErrMissingRequiredQuestions struct {
	QuestionIDs []string
}

func (e ErrMissingRequiredQuestions) Error() string {
	return "required questions not answered: " + strings.Join(e.QuestionIDs, ", ")
}

func (e ErrMissingRequiredQuestions) Unwrap() error {
	return ErrValidationFailed
}

// Is lets errors.Is match against a zero value regardless of the ids carried.
func (e ErrMissingRequiredQuestions) Is(target error) bool {
	_, ok := target.(ErrMissingRequiredQuestions)
	return ok
}

var (
	// Generic Errors
	ErrPermissionDenied    = errors.New("permission denied")
	ErrUnauthorizedError   = errors.New("unauthorized error")
	ErrInternalServerError = errors.New("internal server error")
	ErrNotFound            = errors.New("not found")
	ErrInvalidRequestBody  = errors.New("invalid request body")

	// JWT Authentication Errors
	ErrMissingAuthHeader       = errors.New("missing access token")
	ErrInvalidAuthHeaderFormat = errors.New("invalid access token")
	ErrInvalidJWTToken         = errors.New("invalid JWT token")
	ErrInvalidRefreshToken     = errors.New("invalid refresh token")

	// User Errors
	ErrUserNotFound      = errors.New("user not found")
	ErrNoUserInContext   = errors.New("no user found in request context")
	ErrPhoneAlreadyInUse = errors.New("phone number already registered")
	ErrInvalidRole       = errors.New("invalid role")

	// Questionnaire Errors
	ErrQuestionnaireNotFound = errors.New("questionnaire not found")
	ErrNoQuestionnaires      = errors.New("no questionnaires exist")

	// Question Errors
	ErrQuestionNotFound     = errors.New("question not found")
	ErrDependencyNotFound   = errors.New("dependency question not found")
	ErrDependencyWrongOwner = errors.New("dependency question belongs to another questionnaire")
	ErrSelfDependency       = errors.New("question cannot depend on itself")
	ErrDependencyCycle      = errors.New("question dependency chain forms a cycle")
	ErrValidationFailed     = errors.New("validation failed")

	// Category Errors
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameConflict = errors.New("category name already exists")

	// Rating Errors
	ErrPhysicianNotFound = errors.New("physician not found")
	ErrPatientNotFound   = errors.New("patient not found")
	ErrDuplicateRating   = errors.New("patient has already rated this physician")
	ErrRatingNotFound    = errors.New("rating not found")
)

func NewProblemWriter() *problem.HttpWriter {
	return problem.NewWithMapping(ErrorHandler)
}

func ErrorHandler(err error) problem.Problem {
	switch {
	// Generic Errors
	case errors.Is(err, ErrPermissionDenied):
		return problem.NewForbiddenProblem("permission denied")
	case errors.Is(err, ErrUnauthorizedError):
		return problem.NewUnauthorizedProblem("unauthorized error")
	case errors.Is(err, ErrInternalServerError):
		return problem.NewInternalServerProblem("internal server error")
	case errors.Is(err, ErrNotFound):
		return problem.NewNotFoundProblem("not found")
	case errors.Is(err, ErrInvalidRequestBody):
		return problem.NewBadRequestProblem("invalid request body")

	// JWT Authentication Errors
	case errors.Is(err, ErrMissingAuthHeader):
		return problem.NewUnauthorizedProblem("missing access token")
	case errors.Is(err, ErrInvalidAuthHeaderFormat):
		return problem.NewUnauthorizedProblem("invalid access token")
	case errors.Is(err, ErrInvalidJWTToken):
		return problem.NewUnauthorizedProblem("invalid JWT token")
	case errors.Is(err, ErrInvalidRefreshToken):
		return problem.NewNotFoundProblem("refresh token not found")

	// User Errors
	case errors.Is(err, ErrUserNotFound):
		return problem.NewNotFoundProblem("user not found")
	case errors.Is(err, ErrNoUserInContext):
		return problem.NewUnauthorizedProblem("no user found in request context")
	case errors.Is(err, ErrPhoneAlreadyInUse):
		return problem.NewValidateProblem("phone number already registered")
	case errors.Is(err, ErrInvalidRole):
		return problem.NewValidateProblem("invalid role value")

	// Questionnaire Errors
	case errors.Is(err, ErrQuestionnaireNotFound):
		return problem.NewNotFoundProblem("questionnaire not found")
	case errors.Is(err, ErrNoQuestionnaires):
		return problem.NewNotFoundProblem("no questionnaires exist")

	// Question Errors
	case errors.Is(err, ErrQuestionNotFound):
		return problem.NewNotFoundProblem("question not found")
	case errors.Is(err, ErrDependencyNotFound):
		return problem.NewNotFoundProblem("dependency question not found")
	case errors.Is(err, ErrDependencyWrongOwner):
		return problem.NewValidateProblem("dependency question belongs to another questionnaire")
	case errors.Is(err, ErrSelfDependency):
		return problem.NewValidateProblem("question cannot depend on itself")
	case errors.Is(err, ErrDependencyCycle):
		return problem.NewValidateProblem("question dependency chain forms a cycle")

	// Submission Errors
	case errors.Is(err, ErrMissingRequiredQuestions{}):
		return problem.NewValidateProblem(err.Error())
	case errors.Is(err, ErrValidationFailed):
		return problem.NewValidateProblem(err.Error())

	// Category Errors
	case errors.Is(err, ErrCategoryNotFound):
		return problem.NewNotFoundProblem("category not found")
	case errors.Is(err, ErrCategoryNameConflict):
		return problem.NewValidateProblem("category name already exists")

	// Rating Errors
	case errors.Is(err, ErrPhysicianNotFound):
		return problem.NewNotFoundProblem("physician not found")
	case errors.Is(err, ErrPatientNotFound):
		return problem.NewNotFoundProblem("patient not found")
	case errors.Is(err, ErrDuplicateRating):
		return problem.NewValidateProblem("patient has already rated this physician")
	case errors.Is(err, ErrRatingNotFound):
		return problem.NewNotFoundProblem("rating not found")
	}
	return problem.Problem{}
}
