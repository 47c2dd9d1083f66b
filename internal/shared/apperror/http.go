package apperror

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// HTTPError is the transport-facing view of an error, ready for the response
// envelope.
type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details interface{}
}

// ToHTTP translates any error into an HTTPError. Validation errors become
// field-level details, AppErrors map directly, everything else is hidden
// behind a generic 500.
func ToHTTP(err error) HTTPError {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		mapped := MapValidationError(validationErrs)
		var appErr *AppError
		if errors.As(mapped, &appErr) {
			return HTTPError{
				Status:  appErr.HTTPStatus,
				Code:    appErr.Code,
				Message: appErr.Message,
			}
		}
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: ErrInternal.Message,
	}
}
