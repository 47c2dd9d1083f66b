package operationerrors

import (
	"net/http"

	"cafedesk/internal/shared/apperror"
)

var (
	ErrOperationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Operation not found",
		http.StatusNotFound,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid period, expected YYYY-MM",
		http.StatusBadRequest,
	)
)
