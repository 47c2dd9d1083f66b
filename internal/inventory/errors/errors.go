package inventoryerrors

import (
	"net/http"

	"cafedesk/internal/shared/apperror"
)

var (
	ErrProductNotFound = apperror.New(
		apperror.CodeNotFound,
		"Product not found",
		http.StatusNotFound,
	)
	ErrInsufficientStock = apperror.New(
		apperror.CodeInvalidState,
		"Not enough stock for this operation",
		http.StatusConflict,
	)
)
