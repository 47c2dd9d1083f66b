package employeeerrors

import (
	"net/http"

	"cafedesk/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrPhoneAlreadyExists = apperror.New(
		apperror.CodeDuplicateKey,
		"An employee with the same phone number already exists",
		http.StatusConflict,
	)
	ErrCodeAlreadyExists = apperror.New(
		apperror.CodeDuplicateKey,
		"Employee code already exists",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeInvalidState,
		"Employee is inactive",
		http.StatusConflict,
	)
)
