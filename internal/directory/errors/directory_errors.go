package directoryerrors

import (
	"net/http"

	"staffdesk/internal/shared/apperror"
)

var (
	ErrEmailTaken = apperror.New(
		apperror.CodeInvalidInput,
		"a user with this email already exists",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.New(
		apperror.CodeInvalidInput,
		"invalid role",
		http.StatusBadRequest,
	)
	ErrInvalidStaffType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid staff type",
		http.StatusBadRequest,
	)
	ErrDivisionRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a division is required for this role",
		http.StatusBadRequest,
	)
	ErrDivisionUnknown = apperror.New(
		apperror.CodeInvalidInput,
		"division does not exist",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"user not found",
		http.StatusNotFound,
	)
	ErrNotAuthorized = apperror.New(
		apperror.CodeForbidden,
		"you are not authorized to access the staff directory",
		http.StatusForbidden,
	)
	ErrCannotDeleteSelf = apperror.New(
		apperror.CodeForbidden,
		"you cannot delete your own account",
		http.StatusForbidden,
	)
)
