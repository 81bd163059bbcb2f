package divisionerrors

import (
	"net/http"

	"staffdesk/internal/shared/apperror"
)

var (
	ErrNameTooShort = apperror.New(
		apperror.CodeInvalidInput,
		"division name must be at least 2 characters",
		http.StatusBadRequest,
	)
	ErrDuplicateName = apperror.New(
		apperror.CodeInvalidInput,
		"a division with this name already exists",
		http.StatusBadRequest,
	)
	ErrDivisionNotFound = apperror.New(
		apperror.CodeNotFound,
		"division not found",
		http.StatusNotFound,
	)
	ErrDivisionInUse = apperror.New(
		apperror.CodeConflict,
		"division still has assigned users and cannot be deleted",
		http.StatusConflict,
	)
)
