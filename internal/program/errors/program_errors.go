package programerrors

import (
	"net/http"

	"staffdesk/internal/shared/apperror"
)

var (
	ErrFieldStaffOnly = apperror.New(
		apperror.CodeForbidden,
		"advanced programs are restricted to field staff",
		http.StatusForbidden,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidMonth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid year or month",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"invalid decision",
		http.StatusBadRequest,
	)
	ErrProgramNotFound = apperror.New(
		apperror.CodeNotFound,
		"program entry not found",
		http.StatusNotFound,
	)
	ErrNotAuthorized = apperror.New(
		apperror.CodeForbidden,
		"you are not authorized to act on this program entry",
		http.StatusForbidden,
	)
	ErrNotAwaitingDecision = apperror.New(
		apperror.CodeForbidden,
		"program entry is not awaiting a decision",
		http.StatusForbidden,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"program entry was already acted on by someone else, refresh and try again",
		http.StatusConflict,
	)
	ErrDuplicateEntry = apperror.New(
		apperror.CodeConflict,
		"a program entry already exists for this date",
		http.StatusConflict,
	)
)
