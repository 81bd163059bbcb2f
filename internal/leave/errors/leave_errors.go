package leaveerrors

import (
	"net/http"

	"staffdesk/internal/shared/apperror"
)

var (
	ErrInvalidApplicantID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid applicant id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"resume_date must be after start_date",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrActingOfficerInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"acting officer must be a staff member of your division and not yourself",
		http.StatusBadRequest,
	)
	ErrRecommenderInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"recommender must be the Division CC or Divisional Head of your division",
		http.StatusBadRequest,
	)
	ErrApproverInvalid = apperror.New(
		apperror.CodeInvalidInput,
		"approver must be your Divisional Head, the HOD or an Admin",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"invalid decision",
		http.StatusBadRequest,
	)
	ErrRejectionCommentRequired = apperror.New(
		apperror.CodeInvalidInput,
		"a comment is required when rejecting an application",
		http.StatusBadRequest,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave application not found",
		http.StatusNotFound,
	)
	ErrNotAuthorized = apperror.New(
		apperror.CodeForbidden,
		"you are not authorized to act on this application",
		http.StatusForbidden,
	)
	ErrNotAwaitingRecommendation = apperror.New(
		apperror.CodeForbidden,
		"application is not awaiting recommendation",
		http.StatusForbidden,
	)
	ErrNotAwaitingApproval = apperror.New(
		apperror.CodeForbidden,
		"application is not awaiting approval",
		http.StatusForbidden,
	)
	ErrAlreadyActioned = apperror.New(
		apperror.CodeConflict,
		"application was already acted on by someone else, refresh and try again",
		http.StatusConflict,
	)
)
