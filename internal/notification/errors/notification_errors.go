package notificationerrors

import (
	"net/http"

	"staffdesk/internal/shared/apperror"
)

var (
	ErrInvalidRecipient = apperror.New(
		apperror.CodeInvalidInput,
		"invalid notification recipient",
		http.StatusBadRequest,
	)
	ErrNotificationNotFound = apperror.New(
		apperror.CodeNotFound,
		"notification not found",
		http.StatusNotFound,
	)
)
