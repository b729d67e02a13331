package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	CodeInvalidRequestBody   = "invalid_request_body"
	CodeInvalidID            = "invalid_id"
	CodeInvalidEmail         = "invalid_email"
	CodeInvalidEvent         = "invalid_event"
	CodeUnauthorized         = "unauthorized"
	CodeEventNotFound        = "event_not_found"
	CodeRegistrationNotFound = "registration_not_found"
	CodeAlreadyRegistered    = "already_registered"
	CodeCapacityExceeded     = "capacity_exceeded"
	CodeEventClosed          = "event_closed"
	CodeNotConfirmed         = "registration_not_confirmed"
	CodeMalformedTicket      = "malformed_ticket"
	CodeUnknownTicket        = "unknown_ticket"
	CodeWrongEvent           = "wrong_event"
	CodeAlreadyCheckedIn     = "already_checked_in"
	CodeTimeout              = "timeout"
	CodeInternalError        = "internal_error"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// CheckInConflictResponse is returned when a consumed ticket is scanned again.
type CheckInConflictResponse struct {
	ErrorResponse
	UserEmail      string    `json:"userEmail"`
	RegistrationID uint      `json:"registrationId"`
	CheckedInAt    time.Time `json:"checkedInAt"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func NewErrorResponse(statusCode int, code, message string) ErrorResponse {
	return ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: message,
		Code:    code,
	}
}

func RespondWithError(c *gin.Context, statusCode int, code, customMessage string) {
	c.AbortWithStatusJSON(statusCode, NewErrorResponse(statusCode, code, customMessage))
}
