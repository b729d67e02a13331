package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/farellandr/eventgate/internal/helpers"
	"github.com/farellandr/eventgate/internal/models"
	"github.com/farellandr/eventgate/internal/requestctx"
	"github.com/farellandr/eventgate/internal/services"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	events        *services.EventService
	registrations *services.RegistrationService
	tickets       *services.TicketService
	checkIns      *services.CheckInService
	logger        *log.Logger
}

func NewHandler(
	events *services.EventService,
	registrations *services.RegistrationService,
	tickets *services.TicketService,
	checkIns *services.CheckInService,
	logger *log.Logger,
) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		events:        events,
		registrations: registrations,
		tickets:       tickets,
		checkIns:      checkIns,
		logger:        logger,
	}
}

func eventIDParam(c *gin.Context) (uint, bool) {
	id, err := helpers.ParseID(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeInvalidID, "Invalid event ID.")
		return 0, false
	}
	return id, true
}

// callerEmail prefers the address given in the request and falls back to the
// authenticated identity.
func callerEmail(c *gin.Context, provided string) string {
	if provided != "" {
		return provided
	}
	return requestctx.EmailFromContext(c.Request.Context())
}

// respondError maps service outcomes onto HTTP responses. Anything not in the
// taxonomy is logged and reported as a bare 500.
func (h *Handler) respondError(c *gin.Context, err error) {
	var alreadyCheckedIn *models.AlreadyCheckedInError
	switch {
	case errors.As(err, &alreadyCheckedIn):
		c.AbortWithStatusJSON(http.StatusConflict, helpers.CheckInConflictResponse{
			ErrorResponse:  helpers.NewErrorResponse(http.StatusConflict, helpers.CodeAlreadyCheckedIn, "Ticket already checked in."),
			UserEmail:      alreadyCheckedIn.UserEmail,
			RegistrationID: alreadyCheckedIn.RegistrationID,
			CheckedInAt:    alreadyCheckedIn.CheckedInAt,
		})
	case errors.Is(err, models.ErrEventNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, helpers.CodeEventNotFound, "Event not found.")
	case errors.Is(err, models.ErrRegistrationNotFound):
		helpers.RespondWithError(c, http.StatusNotFound, helpers.CodeRegistrationNotFound, "Registration not found.")
	case errors.Is(err, models.ErrAlreadyRegistered):
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeAlreadyRegistered, "You are already registered for this event.")
	case errors.Is(err, models.ErrCapacityExceeded):
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeCapacityExceeded, "Event is fully booked.")
	case errors.Is(err, models.ErrEventClosed):
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeEventClosed, "Event is not accepting registrations.")
	case errors.Is(err, models.ErrInvalidEmail):
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeInvalidEmail, "A valid userEmail is required.")
	case errors.Is(err, models.ErrInvalidEvent):
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeInvalidEvent, err.Error())
	case errors.Is(err, models.ErrRegistrationNotConfirmed):
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeNotConfirmed, "Registration is not confirmed.")
	case errors.Is(err, models.ErrMalformedTicket):
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeMalformedTicket, "Invalid QR code format.")
	case errors.Is(err, models.ErrUnknownTicket):
		helpers.RespondWithError(c, http.StatusNotFound, helpers.CodeUnknownTicket, "Ticket not recognised.")
	case errors.Is(err, models.ErrWrongEvent):
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeWrongEvent, "Ticket is for a different event.")
	case errors.Is(err, context.DeadlineExceeded):
		h.logf(c, "request timed out: %v", err)
		helpers.RespondWithError(c, http.StatusGatewayTimeout, helpers.CodeTimeout, "Request timed out.")
	default:
		h.logf(c, "internal error: %v", err)
		helpers.RespondWithError(c, http.StatusInternalServerError, helpers.CodeInternalError, "Something went wrong.")
	}
}

func (h *Handler) logf(c *gin.Context, format string, args ...any) {
	prefix := "request_id=" + requestctx.RequestIDFromContext(c.Request.Context()) + " " + c.Request.Method + " " + c.FullPath() + " "
	h.logger.Printf(prefix+format, args...)
}

// HealthCheck handles GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
