package handlers

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/farellandr/eventgate/internal/helpers"
	"github.com/farellandr/eventgate/internal/models"
	"github.com/farellandr/eventgate/internal/services"
	"github.com/gin-gonic/gin"
)

type GenerateTicketRequest struct {
	RegistrationID uint `json:"registrationId" binding:"required"`
}

type TicketResponse struct {
	ID             uint      `json:"id"`
	RegistrationID uint      `json:"registrationId"`
	EventID        uint      `json:"eventId"`
	UserEmail      string    `json:"userEmail"`
	Instance       int       `json:"instance"`
	Payload        string    `json:"payload"`
	ImageBase64    string    `json:"imageBase64"`
	CreatedAt      time.Time `json:"createdAt"`
}

func newTicketResponse(t models.Ticket) TicketResponse {
	return TicketResponse{
		ID:             t.ID,
		RegistrationID: t.RegistrationID,
		EventID:        t.EventID,
		UserEmail:      t.UserEmail,
		Instance:       t.Instance,
		Payload:        t.Payload,
		ImageBase64:    base64.StdEncoding.EncodeToString(t.Image),
		CreatedAt:      t.CreatedAt,
	}
}

// GenerateTicketQR handles POST /v1/events/:id/generateQR
func (h *Handler) GenerateTicketQR(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req GenerateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeInvalidRequestBody, "Invalid registration ID.")
		return
	}

	ticket, err := h.tickets.IssueTicket(c.Request.Context(), services.IssueTicketInput{
		RegistrationID: req.RegistrationID,
		EventID:        eventID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": newTicketResponse(ticket)})
}

// ListEventTickets handles GET /v1/events/:id/event-qrcodes?userEmail=
func (h *Handler) ListEventTickets(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	tickets, err := h.tickets.ListTickets(c.Request.Context(), eventID, callerEmail(c, c.Query("userEmail")))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, newTicketResponse(t))
	}
	c.JSON(http.StatusOK, resp)
}
