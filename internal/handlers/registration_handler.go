package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/farellandr/eventgate/internal/helpers"
	"github.com/farellandr/eventgate/internal/models"
	"github.com/farellandr/eventgate/internal/services"
	"github.com/gin-gonic/gin"
)

type RegisterRequest struct {
	UserEmail string         `json:"userEmail"`
	Details   models.Details `json:"details"`
}

type RegistrationStatusResponse struct {
	IsRegistered bool                 `json:"isRegistered"`
	Data         *models.Registration `json:"data"`
}

// Register handles POST /v1/events/:id/register
func (h *Handler) Register(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeInvalidRequestBody, "Invalid input. Please check your fields.")
		return
	}

	reg, err := h.registrations.Register(c.Request.Context(), services.RegisterInput{
		EventID:   eventID,
		UserEmail: callerEmail(c, req.UserEmail),
		Details:   req.Details,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "Registered successfully.",
		"registration": reg,
	})
}

// GetRegistration handles GET /v1/events/:id/registration?userEmail=
func (h *Handler) GetRegistration(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	reg, err := h.registrations.GetRegistration(c.Request.Context(), eventID, callerEmail(c, c.Query("userEmail")))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RegistrationStatusResponse{IsRegistered: reg != nil, Data: reg})
}
