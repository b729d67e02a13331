package handlers

import (
	"net/http"

	"github.com/farellandr/eventgate/internal/helpers"
	"github.com/gin-gonic/gin"
)

type CheckInRequest struct {
	RegistrationHash string `json:"registrationHash"`
}

// CheckIn handles PATCH /v1/events/:id/qr-check-in
func (h *Handler) CheckIn(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeInvalidRequestBody, "Invalid request payload.")
		return
	}

	info, err := h.checkIns.CheckIn(c.Request.Context(), eventID, req.RegistrationHash)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Checked in successfully.",
		"userEmail":      info.UserEmail,
		"registrationId": info.RegistrationID,
		"checkedInAt":    info.CheckedInAt,
	})
}
