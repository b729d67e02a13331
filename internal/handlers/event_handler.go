package handlers

import (
	"net/http"
	"time"

	"github.com/farellandr/eventgate/internal/helpers"
	"github.com/farellandr/eventgate/internal/models"
	"github.com/gin-gonic/gin"
)

type EventRequest struct {
	Title       string             `json:"title" binding:"required"`
	Description string             `json:"description"`
	Location    string             `json:"location"`
	Capacity    int                `json:"capacity"`
	Cost        int                `json:"cost"`
	StartTime   time.Time          `json:"startTime" binding:"required"`
	EndTime     time.Time          `json:"endTime" binding:"required"`
	Status      models.EventStatus `json:"status"`
}

// CreateEvent handles POST /v1/events
func (h *Handler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, helpers.CodeInvalidRequestBody, "Invalid input. Please check your fields.")
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Capacity:    req.Capacity,
		Cost:        req.Cost,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      req.Status,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully.",
		"event":   event,
	})
}

// GetEvent handles GET /v1/events/:id
func (h *Handler) GetEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := h.events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// ListEvents handles GET /v1/events
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.events.ListEvents(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	c.JSON(http.StatusOK, gin.H{
		"events": events,
		"total":  len(events),
	})
}
