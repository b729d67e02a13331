package models

import (
	"strings"
	"time"
)

type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusScheduled, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// AcceptsRegistrations reports whether new registrations may still be created.
func (s EventStatus) AcceptsRegistrations() bool {
	return s == EventStatusScheduled || s == EventStatusOngoing
}

type Event struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`
	Capacity    int         `gorm:"not null;default:0" json:"capacity"`
	Cost        int         `gorm:"not null;default:0" json:"cost"`
	StartTime   time.Time   `gorm:"not null" json:"startTime"`
	EndTime     time.Time   `gorm:"not null" json:"endTime"`
	Status      EventStatus `gorm:"type:varchar(16);not null;default:'scheduled'" json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Unlimited reports whether the event has no seat limit.
func (e *Event) Unlimited() bool {
	return e.Capacity <= 0
}

// IsFree reports whether registrants owe nothing.
func (e *Event) IsFree() bool {
	return e.Cost <= 0
}

// Validate checks the fields an admin must provide when creating an event.
func (e *Event) Validate() error {
	e.Title = strings.TrimSpace(e.Title)
	if e.Status == "" {
		e.Status = EventStatusScheduled
	}
	switch {
	case e.Title == "":
		return invalidEvent("title is required")
	case e.Capacity < 0:
		return invalidEvent("capacity cannot be negative")
	case e.Cost < 0:
		return invalidEvent("cost cannot be negative")
	case e.StartTime.IsZero() || e.EndTime.IsZero():
		return invalidEvent("start and end time are required")
	case !e.EndTime.After(e.StartTime):
		return invalidEvent("end time must be after start time")
	case !e.Status.Valid():
		return invalidEvent("unknown status " + string(e.Status))
	}
	return nil
}
