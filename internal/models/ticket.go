package models

import "time"

type Ticket struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	RegistrationID uint          `gorm:"not null;uniqueIndex:idx_tickets_registration_instance,priority:1" json:"registrationId"`
	Registration   *Registration `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	EventID        uint          `gorm:"not null;index" json:"eventId"`
	UserEmail      string        `gorm:"not null;index" json:"userEmail"`
	Instance       int           `gorm:"not null;default:0;uniqueIndex:idx_tickets_registration_instance,priority:2" json:"instance"`
	Payload        string        `gorm:"not null" json:"payload"`
	Image          []byte        `gorm:"type:bytea;not null" json:"-"`
	CreatedAt      time.Time     `json:"createdAt"`
}
