package models

import "time"

// CheckIn records the one-time consumption of a registration's ticket.
// The registration id is the primary key so a second insert cannot succeed.
type CheckIn struct {
	RegistrationID uint          `gorm:"primaryKey;autoIncrement:false" json:"registrationId"`
	Registration   *Registration `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	EventID        uint          `gorm:"not null;index" json:"eventId"`
	CheckedIn      bool          `gorm:"not null;default:true" json:"checkedIn"`
	CheckedInAt    time.Time     `gorm:"not null" json:"checkedInAt"`
}

// AttendeeInfo is what the door scanner receives after a successful check-in.
type AttendeeInfo struct {
	UserEmail      string    `json:"userEmail"`
	RegistrationID uint      `json:"registrationId"`
	CheckedInAt    time.Time `json:"checkedInAt"`
}
