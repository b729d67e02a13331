package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type RegistrationStatus string

const (
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
)

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// PaymentStatusFor derives the payment label a new registration starts with.
func PaymentStatusFor(event Event) PaymentStatus {
	if event.IsFree() {
		return PaymentStatusPaid
	}
	return PaymentStatusPending
}

// Details holds the free-form answers collected at registration time.
type Details json.RawMessage

func (d Details) Value() (driver.Value, error) {
	if len(d) == 0 {
		return nil, nil
	}
	return string(d), nil
}

func (d *Details) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = nil
	case []byte:
		*d = append((*d)[:0], v...)
	case string:
		*d = Details(v)
	default:
		return fmt.Errorf("details: unsupported type %T", src)
	}
	return nil
}

func (d Details) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return json.RawMessage(d).MarshalJSON()
}

func (d *Details) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = nil
		return nil
	}
	*d = append((*d)[:0], data...)
	return nil
}

func (Details) GormDataType() string {
	return "jsonb"
}

type Registration struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	EventID       uint               `gorm:"not null;uniqueIndex:idx_registrations_event_email,priority:1" json:"eventId"`
	Event         *Event             `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	UserEmail     string             `gorm:"not null;uniqueIndex:idx_registrations_event_email,priority:2" json:"userEmail"`
	Status        RegistrationStatus `gorm:"type:varchar(16);not null;default:'confirmed'" json:"status"`
	PaymentStatus PaymentStatus      `gorm:"type:varchar(16);not null" json:"paymentStatus"`
	Details       Details            `json:"details"`
	CreatedAt     time.Time          `json:"createdAt"`
}

func (r *Registration) Confirmed() bool {
	return r.Status == RegistrationStatusConfirmed
}
