package services

import (
	"context"

	"github.com/farellandr/eventgate/internal/models"
)

// EventStore is the read side of the admin-owned event records, plus the
// create call the admin collaborator uses.
type EventStore interface {
	GetEvent(ctx context.Context, id uint) (models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	CreateEvent(ctx context.Context, event *models.Event) error
}

// RegistrationStore persists registrations. GetEventForUpdate must hold a
// lock on the event row until the enclosing WithTx returns.
type RegistrationStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	GetEventForUpdate(ctx context.Context, eventID uint) (models.Event, error)
	FindRegistration(ctx context.Context, eventID uint, userEmail string) (*models.Registration, error)
	CountConfirmedRegistrations(ctx context.Context, eventID uint) (int64, error)
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	GetRegistration(ctx context.Context, id uint) (models.Registration, error)
}

// TicketStore persists rendered tickets. CreateTicket returns
// models.ErrTicketExists when the (registration, instance) pair is taken.
type TicketStore interface {
	GetRegistration(ctx context.Context, id uint) (models.Registration, error)
	FindTicket(ctx context.Context, registrationID uint, instance int) (*models.Ticket, error)
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	ListTickets(ctx context.Context, eventID uint, userEmail string) ([]models.Ticket, error)
}

// CheckInStore persists check-ins. CreateCheckIn inserts the record only if
// none exists for the registration and reports whether it did.
type CheckInStore interface {
	GetRegistration(ctx context.Context, id uint) (models.Registration, error)
	CreateCheckIn(ctx context.Context, rec *models.CheckIn) (bool, error)
	GetCheckIn(ctx context.Context, registrationID uint) (*models.CheckIn, error)
}

// Store is implemented by every storage backend.
type Store interface {
	EventStore
	RegistrationStore
	TicketStore
	CheckInStore
}
