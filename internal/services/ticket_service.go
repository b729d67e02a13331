package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/farellandr/eventgate/internal/clock"
	"github.com/farellandr/eventgate/internal/helpers"
	"github.com/farellandr/eventgate/internal/models"
	"github.com/farellandr/eventgate/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Renderer turns a ticket payload into image bytes.
type Renderer func(payload string) ([]byte, error)

// QRRenderer renders PNG barcodes of the given edge size.
func QRRenderer(size int) Renderer {
	return func(payload string) ([]byte, error) {
		return helpers.RenderQR(payload, size)
	}
}

type TicketService struct {
	store  TicketStore
	clock  clock.Clock
	render Renderer
}

type TicketServiceOption func(*TicketService)

// WithRenderer overrides the default QR renderer.
func WithRenderer(r Renderer) TicketServiceOption {
	return func(s *TicketService) {
		if r != nil {
			s.render = r
		}
	}
}

func NewTicketService(store TicketStore, clk clock.Clock, opts ...TicketServiceOption) *TicketService {
	svc := &TicketService{
		store:  store,
		clock:  clk,
		render: QRRenderer(helpers.DefaultQRSize),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type IssueTicketInput struct {
	RegistrationID uint
	// EventID scopes the lookup to one event when non-zero.
	EventID uint
}

// IssueTicket returns the ticket for a confirmed registration, rendering and
// storing it on first call. Repeated calls return the stored ticket.
func (s *TicketService) IssueTicket(ctx context.Context, in IssueTicketInput) (models.Ticket, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "TicketService.IssueTicket")
	defer span.End()
	span.SetAttributes(attribute.Int64("registration.id", int64(in.RegistrationID)))

	reg, err := s.store.GetRegistration(ctx, in.RegistrationID)
	if err != nil {
		if errors.Is(err, models.ErrRegistrationNotFound) {
			return models.Ticket{}, err
		}
		telemetry.Fail(span, err)
		return models.Ticket{}, fmt.Errorf("get registration: %w", err)
	}
	if in.EventID != 0 && reg.EventID != in.EventID {
		return models.Ticket{}, models.ErrRegistrationNotFound
	}
	if !reg.Confirmed() {
		return models.Ticket{}, models.ErrRegistrationNotConfirmed
	}

	const instance = 0
	if existing, err := s.store.FindTicket(ctx, reg.ID, instance); err != nil {
		telemetry.Fail(span, err)
		return models.Ticket{}, fmt.Errorf("find ticket: %w", err)
	} else if existing != nil {
		return *existing, nil
	}

	payload := helpers.EncodeTicketPayload(helpers.TicketPayload{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserEmail:      reg.UserEmail,
		Instance:       instance,
	})
	image, err := s.render(payload)
	if err != nil {
		telemetry.Fail(span, err)
		return models.Ticket{}, fmt.Errorf("render ticket: %w", err)
	}

	ticket := models.Ticket{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		UserEmail:      reg.UserEmail,
		Instance:       instance,
		Payload:        payload,
		Image:          image,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.store.CreateTicket(ctx, &ticket); err != nil {
		if !errors.Is(err, models.ErrTicketExists) {
			telemetry.Fail(span, err)
			return models.Ticket{}, fmt.Errorf("create ticket: %w", err)
		}
		// Lost a race with a concurrent issue for the same registration.
		existing, err := s.store.FindTicket(ctx, reg.ID, instance)
		if err != nil {
			return models.Ticket{}, fmt.Errorf("find ticket: %w", err)
		}
		if existing == nil {
			return models.Ticket{}, fmt.Errorf("ticket for registration %d vanished after conflict", reg.ID)
		}
		return *existing, nil
	}
	return ticket, nil
}

// ListTickets returns the tickets a user holds for an event.
func (s *TicketService) ListTickets(ctx context.Context, eventID uint, userEmail string) ([]models.Ticket, error) {
	email := helpers.NormalizeEmail(userEmail)
	if !helpers.ValidEmail(email) {
		return nil, models.ErrInvalidEmail
	}
	tickets, err := s.store.ListTickets(ctx, eventID, email)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}
