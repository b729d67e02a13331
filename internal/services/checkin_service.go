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

type CheckInService struct {
	store CheckInStore
	clock clock.Clock
}

func NewCheckInService(store CheckInStore, clk clock.Clock) *CheckInService {
	return &CheckInService{store: store, clock: clk}
}

// CheckIn consumes the ticket encoded in scannedPayload at the door of
// eventID. A second scan of the same ticket returns *models.AlreadyCheckedInError
// with the original timestamp.
func (s *CheckInService) CheckIn(ctx context.Context, eventID uint, scannedPayload string) (models.AttendeeInfo, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "CheckInService.CheckIn")
	defer span.End()
	span.SetAttributes(attribute.Int64("event.id", int64(eventID)))

	payload, err := helpers.ParseTicketPayload(scannedPayload)
	if err != nil {
		return models.AttendeeInfo{}, fmt.Errorf("%w: %v", models.ErrMalformedTicket, err)
	}
	span.SetAttributes(attribute.Int64("registration.id", int64(payload.RegistrationID)))

	reg, err := s.store.GetRegistration(ctx, payload.RegistrationID)
	if err != nil {
		if errors.Is(err, models.ErrRegistrationNotFound) {
			return models.AttendeeInfo{}, models.ErrUnknownTicket
		}
		telemetry.Fail(span, err)
		return models.AttendeeInfo{}, fmt.Errorf("get registration: %w", err)
	}
	if reg.EventID != eventID || payload.EventID != eventID {
		return models.AttendeeInfo{}, models.ErrWrongEvent
	}
	if payload.UserEmail != reg.UserEmail {
		return models.AttendeeInfo{}, models.ErrUnknownTicket
	}

	rec := models.CheckIn{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		CheckedIn:      true,
		CheckedInAt:    s.clock.Now(),
	}
	created, err := s.store.CreateCheckIn(ctx, &rec)
	if err != nil {
		telemetry.Fail(span, err)
		return models.AttendeeInfo{}, fmt.Errorf("create check-in: %w", err)
	}
	if !created {
		prior, err := s.store.GetCheckIn(ctx, reg.ID)
		if err != nil {
			telemetry.Fail(span, err)
			return models.AttendeeInfo{}, fmt.Errorf("get check-in: %w", err)
		}
		if prior == nil {
			return models.AttendeeInfo{}, fmt.Errorf("check-in for registration %d vanished after conflict", reg.ID)
		}
		return models.AttendeeInfo{}, &models.AlreadyCheckedInError{
			RegistrationID: reg.ID,
			UserEmail:      reg.UserEmail,
			CheckedInAt:    prior.CheckedInAt,
		}
	}

	return models.AttendeeInfo{
		UserEmail:      reg.UserEmail,
		RegistrationID: reg.ID,
		CheckedInAt:    rec.CheckedInAt,
	}, nil
}
