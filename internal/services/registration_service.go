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

type RegistrationService struct {
	store RegistrationStore
	clock clock.Clock
}

func NewRegistrationService(store RegistrationStore, clk clock.Clock) *RegistrationService {
	return &RegistrationService{store: store, clock: clk}
}

type RegisterInput struct {
	EventID   uint
	UserEmail string
	Details   models.Details
}

// Register creates a confirmed registration for the (event, email) pair.
//
// The capacity count and the insert run in one transaction that holds the
// event row lock, so concurrent registrations for the same event serialize
// and can never push the count past capacity.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (models.Registration, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "RegistrationService.Register")
	defer span.End()
	span.SetAttributes(attribute.Int64("event.id", int64(in.EventID)))

	email := helpers.NormalizeEmail(in.UserEmail)
	if !helpers.ValidEmail(email) {
		return models.Registration{}, models.ErrInvalidEmail
	}

	var result models.Registration
	err := s.store.WithTx(ctx, func(txCtx context.Context) error {
		event, err := s.store.GetEventForUpdate(txCtx, in.EventID)
		if err != nil {
			return err
		}
		if !event.Status.AcceptsRegistrations() {
			return models.ErrEventClosed
		}

		existing, err := s.store.FindRegistration(txCtx, event.ID, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.ErrAlreadyRegistered
		}

		if !event.Unlimited() {
			count, err := s.store.CountConfirmedRegistrations(txCtx, event.ID)
			if err != nil {
				return err
			}
			if count >= int64(event.Capacity) {
				return models.ErrCapacityExceeded
			}
		}

		reg := models.Registration{
			EventID:       event.ID,
			UserEmail:     email,
			Status:        models.RegistrationStatusConfirmed,
			PaymentStatus: models.PaymentStatusFor(event),
			Details:       in.Details,
			CreatedAt:     s.clock.Now(),
		}
		if err := s.store.CreateRegistration(txCtx, &reg); err != nil {
			return err
		}
		result = reg
		return nil
	})
	if err != nil {
		if isRegistrationOutcome(err) {
			return models.Registration{}, err
		}
		telemetry.Fail(span, err)
		return models.Registration{}, fmt.Errorf("register for event: %w", err)
	}

	span.SetAttributes(attribute.Int64("registration.id", int64(result.ID)))
	return result, nil
}

// GetRegistration returns the registration for (event, email), or nil when
// the user is not registered. It takes no locks.
func (s *RegistrationService) GetRegistration(ctx context.Context, eventID uint, userEmail string) (*models.Registration, error) {
	email := helpers.NormalizeEmail(userEmail)
	if !helpers.ValidEmail(email) {
		return nil, models.ErrInvalidEmail
	}
	reg, err := s.store.FindRegistration(ctx, eventID, email)
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return reg, nil
}

func isRegistrationOutcome(err error) bool {
	return errors.Is(err, models.ErrEventNotFound) ||
		errors.Is(err, models.ErrEventClosed) ||
		errors.Is(err, models.ErrAlreadyRegistered) ||
		errors.Is(err, models.ErrCapacityExceeded)
}
