package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/farellandr/eventgate/internal/models"
	"github.com/farellandr/eventgate/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

type EventService struct {
	store EventStore
}

func NewEventService(store EventStore) *EventService {
	return &EventService{store: store}
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (models.Event, error) {
	event, err := s.store.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrEventNotFound) {
			return models.Event{}, err
		}
		return models.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *EventService) CreateEvent(ctx context.Context, event models.Event) (models.Event, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "EventService.CreateEvent")
	defer span.End()

	event.ID = 0
	if err := event.Validate(); err != nil {
		return models.Event{}, err
	}
	if err := s.store.CreateEvent(ctx, &event); err != nil {
		telemetry.Fail(span, err)
		return models.Event{}, fmt.Errorf("create event: %w", err)
	}
	span.SetAttributes(attribute.Int64("event.id", int64(event.ID)))
	return event, nil
}
