package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/farellandr/eventgate/internal/clock"
	"github.com/farellandr/eventgate/internal/models"
	"github.com/farellandr/eventgate/internal/storage/memory"
)

var testNow = time.Date(2025, 3, 14, 19, 2, 0, 0, time.UTC)

func fixedClock() clock.Clock {
	return clock.NewFixed(testNow)
}

func seedEvent(t *testing.T, store *memory.Store, capacity, cost int) models.Event {
	t.Helper()
	event := models.Event{
		Title:     "Launch party",
		Capacity:  capacity,
		Cost:      cost,
		StartTime: testNow.Add(time.Hour),
		EndTime:   testNow.Add(4 * time.Hour),
		Status:    models.EventStatusScheduled,
	}
	if err := store.CreateEvent(context.Background(), &event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}
