package services_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/farellandr/eventgate/internal/helpers"
	"github.com/farellandr/eventgate/internal/models"
	"github.com/farellandr/eventgate/internal/services"
	"github.com/farellandr/eventgate/internal/storage/memory"
)

func registerUser(t *testing.T, store *memory.Store, eventID uint, email string) models.Registration {
	t.Helper()
	reg, err := services.NewRegistrationService(store, fixedClock()).
		Register(context.Background(), services.RegisterInput{EventID: eventID, UserEmail: email})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return reg
}

func TestTicketService_IssueTicket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("renders payload and stores ticket", func(t *testing.T) {
		store := memory.New()
		event := seedEvent(t, store, 0, 0)
		reg := registerUser(t, store, event.ID, "ana@example.com")
		svc := services.NewTicketService(store, fixedClock())

		ticket, err := svc.IssueTicket(ctx, services.IssueTicketInput{RegistrationID: reg.ID, EventID: event.ID})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := helpers.EncodeTicketPayload(helpers.TicketPayload{RegistrationID: reg.ID, EventID: event.ID, UserEmail: "ana@example.com"})
		if ticket.Payload != want {
			t.Fatalf("expected payload %q, got %q", want, ticket.Payload)
		}
		if ticket.RegistrationID != reg.ID || ticket.EventID != event.ID || ticket.UserEmail != reg.UserEmail || ticket.Instance != 0 {
			t.Fatalf("unexpected ticket fields: %+v", ticket)
		}
		if !bytes.HasPrefix(ticket.Image, []byte("\x89PNG")) {
			t.Fatal("expected PNG image")
		}

		parsed, err := helpers.ParseTicketPayload(ticket.Payload)
		if err != nil {
			t.Fatalf("parse payload: %v", err)
		}
		if parsed.RegistrationID != reg.ID || parsed.EventID != event.ID || parsed.UserEmail != reg.UserEmail || parsed.Instance != 0 {
			t.Fatalf("payload round trip mismatch: %+v", parsed)
		}
	})

	t.Run("re-issue returns the stored ticket", func(t *testing.T) {
		store := memory.New()
		event := seedEvent(t, store, 0, 0)
		reg := registerUser(t, store, event.ID, "ana@example.com")
		renders := 0
		svc := services.NewTicketService(store, fixedClock(), services.WithRenderer(func(payload string) ([]byte, error) {
			renders++
			return []byte(payload), nil
		}))

		first, err := svc.IssueTicket(ctx, services.IssueTicketInput{RegistrationID: reg.ID})
		if err != nil {
			t.Fatalf("first issue: %v", err)
		}
		second, err := svc.IssueTicket(ctx, services.IssueTicketInput{RegistrationID: reg.ID})
		if err != nil {
			t.Fatalf("second issue: %v", err)
		}
		if first.ID != second.ID {
			t.Fatalf("expected same ticket, got %d and %d", first.ID, second.ID)
		}
		if renders != 1 {
			t.Fatalf("expected one render, got %d", renders)
		}
		tickets, _ := store.ListTickets(ctx, event.ID, reg.UserEmail)
		if len(tickets) != 1 {
			t.Fatalf("expected 1 stored ticket, got %d", len(tickets))
		}
	})

	t.Run("concurrent issues store one ticket", func(t *testing.T) {
		store := memory.New()
		event := seedEvent(t, store, 0, 0)
		reg := registerUser(t, store, event.ID, "ana@example.com")
		svc := services.NewTicketService(store, fixedClock())

		var wg sync.WaitGroup
		ids := make([]uint, 8)
		for i := range ids {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ticket, err := svc.IssueTicket(ctx, services.IssueTicketInput{RegistrationID: reg.ID})
				if err != nil {
					t.Errorf("issue: %v", err)
					return
				}
				ids[i] = ticket.ID
			}(i)
		}
		wg.Wait()

		for _, id := range ids {
			if id != ids[0] {
				t.Fatalf("expected one ticket id, got %v", ids)
			}
		}
	})

	t.Run("unknown registration", func(t *testing.T) {
		svc := services.NewTicketService(memory.New(), fixedClock())
		_, err := svc.IssueTicket(ctx, services.IssueTicketInput{RegistrationID: 99})
		if !errors.Is(err, models.ErrRegistrationNotFound) {
			t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
		}
	})

	t.Run("registration of another event", func(t *testing.T) {
		store := memory.New()
		event := seedEvent(t, store, 0, 0)
		other := seedEvent(t, store, 0, 0)
		reg := registerUser(t, store, event.ID, "ana@example.com")
		svc := services.NewTicketService(store, fixedClock())

		_, err := svc.IssueTicket(ctx, services.IssueTicketInput{RegistrationID: reg.ID, EventID: other.ID})
		if !errors.Is(err, models.ErrRegistrationNotFound) {
			t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
		}
	})

	t.Run("render failure stores nothing", func(t *testing.T) {
		store := memory.New()
		event := seedEvent(t, store, 0, 0)
		reg := registerUser(t, store, event.ID, "ana@example.com")
		boom := errors.New("encoder down")
		svc := services.NewTicketService(store, fixedClock(), services.WithRenderer(func(string) ([]byte, error) {
			return nil, boom
		}))

		if _, err := svc.IssueTicket(ctx, services.IssueTicketInput{RegistrationID: reg.ID}); !errors.Is(err, boom) {
			t.Fatalf("expected render error, got %v", err)
		}
		if ticket, _ := store.FindTicket(ctx, reg.ID, 0); ticket != nil {
			t.Fatalf("expected no ticket, got %+v", ticket)
		}
	})
}

func TestTicketService_ListTickets(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := memory.New()
	event := seedEvent(t, store, 0, 0)
	ana := registerUser(t, store, event.ID, "ana@example.com")
	bob := registerUser(t, store, event.ID, "bob@example.com")
	svc := services.NewTicketService(store, fixedClock())

	for _, reg := range []models.Registration{ana, bob} {
		if _, err := svc.IssueTicket(ctx, services.IssueTicketInput{RegistrationID: reg.ID}); err != nil {
			t.Fatalf("issue: %v", err)
		}
	}

	tickets, err := svc.ListTickets(ctx, event.ID, " Ana@Example.com")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tickets) != 1 || tickets[0].RegistrationID != ana.ID {
		t.Fatalf("expected ana's ticket only, got %+v", tickets)
	}

	if _, err := svc.ListTickets(ctx, event.ID, ""); !errors.Is(err, models.ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}
