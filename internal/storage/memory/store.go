// Package memory is an in-process store for single-instance deployments and
// tests. Transactions hold per-event locks until they finish and undo their
// writes on failure.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/farellandr/eventgate/internal/models"
)

var errNoRegistration = errors.New("memory: registration does not exist")

type regKey struct {
	eventID uint
	email   string
}

type ticketKey struct {
	registrationID uint
	instance       int
}

type Store struct {
	mu            sync.Mutex
	events        map[uint]models.Event
	registrations map[uint]models.Registration
	regByKey      map[regKey]uint
	tickets       map[uint]models.Ticket
	ticketByKey   map[ticketKey]uint
	checkIns      map[uint]models.CheckIn
	nextEventID   uint
	nextRegID     uint
	nextTicketID  uint

	locksMu    sync.Mutex
	eventLocks map[uint]chan struct{}
}

func New() *Store {
	return &Store{
		events:        make(map[uint]models.Event),
		registrations: make(map[uint]models.Registration),
		regByKey:      make(map[regKey]uint),
		tickets:       make(map[uint]models.Ticket),
		ticketByKey:   make(map[ticketKey]uint),
		checkIns:      make(map[uint]models.CheckIn),
		eventLocks:    make(map[uint]chan struct{}),
	}
}

type txKey struct{}

type txState struct {
	held map[uint]chan struct{}
	undo []func()
}

func txFromContext(ctx context.Context) *txState {
	tx, _ := ctx.Value(txKey{}).(*txState)
	return tx
}

// WithTx runs fn as one unit. Nested calls join the outer transaction.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx := &txState{held: make(map[uint]chan struct{})}
	err := fn(context.WithValue(ctx, txKey{}, tx))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.mu.Lock()
		for i := len(tx.undo) - 1; i >= 0; i-- {
			tx.undo[i]()
		}
		s.mu.Unlock()
	}
	for _, lock := range tx.held {
		<-lock
	}
	return err
}

func (s *Store) eventLock(id uint) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	lock, ok := s.eventLocks[id]
	if !ok {
		lock = make(chan struct{}, 1)
		s.eventLocks[id] = lock
	}
	return lock
}

// recordUndo must be called with s.mu held.
func recordUndo(ctx context.Context, fn func()) {
	if tx := txFromContext(ctx); tx != nil {
		tx.undo = append(tx.undo, fn)
	}
}

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextEventID++
	event.ID = s.nextEventID
	s.events[event.ID] = *event
	id := event.ID
	recordUndo(ctx, func() { delete(s.events, id) })
	return nil
}

func (s *Store) GetEvent(_ context.Context, id uint) (models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return models.Event{}, models.ErrEventNotFound
	}
	return event, nil
}

func (s *Store) ListEvents(_ context.Context) ([]models.Event, error) {
	s.mu.Lock()
	events := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		events = append(events, e)
	}
	s.mu.Unlock()

	sort.Slice(events, func(i, j int) bool {
		if events[i].StartTime.Equal(events[j].StartTime) {
			return events[i].ID < events[j].ID
		}
		return events[i].StartTime.Before(events[j].StartTime)
	})
	return events, nil
}

// GetEventForUpdate locks the event for the rest of the transaction. Outside
// a transaction it is a plain read.
func (s *Store) GetEventForUpdate(ctx context.Context, eventID uint) (models.Event, error) {
	if tx := txFromContext(ctx); tx != nil {
		if _, ok := tx.held[eventID]; !ok {
			lock := s.eventLock(eventID)
			select {
			case lock <- struct{}{}:
				tx.held[eventID] = lock
			case <-ctx.Done():
				return models.Event{}, ctx.Err()
			}
		}
	}
	return s.GetEvent(ctx, eventID)
}

func (s *Store) FindRegistration(_ context.Context, eventID uint, userEmail string) (*models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.regByKey[regKey{eventID: eventID, email: userEmail}]
	if !ok {
		return nil, nil
	}
	reg := s.registrations[id]
	return &reg, nil
}

func (s *Store) CountConfirmedRegistrations(_ context.Context, eventID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, reg := range s.registrations {
		if reg.EventID == eventID && reg.Confirmed() {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[reg.EventID]; !ok {
		return models.ErrEventNotFound
	}
	key := regKey{eventID: reg.EventID, email: reg.UserEmail}
	if _, ok := s.regByKey[key]; ok {
		return models.ErrAlreadyRegistered
	}

	s.nextRegID++
	reg.ID = s.nextRegID
	stored := *reg
	stored.Details = append(models.Details(nil), reg.Details...)
	s.registrations[reg.ID] = stored
	s.regByKey[key] = reg.ID

	id := reg.ID
	recordUndo(ctx, func() {
		delete(s.registrations, id)
		delete(s.regByKey, key)
	})
	return nil
}

func (s *Store) GetRegistration(_ context.Context, id uint) (models.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, ok := s.registrations[id]
	if !ok {
		return models.Registration{}, models.ErrRegistrationNotFound
	}
	return reg, nil
}

func (s *Store) FindTicket(_ context.Context, registrationID uint, instance int) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.ticketByKey[ticketKey{registrationID: registrationID, instance: instance}]
	if !ok {
		return nil, nil
	}
	ticket := s.tickets[id]
	return &ticket, nil
}

func (s *Store) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registrations[ticket.RegistrationID]; !ok {
		return fmt.Errorf("create ticket %d: %w", ticket.RegistrationID, errNoRegistration)
	}
	key := ticketKey{registrationID: ticket.RegistrationID, instance: ticket.Instance}
	if _, ok := s.ticketByKey[key]; ok {
		return models.ErrTicketExists
	}

	s.nextTicketID++
	ticket.ID = s.nextTicketID
	stored := *ticket
	stored.Image = append([]byte(nil), ticket.Image...)
	s.tickets[ticket.ID] = stored
	s.ticketByKey[key] = ticket.ID

	id := ticket.ID
	recordUndo(ctx, func() {
		delete(s.tickets, id)
		delete(s.ticketByKey, key)
	})
	return nil
}

func (s *Store) ListTickets(_ context.Context, eventID uint, userEmail string) ([]models.Ticket, error) {
	s.mu.Lock()
	var tickets []models.Ticket
	for _, t := range s.tickets {
		if t.EventID == eventID && t.UserEmail == userEmail {
			tickets = append(tickets, t)
		}
	}
	s.mu.Unlock()

	sort.Slice(tickets, func(i, j int) bool { return tickets[i].ID < tickets[j].ID })
	return tickets, nil
}

func (s *Store) CreateCheckIn(ctx context.Context, rec *models.CheckIn) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.registrations[rec.RegistrationID]; !ok {
		return false, fmt.Errorf("create check-in %d: %w", rec.RegistrationID, errNoRegistration)
	}
	if _, ok := s.checkIns[rec.RegistrationID]; ok {
		return false, nil
	}
	s.checkIns[rec.RegistrationID] = *rec

	id := rec.RegistrationID
	recordUndo(ctx, func() { delete(s.checkIns, id) })
	return true, nil
}

func (s *Store) GetCheckIn(_ context.Context, registrationID uint) (*models.CheckIn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.checkIns[registrationID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}
