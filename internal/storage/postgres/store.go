// Package postgres implements the service stores on gorm and PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/farellandr/eventgate/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the tables the store relies on, including the
// unique indexes that back registration, ticket and check-in uniqueness.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Event{}, &models.Registration{}, &models.Ticket{}, &models.CheckIn{})
}

func (s *Store) CreateEvent(ctx context.Context, event *models.Event) error {
	if err := s.conn(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *Store) GetEvent(ctx context.Context, id uint) (models.Event, error) {
	var event models.Event
	if err := s.conn(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Event{}, models.ErrEventNotFound
		}
		return models.Event{}, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := s.conn(ctx).Order("start_time ASC, id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// GetEventForUpdate reads the event with SELECT ... FOR UPDATE. Inside WithTx
// the row stays locked until commit or rollback.
func (s *Store) GetEventForUpdate(ctx context.Context, eventID uint) (models.Event, error) {
	var event models.Event
	err := s.conn(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Event{}, models.ErrEventNotFound
		}
		return models.Event{}, fmt.Errorf("lock event row: %w", err)
	}
	return event, nil
}

func (s *Store) FindRegistration(ctx context.Context, eventID uint, userEmail string) (*models.Registration, error) {
	var reg models.Registration
	err := s.conn(ctx).
		Where("event_id = ? AND user_email = ?", eventID, userEmail).
		Take(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &reg, nil
}

func (s *Store) CountConfirmedRegistrations(ctx context.Context, eventID uint) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, models.RegistrationStatusConfirmed).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return n, nil
}

func (s *Store) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	if err := s.conn(ctx).Omit(clause.Associations).Create(reg).Error; err != nil {
		if isUniqueViolation(err) {
			return models.ErrAlreadyRegistered
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (s *Store) GetRegistration(ctx context.Context, id uint) (models.Registration, error) {
	var reg models.Registration
	if err := s.conn(ctx).First(&reg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Registration{}, models.ErrRegistrationNotFound
		}
		return models.Registration{}, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (s *Store) FindTicket(ctx context.Context, registrationID uint, instance int) (*models.Ticket, error) {
	var ticket models.Ticket
	err := s.conn(ctx).
		Where("registration_id = ? AND instance = ?", registrationID, instance).
		Take(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find ticket: %w", err)
	}
	return &ticket, nil
}

func (s *Store) CreateTicket(ctx context.Context, ticket *models.Ticket) error {
	if err := s.conn(ctx).Omit(clause.Associations).Create(ticket).Error; err != nil {
		if isUniqueViolation(err) {
			return models.ErrTicketExists
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (s *Store) ListTickets(ctx context.Context, eventID uint, userEmail string) ([]models.Ticket, error) {
	var tickets []models.Ticket
	err := s.conn(ctx).
		Where("event_id = ? AND user_email = ?", eventID, userEmail).
		Order("id ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return tickets, nil
}

// CreateCheckIn relies on the registration id primary key: a concurrent or
// repeated insert for the same registration affects no rows.
func (s *Store) CreateCheckIn(ctx context.Context, rec *models.CheckIn) (bool, error) {
	result := s.conn(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "registration_id"}}, DoNothing: true}).
		Create(rec)
	if result.Error != nil {
		return false, fmt.Errorf("insert check-in: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *Store) GetCheckIn(ctx context.Context, registrationID uint) (*models.CheckIn, error) {
	var rec models.CheckIn
	err := s.conn(ctx).Where("registration_id = ?", registrationID).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get check-in: %w", err)
	}
	return &rec, nil
}
