package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"nexa-backend/models"
)

// GormLeadStore maps the ledger onto a MySQL leads table. It satisfies the
// same contract as the CSV backend; insertion order is the created_at /
// primary-key order.
type GormLeadStore struct {
	DB *gorm.DB
}

func NewGormLeadStore(db *gorm.DB) *GormLeadStore {
	return &GormLeadStore{DB: db}
}

func (s *GormLeadStore) Append(status models.LeadStatus, in models.LeadInput) (string, error) {
	// booking_id is the primary key; retry on the (practically impossible)
	// uuid collision rather than ever overwriting a record.
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		lead := models.Lead{
			BookingID:       uuid.NewString(),
			CreatedAt:       time.Now().UTC(),
			Status:          status,
			Name:            in.Name,
			Email:           in.Email,
			Phone:           in.Phone,
			Service:         in.Service,
			AppointmentDate: in.AppointmentDate,
			AppointmentTime: in.AppointmentTime,
		}
		err := s.DB.Create(&lead).Error
		if err == nil {
			log.Printf("📝 Wrote lead %s %s %s [%s]", lead.BookingID, lead.AppointmentDate, lead.AppointmentTime, status)
			return lead.BookingID, nil
		}
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == 1062 {
			lastErr = err
			continue
		}
		return "", fmt.Errorf("create lead: %w", err)
	}
	return "", fmt.Errorf("create lead after retries: %w", lastErr)
}

func (s *GormLeadStore) ReadAll() ([]models.Lead, error) {
	var leads []models.Lead
	if err := s.DB.Order("created_at ASC, booking_id ASC").Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("read leads: %w", err)
	}
	return leads, nil
}

func (s *GormLeadStore) UpdateStatus(bookingID string, status models.LeadStatus) (bool, error) {
	return s.patch(bookingID, "status", string(status))
}

func (s *GormLeadStore) SetPaid(bookingID string, paid bool) (bool, error) {
	return s.patch(bookingID, "paid", paid)
}

func (s *GormLeadStore) patch(bookingID, column string, value interface{}) (bool, error) {
	var lead models.Lead
	err := s.DB.Where("booking_id = ?", bookingID).First(&lead).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find lead: %w", err)
	}
	if err := s.DB.Model(&lead).Update(column, value).Error; err != nil {
		return false, fmt.Errorf("update lead %s: %w", column, err)
	}
	return true, nil
}
