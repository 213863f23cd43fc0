package services

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"nexa-backend/models"
)

// ConfirmOutcome distinguishes the two success shapes of Confirm.
type ConfirmOutcome string

const (
	ConfirmOutcomeConfirmed ConfirmOutcome = "confirmed"
	ConfirmOutcomeAlready   ConfirmOutcome = "already_confirmed"
)

// ConflictError reports that a slot is already held by a confirmed booking.
// It carries the full taken list for the date so callers can offer
// alternatives. errors.Is(err, models.ErrSlotTaken) matches it.
type ConflictError struct {
	Date  string
	Time  string
	Taken []string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot %s %s already confirmed (taken: %s)", e.Date, e.Time, strings.Join(e.Taken, ", "))
}

func (e *ConflictError) Unwrap() error { return models.ErrSlotTaken }

// BookingService is the state machine over the lead ledger. Every mutation
// (create, confirm, cancel, paid flag) runs under one mutex, so the
// check-then-act sequences cannot interleave and at most one confirmed
// booking can exist per slot.
type BookingService struct {
	store     LeadStore
	avail     *AvailabilityService
	signer    *LinkSigner
	notifiers []LeadNotifier

	mu sync.Mutex
}

func NewBookingService(store LeadStore, avail *AvailabilityService, signer *LinkSigner, notifiers ...LeadNotifier) *BookingService {
	return &BookingService{store: store, avail: avail, signer: signer, notifiers: notifiers}
}

// CreateLead appends a new pending lead unless its slot is already confirmed.
// On success it returns the stored lead plus the signed confirm/cancel URLs
// and notifies the owner in the background.
func (s *BookingService) CreateLead(in models.LeadInput) (models.Lead, string, string, error) {
	s.mu.Lock()

	taken, err := s.avail.TakenSlots(in.AppointmentDate)
	if err != nil {
		s.mu.Unlock()
		return models.Lead{}, "", "", fmt.Errorf("check taken slots: %w", err)
	}
	for _, t := range taken {
		if t == in.AppointmentTime {
			s.mu.Unlock()
			return models.Lead{}, "", "", &ConflictError{Date: in.AppointmentDate, Time: in.AppointmentTime, Taken: taken}
		}
	}

	bookingID, err := s.store.Append(models.StatusPending, in)
	if err != nil {
		s.mu.Unlock()
		return models.Lead{}, "", "", fmt.Errorf("append lead: %w", err)
	}
	s.mu.Unlock()

	lead := models.Lead{
		BookingID:       bookingID,
		CreatedAt:       time.Now().UTC(),
		Status:          models.StatusPending,
		Name:            in.Name,
		Email:           in.Email,
		Phone:           in.Phone,
		Service:         in.Service,
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
	}

	confirmURL := s.signer.ConfirmURL(bookingID)
	cancelURL := s.signer.CancelURL(bookingID)

	for _, n := range s.notifiers {
		go n.LeadCreated(lead, confirmURL, cancelURL)
	}

	return lead, confirmURL, cancelURL, nil
}

// Confirm moves a pending lead to confirmed.
//
// Guard order matters: the already-confirmed check runs before the conflict
// scan so repeated confirms are idempotent, and the scan excludes the target
// id so a booking never conflicts with itself. On SlotConflict the target is
// left untouched.
func (s *BookingService) Confirm(bookingID string) (ConfirmOutcome, error) {
	s.mu.Lock()

	leads, err := s.store.ReadAll()
	if err != nil {
		s.mu.Unlock()
		return "", fmt.Errorf("read leads: %w", err)
	}

	target := findLead(leads, bookingID)
	if target == nil {
		s.mu.Unlock()
		return "", models.ErrLeadNotFound
	}
	if target.Status == models.StatusConfirmed {
		s.mu.Unlock()
		return ConfirmOutcomeAlready, nil
	}

	for _, l := range leads {
		if l.BookingID != bookingID &&
			l.AppointmentDate == target.AppointmentDate &&
			l.AppointmentTime == target.AppointmentTime &&
			l.Status == models.StatusConfirmed {
			// report the taken list from the same snapshot the decision
			// used, not a fresh read after unlocking
			taken := slotTimes(leads, target.AppointmentDate, models.StatusConfirmed)
			s.mu.Unlock()
			return "", &ConflictError{Date: target.AppointmentDate, Time: target.AppointmentTime, Taken: taken}
		}
	}

	found, err := s.store.UpdateStatus(bookingID, models.StatusConfirmed)
	if err != nil {
		s.mu.Unlock()
		return "", fmt.Errorf("confirm lead: %w", err)
	}
	s.mu.Unlock()
	if !found {
		return "", models.ErrLeadNotFound
	}

	log.Printf("🔁 Confirmed %s (%s %s)", bookingID, target.AppointmentDate, target.AppointmentTime)

	confirmed := *target
	confirmed.Status = models.StatusConfirmed
	for _, n := range s.notifiers {
		go n.LeadConfirmed(confirmed)
	}

	return ConfirmOutcomeConfirmed, nil
}

// Cancel sets the lead to cancelled. Cancellation never conflicts, so the
// only failure besides storage errors is an unknown booking id. Cancelling a
// confirmed booking frees its slot for the next confirm.
func (s *BookingService) Cancel(bookingID string) error {
	s.mu.Lock()

	leads, err := s.store.ReadAll()
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("read leads: %w", err)
	}
	target := findLead(leads, bookingID)
	if target == nil {
		s.mu.Unlock()
		return models.ErrLeadNotFound
	}

	found, err := s.store.UpdateStatus(bookingID, models.StatusCancelled)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("cancel lead: %w", err)
	}
	s.mu.Unlock()
	if !found {
		return models.ErrLeadNotFound
	}

	log.Printf("🔁 Cancelled %s (%s %s)", bookingID, target.AppointmentDate, target.AppointmentTime)

	cancelled := *target
	cancelled.Status = models.StatusCancelled
	for _, n := range s.notifiers {
		go n.LeadCancelled(cancelled)
	}

	return nil
}

// SetPaid flips the paid flag, independent of status.
func (s *BookingService) SetPaid(bookingID string, paid bool) error {
	s.mu.Lock()
	found, err := s.store.SetPaid(bookingID, paid)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("set paid: %w", err)
	}
	if !found {
		return models.ErrLeadNotFound
	}
	return nil
}

// Get returns a single lead by booking id.
func (s *BookingService) Get(bookingID string) (models.Lead, error) {
	leads, err := s.store.ReadAll()
	if err != nil {
		return models.Lead{}, fmt.Errorf("read leads: %w", err)
	}
	if target := findLead(leads, bookingID); target != nil {
		return *target, nil
	}
	return models.Lead{}, models.ErrLeadNotFound
}

// List returns all leads in insertion order.
func (s *BookingService) List() ([]models.Lead, error) {
	return s.store.ReadAll()
}

func findLead(leads []models.Lead, bookingID string) *models.Lead {
	for i := range leads {
		if leads[i].BookingID == bookingID {
			return &leads[i]
		}
	}
	return nil
}
