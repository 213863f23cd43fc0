package services

import (
	"sort"

	"nexa-backend/models"
)

// AvailabilityService answers "what is the state of each time slot on a given
// date?". It only reads the ledger; business hours are advisory metadata and
// never enforced here.
type AvailabilityService struct {
	Store LeadStore
	Open  string
	Close string
}

func NewAvailabilityService(store LeadStore, open, close string) *AvailabilityService {
	return &AvailabilityService{Store: store, Open: open, Close: close}
}

// TakenSlots returns the confirmed times on date, sorted and deduplicated.
// Confirmed is the only status that blocks a slot.
func (s *AvailabilityService) TakenSlots(date string) ([]string, error) {
	return s.slotsWithStatus(date, models.StatusConfirmed)
}

// PendingSlots returns the pending times on date, sorted and deduplicated.
// Pending is a soft hold, informational only.
func (s *AvailabilityService) PendingSlots(date string) ([]string, error) {
	return s.slotsWithStatus(date, models.StatusPending)
}

func (s *AvailabilityService) slotsWithStatus(date string, status models.LeadStatus) ([]string, error) {
	leads, err := s.Store.ReadAll()
	if err != nil {
		return nil, err
	}
	return slotTimes(leads, date, status), nil
}

// slotTimes filters an already-read snapshot to the times on date with the
// given status, sorted and deduplicated.
func slotTimes(leads []models.Lead, date string, status models.LeadStatus) []string {
	seen := map[string]bool{}
	slots := []string{}
	for _, l := range leads {
		if l.AppointmentDate != date || l.Status != status {
			continue
		}
		if seen[l.AppointmentTime] {
			continue
		}
		seen[l.AppointmentTime] = true
		slots = append(slots, l.AppointmentTime)
	}
	sort.Strings(slots)
	return slots
}

// Hours returns the advertised opening hours attached to availability
// responses.
func (s *AvailabilityService) Hours() (string, string) {
	return s.Open, s.Close
}
