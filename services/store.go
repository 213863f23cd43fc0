package services

import "nexa-backend/models"

// LeadStore is the durable booking ledger. It owns the persisted
// representation; everything else reads and mutates leads only through it.
//
// UpdateStatus and SetPaid report whether a matching record existed; the
// store is left unchanged when it did not. Neither performs any business
// checks — the slot-conflict rules live in BookingService.
type LeadStore interface {
	// Append writes a new record with a fresh booking id and returns the id.
	// It never overwrites an existing record.
	Append(status models.LeadStatus, in models.LeadInput) (string, error)

	// ReadAll returns every record in insertion order, skipping rows the
	// backend cannot decode instead of failing the whole read.
	ReadAll() ([]models.Lead, error)

	UpdateStatus(bookingID string, status models.LeadStatus) (bool, error)
	SetPaid(bookingID string, paid bool) (bool, error)
}
