package services

import "nexa-backend/models"

// LeadNotifier is the outbound notification collaborator. Implementations are
// best-effort: they log failures and never surface them, so a slow or broken
// provider cannot fail or roll back a booking transition.
type LeadNotifier interface {
	// LeadCreated notifies the owner of a fresh pending lead with the signed
	// confirm/cancel links.
	LeadCreated(lead models.Lead, confirmURL, cancelURL string)
	// LeadConfirmed notifies the customer their booking was confirmed.
	LeadConfirmed(lead models.Lead)
	// LeadCancelled notifies the customer their booking was cancelled.
	LeadCancelled(lead models.Lead)
}
