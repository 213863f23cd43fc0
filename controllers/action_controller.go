package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexa-backend/models"
	"nexa-backend/services"
)

// ActionController handles the signed confirm/cancel links from the owner
// email. The token authorizes exactly one action on exactly one booking, so
// no session is required here.
type ActionController struct {
	Booking *services.BookingService
	Signer  *services.LinkSigner
}

func NewActionController(booking *services.BookingService, signer *services.LinkSigner) *ActionController {
	return &ActionController{Booking: booking, Signer: signer}
}

func htmlMessage(c *gin.Context, code int, msg string) {
	c.Data(code, "text/html; charset=utf-8", []byte("<h2>"+msg+"</h2>"))
}

// ConfirmLink handles GET /confirm/:id?token=...
func (ctrl *ActionController) ConfirmLink(c *gin.Context) {
	bookingID := c.Param("id")
	if !ctrl.Signer.Verify(services.ActionConfirm, bookingID, c.Query("token")) {
		htmlMessage(c, http.StatusForbidden, "Invalid or expired confirmation link.")
		return
	}

	outcome, err := ctrl.Booking.Confirm(bookingID)
	switch {
	case errors.Is(err, models.ErrLeadNotFound):
		htmlMessage(c, http.StatusNotFound, "Booking not found.")
	case errors.Is(err, models.ErrSlotTaken):
		htmlMessage(c, http.StatusConflict, "⚠️ Slot already confirmed for another booking.")
	case err != nil:
		htmlMessage(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	case outcome == services.ConfirmOutcomeAlready:
		htmlMessage(c, http.StatusOK, "✅ Already confirmed.")
	default:
		htmlMessage(c, http.StatusOK, "✅ Booking confirmed. This slot is now reserved.")
	}
}

// CancelLink handles GET /cancel/:id?token=...
func (ctrl *ActionController) CancelLink(c *gin.Context) {
	bookingID := c.Param("id")
	if !ctrl.Signer.Verify(services.ActionCancel, bookingID, c.Query("token")) {
		htmlMessage(c, http.StatusForbidden, "Invalid or expired cancellation link.")
		return
	}

	err := ctrl.Booking.Cancel(bookingID)
	switch {
	case errors.Is(err, models.ErrLeadNotFound):
		htmlMessage(c, http.StatusNotFound, "Booking not found.")
	case err != nil:
		htmlMessage(c, http.StatusInternalServerError, "Something went wrong. Please try again.")
	default:
		htmlMessage(c, http.StatusOK, "🗑️ Booking cancelled. The slot is now free.")
	}
}
