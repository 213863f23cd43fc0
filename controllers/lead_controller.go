// controllers/lead_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexa-backend/models"
	"nexa-backend/services"
	"nexa-backend/utils"
)

type LeadController struct {
	Booking *services.BookingService
}

func NewLeadController(booking *services.BookingService) *LeadController {
	return &LeadController{Booking: booking}
}

// CreateLead handles the public booking form: POST /api/lead.
func (ctrl *LeadController) CreateLead(c *gin.Context) {
	var in models.LeadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"ok":      false,
			"message": "invalid payload: name, phone, service, appointment_date and appointment_time are required",
		})
		return
	}
	if !utils.IsValidDate(in.AppointmentDate) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "appointment_date must be YYYY-MM-DD"})
		return
	}
	if !utils.IsValidTime(in.AppointmentTime) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "appointment_time must be HH:MM (24h)"})
		return
	}

	_, confirmURL, cancelURL, err := ctrl.Booking.CreateLead(in)
	if err != nil {
		var conflict *services.ConflictError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, gin.H{
				"ok":             false,
				"message":        "Selected time is already confirmed. Please choose another slot.",
				"booking_status": "conflict",
				"taken":          conflict.Taken,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to save lead"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":             true,
		"message":        "Lead saved. We will contact you to confirm the appointment.",
		"booking_status": "pending",
		"confirm_url":    confirmURL,
		"cancel_url":     cancelURL,
	})
}
