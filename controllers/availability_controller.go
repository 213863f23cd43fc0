package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexa-backend/services"
	"nexa-backend/utils"
)

type AvailabilityController struct {
	Avail *services.AvailabilityService
}

func NewAvailabilityController(avail *services.AvailabilityService) *AvailabilityController {
	return &AvailabilityController{Avail: avail}
}

// GetAvailability handles GET /api/availability?date=YYYY-MM-DD. The hours in
// the response are advisory; slots outside them are not rejected anywhere.
func (ctrl *AvailabilityController) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	if !utils.IsValidDate(date) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "date must be YYYY-MM-DD"})
		return
	}

	taken, err := ctrl.Avail.TakenSlots(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read calendar"})
		return
	}
	pending, err := ctrl.Avail.PendingSlots(date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read calendar"})
		return
	}

	open, close := ctrl.Avail.Hours()
	c.JSON(http.StatusOK, gin.H{
		"date":    date,
		"taken":   taken,
		"pending": pending,
		"hours":   gin.H{"open": open, "close": close},
	})
}
