// controllers/admin_controller.go
package controllers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"nexa-backend/config"
	"nexa-backend/middleware"
	"nexa-backend/models"
	"nexa-backend/services"
)

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type paidPayload struct {
	Paid bool `json:"paid"`
}

type AdminController struct {
	Cfg      *config.Config
	Sessions *services.SessionService
	Booking  *services.BookingService
}

func NewAdminController(cfg *config.Config, sessions *services.SessionService, booking *services.BookingService) *AdminController {
	return &AdminController{Cfg: cfg, Sessions: sessions, Booking: booking}
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func (ctrl *AdminController) passwordValid(password string) bool {
	stored := ctrl.Cfg.AdminPass
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

// Login handles POST /admin/login. Accepts JSON or a classic form post; the
// form flow redirects back to the admin panel.
func (ctrl *AdminController) Login(c *gin.Context) {
	var payload loginPayload
	if strings.Contains(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid payload"})
			return
		}
	} else {
		payload.Username = c.PostForm("username")
		payload.Password = c.PostForm("password")
	}
	payload.Username = strings.TrimSpace(payload.Username)

	wantsJSON := strings.Contains(c.GetHeader("Accept"), "application/json") ||
		c.GetHeader("X-Requested-With") != ""

	if payload.Username != ctrl.Cfg.AdminUser || !ctrl.passwordValid(payload.Password) {
		if wantsJSON {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid"})
			return
		}
		c.Redirect(http.StatusFound, "/admin/login.html?error=Invalid+credentials")
		return
	}

	token := ctrl.Sessions.Issue(payload.Username)
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookie, token, int(services.SessionTTL/time.Second), "/", "", true, true)

	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}
	c.Redirect(http.StatusFound, "/public/admin.html")
}

// Logout handles GET /admin/logout.
func (ctrl *AdminController) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", true, true)
	c.Redirect(http.StatusFound, "/admin/login.html")
}

// ListLeads handles GET /api/leads (admin only).
func (ctrl *AdminController) ListLeads(c *gin.Context) {
	leads, err := ctrl.Booking.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to read leads"})
		return
	}
	if leads == nil {
		leads = []models.Lead{}
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}

// ConfirmLead handles POST /api/confirm/:id (admin only).
func (ctrl *AdminController) ConfirmLead(c *gin.Context) {
	outcome, err := ctrl.Booking.Confirm(c.Param("id"))
	switch {
	case errors.Is(err, models.ErrLeadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Booking not found"})
	case errors.Is(err, models.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "message": "Time slot already confirmed for another booking."})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to confirm booking"})
	case outcome == services.ConfirmOutcomeAlready:
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Already confirmed"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Booking confirmed"})
	}
}

// CancelLead handles POST /api/cancel/:id (admin only).
func (ctrl *AdminController) CancelLead(c *gin.Context) {
	err := ctrl.Booking.Cancel(c.Param("id"))
	switch {
	case errors.Is(err, models.ErrLeadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Booking not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to cancel booking"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Booking cancelled"})
	}
}

// SetPaid handles POST /api/paid/:id (admin only).
func (ctrl *AdminController) SetPaid(c *gin.Context) {
	var payload paidPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": "invalid payload: expected {\"paid\": bool}"})
		return
	}

	err := ctrl.Booking.SetPaid(c.Param("id"), payload.Paid)
	switch {
	case errors.Is(err, models.ErrLeadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "message": "Booking not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to update paid flag"})
	default:
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Paid flag updated"})
	}
}

// Whoami handles GET /api/debug/whoami: reports cookie/session state.
func (ctrl *AdminController) Whoami(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookie)
	hasCookie := err == nil && token != ""
	valid := false
	if hasCookie {
		_, valid = ctrl.Sessions.Verify(token)
	}
	c.JSON(http.StatusOK, gin.H{"has_cookie": hasCookie, "valid_session": valid})
}

// CreateDummy handles POST /api/debug/dummy: writes a throwaway pending lead
// a few minutes from now, for manual testing.
func (ctrl *AdminController) CreateDummy(c *gin.Context) {
	now := time.Now().UTC().Add(5 * time.Minute)
	in := models.LeadInput{
		Name:            "Test Lead",
		Phone:           "+359000000000",
		Service:         "test",
		AppointmentDate: now.Format("2006-01-02"),
		AppointmentTime: now.Format("15:04"),
	}

	lead, _, _, err := ctrl.Booking.CreateLead(in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "failed to create dummy lead"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":         true,
		"booking_id": lead.BookingID,
		"date":       lead.AppointmentDate,
		"time":       lead.AppointmentTime,
	})
}
