package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexa-backend/config"
	"nexa-backend/controllers"
	"nexa-backend/routes"
	"nexa-backend/services"
)

const testServerKey = "server-key"

func newTestRouter(t *testing.T) (*gin.Engine, *services.BookingService, *services.LinkSigner) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Port:          "8080",
		PublicBaseURL: "http://localhost:8080",
		ServerKey:     testServerKey,
		AdminSecret:   "link-secret",
		SessionSecret: "session-secret",
		AdminUser:     "admin",
		AdminPass:     "changeme",
		BusinessDesc:  "We provide consultations and scheduling for clients in Sofia.",
		BusinessOpen:  "09:00",
		BusinessClose: "18:00",
	}

	store, err := services.NewCSVLeadStore(filepath.Join(t.TempDir(), "leads.csv"))
	require.NoError(t, err)
	avail := services.NewAvailabilityService(store, cfg.BusinessOpen, cfg.BusinessClose)
	signer := services.NewLinkSigner(cfg.AdminSecret, cfg.PublicBaseURL)
	sessions := services.NewSessionService(cfg.SessionSecret)
	booking := services.NewBookingService(store, avail, signer)
	chat := services.NewChatService(booking, avail, cfg.BusinessDesc)

	router := routes.SetupRouter(
		cfg,
		sessions,
		controllers.NewLeadController(booking),
		controllers.NewAvailabilityController(avail),
		controllers.NewActionController(booking, signer),
		controllers.NewAdminController(cfg, sessions, booking),
		controllers.NewChatController(chat),
	)
	return router, booking, signer
}

func postLead(t *testing.T, router *gin.Engine, body string, withKey bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/lead", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if withKey {
		req.Header.Set("X-Nexa-Key", testServerKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const validLead = `{
	"name": "Alice",
	"email": "alice@example.com",
	"phone": "+359888123456",
	"service": "consultation",
	"appointment_date": "2025-10-13",
	"appointment_time": "14:30"
}`

func TestCreateLead_RequiresServerKey(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := postLead(t, router, validLead, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateLead_OK(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := postLead(t, router, validLead, true)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		OK            bool   `json:"ok"`
		BookingStatus string `json:"booking_status"`
		ConfirmURL    string `json:"confirm_url"`
		CancelURL     string `json:"cancel_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "pending", resp.BookingStatus)
	assert.Contains(t, resp.ConfirmURL, "/confirm/")
	assert.Contains(t, resp.CancelURL, "/cancel/")
}

func TestCreateLead_ValidationErrors(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := postLead(t, router, `{"name":"Alice"}`, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	badDate := strings.Replace(validLead, "2025-10-13", "13/10/2025", 1)
	w = postLead(t, router, badDate, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	badTime := strings.Replace(validLead, "14:30", "2pm", 1)
	w = postLead(t, router, badTime, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateLead_ConflictWhenSlotConfirmed(t *testing.T) {
	router, booking, _ := newTestRouter(t)

	w := postLead(t, router, validLead, true)
	require.Equal(t, http.StatusOK, w.Code)

	leads, err := booking.List()
	require.NoError(t, err)
	require.Len(t, leads, 1)
	_, err = booking.Confirm(leads[0].BookingID)
	require.NoError(t, err)

	w = postLead(t, router, validLead, true)
	require.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		OK            bool     `json:"ok"`
		BookingStatus string   `json:"booking_status"`
		Taken         []string `json:"taken"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OK)
	assert.Equal(t, "conflict", resp.BookingStatus)
	assert.Equal(t, []string{"14:30"}, resp.Taken)

	leads, err = booking.List()
	require.NoError(t, err)
	assert.Len(t, leads, 1)
}

func TestAvailabilityEndpoint(t *testing.T) {
	router, booking, _ := newTestRouter(t)

	w := postLead(t, router, validLead, true)
	require.Equal(t, http.StatusOK, w.Code)
	leads, err := booking.List()
	require.NoError(t, err)
	_, err = booking.Confirm(leads[0].BookingID)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/availability?date=2025-10-13", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Date    string   `json:"date"`
		Taken   []string `json:"taken"`
		Pending []string `json:"pending"`
		Hours   struct {
			Open  string `json:"open"`
			Close string `json:"close"`
		} `json:"hours"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2025-10-13", resp.Date)
	assert.Equal(t, []string{"14:30"}, resp.Taken)
	assert.Empty(t, resp.Pending)
	assert.Equal(t, "09:00", resp.Hours.Open)
	assert.Equal(t, "18:00", resp.Hours.Close)

	req = httptest.NewRequest(http.MethodGet, "/api/availability?date=nope", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignedConfirmLink(t *testing.T) {
	router, booking, signer := newTestRouter(t)

	w := postLead(t, router, validLead, true)
	require.Equal(t, http.StatusOK, w.Code)
	leads, err := booking.List()
	require.NoError(t, err)
	id := leads[0].BookingID

	// forged token
	req := httptest.NewRequest(http.MethodGet, "/confirm/"+id+"?token=bogus", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// genuine token confirms
	req = httptest.NewRequest(http.MethodGet, "/confirm/"+id+"?token="+signer.Sign(services.ActionConfirm, id), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "confirmed")

	// and again: idempotent
	req = httptest.NewRequest(http.MethodGet, "/confirm/"+id+"?token="+signer.Sign(services.ActionConfirm, id), nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Already confirmed")
}

func TestAdminEndpointsRequireSession(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// login and retry with the issued cookie
	login := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":"admin","password":"changeme"}`))
	login.Header.Set("Content-Type", "application/json")
	login.Header.Set("Accept", "application/json")
	lw := httptest.NewRecorder()
	router.ServeHTTP(lw, login)
	require.Equal(t, http.StatusOK, lw.Code)

	cookies := lw.Result().Cookies()
	require.NotEmpty(t, cookies)

	req = httptest.NewRequest(http.MethodGet, "/api/leads", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "leads")
}

func TestAdminLogin_BadCredentials(t *testing.T) {
	router, _, _ := newTestRouter(t)

	login := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(`{"username":"admin","password":"wrong"}`))
	login.Header.Set("Content-Type", "application/json")
	login.Header.Set("Accept", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, login)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChatEndpoint(t *testing.T) {
	router, _, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"what are your working hours?"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "09:00")
}
