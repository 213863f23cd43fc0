package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"nexa-backend/models"
)

const brevoEndpoint = "https://api.brevo.com/v3/smtp/email"

// BrevoMailer sends transactional email through the Brevo HTTP API. It
// implements LeadNotifier best-effort: every failure is logged and swallowed,
// a booking transition never waits on or fails because of email.
type BrevoMailer struct {
	apiKey   string
	from     string
	fromName string
	notifyTo string

	// optional promo pay-link offered in the customer confirmation email
	paymentLinkBase string
	promoCode       string

	client *http.Client
}

func NewBrevoMailer(apiKey, from, fromName, notifyTo, paymentLinkBase, promoCode string) *BrevoMailer {
	return &BrevoMailer{
		apiKey:          apiKey,
		from:            from,
		fromName:        fromName,
		notifyTo:        notifyTo,
		paymentLinkBase: paymentLinkBase,
		promoCode:       promoCode,
		client:          &http.Client{Timeout: 20 * time.Second},
	}
}

func (m *BrevoMailer) enabled() bool {
	return m.apiKey != "" && m.from != "" && m.notifyTo != ""
}

type brevoAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoMessage struct {
	Sender      brevoAddress   `json:"sender"`
	To          []brevoAddress `json:"to"`
	Subject     string         `json:"subject"`
	TextContent string         `json:"textContent"`
	HTMLContent string         `json:"htmlContent,omitempty"`
}

func (m *BrevoMailer) send(subject, text, html, toEmail string) {
	if !m.enabled() {
		log.Printf("[MOCK EMAIL] to:%s subject:%s", orDefault(toEmail, m.notifyTo), subject)
		return
	}
	if toEmail == "" {
		toEmail = m.notifyTo
	}

	msg := brevoMessage{
		Sender:      brevoAddress{Email: m.from, Name: m.fromName},
		To:          []brevoAddress{{Email: toEmail}},
		Subject:     subject,
		TextContent: text,
		HTMLContent: html,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("❌ Brevo payload marshal failed: %v", err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, brevoEndpoint, bytes.NewReader(body))
	if err != nil {
		log.Printf("❌ Brevo request build failed: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("api-key", m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		log.Printf("❌ Brevo email failed: %v", err)
		return
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("❌ Brevo email failed: HTTP %d: %s", resp.StatusCode, string(respBody))
		return
	}
	log.Printf("✅ Brevo email sent: %d", resp.StatusCode)
}

// LeadCreated emails the owner about a fresh pending lead with the signed
// action links. Pending leads do not block the calendar, so the copy says so.
func (m *BrevoMailer) LeadCreated(lead models.Lead, confirmURL, cancelURL string) {
	subject := "New Website Lead (pending)"
	text := fmt.Sprintf(
		"Booking ID: %s\n"+
			"Name: %s\n"+
			"Email: %s\n"+
			"Phone: %s\n"+
			"Service: %s\n"+
			"Date: %s\n"+
			"Time: %s\n"+
			"Status: pending\n\n"+
			"Note: Pending bookings do NOT block the calendar. Only confirmed bookings do.\n\n"+
			"Owner actions:\n"+
			"✓ Confirm: %s\n"+
			"✕ Cancel:  %s\n",
		lead.BookingID, lead.Name, orDefault(lead.Email, "(not provided)"), lead.Phone,
		lead.Service, lead.AppointmentDate, lead.AppointmentTime, confirmURL, cancelURL,
	)

	rows := [][2]string{
		{"Booking ID", lead.BookingID},
		{"Name", lead.Name},
		{"Email", orDefault(lead.Email, "(not provided)")},
		{"Phone", lead.Phone},
		{"Service", lead.Service},
		{"Date", lead.AppointmentDate},
		{"Time", lead.AppointmentTime},
		{"Status", "pending"},
	}
	var table strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&table,
			`<tr><td style="padding:4px 8px;color:#64748b">%s:</td><td style="padding:4px 8px">%s</td></tr>`,
			r[0], r[1])
	}
	html := fmt.Sprintf(`<div style="font-family:Arial,Helvetica,sans-serif;line-height:1.5;color:#0f172a">
<h2 style="margin:0 0 8px">New Website Lead <small style="color:#64748b">(pending)</small></h2>
<table style="border-collapse:collapse;margin-top:8px">%s</table>
<div style="margin-top:16px">
<a href="%s" style="display:inline-block;background:#16a34a;color:#fff;text-decoration:none;padding:10px 14px;border-radius:8px;font-weight:700;margin-right:8px">✓ Confirm</a>
<a href="%s" style="display:inline-block;background:#ef4444;color:#fff;text-decoration:none;padding:10px 14px;border-radius:8px;font-weight:700">✕ Cancel</a>
</div>
</div>`, table.String(), confirmURL, cancelURL)

	m.send(subject, text, html, "")
}

// LeadConfirmed emails the customer, when they left an address, that their
// booking is confirmed, with the optional promo pay-link.
func (m *BrevoMailer) LeadConfirmed(lead models.Lead) {
	to := strings.TrimSpace(lead.Email)
	if to == "" {
		return
	}

	payLink := ""
	if m.paymentLinkBase != "" {
		payLink = fmt.Sprintf("%s?booking=%s&discount=10&code=%s", m.paymentLinkBase, lead.BookingID, m.promoCode)
	}

	text := fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s on %s at %s is confirmed.\n",
		lead.Name, lead.Service, lead.AppointmentDate, lead.AppointmentTime,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your booking for <b>%s</b> on <b>%s</b> at <b>%s</b> is confirmed.</p>",
		lead.Name, lead.Service, lead.AppointmentDate, lead.AppointmentTime,
	)
	if payLink != "" {
		text += fmt.Sprintf("Optional: pay now with 10%% off using code %s: %s\n", m.promoCode, payLink)
		html += fmt.Sprintf("<p><a href='%s'>Pay now with 10%% off (code %s)</a></p>", payLink, m.promoCode)
	}

	m.send("Your booking is confirmed", text, html, to)
}

// LeadCancelled emails the customer, when they left an address, that their
// booking was cancelled.
func (m *BrevoMailer) LeadCancelled(lead models.Lead) {
	to := strings.TrimSpace(lead.Email)
	if to == "" {
		return
	}

	text := fmt.Sprintf(
		"Hi %s,\n\nYour booking for %s on %s at %s was cancelled.\nIf this is unexpected, reply to this email.",
		lead.Name, lead.Service, lead.AppointmentDate, lead.AppointmentTime,
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your booking for <b>%s</b> on <b>%s</b> at <b>%s</b> was cancelled.</p><p>If this is unexpected, reply to this email.</p>",
		lead.Name, lead.Service, lead.AppointmentDate, lead.AppointmentTime,
	)

	m.send("Your booking was cancelled", text, html, to)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
