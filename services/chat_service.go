package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"nexa-backend/models"
)

var (
	dateRx    = regexp.MustCompile(`\b(20\d{2}-\d{2}-\d{2})\b`)
	timeRx    = regexp.MustCompile(`\b([01]\d|2[0-3]):([0-5]\d)\b`)
	nameRx    = regexp.MustCompile(`(?:i am|i'm|name is)\s+([^.,\n]+)`)
	nameKVRx  = regexp.MustCompile(`\bname\s*:\s*([^.,\n]+)`)
	phoneRx   = regexp.MustCompile(`(?:phone|tel|mobile|gsm)\s*[:\-]?\s*([+\d][\d\s\-]{6,})`)
	serviceRx = regexp.MustCompile(`(?:service|for|need|want)\s+([a-zA-Z0-9 \-_/]{2,})`)
)

// a cases.Caser is stateful, so build one per use
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// ChatService is the rule-based booking assistant behind /api/chat: greetings
// and FAQ answers, availability lookups, and tentative (pending) bookings
// extracted from free text. No language model involved.
type ChatService struct {
	Booking      *BookingService
	Avail        *AvailabilityService
	BusinessDesc string

	// now is swappable for tests ("today"/"tomorrow" resolution)
	now func() time.Time
}

func NewChatService(booking *BookingService, avail *AvailabilityService, businessDesc string) *ChatService {
	return &ChatService{Booking: booking, Avail: avail, BusinessDesc: businessDesc, now: time.Now}
}

// Reply answers one chat message. Failures inside the booking core degrade to
// an apologetic reply; chat never surfaces storage errors to the widget.
func (s *ChatService) Reply(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return "Hey! I can check availability, pencil you in, or answer quick questions. Try: 'availability today' or 'book me tomorrow at 10:00'."
	}

	low := strings.ToLower(msg)
	open, close := s.Avail.Hours()

	if reply, ok := s.faqReply(low, open, close); ok {
		return reply
	}

	if containsAny(low, "avail", "free", "slot", "slots") {
		return s.availabilityReply(msg, low, open, close)
	}

	if containsAny(low, "book", "schedule", "appointment") {
		return s.bookingReply(msg, low)
	}

	return "I can check availability or tentatively book you.\n" +
		"- availability today / tomorrow\n" +
		"- availability 2025-10-05\n" +
		"- book me for consultation tomorrow at 14:30, I'm Alex, phone +359...\n" +
		"You can also say \"talk to an agent\"."
}

func (s *ChatService) faqReply(low, open, close string) (string, bool) {
	switch {
	case containsAny(low, "hello", "hi ", "hey", "good morning", "good afternoon", "good evening"):
		return "Hi there! 👋 I can check availability, help you book, or answer quick questions. What can I do for you today?", true
	case containsAny(low, "what kind of business", "who are you", "what is this", "what do you do"):
		return s.BusinessDesc, true
	case containsAny(low, "hour", "open", "close", "working"):
		return fmt.Sprintf("We're open from %s to %s, Monday to Friday.", open, close), true
	case containsAny(low, "where", "address", "location", "office"):
		return "We're in Sofia. If you need directions, I can have a human text you details.", true
	case containsAny(low, "service", "offer"):
		return "We offer consultations and scheduling. Tell me what you need and I'll help book a slot.", true
	case containsAny(low, "price", "cost", "fee"):
		return "Pricing varies by service. I can connect you with a human to confirm a quote.", true
	case containsAny(low, "human", "agent", "person", "contact"):
		return "Absolutely — tap \"Talk to an agent\" and leave your phone. We'll call you shortly.", true
	}
	return "", false
}

func (s *ChatService) availabilityReply(msg, low, open, close string) string {
	date := s.extractDate(msg, low)
	if date == "" {
		return fmt.Sprintf("Our hours are %s-%s, Mon-Fri. Say 'availability today', 'availability tomorrow', or a date like 2025-10-05.", open, close)
	}

	taken, err := s.Avail.TakenSlots(date)
	if err != nil {
		return "Sorry, I couldn't check the calendar just now. Please try again in a moment."
	}
	pending, err := s.Avail.PendingSlots(date)
	if err != nil {
		return "Sorry, I couldn't check the calendar just now. Please try again in a moment."
	}

	if len(taken) == 0 && len(pending) == 0 {
		return fmt.Sprintf("%s: All times look open between %s and %s.", date, open, close)
	}
	return fmt.Sprintf("%s — Confirmed (blocked): %s. Pending: %s. Tell me a time and I can tentatively book you.",
		date, orDefault(strings.Join(taken, ", "), "none"), orDefault(strings.Join(pending, ", "), "none"))
}

func (s *ChatService) bookingReply(msg, low string) string {
	date := s.extractDate(msg, low)
	if date == "" {
		return "Please include a date (YYYY-MM-DD), e.g. 'book me for a consultation on 2025-10-05 at 14:30'."
	}

	timeMatch := timeRx.FindStringSubmatch(msg)
	if timeMatch == nil {
		return "Please include a time (HH:MM), e.g. 14:30."
	}
	timeStr := timeMatch[1] + ":" + timeMatch[2]

	name := "Guest"
	if m := nameRx.FindStringSubmatch(low); m != nil {
		name = titleCase(strings.TrimSpace(m[1]))
	} else if m := nameKVRx.FindStringSubmatch(low); m != nil {
		name = titleCase(strings.TrimSpace(m[1]))
	}
	phone := "unknown"
	if m := phoneRx.FindStringSubmatch(low); m != nil {
		phone = strings.TrimSpace(m[1])
	}
	service := "service"
	if m := serviceRx.FindStringSubmatch(msg); m != nil {
		service = strings.TrimSpace(m[1])
	}

	_, _, _, err := s.Booking.CreateLead(models.LeadInput{
		Name:            name,
		Phone:           phone,
		Service:         service,
		AppointmentDate: date,
		AppointmentTime: timeStr,
	})
	if err != nil {
		if errors.Is(err, models.ErrSlotTaken) {
			return fmt.Sprintf("That time (%s %s) is already confirmed. Try another time.", date, timeStr)
		}
		return "Sorry, I couldn't save that booking just now. Please try again in a moment."
	}

	return fmt.Sprintf("Done! I created a pending booking for %s on %s at %s for '%s'. The owner will confirm shortly.",
		name, date, timeStr, service)
}

func (s *ChatService) extractDate(msg, low string) string {
	if m := dateRx.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	today := s.now().UTC()
	if strings.Contains(low, "today") {
		return today.Format("2006-01-02")
	}
	if strings.Contains(low, "tomorrow") || strings.Contains(low, "tmrw") {
		return today.AddDate(0, 0, 1).Format("2006-01-02")
	}
	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
