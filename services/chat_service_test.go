package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexa-backend/models"
)

func newTestChat(t *testing.T) (*ChatService, *BookingService) {
	t.Helper()
	booking := newTestBooking(t)
	chat := NewChatService(booking, booking.avail, "We provide consultations and scheduling for clients in Sofia.")
	chat.now = func() time.Time {
		return time.Date(2025, 10, 12, 12, 0, 0, 0, time.UTC)
	}
	return chat, booking
}

func TestChatService_EmptyAndHelp(t *testing.T) {
	chat, _ := newTestChat(t)

	assert.Contains(t, chat.Reply(""), "availability today")
	assert.Contains(t, chat.Reply("what is the meaning of life"), "availability 2025-10-05")
}

func TestChatService_FAQ(t *testing.T) {
	chat, _ := newTestChat(t)

	assert.Contains(t, chat.Reply("hello there"), "Hi there")
	assert.Contains(t, chat.Reply("what are your working hours?"), "09:00")
	assert.Contains(t, chat.Reply("who are you"), "Sofia")
	assert.Contains(t, chat.Reply("how much does it cost"), "Pricing varies")
	assert.Contains(t, chat.Reply("i want to talk to a human"), "agent")
}

func TestChatService_AvailabilityByDate(t *testing.T) {
	chat, booking := newTestChat(t)

	lead, _, _, err := booking.CreateLead(sampleInput("2025-10-13", "14:30"))
	require.NoError(t, err)
	_, err = booking.Confirm(lead.BookingID)
	require.NoError(t, err)

	reply := chat.Reply("availability 2025-10-13")
	assert.Contains(t, reply, "Confirmed (blocked): 14:30")

	assert.Contains(t, chat.Reply("availability 2025-11-01"), "All times look open")
}

func TestChatService_AvailabilityRelativeDates(t *testing.T) {
	chat, _ := newTestChat(t)

	// fixed clock: today = 2025-10-12
	assert.Contains(t, chat.Reply("availability today"), "2025-10-12")
	assert.Contains(t, chat.Reply("availability tomorrow"), "2025-10-13")
	assert.Contains(t, chat.Reply("any free slots?"), "Say 'availability today'")
}

func TestChatService_BookingFlow(t *testing.T) {
	chat, booking := newTestChat(t)

	reply := chat.Reply("book me for consultation on 2025-10-20 at 14:30, I'm Alex, phone +359888123456")
	assert.Contains(t, reply, "pending booking")
	assert.Contains(t, reply, "Alex")
	assert.Contains(t, reply, "2025-10-20")
	assert.Contains(t, reply, "14:30")

	leads, err := booking.List()
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, models.StatusPending, leads[0].Status)
	assert.Equal(t, "Alex", leads[0].Name)
	assert.Equal(t, "+359888123456", leads[0].Phone)
}

func TestChatService_BookingNeedsDateAndTime(t *testing.T) {
	chat, booking := newTestChat(t)

	assert.Contains(t, chat.Reply("book me please"), "include a date")
	assert.Contains(t, chat.Reply("book me on 2025-10-20"), "include a time")

	leads, err := booking.List()
	require.NoError(t, err)
	assert.Empty(t, leads)
}

func TestChatService_BookingConflict(t *testing.T) {
	chat, booking := newTestChat(t)

	lead, _, _, err := booking.CreateLead(sampleInput("2025-10-20", "14:30"))
	require.NoError(t, err)
	_, err = booking.Confirm(lead.BookingID)
	require.NoError(t, err)

	reply := chat.Reply("book me for massage on 2025-10-20 at 14:30")
	assert.Contains(t, reply, "already confirmed")

	leads, err := booking.List()
	require.NoError(t, err)
	assert.Len(t, leads, 1) // nothing appended
}
