package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nexa-backend/models"
)

func TestAvailabilityService_SlotsAreSortedAndDeduplicated(t *testing.T) {
	store := newTestCSVStore(t)
	avail := NewAvailabilityService(store, "09:00", "18:00")

	ids := map[string]string{}
	for _, tod := range []string{"16:00", "10:00", "10:00", "13:30"} {
		id, err := store.Append(models.StatusPending, sampleInput("2025-10-13", tod))
		require.NoError(t, err)
		ids[id] = tod
	}
	// confirm everything; duplicates collapse in the slot view
	for id := range ids {
		_, err := store.UpdateStatus(id, models.StatusConfirmed)
		require.NoError(t, err)
	}
	// a different date must not leak in
	_, err := store.Append(models.StatusPending, sampleInput("2025-10-14", "09:00"))
	require.NoError(t, err)

	taken, err := avail.TakenSlots("2025-10-13")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "13:30", "16:00"}, taken)

	pending, err := avail.PendingSlots("2025-10-13")
	require.NoError(t, err)
	assert.Empty(t, pending)

	pending, err = avail.PendingSlots("2025-10-14")
	require.NoError(t, err)
	assert.Equal(t, []string{"09:00"}, pending)
}

func TestAvailabilityService_CancelledLeadsDoNotBlock(t *testing.T) {
	store := newTestCSVStore(t)
	avail := NewAvailabilityService(store, "09:00", "18:00")

	id, err := store.Append(models.StatusPending, sampleInput("2025-10-13", "14:30"))
	require.NoError(t, err)
	_, err = store.UpdateStatus(id, models.StatusCancelled)
	require.NoError(t, err)

	taken, err := avail.TakenSlots("2025-10-13")
	require.NoError(t, err)
	assert.Empty(t, taken)

	pending, err := avail.PendingSlots("2025-10-13")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAvailabilityService_Hours(t *testing.T) {
	avail := NewAvailabilityService(newTestCSVStore(t), "08:30", "17:00")
	open, close := avail.Hours()
	assert.Equal(t, "08:30", open)
	assert.Equal(t, "17:00", close)
}
