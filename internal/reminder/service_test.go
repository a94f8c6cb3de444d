package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/remind-bot/internal/timeconv"
)

func newTestService(t *testing.T, zone string) *Service {
	t.Helper()
	conv, err := timeconv.New(zone)
	require.NoError(t, err)
	return NewService(newTestStore(t), conv)
}

func TestService_Create_StoresUTCInstant(t *testing.T) {
	svc := newTestService(t, "US/Eastern")

	r, err := svc.Create("u1", "2025-08-05", "14:30", "dentist", RepeatNone, 60)
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "u1", r.Owner)
	assert.True(t, r.DueAt.Equal(time.Date(2025, 8, 5, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, []int{60}, r.NotifyOffsets)

	rs, err := svc.List("u1")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, r.ID, rs[0].ID)
}

func TestService_Create_AssignsUniqueIDs(t *testing.T) {
	svc := newTestService(t, "UTC")

	a, err := svc.Create("u1", "2025-08-05", "14:30", "one", RepeatNone)
	require.NoError(t, err)
	b, err := svc.Create("u1", "2025-08-05", "14:30", "one", RepeatNone)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestService_Create_Invalid(t *testing.T) {
	svc := newTestService(t, "UTC")

	tests := []struct {
		name       string
		dateStr    string
		timeStr    string
		text       string
		recurrence string
		offsets    []int
	}{
		{"bad date", "05-08-2025", "14:30", "x", RepeatNone, nil},
		{"bad time", "2025-08-05", "2pm", "x", RepeatNone, nil},
		{"empty text", "2025-08-05", "14:30", "", RepeatNone, nil},
		{"bad recurrence", "2025-08-05", "14:30", "x", "hourly", nil},
		{"negative offset", "2025-08-05", "14:30", "x", RepeatNone, []int{-5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create("u1", tt.dateStr, tt.timeStr, tt.text, tt.recurrence, tt.offsets...)
			assert.ErrorIs(t, err, ErrInvalidFormat)

			rs, listErr := svc.List("u1")
			require.NoError(t, listErr)
			assert.Empty(t, rs, "a rejected request must not mutate the store")
		})
	}
}

func TestService_List_FiltersByOwner(t *testing.T) {
	svc := newTestService(t, "UTC")

	_, err := svc.Create("u1", "2025-08-05", "14:30", "mine", RepeatNone)
	require.NoError(t, err)
	_, err = svc.Create("u2", "2025-08-05", "15:30", "theirs", RepeatNone)
	require.NoError(t, err)
	_, err = svc.Create("u1", "2025-08-06", "09:00", "also mine", RepeatNone)
	require.NoError(t, err)

	rs, err := svc.List("u1")
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "mine", rs[0].Text)
	assert.Equal(t, "also mine", rs[1].Text)

	rs, err = svc.List("nobody")
	require.NoError(t, err)
	assert.Empty(t, rs)
}

func TestService_AddNotifyOffset(t *testing.T) {
	svc := newTestService(t, "UTC")

	_, err := svc.Create("u1", "2025-08-05", "14:30", "dentist", RepeatNone)
	require.NoError(t, err)

	minutes, err := svc.AddNotifyOffset("u1", 1, "2h")
	require.NoError(t, err)
	assert.Equal(t, 120, minutes)

	rs, err := svc.List("u1")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, []int{120}, rs[0].NotifyOffsets)
}

func TestService_AddNotifyOffset_InvalidIndex(t *testing.T) {
	svc := newTestService(t, "UTC")

	_, err := svc.Create("u1", "2025-08-05", "14:30", "dentist", RepeatNone)
	require.NoError(t, err)

	for _, index := range []int{0, -1, 99} {
		_, err := svc.AddNotifyOffset("u1", index, "2h")
		assert.ErrorIs(t, err, ErrInvalidIndex)
	}

	// The index is per-owner: u2 cannot reach u1's reminder.
	_, err = svc.AddNotifyOffset("u2", 1, "2h")
	assert.ErrorIs(t, err, ErrInvalidIndex)

	rs, err := svc.List("u1")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Empty(t, rs[0].NotifyOffsets, "rejected requests must not mutate the store")
}

func TestService_AddNotifyOffset_InvalidSpec(t *testing.T) {
	svc := newTestService(t, "UTC")

	_, err := svc.Create("u1", "2025-08-05", "14:30", "dentist", RepeatNone)
	require.NoError(t, err)

	_, err = svc.AddNotifyOffset("u1", 1, "soon")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestService_Delete(t *testing.T) {
	svc := newTestService(t, "UTC")

	_, err := svc.Create("u1", "2025-08-05", "14:30", "first", RepeatNone)
	require.NoError(t, err)
	_, err = svc.Create("u1", "2025-08-06", "14:30", "second", RepeatNone)
	require.NoError(t, err)

	require.NoError(t, svc.Delete("u1", 1))

	rs, err := svc.List("u1")
	require.NoError(t, err)
	require.Len(t, rs, 1)
	assert.Equal(t, "second", rs[0].Text)

	assert.ErrorIs(t, svc.Delete("u1", 5), ErrInvalidIndex)
}
