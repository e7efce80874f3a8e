package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dentalcare/internal/conversation"
)

func testRecord() conversation.Record {
	return conversation.Record{
		Service: "Routine Cleaning",
		Name:    "Jane Doe",
		Phone:   "555-1234",
		Email:   "jane@example.com",
		Date:    "12/25/2025",
		Time:    "2:30 PM",
	}
}

func TestEventURL(t *testing.T) {
	b := NewBuilder("DentalCare Pro", time.UTC)

	url, err := b.EventURL(testRecord())
	require.NoError(t, err)

	// End time is exactly 60 minutes after start.
	assert.Contains(t, url, "dates=20251225T143000/20251225T153000")
	assert.Contains(t, url, "https://calendar.google.com/calendar/render?action=TEMPLATE")
	assert.Contains(t, url, "text=Dental+Appointment%3A+Jane+Doe")
	assert.Contains(t, url, "Patient: Jane+Doe")
	assert.Contains(t, url, "Email: jane%40example.com")
	assert.Contains(t, url, "location=DentalCare+Pro")
}

func TestEventURLTimeParsing(t *testing.T) {
	b := NewBuilder("", time.UTC)

	tests := []struct {
		name  string
		input string
		dates string
	}{
		{"morning", "9:00 AM", "20251225T090000/20251225T100000"},
		{"noon", "12:15 PM", "20251225T121500/20251225T131500"},
		{"midnight", "12:05 AM", "20251225T000500/20251225T010500"},
		{"lowercase no space", "2:30pm", "20251225T143000/20251225T153000"},
		{"embedded in prose", "around 2:30 PM works", "20251225T143000/20251225T153000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecord()
			rec.Time = tt.input
			url, err := b.EventURL(rec)
			require.NoError(t, err)
			assert.Contains(t, url, "dates="+tt.dates)
		})
	}
}

func TestEventURLRejectsUnparseableTime(t *testing.T) {
	b := NewBuilder("", time.UTC)

	for _, input := range []string{"soonish", "half past two", "1430", ""} {
		rec := testRecord()
		rec.Time = input
		_, err := b.EventURL(rec)
		assert.Error(t, err, "input: %s", input)
	}
}

func TestEventURLRejectsBadDate(t *testing.T) {
	b := NewBuilder("", time.UTC)

	rec := testRecord()
	rec.Date = "sometime soon"
	_, err := b.EventURL(rec)
	assert.Error(t, err)
}
