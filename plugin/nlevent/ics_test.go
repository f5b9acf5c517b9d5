package nlevent

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToICS(t *testing.T) {
	ev := mustSucceed(t, Parse("明日の午後2時に会議", testRef))
	stamp := time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC)

	out, err := ToICS(ev, "evt-1", stamp)
	require.NoError(t, err)

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Contains(t, out, "METHOD:PUBLISH")
	assert.Contains(t, out, "UID:evt-1")
	assert.Contains(t, out, "SUMMARY:会議")
	// 14:00 JST is 05:00 UTC.
	assert.Contains(t, out, "DTSTART:20240302T050000Z")
	assert.Contains(t, out, "DTEND:20240302T060000Z")
	assert.Contains(t, out, "END:VEVENT")
}

func TestToICS_Invalid(t *testing.T) {
	ev := mustSucceed(t, Parse("明日の午後2時に会議", testRef))

	_, err := ToICS(ev, "", testRef)
	assert.Error(t, err)

	ev.EndTime = ev.StartTime
	_, err = ToICS(ev, "evt-1", testRef)
	assert.Error(t, err)
}
