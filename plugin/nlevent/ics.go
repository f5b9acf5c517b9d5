package nlevent

import (
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/pkg/errors"
)

// ProductID identifies this service in exported calendars.
const ProductID = "-//yotei//nlevent//JA"

// ToICS renders ev as a VCALENDAR holding a single VEVENT. Times are written
// in UTC.
func ToICS(ev ParsedEvent, uid string, stamp time.Time) (string, error) {
	if uid == "" {
		return "", errors.New("missing UID")
	}
	if !ev.EndTime.After(ev.StartTime) {
		return "", errors.Errorf("event %q ends before it starts", ev.Title)
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(ProductID)

	vev := cal.AddEvent(uid)
	vev.SetDtStampTime(stamp)
	vev.SetStartAt(ev.StartTime)
	vev.SetEndAt(ev.EndTime)
	vev.SetSummary(ev.Title)
	if ev.Description != "" {
		vev.SetDescription(ev.Description)
	}
	return cal.Serialize(), nil
}
