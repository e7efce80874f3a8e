// Package calendar builds "quick add" event links for confirmed
// appointments. It is a pure formatting utility: no remote calls.
package calendar

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"dentalcare/internal/conversation"
)

const (
	renderURL       = "https://calendar.google.com/calendar/render"
	stampLayout     = "20060102T150405"
	defaultLocation = "DentalCare Pro"
	eventDuration   = time.Hour
)

// timeRe accepts the H:MM AM/PM shape anywhere in the collected
// free-text time, e.g. "2:30 PM" or "around 9:00am".
var timeRe = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(AM|PM)`)

// Builder formats calendar event URLs for a clinic.
type Builder struct {
	location string
	loc      *time.Location
}

// NewBuilder creates a builder. The event location defaults to the
// clinic name; times are rendered in tz (local time when nil).
func NewBuilder(location string, tz *time.Location) *Builder {
	if location == "" {
		location = defaultLocation
	}
	if tz == nil {
		tz = time.Local
	}
	return &Builder{location: location, loc: tz}
}

// EventURL builds the event link for a confirmed record. The event
// runs exactly 60 minutes from the selected time. A date or time that
// cannot be parsed is an error, not a silent no-op.
func (b *Builder) EventURL(rec conversation.Record) (string, error) {
	start, err := b.startTime(rec.Date, rec.Time)
	if err != nil {
		return "", err
	}
	end := start.Add(eventDuration)

	title := "Dental Appointment: " + rec.Name
	details := strings.Join([]string{
		"Service: " + url.QueryEscape(rec.Service),
		"Patient: " + url.QueryEscape(rec.Name),
		"Phone: " + url.QueryEscape(rec.Phone),
		"Email: " + url.QueryEscape(rec.Email),
	}, "%0A")

	return fmt.Sprintf("%s?action=TEMPLATE&text=%s&dates=%s/%s&details=%s&location=%s",
		renderURL,
		url.QueryEscape(title),
		start.Format(stampLayout),
		end.Format(stampLayout),
		details,
		url.QueryEscape(b.location),
	), nil
}

// startTime combines the MM/DD/YYYY date and the H:MM AM/PM time into
// a concrete instant in the builder's timezone.
func (b *Builder) startTime(date, timeOfDay string) (time.Time, error) {
	parts := strings.Split(date, "/")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unexpected date %q", date)
	}
	month, _ := strconv.Atoi(parts[0])
	day, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])

	m := timeRe.FindStringSubmatch(timeOfDay)
	if m == nil {
		return time.Time{}, fmt.Errorf("time %q does not match H:MM AM/PM", timeOfDay)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	period := strings.ToUpper(m[3])

	if period == "PM" && hour != 12 {
		hour += 12
	} else if period == "AM" && hour == 12 {
		hour = 0
	}
	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("time %q out of range", timeOfDay)
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, b.loc), nil
}
