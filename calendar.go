package ical

import (
	"time"

	"github.com/google/uuid"
)

const prodid = "-//calwire//ical//EN"

// NewCalendar creates a VCALENDAR component pre-filled with the required
// VERSION and PRODID properties and the Gregorian calendar scale.
func NewCalendar() *Component {
	c := NewComponent(ComponentVCalendar)
	c.SetText("VERSION", "2.0")
	c.SetText("PRODID", prodid)
	c.SetText("CALSCALE", "GREGORIAN")
	return c
}

// NewEvent creates a VEVENT component with a generated UID and a DTSTAMP
// of the current UTC time.
func NewEvent() *Component {
	e := NewComponent(ComponentVEvent)
	e.SetText("UID", uuid.NewString())
	e.SetDateTime("DTSTAMP", NewDateTimeUTC(time.Now()))
	return e
}

// Events returns the VEVENT children of a calendar component.
func Events(cal *Component) []*Component {
	return cal.ChildrenByName(ComponentVEvent)
}
