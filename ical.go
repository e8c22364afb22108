// Package ical implements an iCalendar parser and formatter.
//
// iCalendar is defined in RFC 5545, with caret encoding of parameter
// values from RFC 6868. The package parses documents into a tree of
// components holding typed property values, and serializes such trees
// back to the wire format with CRLF line endings and 75-octet folding.
//
// The package is purely syntactic: it round-trips values faithfully but
// does not validate business-level semantics, resolve timezone
// identifiers or expand recurrence rules.
package ical

// Component names registered by RFC 5545.
const (
	ComponentVCalendar = "VCALENDAR"
	ComponentVEvent    = "VEVENT"
	ComponentVTodo     = "VTODO"
	ComponentVJournal  = "VJOURNAL"
	ComponentVFreeBusy = "VFREEBUSY"
	ComponentVTimezone = "VTIMEZONE"
	ComponentVAlarm    = "VALARM"
	ComponentStandard  = "STANDARD"
	ComponentDaylight  = "DAYLIGHT"
)
