package ical

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind tags the closed set of value types a property can carry
// (RFC 5545 section 3.3).
type Kind int

const (
	// KindRaw is the opaque fallback: URIs, CAL-ADDRESSes and values
	// whose type the decoders do not recognize pass through untouched.
	KindRaw Kind = iota
	KindText
	KindInteger
	KindFloat
	KindBoolean
	KindBinary
	KindDate
	KindDateTime
	KindDuration
	KindPeriod
	KindUTCOffset
	KindGeo
	KindRecurrenceRule
	KindWeekdayOrdinal
	KindList
)

var kindNames = map[Kind]string{
	KindRaw:            "RAW",
	KindText:           "TEXT",
	KindInteger:        "INTEGER",
	KindFloat:          "FLOAT",
	KindBoolean:        "BOOLEAN",
	KindBinary:         "BINARY",
	KindDate:           "DATE",
	KindDateTime:       "DATE-TIME",
	KindDuration:       "DURATION",
	KindPeriod:         "PERIOD",
	KindUTCOffset:      "UTC-OFFSET",
	KindGeo:            "GEO",
	KindRecurrenceRule: "RECUR",
	KindWeekdayOrdinal: "WEEKDAY",
	KindList:           "LIST",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// A Value is one typed property value. Encode renders the wire text and
// never fails; the matching decoder in decode.go accepts everything
// Encode can produce.
type Value interface {
	Kind() Kind
	Encode() string
}

// Raw is an opaque value kept exactly as it appeared on the wire.
type Raw string

func (Raw) Kind() Kind       { return KindRaw }
func (v Raw) Encode() string { return string(v) }

// Text is an unescaped TEXT value.
type Text string

func (Text) Kind() Kind       { return KindText }
func (v Text) Encode() string { return EscapeText(string(v)) }

// Integer is an INTEGER value.
type Integer int64

func (Integer) Kind() Kind       { return KindInteger }
func (v Integer) Encode() string { return strconv.FormatInt(int64(v), 10) }

// Float is a FLOAT value.
type Float float64

func (Float) Kind() Kind       { return KindFloat }
func (v Float) Encode() string { return strconv.FormatFloat(float64(v), 'f', -1, 64) }

// Boolean is a BOOLEAN value.
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }

func (v Boolean) Encode() string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// Binary is an opaque byte payload, base64 on the wire.
type Binary []byte

func (Binary) Kind() Kind       { return KindBinary }
func (v Binary) Encode() string { return base64.StdEncoding.EncodeToString(v) }

// A Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (Date) Kind() Kind { return KindDate }

func (v Date) Encode() string {
	return fmt.Sprintf("%04d%02d%02d", v.Year, int(v.Month), v.Day)
}

// Time returns the date at midnight in loc.
func (v Date) Time(loc *time.Location) time.Time {
	return time.Date(v.Year, v.Month, v.Day, 0, 0, 0, 0, loc)
}

// A DateTime is a wall-clock date and time. UTC and TZID qualify the
// value orthogonally: UTC set means the trailing-Z form; a non-empty TZID
// carries the zone identifier of a TZID parameter, with offset resolution
// left to the caller's timezone provider; neither set means a floating
// (naive) value.
type DateTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
	UTC    bool
	TZID   string
}

func (DateTime) Kind() Kind { return KindDateTime }

func (v DateTime) Encode() string {
	s := fmt.Sprintf("%04d%02d%02dT%02d%02d%02d",
		v.Year, int(v.Month), v.Day, v.Hour, v.Minute, v.Second)
	if v.UTC {
		s += "Z"
	}
	return s
}

// Time converts the value to a time.Time. UTC values use time.UTC; zoned
// and floating values use loc, which the caller obtains from its timezone
// provider (time.Local when nil).
func (v DateTime) Time(loc *time.Location) time.Time {
	if v.UTC {
		loc = time.UTC
	} else if loc == nil {
		loc = time.Local
	}
	return time.Date(v.Year, v.Month, v.Day, v.Hour, v.Minute, v.Second, 0, loc)
}

// NewDateTime builds a floating DateTime from the wall-clock fields of t.
func NewDateTime(t time.Time) DateTime {
	return DateTime{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// NewDateTimeUTC builds a UTC DateTime from t.
func NewDateTimeUTC(t time.Time) DateTime {
	dt := NewDateTime(t.UTC())
	dt.UTC = true
	return dt
}

// A Duration is a signed span of time. The sign applies to the whole
// value; the component fields are non-negative magnitudes. A value using
// Weeks together with any other component encodes in the day/time form,
// with the weeks folded into days.
type Duration struct {
	Negative bool
	Weeks    int
	Days     int
	Hours    int
	Minutes  int
	Seconds  int
}

func (Duration) Kind() Kind { return KindDuration }

func (v Duration) Encode() string {
	var b strings.Builder
	if v.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')

	if v.Weeks != 0 && v.Days == 0 && v.Hours == 0 && v.Minutes == 0 && v.Seconds == 0 {
		b.WriteString(strconv.Itoa(v.Weeks))
		b.WriteByte('W')
		return b.String()
	}

	days := v.Days + v.Weeks*7
	if days != 0 {
		b.WriteString(strconv.Itoa(days))
		b.WriteByte('D')
	}

	if v.Hours != 0 || v.Minutes != 0 || v.Seconds != 0 || days == 0 {
		b.WriteByte('T')
		if v.Hours != 0 {
			b.WriteString(strconv.Itoa(v.Hours))
			b.WriteByte('H')
		}
		if v.Minutes != 0 {
			b.WriteString(strconv.Itoa(v.Minutes))
			b.WriteByte('M')
		}
		if v.Seconds != 0 || (v.Hours == 0 && v.Minutes == 0 && days == 0) {
			b.WriteString(strconv.Itoa(v.Seconds))
			b.WriteByte('S')
		}
	}

	return b.String()
}

// A Period is a span anchored at Start, bounded by either an explicit End
// or a Duration. When both are set, End wins; when neither is set the
// period encodes with a zero duration.
type Period struct {
	Start    DateTime
	End      *DateTime
	Duration *Duration
}

func (Period) Kind() Kind { return KindPeriod }

func (v Period) Encode() string {
	switch {
	case v.End != nil:
		return v.Start.Encode() + "/" + v.End.Encode()
	case v.Duration != nil:
		return v.Start.Encode() + "/" + v.Duration.Encode()
	default:
		return v.Start.Encode() + "/PT0S"
	}
}

// A UTCOffset is a signed offset from UTC. Seconds is emitted only when
// non-zero.
type UTCOffset struct {
	Negative bool
	Hours    int
	Minutes  int
	Seconds  int
}

func (UTCOffset) Kind() Kind { return KindUTCOffset }

func (v UTCOffset) Encode() string {
	sign := "+"
	if v.Negative {
		sign = "-"
	}
	if v.Seconds != 0 {
		return fmt.Sprintf("%s%02d%02d%02d", sign, v.Hours, v.Minutes, v.Seconds)
	}
	return fmt.Sprintf("%s%02d%02d", sign, v.Hours, v.Minutes)
}

// A Geo is a latitude/longitude pair; the wire form joins the two floats
// with a semicolon.
type Geo struct {
	Latitude  float64
	Longitude float64
}

func (Geo) Kind() Kind { return KindGeo }

func (v Geo) Encode() string {
	return strconv.FormatFloat(v.Latitude, 'f', -1, 64) + ";" +
		strconv.FormatFloat(v.Longitude, 'f', -1, 64)
}

// A Weekday is a two-letter RFC 5545 weekday code.
type Weekday string

const (
	Sunday    Weekday = "SU"
	Monday    Weekday = "MO"
	Tuesday   Weekday = "TU"
	Wednesday Weekday = "WE"
	Thursday  Weekday = "TH"
	Friday    Weekday = "FR"
	Saturday  Weekday = "SA"
)

// A WeekdayOrdinal is a weekday with an optional signed ordinal, as used
// in BYDAY rule parts: "-1SU" is the last Sunday, "2MO" the second
// Monday, ordinal zero means every matching weekday.
type WeekdayOrdinal struct {
	Ordinal int
	Weekday Weekday
}

func (WeekdayOrdinal) Kind() Kind { return KindWeekdayOrdinal }

func (v WeekdayOrdinal) Encode() string {
	if v.Ordinal == 0 {
		return string(v.Weekday)
	}
	return strconv.Itoa(v.Ordinal) + string(v.Weekday)
}

// A RulePart is one KEY=VALUE pair of a recurrence rule that the decoder
// does not recognize, preserved opaquely in order of appearance.
type RulePart struct {
	Key   string
	Value string
}

// A RecurrenceRule is the structured form of an RFC 5545 RECUR value.
// The rule is stored, never expanded; occurrence computation belongs to
// an external recurrence expander. Zero fields are absent from the wire
// form; at most one of Until and UntilDate is set.
type RecurrenceRule struct {
	Frequency string
	Interval  int
	Count     int
	Until     *DateTime
	UntilDate *Date
	BySecond   []int
	ByMinute   []int
	ByHour     []int
	ByDay      []WeekdayOrdinal
	ByMonthDay []int
	ByYearDay  []int
	ByWeekNo   []int
	ByMonth    []int
	BySetPos   []int
	WeekStart  Weekday

	// Extra holds unrecognized rule parts so vendor and future RFC
	// extensions survive a round trip.
	Extra []RulePart
}

func (RecurrenceRule) Kind() Kind { return KindRecurrenceRule }

func (v RecurrenceRule) Encode() string {
	var parts []string
	add := func(key, val string) {
		parts = append(parts, key+"="+val)
	}

	add("FREQ", v.Frequency)
	if v.Interval != 0 {
		add("INTERVAL", strconv.Itoa(v.Interval))
	}
	if v.Count != 0 {
		add("COUNT", strconv.Itoa(v.Count))
	}
	if v.Until != nil {
		add("UNTIL", v.Until.Encode())
	} else if v.UntilDate != nil {
		add("UNTIL", v.UntilDate.Encode())
	}
	if len(v.BySecond) > 0 {
		add("BYSECOND", joinInts(v.BySecond))
	}
	if len(v.ByMinute) > 0 {
		add("BYMINUTE", joinInts(v.ByMinute))
	}
	if len(v.ByHour) > 0 {
		add("BYHOUR", joinInts(v.ByHour))
	}
	if len(v.ByDay) > 0 {
		days := make([]string, len(v.ByDay))
		for i, d := range v.ByDay {
			days[i] = d.Encode()
		}
		add("BYDAY", strings.Join(days, ","))
	}
	if len(v.ByMonthDay) > 0 {
		add("BYMONTHDAY", joinInts(v.ByMonthDay))
	}
	if len(v.ByYearDay) > 0 {
		add("BYYEARDAY", joinInts(v.ByYearDay))
	}
	if len(v.ByWeekNo) > 0 {
		add("BYWEEKNO", joinInts(v.ByWeekNo))
	}
	if len(v.ByMonth) > 0 {
		add("BYMONTH", joinInts(v.ByMonth))
	}
	if len(v.BySetPos) > 0 {
		add("BYSETPOS", joinInts(v.BySetPos))
	}
	if v.WeekStart != "" {
		add("WKST", string(v.WeekStart))
	}
	for _, p := range v.Extra {
		add(p.Key, p.Value)
	}

	return strings.Join(parts, ";")
}

func joinInts(ns []int) string {
	ss := make([]string, len(ns))
	for i, n := range ns {
		ss[i] = strconv.Itoa(n)
	}
	return strings.Join(ss, ",")
}

// A List is the value of a multi-valued property: an ordered sequence of
// elements of one kind, comma-joined on the wire.
type List struct {
	Elem   Kind
	Values []Value
}

func (List) Kind() Kind { return KindList }

func (v List) Encode() string {
	ss := make([]string, len(v.Values))
	for i, e := range v.Values {
		ss[i] = e.Encode()
	}
	return strings.Join(ss, ",")
}
