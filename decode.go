package ical

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// typeInfo describes how a property's raw value decodes by default: its
// value kind and whether the property is comma-separated multi-valued.
type typeInfo struct {
	kind  Kind
	multi bool
}

// defaultTypes maps property names to their RFC 5545 default value type.
// The table is read-only process-wide data; properties not listed decode
// as single TEXT values.
var defaultTypes = map[string]typeInfo{
	// Descriptive
	"SUMMARY":     {KindText, false},
	"DESCRIPTION": {KindText, false},
	"LOCATION":    {KindText, false},
	"COMMENT":     {KindText, false},
	"STATUS":      {KindText, false},
	"TRANSP":      {KindText, false},
	"CLASS":       {KindText, false},
	"CATEGORIES":  {KindText, true},
	"RESOURCES":   {KindText, true},

	// Calendar-level
	"PRODID":   {KindText, false},
	"VERSION":  {KindText, false},
	"CALSCALE": {KindText, false},
	"METHOD":   {KindText, false},

	// Date and time
	"DTSTART":       {KindDateTime, false},
	"DTEND":         {KindDateTime, false},
	"DTSTAMP":       {KindDateTime, false},
	"DUE":           {KindDateTime, false},
	"COMPLETED":     {KindDateTime, false},
	"CREATED":       {KindDateTime, false},
	"LAST-MODIFIED": {KindDateTime, false},
	"RECURRENCE-ID": {KindDateTime, false},
	"EXDATE":        {KindDateTime, true},
	"RDATE":         {KindDateTime, true},
	"FREEBUSY":      {KindPeriod, true},
	"DURATION":      {KindDuration, false},
	"TRIGGER":       {KindDuration, false},

	// Recurrence
	"RRULE":  {KindRecurrenceRule, false},
	"EXRULE": {KindRecurrenceRule, false},

	// Numbers
	"PERCENT-COMPLETE": {KindInteger, false},
	"PRIORITY":         {KindInteger, false},
	"REPEAT":           {KindInteger, false},
	"SEQUENCE":         {KindInteger, false},

	// Misc typed
	"GEO":          {KindGeo, false},
	"TZOFFSETFROM": {KindUTCOffset, false},
	"TZOFFSETTO":   {KindUTCOffset, false},

	// Pass-through URIs and addresses
	"ATTACH":    {KindRaw, false},
	"URL":       {KindRaw, false},
	"TZURL":     {KindRaw, false},
	"ATTENDEE":  {KindRaw, false},
	"ORGANIZER": {KindRaw, false},
}

// valueTypeNames maps VALUE= parameter spellings to kinds. URI and
// CAL-ADDRESS values carry no escaping, so they stay raw.
var valueTypeNames = map[string]Kind{
	"TEXT":        KindText,
	"INTEGER":     KindInteger,
	"FLOAT":       KindFloat,
	"BOOLEAN":     KindBoolean,
	"BINARY":      KindBinary,
	"DATE":        KindDate,
	"DATE-TIME":   KindDateTime,
	"DURATION":    KindDuration,
	"PERIOD":      KindPeriod,
	"UTC-OFFSET":  KindUTCOffset,
	"RECUR":       KindRecurrenceRule,
	"URI":         KindRaw,
	"CAL-ADDRESS": KindRaw,
}

func defaultTypeOf(name string) typeInfo {
	if info, ok := defaultTypes[strings.ToUpper(name)]; ok {
		return info
	}
	return typeInfo{KindText, false}
}

// decodePropertyValue decodes one raw property value. The decoder is
// selected by the property's default type unless a VALUE= parameter
// overrides it; an ENCODING=BASE64 parameter forces binary either way.
func decodePropertyValue(name, raw string, params Parameters) (Value, error) {
	info := defaultTypeOf(name)
	kind := info.kind

	if vt, ok := params.Get("VALUE"); ok {
		k, known := valueTypeNames[strings.ToUpper(vt)]
		if !known {
			return nil, errors.Wrapf(ErrUnknownValueType, "VALUE=%s", vt)
		}
		kind = k
	}

	if enc, ok := params.Get("ENCODING"); ok && strings.EqualFold(enc, "BASE64") {
		kind = KindBinary
	}

	if info.multi && kind != KindBinary {
		return decodeList(kind, raw, params)
	}
	return decodeValue(kind, raw, params)
}

// decodeValue decodes raw as a single value of the given kind. It is the
// left inverse of Value.Encode for every representable value.
func decodeValue(kind Kind, raw string, params Parameters) (Value, error) {
	switch kind {
	case KindRaw:
		return Raw(raw), nil
	case KindText:
		s, err := UnescapeText(raw)
		if err != nil {
			return nil, err
		}
		return Text(s), nil
	case KindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedValue, "integer %q", raw)
		}
		return Integer(n), nil
	case KindFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedValue, "float %q", raw)
		}
		return Float(f), nil
	case KindBoolean:
		switch strings.ToUpper(raw) {
		case "TRUE":
			return Boolean(true), nil
		case "FALSE":
			return Boolean(false), nil
		}
		return nil, errors.Wrapf(ErrMalformedValue, "boolean %q", raw)
	case KindBinary:
		b, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedBinary, "%v", err)
		}
		return Binary(b), nil
	case KindDate:
		return decodeDate(raw)
	case KindDateTime:
		return decodeDateTime(raw, params)
	case KindDuration:
		return decodeDuration(raw)
	case KindPeriod:
		return decodePeriod(raw, params)
	case KindUTCOffset:
		return decodeUTCOffset(raw)
	case KindGeo:
		return decodeGeo(raw)
	case KindRecurrenceRule:
		return decodeRecurrenceRule(raw)
	case KindWeekdayOrdinal:
		return decodeWeekdayOrdinal(raw)
	default:
		return nil, errors.Wrapf(ErrUnknownValueType, "%s", kind)
	}
}

// decodeList comma-splits raw, honoring backslash-escaped commas, and
// decodes each element with the element kind's decoder.
func decodeList(elem Kind, raw string, params Parameters) (Value, error) {
	list := List{Elem: elem}

	for _, part := range splitList(raw) {
		v, err := decodeValue(elem, part, params)
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, v)
	}

	return list, nil
}

// splitList splits on commas not preceded by a backslash escape.
func splitList(raw string) []string {
	var parts []string
	start := 0
	escaped := false

	for i := 0; i < len(raw); i++ {
		switch {
		case escaped:
			escaped = false
		case raw[i] == '\\':
			escaped = true
		case raw[i] == ',':
			parts = append(parts, raw[start:i])
			start = i + 1
		}
	}

	return append(parts, raw[start:])
}

func decodeDate(raw string) (Value, error) {
	if len(raw) != 8 || !allDigits(raw) {
		return nil, errors.Wrapf(ErrMalformedValue, "date %q", raw)
	}

	year, _ := strconv.Atoi(raw[:4])
	month, _ := strconv.Atoi(raw[4:6])
	day, _ := strconv.Atoi(raw[6:8])

	if !validYMD(year, month, day) {
		return nil, errors.Wrapf(ErrMalformedValue, "date %q out of range", raw)
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

func decodeDateTime(raw string, params Parameters) (Value, error) {
	s := raw

	// Lowercase designators are a common producer deviation; accept them.
	utc := false
	if n := len(s); n > 0 && (s[n-1] == 'Z' || s[n-1] == 'z') {
		utc = true
		s = s[:n-1]
	}

	if len(s) != 15 || (s[8] != 'T' && s[8] != 't') {
		return nil, errors.Wrapf(ErrMalformedValue, "date-time %q", raw)
	}
	datePart, timePart := s[:8], s[9:]
	if !allDigits(datePart) || !allDigits(timePart) {
		return nil, errors.Wrapf(ErrMalformedValue, "date-time %q", raw)
	}

	year, _ := strconv.Atoi(datePart[:4])
	month, _ := strconv.Atoi(datePart[4:6])
	day, _ := strconv.Atoi(datePart[6:8])
	hour, _ := strconv.Atoi(timePart[:2])
	minute, _ := strconv.Atoi(timePart[2:4])
	second, _ := strconv.Atoi(timePart[4:6])

	// Second 60 allows for leap seconds (RFC 5545 section 3.3.12).
	if !validYMD(year, month, day) || hour > 23 || minute > 59 || second > 60 {
		return nil, errors.Wrapf(ErrMalformedValue, "date-time %q out of range", raw)
	}

	dt := DateTime{
		Year:   year,
		Month:  time.Month(month),
		Day:    day,
		Hour:   hour,
		Minute: minute,
		Second: second,
		UTC:    utc,
	}

	if !utc {
		if tzid, ok := params.Get("TZID"); ok {
			dt.TZID = tzid
		}
	}

	return dt, nil
}

func decodeDuration(raw string) (Value, error) {
	s := raw
	var d Duration

	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		d.Negative = s[0] == '-'
		s = s[1:]
	}

	if len(s) == 0 || (s[0] != 'P' && s[0] != 'p') {
		return nil, errors.Wrapf(ErrMalformedValue, "duration %q: missing P designator", raw)
	}
	s = s[1:]

	inTime := false
	seen := false

	for len(s) > 0 {
		if s[0] == 'T' || s[0] == 't' {
			inTime = true
			s = s[1:]
			continue
		}

		i := 0
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 0 || i == len(s) {
			return nil, errors.Wrapf(ErrMalformedValue, "duration %q", raw)
		}

		n, _ := strconv.Atoi(s[:i])

		switch c := s[i]; {
		case (c == 'W' || c == 'w') && !inTime:
			d.Weeks = n
		case (c == 'D' || c == 'd') && !inTime:
			d.Days = n
		case (c == 'H' || c == 'h') && inTime:
			d.Hours = n
		case (c == 'M' || c == 'm') && inTime:
			d.Minutes = n
		case (c == 'S' || c == 's') && inTime:
			d.Seconds = n
		default:
			return nil, errors.Wrapf(ErrMalformedValue, "duration %q: unexpected designator %q", raw, c)
		}

		seen = true
		s = s[i+1:]
	}

	if !seen {
		return nil, errors.Wrapf(ErrMalformedValue, "duration %q: no components", raw)
	}

	// The week form stands alone (RFC 5545 section 3.3.6).
	if d.Weeks != 0 && (d.Days != 0 || d.Hours != 0 || d.Minutes != 0 || d.Seconds != 0) {
		return nil, errors.Wrapf(ErrMalformedValue, "duration %q: weeks may not combine with other components", raw)
	}

	return d, nil
}

func decodePeriod(raw string, params Parameters) (Value, error) {
	slash := strings.IndexByte(raw, '/')
	if slash < 0 {
		return nil, errors.Wrapf(ErrMalformedValue, "period %q: missing \"/\"", raw)
	}

	startVal, err := decodeDateTime(raw[:slash], params)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedValue, "period %q: invalid start", raw)
	}
	p := Period{Start: startVal.(DateTime)}

	rhs := raw[slash+1:]
	if len(rhs) == 0 {
		return nil, errors.Wrapf(ErrMalformedValue, "period %q: empty end", raw)
	}

	if rhs[0] == 'P' || rhs[0] == 'p' || rhs[0] == '+' || rhs[0] == '-' {
		durVal, err := decodeDuration(rhs)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedValue, "period %q: invalid duration", raw)
		}
		dur := durVal.(Duration)
		p.Duration = &dur
		return p, nil
	}

	endVal, err := decodeDateTime(rhs, params)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedValue, "period %q: invalid end", raw)
	}
	end := endVal.(DateTime)
	p.End = &end
	return p, nil
}

func decodeUTCOffset(raw string) (Value, error) {
	s := raw
	var off UTCOffset

	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		off.Negative = s[0] == '-'
		s = s[1:]
	}

	if (len(s) != 4 && len(s) != 6) || !allDigits(s) {
		return nil, errors.Wrapf(ErrMalformedValue, "utc-offset %q", raw)
	}

	off.Hours, _ = strconv.Atoi(s[:2])
	off.Minutes, _ = strconv.Atoi(s[2:4])
	if len(s) == 6 {
		off.Seconds, _ = strconv.Atoi(s[4:6])
	}

	if off.Hours > 23 || off.Minutes > 59 || off.Seconds > 59 {
		return nil, errors.Wrapf(ErrMalformedValue, "utc-offset %q out of range", raw)
	}

	return off, nil
}

func decodeGeo(raw string) (Value, error) {
	semi := strings.IndexByte(raw, ';')
	if semi < 0 {
		return nil, errors.Wrapf(ErrMalformedValue, "geo %q: missing \";\"", raw)
	}

	lat, err := strconv.ParseFloat(raw[:semi], 64)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedValue, "geo %q: invalid latitude", raw)
	}
	lon, err := strconv.ParseFloat(raw[semi+1:], 64)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedValue, "geo %q: invalid longitude", raw)
	}

	return Geo{Latitude: lat, Longitude: lon}, nil
}

func decodeWeekday(raw string) (Weekday, error) {
	switch w := Weekday(strings.ToUpper(raw)); w {
	case Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return w, nil
	}
	return "", errors.Wrapf(ErrMalformedValue, "weekday %q", raw)
}

func decodeWeekdayOrdinal(raw string) (Value, error) {
	i := 0
	if i < len(raw) && (raw[i] == '+' || raw[i] == '-') {
		i++
	}
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}

	var ord int
	if i > 0 {
		n, err := strconv.Atoi(strings.TrimPrefix(raw[:i], "+"))
		if err != nil {
			return nil, errors.Wrapf(ErrMalformedValue, "weekday ordinal %q", raw)
		}
		ord = n
	}

	day, err := decodeWeekday(raw[i:])
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedValue, "weekday ordinal %q", raw)
	}

	return WeekdayOrdinal{Ordinal: ord, Weekday: day}, nil
}

var frequencies = map[string]bool{
	"SECONDLY": true,
	"MINUTELY": true,
	"HOURLY":   true,
	"DAILY":    true,
	"WEEKLY":   true,
	"MONTHLY":  true,
	"YEARLY":   true,
}

// decodeRecurrenceRule parses the semicolon-separated KEY=VALUE list of a
// RECUR value. Unrecognized keys are preserved opaquely; RFC extensions
// add keys over time.
func decodeRecurrenceRule(raw string) (Value, error) {
	var rule RecurrenceRule

	for _, part := range strings.Split(raw, ";") {
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			return nil, errors.Wrapf(ErrMalformedValue, "recurrence rule part %q: missing \"=\"", part)
		}
		key := strings.ToUpper(part[:eq])
		val := part[eq+1:]

		var err error
		switch key {
		case "FREQ":
			freq := strings.ToUpper(val)
			if !frequencies[freq] {
				return nil, errors.Wrapf(ErrMalformedValue, "recurrence rule frequency %q", val)
			}
			rule.Frequency = freq
		case "INTERVAL":
			rule.Interval, err = strconv.Atoi(val)
		case "COUNT":
			rule.Count, err = strconv.Atoi(val)
		case "UNTIL":
			err = decodeUntil(&rule, val)
		case "BYSECOND":
			rule.BySecond, err = decodeIntList(val)
		case "BYMINUTE":
			rule.ByMinute, err = decodeIntList(val)
		case "BYHOUR":
			rule.ByHour, err = decodeIntList(val)
		case "BYDAY":
			for _, day := range strings.Split(val, ",") {
				v, derr := decodeWeekdayOrdinal(day)
				if derr != nil {
					return nil, derr
				}
				rule.ByDay = append(rule.ByDay, v.(WeekdayOrdinal))
			}
		case "BYMONTHDAY":
			rule.ByMonthDay, err = decodeIntList(val)
		case "BYYEARDAY":
			rule.ByYearDay, err = decodeIntList(val)
		case "BYWEEKNO":
			rule.ByWeekNo, err = decodeIntList(val)
		case "BYMONTH":
			rule.ByMonth, err = decodeIntList(val)
		case "BYSETPOS":
			rule.BySetPos, err = decodeIntList(val)
		case "WKST":
			rule.WeekStart, err = decodeWeekday(val)
		default:
			rule.Extra = append(rule.Extra, RulePart{Key: part[:eq], Value: val})
		}

		if err != nil {
			return nil, errors.Wrapf(ErrMalformedValue, "recurrence rule part %q", part)
		}
	}

	if rule.Frequency == "" {
		return nil, errors.Wrap(ErrMalformedValue, "recurrence rule: missing FREQ")
	}

	return rule, nil
}

func decodeUntil(rule *RecurrenceRule, val string) error {
	if strings.ContainsAny(val, "Tt") {
		v, err := decodeDateTime(val, Parameters{})
		if err != nil {
			return err
		}
		dt := v.(DateTime)
		rule.Until = &dt
		return nil
	}

	v, err := decodeDate(val)
	if err != nil {
		return err
	}
	d := v.(Date)
	rule.UntilDate = &d
	return nil
}

func decodeIntList(val string) ([]int, error) {
	var ns []int
	for _, s := range strings.Split(val, ",") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		ns = append(ns, n)
	}
	return ns, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// validYMD checks calendar field ranges by letting time.Date normalize
// the candidate and comparing it back.
func validYMD(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 0 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	y, m, d := t.Date()
	return y == year && int(m) == month && d == day
}
