package ical

import (
	"strings"

	"github.com/pkg/errors"
)

// EscapeText escapes the characters that may not appear literally inside
// a TEXT value: backslash, semicolon, comma and newline (RFC 5545
// section 3.3.11).
func EscapeText(s string) string {
	if !strings.ContainsAny(s, "\\;,\n") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			b.WriteString(`\\`)
		case ';':
			b.WriteString(`\;`)
		case ',':
			b.WriteString(`\,`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// UnescapeText reverses EscapeText. An escaped character the RFC does not
// name passes through literally, so sequences added by future extensions
// survive a decode/encode cycle. A lone backslash at the end of the value
// fails with ErrMalformedEscape.
func UnescapeText(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}

		i++
		if i == len(s) {
			return "", errors.Wrap(ErrMalformedEscape, "trailing backslash")
		}

		switch s[i] {
		case 'n', 'N':
			b.WriteByte('\n')
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String(), nil
}

// encodeParamValue applies RFC 6868 caret encoding to a parameter value.
// Parameter values are quoted rather than backslash-escaped, so double
// quotes and line breaks need their own encoding.
func encodeParamValue(s string) string {
	if !strings.ContainsAny(s, "^\"\r\n") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '^':
			b.WriteString("^^")
		case '"':
			b.WriteString("^'")
		case '\n':
			b.WriteString("^n")
		case '\r':
			// CRLF and bare CR both collapse to the newline escape.
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			b.WriteString("^n")
		default:
			b.WriteByte(s[i])
		}
	}

	return b.String()
}

// decodeParamValue reverses encodeParamValue. A caret followed by any
// other character is left untouched, as RFC 6868 instructs.
func decodeParamValue(s string) string {
	if !strings.ContainsRune(s, '^') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '^' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}

		switch s[i+1] {
		case '^':
			b.WriteByte('^')
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case '\'':
			b.WriteByte('"')
			i++
		default:
			b.WriteByte('^')
		}
	}

	return b.String()
}
