package ical

import (
	"bytes"
	"unicode/utf8"
)

const (
	crlf = "\r\n"

	// foldWidth is the maximum number of octets of content per physical
	// line (RFC 5545 section 3.1).
	foldWidth = 75
)

// A logicalLine is one unfolded contentline together with the 1-based
// physical line number where it started, kept for error reporting.
type logicalLine struct {
	text string
	num  int
}

// unfold splits src into logical content lines. CRLF, bare LF and bare CR
// are all accepted as terminators; a physical line starting with a single
// space or horizontal tab continues the previous logical line with that
// one marker character stripped. Blank physical lines are skipped.
func unfold(src string) []logicalLine {
	var lines []logicalLine
	num := 1

	for i := 0; i < len(src); {
		start := i
		for i < len(src) && src[i] != '\r' && src[i] != '\n' {
			i++
		}
		physical := src[start:i]

		// Consume one terminator, treating CRLF as a single break.
		if i < len(src) {
			if src[i] == '\r' && i+1 < len(src) && src[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
		}

		switch {
		case len(physical) > 0 && (physical[0] == ' ' || physical[0] == '\t') && len(lines) > 0:
			last := &lines[len(lines)-1]
			last.text += physical[1:]
		case len(physical) > 0 && (physical[0] == ' ' || physical[0] == '\t'):
			// Continuation with nothing to continue; keep the content.
			lines = append(lines, logicalLine{text: physical[1:], num: num})
		case physical != "":
			lines = append(lines, logicalLine{text: physical, num: num})
		}
		num++
	}

	return lines
}

// foldLine writes line to buf as one or more CRLF-terminated physical
// lines of at most foldWidth octets each. The split point is pulled
// backward until it lands on a UTF-8 rune boundary so no encoded
// character is ever divided across physical lines. Continuation lines
// start with exactly one space, which counts against their width.
func foldLine(buf *bytes.Buffer, line string) {
	width := foldWidth

	for len(line) > width {
		i := width
		for i > 0 && !utf8.RuneStart(line[i]) {
			i--
		}
		buf.WriteString(line[:i])
		buf.WriteString(crlf)
		buf.WriteByte(' ')
		line = line[i:]
		width = foldWidth - 1
	}

	buf.WriteString(line)
	buf.WriteString(crlf)
}
