package ical

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// item represents a token or text string returned from the scanner.
type item struct {
	typ itemType // The type of this item.
	pos int      // The starting position, in bytes, of this item in the input string.
	val string   // The value of this item.
}

func (i item) String() string {
	switch {
	case i.typ == itemEOF:
		return "EOF"
	case i.typ == itemError:
		return i.val
	case len(i.val) > 10:
		return fmt.Sprintf("%.10q...", i.val)
	}
	return fmt.Sprintf("%q", i.val)
}

// itemType identifies the type of lex items.
type itemType int

const (
	// Special tokens
	itemError itemType = iota
	itemEOF

	// Literals
	itemName
	itemParamName
	itemParamValue
	itemValue

	// Misc
	itemColon     // :
	itemSemiColon // ;
	itemEqual     // =
	itemComma     // ,
)

const eof = -1

// stateFn represents the state of the scanner as a function that returns the next state.
type stateFn func(*lexer) stateFn

// lexer holds the state of the scanner. It tokenizes exactly one logical
// content line; items are queued on demand, so no goroutine is involved
// and an aborted parse leaves nothing behind.
type lexer struct {
	input string  // the string being scanned
	state stateFn // the next lexing function to enter
	start int     // start position of this item
	pos   int     // current position in the input
	width int     // width of last rune read from input
	items []item  // queue of scanned items not yet delivered
}

// lex creates a new scanner for one logical line.
func lex(input string) *lexer {
	return &lexer{
		input: input,
		state: lexName,
	}
}

// nextItem returns the next item from the input, running the state
// machine until one is available.
func (l *lexer) nextItem() item {
	for len(l.items) == 0 {
		if l.state == nil {
			return item{itemEOF, l.pos, ""}
		}
		l.state = l.state(l)
	}

	it := l.items[0]
	l.items = l.items[1:]
	return it
}

// emit queues an item for delivery to the parser.
func (l *lexer) emit(t itemType) {
	l.items = append(l.items, item{t, l.start, l.input[l.start:l.pos]})
	l.start = l.pos
}

// ignore skips over the pending input before this point.
func (l *lexer) ignore() {
	l.start = l.pos
}

// next returns the next rune in the input.
func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += l.width
	return r
}

// backup steps back one rune. Can only be called once per call of next.
func (l *lexer) backup() {
	l.pos -= l.width
}

// errorf queues an error token and terminates the scan by returning a nil
// state.
func (l *lexer) errorf(format string, args ...interface{}) stateFn {
	l.items = append(l.items, item{itemError, l.start, fmt.Sprintf(format, args...)})
	return nil
}

// State functions

// lexContentLine dispatches on the separator after a name or param value.
func lexContentLine(l *lexer) stateFn {
	switch r := l.next(); {
	case r == ';':
		l.emit(itemSemiColon)
		return lexParamName
	case r == ':':
		l.emit(itemColon)
		return lexValue
	case r == ',':
		l.emit(itemComma)
		return lexParamValue
	case r == eof:
		return l.errorf("unexpected end of line, expected \":\"")
	default:
		return l.errorf("unrecognized character in content line: %#U", r)
	}
}

// lexName scans the name in the content line
//
// name       = iana-token / x-name
// iana-token = 1*(ALPHA / DIGIT / "-") ; iCalendar identifier registered with IANA
// x-name     = "X-" [vendorid "-"] 1*(ALPHA / DIGIT / "-") ; Reserved for experimental use.
// vendorid   = 3*(ALPHA / DIGIT) ; Vendor identification
func lexName(l *lexer) stateFn {
Loop:
	for {
		switch r := l.next(); {
		case isName(r):
			// absorb
		default:
			l.backup()
			if l.pos == l.start {
				return l.errorf("empty name in content line")
			}
			l.emit(itemName)
			break Loop
		}
	}
	return lexContentLine
}

// lexParamName scans the param-name in the content line
//
// param-name = iana-token / x-name
func lexParamName(l *lexer) stateFn {
Loop:
	for {
		switch r := l.next(); {
		case isName(r):
			// absorb
		default:
			l.backup()
			if l.pos == l.start {
				return l.errorf("empty parameter name")
			}
			l.emit(itemParamName)
			break Loop
		}
	}

	if r := l.next(); r != '=' {
		return l.errorf("missing \"=\" sign after param name, got %#U", r)
	}
	l.emit(itemEqual)
	return lexParamValue
}

// lexParamValue scans the param-value in the content line
//
// param-value   = paramtext / quoted-string
// paramtext     = *SAFE-CHAR
// quoted-string = DQUOTE *QSAFE-CHAR DQUOTE
// QSAFE-CHAR    = WSP / %x21 / %x23-7E / NON-US-ASCII ; Any character except CONTROL and DQUOTE
// SAFE-CHAR     = WSP / %x21 / %x23-2B / %x2D-39 / %x3C-7E / NON-US-ASCII ; Any character except CONTROL, DQUOTE, ";", ":", ","
func lexParamValue(l *lexer) stateFn {
	r := l.next()

	if r == '"' {
		l.ignore()
	QLoop:
		for {
			switch r := l.next(); {
			case isQSafeChar(r):
				// absorb
			default:
				l.backup()
				l.emit(itemParamValue)
				break QLoop
			}
		}

		if r := l.next(); r != '"' {
			return l.errorf("unterminated quoted parameter value")
		}
		l.ignore()
	} else {
		l.backup()
	Loop:
		for {
			switch r := l.next(); {
			case isSafeChar(r):
				// absorb
			default:
				l.backup()
				l.emit(itemParamValue)
				break Loop
			}
		}
	}

	return lexContentLine
}

// lexValue scans the value in the content line
//
// value      = *VALUE-CHAR
// VALUE-CHAR = WSP / %x21-7E / NON-US-ASCII ; Any textual character
func lexValue(l *lexer) stateFn {
	for {
		switch r := l.next(); {
		case unicode.IsGraphic(r) || r == ' ' || r == '\t':
			// absorb
		case r == eof:
			l.emit(itemValue)
			return nil
		default:
			return l.errorf("control character in value: %#U", r)
		}
	}
}

// rune helpers

func isName(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
}

func isQSafeChar(r rune) bool {
	return r != eof && !unicode.IsControl(r) && r != '"'
}

func isSafeChar(r rune) bool {
	return r != eof && !unicode.IsControl(r) && r != '"' && r != ';' && r != ':' && r != ','
}
