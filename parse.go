package ical

import (
	"io"
	"strings"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// A Parser turns an iCalendar document into a component tree. The zero
// value parses strictly: the first malformed line aborts the parse.
type Parser struct {
	// Permissive retains a property whose value fails to decode as a Raw
	// value instead of aborting. Structural errors (bad content lines,
	// unbalanced components) abort either way.
	Permissive bool

	// Logger receives one entry per property retained by Permissive.
	// Nil means the logrus standard logger.
	Logger logrus.FieldLogger
}

// Parse reads one iCalendar document strictly. It is shorthand for
// (&Parser{}).Parse. It's up to the caller to close the io.Reader.
func Parse(r io.Reader) (*Component, error) {
	return (&Parser{}).Parse(r)
}

// ParseString parses a document held in memory.
func ParseString(s string) (*Component, error) {
	return (&Parser{}).Parse(strings.NewReader(s))
}

// Parse reads the document source to completion, unfolds it and builds
// the component tree. The input must contain exactly one top-level
// component, conventionally VCALENDAR.
func (p *Parser) Parse(r io.Reader) (*Component, error) {
	data, err := io.ReadAll(utfbom.SkipOnly(r))
	if err != nil {
		return nil, errors.Wrapf(ErrTruncatedInput, "reading document source: %v", err)
	}
	return p.parseLines(unfold(string(data)))
}

func (p *Parser) parseLines(lines []logicalLine) (*Component, error) {
	var stack []*Component
	var root *Component

	for _, ln := range lines {
		cl, err := parseContentLine(ln.text)
		if err != nil {
			return nil, &ParseError{Line: ln.num, Err: err}
		}

		switch {
		case strings.EqualFold(cl.Name, "BEGIN"):
			if root != nil && len(stack) == 0 {
				return nil, &ParseError{Line: ln.num, Err: errors.Wrap(ErrUnbalancedComponent, "more than one top-level component")}
			}
			stack = append(stack, NewComponent(cl.Value))

		case strings.EqualFold(cl.Name, "END"):
			if len(stack) == 0 {
				return nil, &ParseError{Line: ln.num, Err: errors.Wrapf(ErrUnbalancedComponent, "END:%s without matching BEGIN", cl.Value)}
			}
			top := stack[len(stack)-1]
			if !strings.EqualFold(top.Name, cl.Value) {
				return nil, &ParseError{Line: ln.num, Err: errors.Wrapf(ErrUnbalancedComponent, "found END:%s, expected END:%s", cl.Value, top.Name)}
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = top
			} else {
				stack[len(stack)-1].AddChild(top)
			}

		default:
			if len(stack) == 0 {
				return nil, &ParseError{Line: ln.num, Err: errors.Wrapf(ErrUnbalancedComponent, "property %s outside of any component", cl.Name)}
			}

			prop, err := p.decodeProperty(cl, ln.num)
			if err != nil {
				return nil, err
			}
			stack[len(stack)-1].Properties.Add(prop)
		}
	}

	if len(stack) > 0 {
		return nil, errors.Wrapf(ErrUnclosedComponent, "input ended inside BEGIN:%s", stack[len(stack)-1].Name)
	}
	if root == nil {
		return nil, errors.Wrap(ErrTruncatedInput, "no components in input")
	}

	return root, nil
}

// decodeProperty turns a parsed content line into a typed property. In
// permissive mode an undecodable value is kept as Raw wire text and
// logged, so the document survives with nothing dropped.
func (p *Parser) decodeProperty(cl *ContentLine, line int) (*Property, error) {
	value, err := decodePropertyValue(cl.Name, cl.Value, cl.Params)
	if err != nil {
		if !p.Permissive || !retainable(err) {
			return nil, &ParseError{Line: line, Property: cl.Name, Raw: cl.Value, Err: err}
		}

		p.logger().WithFields(logrus.Fields{
			"line":     line,
			"property": cl.Name,
		}).WithError(err).Warn("retaining malformed property value as raw text")
		value = Raw(cl.Value)
	}

	return &Property{Name: cl.Name, Params: cl.Params, Value: value}, nil
}

// retainable reports whether an error concerns only the property's value,
// so permissive mode may keep the raw text and move on.
func retainable(err error) bool {
	switch errors.Cause(err) {
	case ErrMalformedValue, ErrMalformedBinary, ErrMalformedEscape, ErrUnknownValueType:
		return true
	}
	return false
}

func (p *Parser) logger() logrus.FieldLogger {
	if p.Logger != nil {
		return p.Logger
	}
	return logrus.StandardLogger()
}
