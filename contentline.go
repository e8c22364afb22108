package ical

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
)

// A paramEntry keeps the original spelling of a parameter name next to
// its values.
type paramEntry struct {
	name   string
	values []string
}

// Parameters is an ordered, case-insensitive set of property parameters.
// Iteration follows insertion order; re-setting a name overwrites its
// values in place. The zero value is ready to use.
type Parameters struct {
	entries []paramEntry
	index   map[string]int
}

// Set stores values under name, replacing any previous values. The first
// spelling of the name is kept for output.
func (p *Parameters) Set(name string, values ...string) {
	key := strings.ToUpper(name)

	if i, ok := p.index[key]; ok {
		p.entries[i].values = values
		return
	}

	if p.index == nil {
		p.index = make(map[string]int)
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, paramEntry{name: name, values: values})
}

// Get returns the first value stored under name.
func (p *Parameters) Get(name string) (string, bool) {
	vs := p.GetAll(name)
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// GetAll returns every value stored under name, or nil if absent.
func (p *Parameters) GetAll(name string) []string {
	i, ok := p.index[strings.ToUpper(name)]
	if !ok {
		return nil
	}
	return p.entries[i].values
}

// Has reports whether name is present.
func (p *Parameters) Has(name string) bool {
	_, ok := p.index[strings.ToUpper(name)]
	return ok
}

// Len returns the number of distinct parameter names.
func (p *Parameters) Len() int {
	return len(p.entries)
}

// Each calls fn for every parameter in insertion order.
func (p *Parameters) Each(fn func(name string, values []string)) {
	for _, e := range p.entries {
		fn(e.name, e.values)
	}
}

// A ContentLine is one logical NAME;PARAMS:VALUE record. Value holds the
// raw wire text; escaping is undone by the value decoders, not here.
type ContentLine struct {
	Name   string
	Params Parameters
	Value  string
}

// parseContentLine splits one logical line into name, parameters and raw
// value, driving the lexer the way the token grammar dictates.
func parseContentLine(line string) (*ContentLine, error) {
	l := lex(line)
	cl := &ContentLine{}

	name := l.nextItem()
	if name.typ == itemError {
		return nil, errors.Wrap(ErrMalformedContentLine, name.val)
	}
	if name.typ != itemName {
		return nil, errors.Wrapf(ErrMalformedContentLine, "found %s, expected a name", name)
	}
	cl.Name = name.val

	for {
		sep := l.nextItem()

		switch sep.typ {
		case itemColon:
			value := l.nextItem()
			if value.typ == itemError {
				return nil, errors.Wrap(ErrMalformedContentLine, value.val)
			}
			if value.typ != itemValue {
				return nil, errors.Wrapf(ErrMalformedContentLine, "found %s, expected a value", value)
			}
			cl.Value = value.val
			return cl, nil

		case itemSemiColon:
			if err := scanParam(l, &cl.Params); err != nil {
				return nil, err
			}

		case itemError:
			return nil, errors.Wrap(ErrMalformedContentLine, sep.val)

		default:
			return nil, errors.Wrapf(ErrMalformedContentLine, "found %s, expected \":\" or \";\"", sep)
		}
	}
}

// scanParam reads one KEY=VALUE[,VALUE...] parameter after a semicolon.
func scanParam(l *lexer, params *Parameters) error {
	name := l.nextItem()
	if name.typ == itemError {
		return errors.Wrap(ErrMalformedContentLine, name.val)
	}
	if name.typ != itemParamName {
		return errors.Wrapf(ErrMalformedContentLine, "found %s, expected a param-name", name)
	}

	eq := l.nextItem()
	if eq.typ == itemError {
		return errors.Wrap(ErrMalformedContentLine, eq.val)
	}
	if eq.typ != itemEqual {
		return errors.Wrapf(ErrMalformedContentLine, "found %s, expected \"=\"", eq)
	}

	var values []string
	for {
		v := l.nextItem()
		if v.typ == itemError {
			return errors.Wrap(ErrMalformedContentLine, v.val)
		}
		if v.typ != itemParamValue {
			return errors.Wrapf(ErrMalformedContentLine, "found %s, expected a param-value", v)
		}
		values = append(values, decodeParamValue(v.val))

		// A comma continues the value list; anything else belongs to the
		// caller, so peek by re-running the grammar from the queue.
		if !l.acceptComma() {
			break
		}
	}

	params.Set(name.val, values...)
	return nil
}

// acceptComma consumes the next item if it is a comma and pushes it back
// otherwise.
func (l *lexer) acceptComma() bool {
	it := l.nextItem()
	if it.typ == itemComma {
		return true
	}
	l.items = append([]item{it}, l.items...)
	return false
}

// compose renders the content line back into its unfolded wire form.
// Parameter values containing a colon, semicolon or comma are
// double-quoted; double quotes and line breaks inside them are
// caret-encoded first (RFC 6868).
func (cl *ContentLine) compose(buf *bytes.Buffer) {
	buf.WriteString(cl.Name)

	cl.Params.Each(func(name string, values []string) {
		buf.WriteByte(';')
		buf.WriteString(name)
		buf.WriteByte('=')
		for i, v := range values {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeParamValue(buf, v)
		}
	})

	buf.WriteByte(':')
	buf.WriteString(cl.Value)
}

func writeParamValue(buf *bytes.Buffer, v string) {
	encoded := encodeParamValue(v)

	if strings.ContainsAny(encoded, ":;,") {
		buf.WriteByte('"')
		buf.WriteString(encoded)
		buf.WriteByte('"')
		return
	}
	buf.WriteString(encoded)
}
