package ical

import (
	"bytes"
	"io"
	"strings"
)

// Format writes the component tree to the provided io.Writer as an
// iCalendar document: CRLF line endings, lines folded at 75 octets.
// Serialization is the exact inverse of parsing: BEGIN, the properties in
// container order, each child depth-first, then END.
func Format(w io.Writer, c *Component) error {
	var buf bytes.Buffer
	formatComponent(&buf, c)
	_, err := buf.WriteTo(w)
	return err
}

// FormatString renders the component tree to a string.
func FormatString(c *Component) string {
	var buf bytes.Buffer
	formatComponent(&buf, c)
	return buf.String()
}

func formatComponent(buf *bytes.Buffer, c *Component) {
	name := strings.ToUpper(c.Name)

	foldLine(buf, "BEGIN:"+name)
	c.Properties.Each(func(p *Property) {
		formatProperty(buf, p)
	})
	for _, child := range c.Children {
		formatComponent(buf, child)
	}
	foldLine(buf, "END:"+name)
}

func formatProperty(buf *bytes.Buffer, p *Property) {
	cl := ContentLine{
		Name:   p.Name,
		Params: p.Params,
		Value:  p.Value.Encode(),
	}

	var line bytes.Buffer
	cl.compose(&line)
	foldLine(buf, line.String())
}
