package ical

import "strings"

// A Component is one BEGIN:X ... END:X block: a name, a property
// container and an ordered list of child components. A component owns its
// children; traversal is top-down and no parent back-references exist.
//
// A fully built tree may be shared between concurrent readers; writers
// need exclusive access.
type Component struct {
	Name       string
	Properties Properties
	Children   []*Component
}

// NewComponent creates an empty component with the given name.
func NewComponent(name string) *Component {
	return &Component{Name: strings.ToUpper(name)}
}

// AddChild appends child to the component.
func (c *Component) AddChild(child *Component) {
	c.Children = append(c.Children, child)
}

// ChildrenByName returns the direct children with the given name,
// compared case-insensitively.
func (c *Component) ChildrenByName(name string) []*Component {
	var out []*Component
	for _, child := range c.Children {
		if strings.EqualFold(child.Name, name) {
			out = append(out, child)
		}
	}
	return out
}

// Walk visits the component and every descendant depth-first in document
// order.
func (c *Component) Walk(fn func(*Component)) {
	fn(c)
	for _, child := range c.Children {
		child.Walk(fn)
	}
}

// SetText replaces the named property with a single TEXT value.
func (c *Component) SetText(name, value string) {
	c.Properties.Set(&Property{Name: name, Value: Text(value)})
}

// SetDateTime replaces the named property with a DATE-TIME value. Zoned
// values also get their TZID parameter set.
func (c *Component) SetDateTime(name string, dt DateTime) {
	p := &Property{Name: name, Value: dt}
	if dt.TZID != "" {
		p.Params.Set("TZID", dt.TZID)
	}
	c.Properties.Set(p)
}

// Text returns the named property decoded as its text content, or "" if
// the property is absent or not textual.
func (c *Component) Text(name string) string {
	p, err := c.Properties.Get(name)
	if err != nil {
		return ""
	}
	switch v := p.Value.(type) {
	case Text:
		return string(v)
	case Raw:
		return string(v)
	}
	return ""
}
