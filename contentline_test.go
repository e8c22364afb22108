package ical

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseContentLine(t *testing.T) {
	cl, err := parseContentLine("DTSTART;TZID=America/New_York;X-FOO=1,2:19970714T170000")
	if err != nil {
		t.Fatalf("parseContentLine() = %v", err)
	}

	if cl.Name != "DTSTART" {
		t.Errorf("Name = %q", cl.Name)
	}
	if cl.Value != "19970714T170000" {
		t.Errorf("Value = %q", cl.Value)
	}
	if tzid, _ := cl.Params.Get("tzid"); tzid != "America/New_York" {
		t.Errorf("TZID = %q, lookup should be case-insensitive", tzid)
	}
	if foo := cl.Params.GetAll("X-FOO"); len(foo) != 2 || foo[0] != "1" || foo[1] != "2" {
		t.Errorf("X-FOO = %v", foo)
	}
}

func TestParseContentLineQuotedParam(t *testing.T) {
	cl, err := parseContentLine(`ATTENDEE;CN="Alpha, Inc.";ROLE=CHAIR:mailto:a@example.com`)
	if err != nil {
		t.Fatalf("parseContentLine() = %v", err)
	}

	if cn, _ := cl.Params.Get("CN"); cn != "Alpha, Inc." {
		t.Errorf("CN = %q", cn)
	}
	if role, _ := cl.Params.Get("ROLE"); role != "CHAIR" {
		t.Errorf("ROLE = %q", role)
	}
	if cl.Value != "mailto:a@example.com" {
		t.Errorf("Value = %q", cl.Value)
	}
}

func TestParseContentLineErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"SUMMARY",
		":no-name",
		"A;B:value",
		`A;B="unterminated:value`,
	} {
		_, err := parseContentLine(input)
		if !errors.Is(err, ErrMalformedContentLine) {
			t.Errorf("parseContentLine(%q) = %v, want ErrMalformedContentLine", input, err)
		}
	}
}

func TestComposeQuotesWhenNeeded(t *testing.T) {
	cl := &ContentLine{Name: "ATTENDEE", Value: "mailto:a@example.com"}
	cl.Params.Set("CN", "Alpha, Inc.")
	cl.Params.Set("ROLE", "CHAIR")

	var buf bytes.Buffer
	cl.compose(&buf)

	want := `ATTENDEE;CN="Alpha, Inc.";ROLE=CHAIR:mailto:a@example.com`
	if got := buf.String(); got != want {
		t.Errorf("compose() = %q, want %q", got, want)
	}

	// The quoted value must survive a round trip.
	back, err := parseContentLine(buf.String())
	if err != nil {
		t.Fatalf("parseContentLine() = %v", err)
	}
	if cn, _ := back.Params.Get("CN"); cn != "Alpha, Inc." {
		t.Errorf("re-parsed CN = %q", cn)
	}
}

func TestComposeCaretEncodesParams(t *testing.T) {
	cl := &ContentLine{Name: "X-NOTE", Value: "v"}
	cl.Params.Set("X-COMMENT", `say "hi"`)

	var buf bytes.Buffer
	cl.compose(&buf)

	want := `X-NOTE;X-COMMENT=say ^'hi^':v`
	if got := buf.String(); got != want {
		t.Errorf("compose() = %q, want %q", got, want)
	}

	back, err := parseContentLine(buf.String())
	if err != nil {
		t.Fatalf("parseContentLine() = %v", err)
	}
	if v, _ := back.Params.Get("X-COMMENT"); v != `say "hi"` {
		t.Errorf("re-parsed X-COMMENT = %q", v)
	}
}

func TestParametersOverwrite(t *testing.T) {
	var p Parameters
	p.Set("TZID", "Europe/Paris")
	p.Set("VALUE", "DATE")
	p.Set("tzid", "America/New_York")

	if p.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", p.Len())
	}
	if v, _ := p.Get("TZID"); v != "America/New_York" {
		t.Errorf("TZID = %q, want last write to win", v)
	}

	// Insertion order is preserved across the overwrite.
	var names []string
	p.Each(func(name string, _ []string) {
		names = append(names, name)
	})
	if len(names) != 2 || names[0] != "TZID" || names[1] != "VALUE" {
		t.Errorf("iteration order = %v", names)
	}
}
