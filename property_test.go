package ical

import (
	"errors"
	"testing"
)

func TestPropertiesAddAndGet(t *testing.T) {
	var ps Properties
	ps.Add(&Property{Name: "ATTENDEE", Value: Raw("mailto:one@example.com")})
	ps.Add(&Property{Name: "SUMMARY", Value: Text("hello")})
	ps.Add(&Property{Name: "attendee", Value: Raw("mailto:two@example.com")})

	if ps.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", ps.Len())
	}

	// Get returns the first entry, case-insensitively.
	first, err := ps.Get("Attendee")
	if err != nil {
		t.Fatal(err)
	}
	if first.Value != Raw("mailto:one@example.com") {
		t.Errorf("Get() = %#v", first.Value)
	}

	all := ps.GetAll("ATTENDEE")
	if len(all) != 2 {
		t.Fatalf("GetAll() = %d entries, want 2", len(all))
	}
	if all[1].Value != Raw("mailto:two@example.com") {
		t.Errorf("GetAll()[1] = %#v", all[1].Value)
	}
}

func TestPropertiesMissing(t *testing.T) {
	var ps Properties

	_, err := ps.Get("DTSTART")
	if !errors.Is(err, ErrMissingProperty) {
		t.Errorf("Get() = %v, want ErrMissingProperty", err)
	}
	if ps.Has("DTSTART") {
		t.Error("Has() = true on empty container")
	}
	if all := ps.GetAll("DTSTART"); all != nil {
		t.Errorf("GetAll() = %v, want nil", all)
	}
}

func TestPropertiesSetReplaces(t *testing.T) {
	var ps Properties
	ps.Add(&Property{Name: "SUMMARY", Value: Text("one")})
	ps.Add(&Property{Name: "SUMMARY", Value: Text("two")})
	ps.Add(&Property{Name: "LOCATION", Value: Text("here")})

	ps.Set(&Property{Name: "summary", Value: Text("three")})

	if ps.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", ps.Len())
	}
	got, err := ps.Get("SUMMARY")
	if err != nil {
		t.Fatal(err)
	}
	if got.Value != Text("three") {
		t.Errorf("SUMMARY = %#v", got.Value)
	}

	// LOCATION is untouched and still indexed after the rebuild.
	loc, err := ps.Get("LOCATION")
	if err != nil {
		t.Fatal(err)
	}
	if loc.Value != Text("here") {
		t.Errorf("LOCATION = %#v", loc.Value)
	}
}

func TestPropertiesRemove(t *testing.T) {
	var ps Properties
	ps.Add(&Property{Name: "A", Value: Text("1")})
	ps.Add(&Property{Name: "B", Value: Text("2")})
	ps.Add(&Property{Name: "A", Value: Text("3")})

	ps.Remove("a")

	if ps.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ps.Len())
	}
	if ps.Has("A") {
		t.Error("Has(A) = true after Remove")
	}
	if _, err := ps.Get("B"); err != nil {
		t.Errorf("B lost after Remove: %v", err)
	}
}

func TestPropertiesOrder(t *testing.T) {
	var ps Properties
	for _, name := range []string{"UID", "DTSTAMP", "DTSTART", "SUMMARY"} {
		ps.Add(&Property{Name: name, Value: Text(name)})
	}

	var got []string
	ps.Each(func(p *Property) {
		got = append(got, p.Name)
	})

	want := []string{"UID", "DTSTAMP", "DTSTART", "SUMMARY"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}
