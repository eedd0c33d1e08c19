package device

import (
	"errors"
	"testing"
)

func TestBuiltinCatalogOrderAndLookup(t *testing.T) {
	c := MustBuiltin()
	if c.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", c.Len())
	}
	ids := c.IDs()
	if ids[0] != "echo-show-5" || ids[5] != "echo-show-21" {
		t.Fatalf("IDs() = %v, want echo-show-5 first and echo-show-21 last", ids)
	}

	d, ok := c.Lookup("echo-show-8-2023")
	if !ok {
		t.Fatal("Lookup(echo-show-8-2023) not found")
	}
	if d.Width != 1280 || d.Height != 800 || d.Year != 2023 {
		t.Fatalf("Lookup = %#v, want 1280x800 2023", d)
	}
	if _, ok := c.Lookup("nope"); ok {
		t.Fatal("Lookup(nope) found, want missing")
	}
	for _, id := range DefaultSelection {
		if !c.Has(id) {
			t.Fatalf("DefaultSelection contains %q, not in catalog", id)
		}
	}
}

func TestDescriptorFormatting(t *testing.T) {
	d := Descriptor{Name: "Echo Show 8", ScreenSize: `8"`, Width: 1280, Height: 800, Year: 2023}
	if got := d.Title(); got != "Echo Show 8 (2023)" {
		t.Fatalf("Title() = %q", got)
	}
	if got := d.Resolution(); got != "1280×800" {
		t.Fatalf("Resolution() = %q", got)
	}
	if got := d.AspectLabel(); got != "1.60:1" {
		t.Fatalf("AspectLabel() = %q, want 1.60:1", got)
	}

	wide := Descriptor{Width: 1920, Height: 1080}
	if got := wide.AspectLabel(); got != "1.78:1" {
		t.Fatalf("AspectLabel() = %q, want 1.78:1", got)
	}
	if got := (Descriptor{}).AspectRatio(); got != 0 {
		t.Fatalf("zero AspectRatio() = %v, want 0", got)
	}
}

func TestNewCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		devs []Descriptor
		want error
	}{
		{"empty id", []Descriptor{{ID: " ", Width: 1, Height: 1}}, ErrEmptyID},
		{"duplicate", []Descriptor{{ID: "a", Width: 1, Height: 1}, {ID: "a", Width: 1, Height: 1}}, ErrDuplicateID},
		{"zero width", []Descriptor{{ID: "a", Height: 1}}, ErrBadResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.devs)
			if !errors.Is(err, tt.want) {
				t.Fatalf("NewCatalog error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAllReturnsCopy(t *testing.T) {
	c := MustBuiltin()
	all := c.All()
	all[0].Name = "changed"
	if d, _ := c.Lookup("echo-show-5"); d.Name != "Echo Show 5" {
		t.Fatalf("catalog mutated through All(): %q", d.Name)
	}
}
