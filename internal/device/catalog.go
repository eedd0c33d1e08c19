package device

import (
	"errors"
	"fmt"
	"strings"
)

// Descriptor describes one physical display device.
type Descriptor struct {
	ID         string
	Name       string
	ScreenSize string // diagonal label, e.g. `8"`
	Width      int    // native pixel width
	Height     int    // native pixel height
	Year       int
}

// Title returns the name with the release year, e.g. "Echo Show 8 (2023)".
func (d Descriptor) Title() string {
	return fmt.Sprintf("%s (%d)", d.Name, d.Year)
}

// Resolution returns "WIDTH×HEIGHT".
func (d Descriptor) Resolution() string {
	return fmt.Sprintf("%d×%d", d.Width, d.Height)
}

// AspectRatio returns width divided by height.
func (d Descriptor) AspectRatio() float64 {
	if d.Height == 0 {
		return 0
	}
	return float64(d.Width) / float64(d.Height)
}

// AspectLabel formats the aspect ratio as "1.60:1".
func (d Descriptor) AspectLabel() string {
	return fmt.Sprintf("%.2f:1", d.AspectRatio())
}

var (
	ErrEmptyID       = errors.New("device id is empty")
	ErrDuplicateID   = errors.New("duplicate device id")
	ErrBadResolution = errors.New("device resolution must be positive")
)

// Builtin returns the Echo Show family in display order.
func Builtin() []Descriptor {
	return []Descriptor{
		{ID: "echo-show-5", Name: "Echo Show 5", ScreenSize: `5.5"`, Width: 960, Height: 480, Year: 2023},
		{ID: "echo-show-8-2023", Name: "Echo Show 8", ScreenSize: `8"`, Width: 1280, Height: 800, Year: 2023},
		{ID: "echo-show-8-2025", Name: "Echo Show 8", ScreenSize: `8.7"`, Width: 1280, Height: 800, Year: 2025},
		{ID: "echo-show-10", Name: "Echo Show 10", ScreenSize: `10.1"`, Width: 1280, Height: 800, Year: 2023},
		{ID: "echo-show-15", Name: "Echo Show 15", ScreenSize: `15.6"`, Width: 1920, Height: 1080, Year: 2024},
		{ID: "echo-show-21", Name: "Echo Show 21", ScreenSize: `21"`, Width: 1920, Height: 1080, Year: 2024},
	}
}

// DefaultSelection is the subset selected when no preference is configured.
var DefaultSelection = []string{"echo-show-8-2023", "echo-show-15"}

// Catalog is an immutable, ordered set of descriptors.
type Catalog struct {
	devices []Descriptor
	index   map[string]int
}

// NewCatalog validates devs and returns a catalog that preserves their order.
func NewCatalog(devs []Descriptor) (*Catalog, error) {
	c := &Catalog{
		devices: make([]Descriptor, 0, len(devs)),
		index:   make(map[string]int, len(devs)),
	}
	for _, d := range devs {
		d.ID = strings.TrimSpace(d.ID)
		if d.ID == "" {
			return nil, ErrEmptyID
		}
		if _, ok := c.index[d.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, d.ID)
		}
		if d.Width <= 0 || d.Height <= 0 {
			return nil, fmt.Errorf("%w: %s is %dx%d", ErrBadResolution, d.ID, d.Width, d.Height)
		}
		c.index[d.ID] = len(c.devices)
		c.devices = append(c.devices, d)
	}
	return c, nil
}

// MustBuiltin returns a catalog of the built-in devices.
func MustBuiltin() *Catalog {
	c, err := NewCatalog(Builtin())
	if err != nil {
		panic(err)
	}
	return c
}

// All returns a copy of every descriptor in catalog order.
func (c *Catalog) All() []Descriptor {
	out := make([]Descriptor, len(c.devices))
	copy(out, c.devices)
	return out
}

// IDs returns every id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.devices))
	for i, d := range c.devices {
		ids[i] = d.ID
	}
	return ids
}

// Lookup finds a descriptor by id.
func (c *Catalog) Lookup(id string) (Descriptor, bool) {
	i, ok := c.index[id]
	if !ok {
		return Descriptor{}, false
	}
	return c.devices[i], true
}

// Has reports whether id names a catalog device.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// Len returns the number of devices.
func (c *Catalog) Len() int {
	return len(c.devices)
}
