package repository

import (
	"context"

	"github.com/user/storefront-harvester/internal/entity"
)

// Element is an opaque handle to a DOM node. It is only valid for the Driver
// that returned it.
type Element any

// Lookup is the outcome of a single-element lookup. A miss is not an error.
type Lookup struct {
	Element Element
	Found   bool
}

// NotFound is the zero Lookup.
var NotFound = Lookup{}

// Driver defines the contract for a controllable browser session.
// Lookups return immediately whether or not the element is present; callers
// decide how long to wait. Errors are reserved for session-level failures.
type Driver interface {
	// Navigate opens url and returns once the DOM is interactive.
	Navigate(ctx context.Context, url string) error
	// FindElement returns the first element matching loc.
	FindElement(ctx context.Context, loc entity.Locator) (Lookup, error)
	// FindElements returns every element matching loc, empty if none.
	FindElements(ctx context.Context, loc entity.Locator) ([]Element, error)
	// ScrollTo scrolls the window to vertical offset y.
	ScrollTo(ctx context.Context, y int) error
	// ScrollIntoView scrolls until el is visible.
	ScrollIntoView(ctx context.Context, el Element) error
	// Click clicks el.
	Click(ctx context.Context, el Element) error
	// Text returns the rendered text of el.
	Text(ctx context.Context, el Element) (string, error)
	// Attribute returns the named attribute of el and whether it is present.
	// href and src values are resolved against the document location.
	Attribute(ctx context.Context, el Element, name string) (string, bool, error)
	// Close releases the session. It is safe to call more than once.
	Close() error
}

// DriverOpener acquires a new Driver session.
type DriverOpener func(ctx context.Context) (Driver, error)
