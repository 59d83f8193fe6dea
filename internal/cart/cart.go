package cart

import (
	"github.com/igaramadana/DataQu/internal/domain" // Importing domain models
)

// Line is one package entry in the cart with its purchase quantity
type Line struct {
	Package  domain.Package `json:"package"`  // The package being purchased
	Quantity int            `json:"quantity"` // Positive purchase quantity
}

// Subtotal returns price x quantity for this line
func (l Line) Subtotal() int64 {
	return l.Package.Price * int64(l.Quantity)
}

// Cart is the in-memory ordered collection of lines for one session.
// At most one line exists per package ID; existing lines keep their
// position and new lines append.
type Cart struct {
	lines []Line // Ordered cart lines
}

// New creates an empty cart
func New() *Cart {
	return &Cart{}
}

// Add increments the quantity of an existing line for this package,
// or appends a new line with quantity 1
func (c *Cart) Add(pkg domain.Package) {
	for i := range c.lines {
		// Repeated add of the same package bumps the quantity
		if c.lines[i].Package.ID == pkg.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, Line{Package: pkg, Quantity: 1}) // First add appends
}

// Remove deletes the line with the matching package ID; no-op if absent
func (c *Cart) Remove(packageID string) {
	for i := range c.lines {
		if c.lines[i].Package.ID == packageID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...) // Drop the line, keep order
			return
		}
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.lines = nil
}

// Total returns the sum of price x quantity over all lines; 0 when empty
func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal() // Accumulate line subtotals
	}
	return total
}

// Count returns the sum of quantities over all lines (badge count, not line count)
func (c *Cart) Count() int {
	var count int
	for _, l := range c.lines {
		count += l.Quantity // Accumulate quantities
	}
	return count
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines) // Copy so callers cannot mutate cart state
	return out
}

// Len returns the number of distinct lines
func (c *Cart) Len() int {
	return len(c.lines)
}
