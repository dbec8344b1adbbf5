package domainerrors

// Collector accumulates field violations so callers can report every failing
// check in one response instead of stopping at the first.
type Collector struct {
	violations []Violation
}

// Add records one field violation.
func (c *Collector) Add(field, message string) {
	c.violations = append(c.violations, Violation{Field: field, Message: message})
}

// Empty reports whether no violations were recorded.
func (c *Collector) Empty() bool { return len(c.violations) == 0 }

// Violations returns the recorded violations in insertion order.
func (c *Collector) Violations() []Violation { return c.violations }

// Err returns a CodeValidation error carrying every recorded violation, or
// nil when the collector is empty.
func (c *Collector) Err() error {
	if len(c.violations) == 0 {
		return nil
	}
	return NewValidation(c.violations)
}
