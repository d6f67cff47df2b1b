package calendar

import (
	"fmt"
	"time"
)

// Resolver answers "what day is it" in the reference zone.  It is safe for
// concurrent use.
type Resolver struct {
	loc *time.Location
	now func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithClock replaces time.Now.  Tests use it to pin the wall clock.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// NewResolver loads the reference zone.  There is no fallback: if the zone
// database is unusable the error is returned and the caller should stop.
func NewResolver(opts ...Option) (*Resolver, error) {
	loc, err := time.LoadLocation(ReferenceZone)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", ReferenceZone, err)
	}
	r := &Resolver{loc: loc, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Location returns the loaded reference zone.
func (r *Resolver) Location() *time.Location { return r.loc }

// Now returns the current instant in the reference zone.
func (r *Resolver) Now() time.Time { return r.now().In(r.loc) }

// ReferenceToday is the current calendar date in the reference zone.
func (r *Resolver) ReferenceToday() Date {
	return DateOf(r.Now())
}

// IsToday reports whether d is the reference today.
func (r *Resolver) IsToday(d Date) bool {
	return d == r.ReferenceToday()
}

// Days returns the labelled window anchored at the reference today.
func (r *Resolver) Days() []Day {
	return Days(r.ReferenceToday())
}
