// Package birth resolves user-supplied birth date, time and place into a
// zoned timestamp.
package birth

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // gazetteer zones must resolve on hosts without zoneinfo

	"github.com/kailas-cloud/astrorag/internal/domain"
)

const (
	dateLayout = "2006-01-02"
)

var clockLayouts = []string{"15:04", "15:04:05"}

// Context is a resolved birth moment.
type Context struct {
	Time  time.Time
	Place string
	// Zone is the IANA zone name used for Time. Empty when unresolved.
	Zone string
	// Resolved is false when the place could not be mapped to a zone and
	// Time is a naive UTC timestamp.
	Resolved bool
	// HasClock is false when no time of day was supplied.
	HasClock bool
}

// Date returns the birth date in YYYY-MM-DD form.
func (c Context) Date() string {
	return c.Time.Format(dateLayout)
}

// Clock returns the birth time in HH:MM form, or "" when none was given.
func (c Context) Clock() string {
	if !c.HasClock {
		return ""
	}
	return c.Time.Format("15:04")
}

// Locator maps a free-form place to an IANA zone name.
type Locator interface {
	Locate(place string) (string, bool)
}

// Resolver parses birth details.
type Resolver struct {
	locator Locator
}

// NewResolver creates a resolver. A nil locator uses the built-in gazetteer.
func NewResolver(locator Locator) *Resolver {
	if locator == nil {
		locator = DefaultGazetteer()
	}
	return &Resolver{locator: locator}
}

// Resolve parses date (YYYY-MM-DD), optional clock (HH:MM[:SS]) and place.
// tzOverride, when set, wins over the gazetteer. An unknown place yields an
// unresolved UTC context, not an error.
func (r *Resolver) Resolve(date, clock, place, tzOverride string) (Context, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return Context{}, fmt.Errorf("%w: birth date is required", domain.ErrInvalidInput)
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return Context{}, fmt.Errorf("%w: birth date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	var hh, mm, ss int
	clock = strings.TrimSpace(clock)
	hasClock := clock != ""
	if hasClock {
		t, err := parseClock(clock)
		if err != nil {
			return Context{}, err
		}
		hh, mm, ss = t.Clock()
	}

	place = sanitize(place)
	out := Context{Place: place, HasClock: hasClock}

	loc, zone, err := r.zone(place, strings.TrimSpace(tzOverride))
	if err != nil {
		return Context{}, err
	}
	if loc == nil {
		loc = time.UTC
	} else {
		out.Zone = zone
		out.Resolved = true
	}
	out.Time = time.Date(day.Year(), day.Month(), day.Day(), hh, mm, ss, 0, loc)
	return out, nil
}

func (r *Resolver) zone(place, override string) (*time.Location, string, error) {
	if override != "" {
		loc, err := time.LoadLocation(override)
		if err != nil {
			return nil, "", fmt.Errorf("%w: unknown time zone %q", domain.ErrInvalidInput, override)
		}
		return loc, override, nil
	}
	if place == "" {
		return nil, "", nil
	}
	name, ok := r.locator.Locate(place)
	if !ok {
		return nil, "", nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Gazetteer entries are static; a failure here means a broken table.
		return nil, "", errors.Join(domain.ErrInternal, err)
	}
	return loc, name, nil
}

func parseClock(clock string) (time.Time, error) {
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, clock); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: birth time must be HH:MM", domain.ErrInvalidInput)
}

func sanitize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
