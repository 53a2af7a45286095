// Package timecodec converts the compact YYYYMMDDHHmm timestamps used for replay windows
// between the server's local zone and the UTC form the provider requires.
package timecodec

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the compact 12 digit timestamp layout (YYYYMMDDHHmm)
const Layout = "200601021504"

// ErrInvalidFormat is returned when a value is not exactly 12 ASCII digits
var ErrInvalidFormat = errors.New("timestamp must be exactly 12 digits (YYYYMMDDHHmm)")

// Validate checks that s is exactly 12 ASCII digits
func Validate(s string) error {
	if len(s) != len(Layout) {
		return ErrInvalidFormat
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ErrInvalidFormat
		}
	}
	return nil
}

/* ToProviderUTC interprets local in loc (time.Local when nil) and returns it in UTC
 * An ambiguous fall-back wall time takes the first occurrence. A wall time inside a
 * spring-forward gap takes the offset after the transition, lands before it in UTC and
 * so reads back one hour earlier through ToLocal.
 */
func ToProviderUTC(local string, loc *time.Location) (string, error) {
	t, err := parse(local, loc)
	if err != nil {
		return "", err
	}
	return t.UTC().Format(Layout), nil
}

// ToLocal is the inverse of ToProviderUTC
func ToLocal(utc string, loc *time.Location) (string, error) {
	t, err := parse(utc, time.UTC)
	if err != nil {
		return "", err
	}
	return t.In(location(loc)).Format(Layout), nil
}

func parse(s string, loc *time.Location) (time.Time, error) {
	if err := Validate(s); err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(Layout, s, location(loc))
	if err != nil {
		// month 13, day 32 and friends
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return t, nil
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
