package timezone

import "time"

const DefaultTimezone = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

// Clock returns the now-function used for stored timestamps. Values are
// always UTC, so sqlite's textual ordering matches instant ordering, and are
// truncated to microseconds so they survive a round trip through Postgres.
// Convert with Location at the response boundary.
func Clock() func() time.Time {
	return func() time.Time {
		return time.Now().UTC().Truncate(time.Microsecond)
	}
}
