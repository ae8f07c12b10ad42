// Package localtime converts between the naive timestamps stored by the
// operational database and America/Sao_Paulo wall-clock time.
package localtime

import (
	"time"
	_ "time/tzdata"
)

// Zone is the IANA name of the business timezone
const Zone = "America/Sao_Paulo"

var location = mustLoad()

func mustLoad() *time.Location {
	loc, err := time.LoadLocation(Zone)
	if err != nil {
		// tzdata is embedded, so this only happens with a corrupt build
		panic(err)
	}
	return loc
}

// Location returns the business timezone
func Location() *time.Location {
	return location
}

// Now returns the current time in the business timezone
func Now() time.Time {
	return time.Now().In(location)
}

// Localize reinterprets a naive timestamp (read back from a "timestamp
// without time zone" column) as wall-clock time in the business timezone.
func Localize(naive time.Time) time.Time {
	if naive.IsZero() {
		return naive
	}
	return time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), naive.Nanosecond(), location)
}

// Naive converts any instant to business wall-clock time and drops the zone,
// producing the value stored in the database.
func Naive(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	local := t.In(location)
	return time.Date(local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), time.UTC)
}
