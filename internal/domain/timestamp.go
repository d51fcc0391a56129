package domain

import (
	"errors"
	"strconv"
	"time"
)

// Time unit constants in seconds.
const (
	SecondsPerMinute int64 = 60
	SecondsPerHour   int64 = 3600
	SecondsPerDay    int64 = 86400
)

// maxSafeSeconds bounds timestamps so millisecond conversions stay within
// the 2^53-1 integer range used by upstream data sources.
const maxSafeSeconds = (int64(1)<<53 - 1) / 1000

// ErrUnsafeTimestamp is returned when a timestamp constructor receives
// a negative or unsafely large input.
var ErrUnsafeTimestamp = errors.New("cannot create a timestamp from an unsafe integer")

// UnixTime is a count of seconds since the Unix epoch.
// Arithmetic and comparisons operate on the raw integer value.
type UnixTime int64

// FromSeconds creates a UnixTime from seconds since epoch.
func FromSeconds(seconds int64) (UnixTime, error) {
	if seconds < 0 || seconds > maxSafeSeconds {
		return 0, ErrUnsafeTimestamp
	}
	return UnixTime(seconds), nil
}

// FromMilliseconds creates a UnixTime from milliseconds since epoch,
// truncating to whole seconds.
func FromMilliseconds(ms int64) (UnixTime, error) {
	if ms < 0 {
		return 0, ErrUnsafeTimestamp
	}
	return FromSeconds(ms / 1000)
}

// FromTime creates a UnixTime from a time.Time.
func FromTime(t time.Time) (UnixTime, error) {
	return FromSeconds(t.Unix())
}

// Seconds returns the raw second count.
func (t UnixTime) Seconds() int64 {
	return int64(t)
}

// Milliseconds returns the timestamp in milliseconds since epoch.
func (t UnixTime) Milliseconds() int64 {
	return int64(t) * 1000
}

// Time converts the timestamp to a time.Time in UTC.
func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

// Add returns the timestamp shifted by the given number of seconds.
func (t UnixTime) Add(seconds int64) UnixTime {
	return UnixTime(int64(t) + seconds)
}

// StartOf rounds the timestamp down to a multiple of modulus.
// Already aligned timestamps are unchanged.
func (t UnixTime) StartOf(modulus int64) UnixTime {
	return UnixTime(int64(t) - int64(t)%modulus)
}

// RoundUp rounds the timestamp up to a multiple of modulus.
// Already aligned timestamps are unchanged.
func (t UnixTime) RoundUp(modulus int64) UnixTime {
	remainder := int64(t) % modulus
	if remainder == 0 {
		return t
	}
	return UnixTime(int64(t) + modulus - remainder)
}

// IsExact reports whether the timestamp is aligned to a multiple of modulus.
func (t UnixTime) IsExact(modulus int64) bool {
	return int64(t)%modulus == 0
}

func (t UnixTime) String() string {
	return strconv.FormatInt(int64(t), 10)
}

// Granularity selects the alignment unit for time grids.
type Granularity int

const (
	GranularityHourly Granularity = iota
	GranularityDaily
)

// Step returns the grid step in seconds.
func (g Granularity) Step() int64 {
	if g == GranularityHourly {
		return SecondsPerHour
	}
	return SecondsPerDay
}

func (g Granularity) String() string {
	if g == GranularityHourly {
		return "hourly"
	}
	return "daily"
}
