package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports local wall-clock time. Day boundaries are evaluated in
// the local zone, so it must not normalise to UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
