package domain

import "time"

// DateTime wraps a validated timestamp. All values are normalised to UTC.
type DateTime struct {
	t time.Time
}

func NewDateTime(t time.Time) (DateTime, error) {
	if t.IsZero() {
		return DateTime{}, invalid(MsgInvalidDate)
	}
	return DateTime{t: t.UTC()}, nil
}

// ParseDateTime accepts RFC 3339 timestamps, with or without fractional seconds.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return DateTime{}, invalid(MsgInvalidDate)
	}
	return NewDateTime(t)
}

// clock is swapped in tests that need deterministic transition timestamps.
var clock = time.Now

// Now returns the current time as a DateTime.
func Now() DateTime {
	return DateTime{t: clock().UTC()}
}

func (d DateTime) Time() time.Time { return d.t }

func (d DateTime) IsZero() bool { return d.t.IsZero() }

func (d DateTime) Before(other DateTime) bool { return d.t.Before(other.t) }

func (d DateTime) Equal(other DateTime) bool { return d.t.Equal(other.t) }

func (d DateTime) String() string { return d.t.Format(time.RFC3339Nano) }
