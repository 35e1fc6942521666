package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimeSpan is a time of day as exchanged with the festival backend. It decodes
// both "HH:MM:SS" strings and {hours, minutes, seconds} objects and always
// encodes as "HH:MM:SS".
type TimeSpan struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func ParseTimeSpan(s string) (TimeSpan, error) {
	const op = "domain.ParseTimeSpan"

	var ts TimeSpan
	s = strings.TrimSpace(s)
	if s == "" {
		return ts, nil
	}

	// .NET may append fractional seconds.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}

	n, err := fmt.Sscanf(s, "%d:%d:%d", &ts.Hours, &ts.Minutes, &ts.Seconds)
	if err != nil && n < 2 {
		return TimeSpan{}, fmt.Errorf("%s: invalid time %q: %w", op, s, err)
	}

	if ts.Hours < 0 || ts.Hours > 23 || ts.Minutes < 0 || ts.Minutes > 59 ||
		ts.Seconds < 0 || ts.Seconds > 59 {
		return TimeSpan{}, fmt.Errorf("%s: time out of range %q", op, s)
	}

	return ts, nil
}

func (t TimeSpan) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

func (t TimeSpan) Duration() time.Duration {
	return time.Duration(t.Hours)*time.Hour +
		time.Duration(t.Minutes)*time.Minute +
		time.Duration(t.Seconds)*time.Second
}

func (t TimeSpan) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeSpan) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = TimeSpan{}
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		ts, err := ParseTimeSpan(s)
		if err != nil {
			return err
		}
		*t = ts
		return nil
	}

	type plain TimeSpan
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*t = TimeSpan(p)
	return nil
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses the date formats returned by the backend. Values without
// a zone are interpreted in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	const op = "domain.ParseDate"

	if loc == nil {
		loc = time.UTC
	}

	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%s: unsupported date %q", op, s)
}

// StartsAt combines the performance date and start time.
func (p Performance) StartsAt(loc *time.Location) (time.Time, error) {
	d, err := ParseDate(p.PerformanceDate, loc)
	if err != nil {
		return time.Time{}, err
	}

	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location()).Add(p.StartTime.Duration()), nil
}
