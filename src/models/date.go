package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDate is returned for date strings in none of the accepted layouts
var ErrInvalidDate = errors.New("invalid date")

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DateInput decodes an optional, nullable date from a JSON request body.
// Present is false when the key was absent; Null is true for null or "".
type DateInput struct {
	Present bool
	Null    bool
	Time    time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (d *DateInput) UnmarshalJSON(data []byte) error {
	d.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		d.Null = true
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: date must be a string", ErrInvalidDate)
	}
	if strings.TrimSpace(raw) == "" {
		d.Null = true
		return nil
	}

	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// Value returns the parsed time, or nil when absent or null
func (d DateInput) Value() *time.Time {
	if !d.Present || d.Null {
		return nil
	}
	t := d.Time
	return &t
}

// ParseDate accepts RFC 3339 timestamps, zone-less timestamps (UTC) and plain dates
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
}
