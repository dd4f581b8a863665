package model

import (
	"bytes"
	"fmt"
	"time"
)

// wireLayout is the zone-less layout mobile clients send and expect.
const wireLayout = "2006-01-02T15:04:05"

var acceptedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	wireLayout,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time.Time that accepts ISO-8601 values with or without a
// zone offset and marshals without one. The zero value marshals as
// 0001-01-01T00:00:00.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time.Format(wireLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("timestamp: expected string, got %s", data)
	}

	s := string(data[1 : len(data)-1])
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range acceptedLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}

	return fmt.Errorf("timestamp: unrecognized format %q", s)
}
