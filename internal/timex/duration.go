// Package timex provides a JSON-friendly wrapper around time.Duration that
// accepts both string values such as "15m" and integer nanoseconds.
package timex

import (
	"encoding/json"
	"errors"
	"time"
)

// Duration embeds time.Duration and customizes JSON (un)marshalling.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return errors.New("invalid duration")
	}
	return nil
}
