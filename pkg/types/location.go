package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
}

// Location is the optional incident place persisted as JSONB.
type Location struct {
	Address     *string      `json:"address,omitempty" validate:"omitempty,max=500"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// IsZero reports whether neither address nor coordinates are set.
func (l Location) IsZero() bool {
	return (l.Address == nil || strings.TrimSpace(*l.Address) == "") && l.Coordinates == nil
}

// Value marshals the location into JSON text.
func (l Location) Value() (driver.Value, error) {
	buf, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(buf), nil
}

// Scan decodes JSONB into the location.
func (l *Location) Scan(value interface{}) error {
	if value == nil {
		*l = Location{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("location: unsupported scan type %T", value)
	}

	var decoded Location
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("location: %w", err)
	}
	*l = decoded
	return nil
}
