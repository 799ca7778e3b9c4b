package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Decimal holds a numeric field that the backend serializes either as a JSON
// number or as a quoted string. Text that does not parse to a finite number
// is preserved verbatim so callers can still display it.
type Decimal struct {
	Raw   string
	Value float64
	Valid bool
}

// ParseDecimal applies the lenient numeric rule to a raw string.
func ParseDecimal(raw string) Decimal {
	d := Decimal{Raw: raw}
	if raw == "" {
		return d
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return d
	}
	d.Value = value
	d.Valid = true
	return d
}

// UnmarshalJSON accepts numbers, strings and null.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = Decimal{}
		return nil
	}
	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		*d = ParseDecimal(raw)
		return nil
	}
	*d = ParseDecimal(string(trimmed))
	return nil
}

// MarshalJSON writes the numeric value when one is known, the verbatim text
// otherwise.
func (d Decimal) MarshalJSON() ([]byte, error) {
	if d.Valid {
		return json.Marshal(d.Value)
	}
	if d.Raw == "" {
		return []byte("null"), nil
	}
	return json.Marshal(d.Raw)
}

// IsZero reports whether the field was absent from the payload.
func (d Decimal) IsZero() bool {
	return !d.Valid && d.Raw == ""
}

// Display renders the value with two decimals, falls back to the verbatim
// text, and uses "-" for absent fields.
func (d Decimal) Display() string {
	if d.Valid {
		return strconv.FormatFloat(d.Value, 'f', 2, 64)
	}
	if d.Raw != "" {
		return d.Raw
	}
	return "-"
}

// EmissionLog mirrors the log payload created and listed by the backend.
type EmissionLog struct {
	ID               int64   `json:"id"`
	Date             string  `json:"date,omitempty"`
	TotalEmissionsKg Decimal `json:"totalEmissionsKg,omitzero"`
	Category         string  `json:"category,omitempty"`
	Description      string  `json:"description,omitempty"`
	CO2e             Decimal `json:"co2e,omitzero"`
	CreatedAt        string  `json:"createdAt,omitempty"`
	UserID           int64   `json:"userId,omitempty"`
}

// Total returns the emission total, preferring totalEmissionsKg and falling
// back to co2e when the primary field is absent. The backend has shipped
// both spellings for the same value.
func (l EmissionLog) Total() Decimal {
	if !l.TotalEmissionsKg.IsZero() {
		return l.TotalEmissionsKg
	}
	return l.CO2e
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// When returns a display timestamp, preferring creation time over the
// business date. Unparsable values are returned verbatim.
func (l EmissionLog) When() string {
	raw := l.CreatedAt
	if raw == "" {
		raw = l.Date
	}
	if raw == "" {
		return "-"
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("2006-01-02")
		}
	}
	return raw
}

// QuickEntryRequest is the wire body for POST /api/emission-logs/quick.
// Only the fields of the active category are populated; the rest stay off
// the wire.
type QuickEntryRequest struct {
	Category string `json:"category"`

	VehicleType string   `json:"vehicleType,omitempty"`
	VehicleFuel string   `json:"vehicleFuel,omitempty"`
	DistanceKm  *float64 `json:"distanceKm,omitempty"`

	ElectricityCountry string   `json:"electricityCountry,omitempty"`
	Kwh                *float64 `json:"kwh,omitempty"`

	WasteType   string   `json:"wasteType,omitempty"`
	WasteMethod string   `json:"wasteMethod,omitempty"`
	WasteKg     *float64 `json:"wasteKg,omitempty"`

	FuelType     string   `json:"fuelType,omitempty"`
	FuelUnit     string   `json:"fuelUnit,omitempty"`
	FuelQuantity *float64 `json:"fuelQuantity,omitempty"`
}
