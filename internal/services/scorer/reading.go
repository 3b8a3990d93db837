package scorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

// ValidationError names the request field that could not be used.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// readingFields are the required numeric fields, in the order they are checked.
var readingFields = []string{"nitrogen", "phosphorus", "potassium", "ph", "soilMoisture", "waterAvailability"}

// ParseReading validates a decoded JSON object (or structpb map) into a reading.
// Every numeric field is required and must be finite; location is required text, "" allowed.
func ParseReading(m map[string]any) (entities.SoilReading, error) {
	var vals [6]float64
	for i, f := range readingFields {
		v, err := Number(m, f)
		if err != nil {
			return entities.SoilReading{}, err
		}
		vals[i] = v
	}
	raw, ok := m["location"]
	if !ok {
		return entities.SoilReading{}, &ValidationError{Field: "location", Reason: "missing"}
	}
	loc, ok := raw.(string)
	if !ok {
		return entities.SoilReading{}, &ValidationError{Field: "location", Reason: "must be a string"}
	}
	return entities.SoilReading{
		Nitrogen:          vals[0],
		Phosphorus:        vals[1],
		Potassium:         vals[2],
		PH:                vals[3],
		SoilMoisture:      vals[4],
		WaterAvailability: vals[5],
		Location:          loc,
	}, nil
}

// Number reads a required finite number from m.
func Number(m map[string]any, field string) (float64, error) {
	raw, ok := m[field]
	if !ok || raw == nil {
		return 0, &ValidationError{Field: field, Reason: "missing"}
	}
	var v float64
	switch x := raw.(type) {
	case float64:
		v = x
	case float32:
		v = float64(x)
	case int:
		v = float64(x)
	case int64:
		v = float64(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0, &ValidationError{Field: field, Reason: "not a number"}
		}
		v = f
	default:
		return 0, &ValidationError{Field: field, Reason: "not a number"}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &ValidationError{Field: field, Reason: "not finite"}
	}
	return v, nil
}

// OptionalNumber is Number for fields that may be absent; absent gives nil.
func OptionalNumber(m map[string]any, field string) (*float64, error) {
	if raw, ok := m[field]; !ok || raw == nil {
		return nil, nil
	}
	v, err := Number(m, field)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
