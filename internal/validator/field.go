package validator

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ErrNotANumber is returned by ParseWeight when the text is not a finite number.
var ErrNotANumber = errors.New("not a valid number")

// Policy decides what happens to a parsed value that falls below a field's floor.
type Policy int

const (
	// Clamp raises values below the floor up to the floor.
	Clamp Policy = iota
	// Reject discards values at or below the floor.
	Reject
)

// Field is a validated numeric input. A positive Ceiling lowers larger values to it;
// zero leaves the field unbounded above.
type Field struct {
	Floor   float64
	Ceiling float64
	Policy  Policy
}

// Commit parses raw and applies the field's floor, then its ceiling. When the edit is discarded the previous
// value is kept and ok is false; the returned display text always matches the returned value.
func (f Field) Commit(raw string, previous float64) (value float64, display string, ok bool) {
	parsed, err := ParseWeight(raw)
	if err != nil {
		return previous, FormatWeight(previous), false
	}

	switch f.Policy {
	case Reject:
		if parsed <= f.Floor {
			return previous, FormatWeight(previous), false
		}
	default:
		parsed = math.Max(parsed, f.Floor)
	}
	if f.Ceiling > 0 {
		parsed = math.Min(parsed, f.Ceiling)
	}

	return parsed, FormatWeight(parsed), true
}

// ParseWeight parses a weight typed by the user. Surrounding whitespace is ignored;
// empty text, NaN and infinities are rejected.
func ParseWeight(raw string) (float64, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, ErrNotANumber
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNotANumber
	}
	return value, nil
}

// FormatWeight renders a weight using the shortest exact decimal form, e.g. "135" or "137.5".
func FormatWeight(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
