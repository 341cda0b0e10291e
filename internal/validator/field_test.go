package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeight(t *testing.T) {
	t.Parallel()

	valid := map[string]float64{
		"135":    135,
		" 137.5": 137.5,
		"45\n":   45,
		"-10":    -10,
		"1e2":    100,
	}
	for raw, want := range valid {
		got, err := ParseWeight(raw)
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, want, got, "input %q", raw)
	}

	for _, raw := range []string{"", "   ", "abc", "12kg", "NaN", "Inf", "-Infinity", "1,5"} {
		_, err := ParseWeight(raw)
		assert.ErrorIs(t, err, ErrNotANumber, "input %q", raw)
	}
}

func TestFormatWeight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "135", FormatWeight(135))
	assert.Equal(t, "137.5", FormatWeight(137.5))
	assert.Equal(t, "2.25", FormatWeight(2.25))
}

func TestFieldCommit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		field       Field
		raw         string
		previous    float64
		wantValue   float64
		wantDisplay string
		wantOK      bool
	}{
		{
			name:        "ClampAcceptsAboveFloor",
			field:       Field{Floor: 45, Policy: Clamp},
			raw:         "225",
			previous:    135,
			wantValue:   225,
			wantDisplay: "225",
			wantOK:      true,
		},
		{
			name:        "ClampRaisesBelowFloor",
			field:       Field{Floor: 45, Policy: Clamp},
			raw:         "20",
			previous:    135,
			wantValue:   45,
			wantDisplay: "45",
			wantOK:      true,
		},
		{
			name:        "RejectDiscardsFloor",
			field:       Field{Floor: 0, Policy: Reject},
			raw:         "0",
			previous:    45,
			wantValue:   45,
			wantDisplay: "45",
		},
		{
			name:        "RejectAcceptsAboveFloor",
			field:       Field{Floor: 0, Policy: Reject},
			raw:         "0.5",
			previous:    45,
			wantValue:   0.5,
			wantDisplay: "0.5",
			wantOK:      true,
		},
		{
			name:        "UnparseableReverts",
			field:       Field{Floor: 45, Policy: Clamp},
			raw:         "abc",
			previous:    135,
			wantValue:   135,
			wantDisplay: "135",
		},
		{
			name:        "DisplayIsNormalized",
			field:       Field{Floor: 45, Policy: Clamp},
			raw:         "  0150.0 ",
			previous:    135,
			wantValue:   150,
			wantDisplay: "150",
			wantOK:      true,
		},
		{
			name:        "CeilingLowersHugeValue",
			field:       Field{Floor: 45, Ceiling: 2000, Policy: Clamp},
			raw:         "1e20",
			previous:    135,
			wantValue:   2000,
			wantDisplay: "2000",
			wantOK:      true,
		},
		{
			name:        "CeilingAppliesToReject",
			field:       Field{Floor: 0, Ceiling: 2000, Policy: Reject},
			raw:         "5000",
			previous:    45,
			wantValue:   2000,
			wantDisplay: "2000",
			wantOK:      true,
		},
		{
			name:        "ZeroCeilingIsUnbounded",
			field:       Field{Floor: 45, Policy: Clamp},
			raw:         "1e20",
			previous:    135,
			wantValue:   1e20,
			wantDisplay: "100000000000000000000",
			wantOK:      true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			value, display, ok := tc.field.Commit(tc.raw, tc.previous)
			assert.Equal(t, tc.wantValue, value)
			assert.Equal(t, tc.wantDisplay, display)
			assert.Equal(t, tc.wantOK, ok)
		})
	}
}
