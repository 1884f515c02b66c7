package temporal

import (
	"testing"
	"time"
)

func TestCompactTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2015, time.June, 1, 12, 30, 45, 0, time.UTC)
	compact := CompactTimestamp(ts)
	if compact != "t20150601T123045" {
		t.Errorf("CompactTimestamp expected %q, got %q", "t20150601T123045", compact)
	}

	parsed, err := ParseCompactTimestamp(compact)
	if err != nil {
		t.Fatalf("ParseCompactTimestamp(%q) unexpected error: %v", compact, err)
	}
	if !parsed.Equal(ts) {
		t.Errorf("round trip expected %v, got %v", ts, parsed)
	}

	if _, err := ParseCompactTimestamp("20150601"); err == nil {
		t.Errorf("expected an error for a malformed compact timestamp")
	}
}

func TestMapName(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{
			name:     "urn style property",
			parts:    []string{"out", "WQ2", "urn:ogc:def:property:noaa:ndbc:air temperature"},
			expected: "out_WQ2_urn_ogc_def_property_noaa_ndbc_air_temperature",
		},
		{
			name:     "empty parts skipped",
			parts:    []string{"out", "", "offering.1"},
			expected: "out_offering_1",
		},
		{
			name:     "dashes replaced",
			parts:    []string{"station-2"},
			expected: "station_2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if s := MapName(tt.parts...); s != tt.expected {
				t.Errorf("MapName(%v) expected %q, got %q", tt.parts, tt.expected, s)
			}
		})
	}
}
