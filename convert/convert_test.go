package convert

import (
	"testing"
	"time"

	"github.com/paulmach/orb"

	"github.com/pesekon2/sos-tools-go/sos"
)

func TestRoundFloat64(t *testing.T) {
	tests := []struct {
		in       float64
		decimals int
		want     float64
	}{
		{12.3456, 2, 12.35},
		{12.344, 2, 12.34},
		{-1.005, 1, -1.0},
		{0, 2, 0},
	}
	for _, tt := range tests {
		if got := RoundFloat64(tt.in, tt.decimals); got != tt.want {
			t.Errorf("RoundFloat64(%v, %d) = %v, want %v", tt.in, tt.decimals, got, tt.want)
		}
	}
}

func TestSeriesToGeoJSON(t *testing.T) {
	series := []sos.Series{{
		Procedure: "station_1",
		Property:  "air_temperature",
		EPSG:      4326,
		Point:     orb.Point{17.39, 62.29},
		Readings: []sos.Reading{
			{Time: time.Date(2015, time.June, 1, 0, 0, 0, 0, time.UTC), Value: 12.5},
			{Time: time.Date(2015, time.June, 1, 1, 0, 0, 0, time.UTC), Value: 13.25},
		},
	}}

	fc, err := SeriesToGeoJSON(series)
	if err != nil {
		t.Fatalf("SeriesToGeoJSON: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Fatalf("expected 1 feature, got %d", len(fc.Features))
	}

	f := fc.Features[0]
	if f.Properties["procedure"] != "station_1" {
		t.Errorf("unexpected procedure: %v", f.Properties["procedure"])
	}
	if f.Geometry.(orb.Point) != (orb.Point{17.39, 62.29}) {
		t.Errorf("unexpected geometry: %v", f.Geometry)
	}
	readings, ok := f.Properties["readings"].(map[string]float64)
	if !ok {
		t.Fatalf("readings property has unexpected type %T", f.Properties["readings"])
	}
	if readings["2015-06-01T00:00:00Z"] != 12.5 {
		t.Errorf("unexpected reading: %v", readings)
	}
}

func TestSeriesToGeoJSONEmpty(t *testing.T) {
	if _, err := SeriesToGeoJSON(nil); err == nil {
		t.Errorf("expected an error for empty input")
	}
}
